package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/bookmart-backend/internal/data/repos"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type Repos struct {
	Shop         repos.ShopRepo
	Book         repos.BookRepo
	Student      repos.StudentRepo
	Admin        repos.AdminRepo
	Order        repos.OrderRepo
	Cart         repos.CartRepo
	Wishlist     repos.WishlistRepo
	Review       repos.ReviewRepo
	Notification repos.NotificationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Shop:         repos.NewShopRepo(db, log),
		Book:         repos.NewBookRepo(db, log),
		Student:      repos.NewStudentRepo(db, log),
		Admin:        repos.NewAdminRepo(db, log),
		Order:        repos.NewOrderRepo(db, log),
		Cart:         repos.NewCartRepo(db, log),
		Wishlist:     repos.NewWishlistRepo(db, log),
		Review:       repos.NewReviewRepo(db, log),
		Notification: repos.NewNotificationRepo(db, log),
	}
}
