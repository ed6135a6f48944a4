package repos

import (
	"github.com/yungbote/bookmart-backend/internal/data/repos/accounts"
	"github.com/yungbote/bookmart-backend/internal/data/repos/catalog"
	"github.com/yungbote/bookmart-backend/internal/data/repos/engagement"
	"github.com/yungbote/bookmart-backend/internal/data/repos/orders"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ShopRepo = catalog.ShopRepo
type BookRepo = catalog.BookRepo

type StudentRepo = accounts.StudentRepo
type AdminRepo = accounts.AdminRepo

type OrderRepo = orders.OrderRepo
type RevenueTotals = orders.RevenueTotals
type CartRepo = orders.CartRepo
type WishlistRepo = orders.WishlistRepo

type ReviewRepo = engagement.ReviewRepo
type NotificationRepo = engagement.NotificationRepo

func NewShopRepo(db *gorm.DB, baseLog *logger.Logger) ShopRepo { return catalog.NewShopRepo(db, baseLog) }
func NewBookRepo(db *gorm.DB, baseLog *logger.Logger) BookRepo { return catalog.NewBookRepo(db, baseLog) }

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	return accounts.NewStudentRepo(db, baseLog)
}
func NewAdminRepo(db *gorm.DB, baseLog *logger.Logger) AdminRepo {
	return accounts.NewAdminRepo(db, baseLog)
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo { return orders.NewOrderRepo(db, baseLog) }
func NewCartRepo(db *gorm.DB, baseLog *logger.Logger) CartRepo   { return orders.NewCartRepo(db, baseLog) }
func NewWishlistRepo(db *gorm.DB, baseLog *logger.Logger) WishlistRepo {
	return orders.NewWishlistRepo(db, baseLog)
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	return engagement.NewReviewRepo(db, baseLog)
}
func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return engagement.NewNotificationRepo(db, baseLog)
}
