package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/bookmart-backend/internal/domain/catalog"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
	"github.com/yungbote/bookmart-backend/internal/platform/storage"
	"github.com/yungbote/bookmart-backend/internal/services"
)

type Services struct {
	Catalog      services.CatalogService
	Order        services.OrderService
	Cart         services.CartService
	Wishlist     services.WishlistService
	Review       services.ReviewService
	Notification services.NotificationService
	Auth         services.AuthService
	Shop         services.ShopService
	Student      services.StudentService
	Admin        services.AdminService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, images storage.ImageStore) (Services, error) {
	log.Info("Wiring services...")
	taxonomy, err := catalog.LoadTaxonomy()
	if err != nil {
		return Services{}, fmt.Errorf("load taxonomy: %w", err)
	}

	notes := services.NewNotificationService(log, r.Notification)
	catalogSvc := services.NewCatalogService(db, log, r.Book, r.Shop, r.Order, r.Review, r.Cart, r.Wishlist, images, taxonomy)
	orderSvc := services.NewOrderService(db, log, r.Order, r.Book, r.Shop, r.Student, catalogSvc, notes, services.DefaultOrderCode)

	return Services{
		Catalog:      catalogSvc,
		Order:        orderSvc,
		Cart:         services.NewCartService(db, log, r.Cart, r.Book, r.Shop, r.Student, r.Order, catalogSvc, notes, services.DefaultOrderCode),
		Wishlist:     services.NewWishlistService(log, r.Wishlist, r.Book),
		Review:       services.NewReviewService(log, r.Review, r.Book, r.Shop),
		Notification: notes,
		Auth:         services.NewAuthService(log, r.Shop, r.Student, r.Admin, services.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)),
		Shop:         services.NewShopService(log, r.Shop, r.Order, r.Review, images),
		Student:      services.NewStudentService(log, r.Student),
		Admin:        services.NewAdminService(db, log, r.Shop, r.Book, r.Student, r.Order, r.Cart, r.Wishlist, r.Review, r.Notification, orderSvc, notes),
	}, nil
}
