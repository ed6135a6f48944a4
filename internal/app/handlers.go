package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/bookmart-backend/internal/http/handlers"
	httpMW "github.com/yungbote/bookmart-backend/internal/http/middleware"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Catalog    *httpH.CatalogHandler
	Order      *httpH.OrderHandler
	Shop       *httpH.ShopHandler
	Student    *httpH.StudentHandler
	Cart       *httpH.CartHandler
	Engagement *httpH.EngagementHandler
	Admin      *httpH.AdminHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(db),
		Catalog:    httpH.NewCatalogHandler(s.Catalog),
		Order:      httpH.NewOrderHandler(s.Order, s.Cart),
		Shop:       httpH.NewShopHandler(s.Auth, s.Shop),
		Student:    httpH.NewStudentHandler(s.Auth, s.Student),
		Cart:       httpH.NewCartHandler(s.Cart, s.Wishlist),
		Engagement: httpH.NewEngagementHandler(s.Review, s.Notification),
		Admin:      httpH.NewAdminHandler(s.Auth, s.Admin),
	}
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, s.Auth),
	}
}
