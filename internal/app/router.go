package app

import (
	"github.com/yungbote/bookmart-backend/internal/http"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
	"github.com/yungbote/bookmart-backend/internal/platform/ratelimit"
	"github.com/yungbote/bookmart-backend/internal/platform/storage"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, limiter ratelimit.Limiter) *http.Server {
	uploads := ""
	if cfg.Storage.Mode == storage.ModeLocal {
		uploads = cfg.Storage.LocalDir
	}
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:            log,
		ServiceName:    serviceName,
		CORSOrigins:    cfg.CORSOrigins,
		UploadsDir:     uploads,
		LoginLimiter:   limiter,
		AuthMiddleware: middleware.Auth,
		HealthHandler:  handlers.Health,
		CatalogHandler: handlers.Catalog,
		OrderHandler:   handlers.Order,
		ShopHandler:    handlers.Shop,
		StudentHandler: handlers.Student,
		CartHandler:    handlers.Cart,
		EngageHandler:  handlers.Engagement,
		AdminHandler:   handlers.Admin,
	})
}
