package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/bookmart-backend/internal/http/handlers"
	httpMW "github.com/yungbote/bookmart-backend/internal/http/middleware"
	"github.com/yungbote/bookmart-backend/internal/platform/ctxutil"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
	"github.com/yungbote/bookmart-backend/internal/platform/ratelimit"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	UploadsDir     string
	LoginLimiter   ratelimit.Limiter
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler  *httpH.HealthHandler
	CatalogHandler *httpH.CatalogHandler
	OrderHandler   *httpH.OrderHandler
	ShopHandler    *httpH.ShopHandler
	StudentHandler *httpH.StudentHandler
	CartHandler    *httpH.CartHandler
	EngageHandler  *httpH.EngagementHandler
	AdminHandler   *httpH.AdminHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	httpMW.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	if cfg.AuthMiddleware != nil {
		r.Use(cfg.AuthMiddleware.AttachPrincipal())
	}

	// Locally stored covers, logos and banners.
	if cfg.UploadsDir != "" {
		r.Static("/uploads", cfg.UploadsDir)
	}

	login := []gin.HandlerFunc{}
	if cfg.LoginLimiter != nil {
		login = append(login, httpMW.RateLimit(cfg.LoginLimiter, cfg.Log))
	}
	withLogin := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, login...), h)
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.HealthCheck)
	}

	// Catalog
	if h := cfg.CatalogHandler; h != nil {
		r.GET("/grades", h.Grades)
		r.GET("/subjects", h.Subjects)
		r.GET("/books", h.SearchBooks)
		r.GET("/books/:id", h.GetBook)
		r.GET("/books/:id/rating", h.BookRating)
		r.POST("/books", h.CreateBook)
		r.PUT("/books/:id", h.UpdateBook)
		r.DELETE("/books/:id", h.DeleteBook)
	}

	// Orders
	if h := cfg.OrderHandler; h != nil {
		r.POST("/orders", h.CreateOrder)
		r.POST("/orders/checkout", h.Checkout)
		r.GET("/orders", h.ListByPhone)
		r.GET("/orders/student/:id", h.ListByStudent)
		r.GET("/orders/shop/:id", h.ListByShop)
		r.PUT("/orders/:id", h.UpdateStatus)
		r.PUT("/orders/:id/status", h.UpdateStatus)
		r.PUT("/orders/:id/cancel", h.Cancel)
		r.PUT("/orders/:id/transaction", h.SetTransaction)
		r.PUT("/orders/:id/pay", h.MarkPaid)
	}

	// Shops
	if h := cfg.ShopHandler; h != nil {
		r.POST("/shops/register", h.Register)
		r.POST("/shops/login", withLogin(h.Login)...)
		r.GET("/shops/:id/profile", h.Profile)
		r.PUT("/shops/:id/profile", h.UpdateProfile)
		r.PUT("/shops/:id/upi", h.UpdateUPI)
		r.GET("/shops/:id/analytics", h.Analytics)
		r.GET("/shops/:id/rating", h.Rating)
	}

	// Students
	if h := cfg.StudentHandler; h != nil {
		r.POST("/students/register", h.Register)
		r.POST("/students/login", withLogin(h.Login)...)
		r.GET("/students/:id", h.Get)
		r.PUT("/students/:id", h.Update)
	}

	// Cart + wishlist
	if h := cfg.CartHandler; h != nil {
		r.POST("/cart/add", h.Add)
		r.GET("/cart/:studentId", h.Get)
		r.PUT("/cart/update", h.Update)
		r.DELETE("/cart/remove", h.Remove)
		r.DELETE("/cart/clear/:studentId", h.Clear)
		r.POST("/wishlists", h.AddWishlist)
		r.DELETE("/wishlists", h.RemoveWishlist)
		r.GET("/wishlists/:studentId", h.Wishlist)
	}

	// Reviews + notifications
	if h := cfg.EngageHandler; h != nil {
		r.POST("/reviews", h.AddReview)
		r.GET("/reviews/:target_type/:target_id", h.ListReviews)
		r.GET("/notifications/:user_type/:user_id", h.ListNotifications)
		r.POST("/notifications", h.CreateNotification)
		r.PUT("/notifications/:id/read", h.MarkRead)
	}

	// Admin
	if h := cfg.AdminHandler; h != nil {
		r.POST("/admin/login", withLogin(h.Login)...)

		admin := r.Group("/admin")
		if cfg.AuthMiddleware != nil {
			admin.Use(cfg.AuthMiddleware.RequireRole(ctxutil.RoleAdmin))
		}
		admin.GET("/shops", h.Shops)
		admin.GET("/analytics", h.Analytics)
		admin.PUT("/shops/:id/verify", h.VerifyShop)
		admin.DELETE("/shops/:id", h.DeleteShop)
		admin.GET("/students", h.Students)
		admin.DELETE("/students/:id", h.DeleteStudent)
		admin.GET("/orders", h.Orders)
		admin.PUT("/orders/:id/status", h.SetPaymentStatus)
		admin.GET("/cities", h.Cities)
		admin.GET("/export/:kind", h.Export)
		admin.DELETE("/clear-database", h.ClearDatabase)
	}

	return r
}
