package app

import (
	"context"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/yungbote/bookmart-backend/internal/data/db"
	"github.com/yungbote/bookmart-backend/internal/http"
	"github.com/yungbote/bookmart-backend/internal/observability"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
	"github.com/yungbote/bookmart-backend/internal/platform/ratelimit"
	"github.com/yungbote/bookmart-backend/internal/platform/storage"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Repos    Repos
	Services Services

	shutdownOtel func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	shutdownOtel := observability.InitOTel(ctx, log, cfg.Otel)

	theDB, err := db.Open(cfg.DBDriver, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}

	images, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	reposet := wireRepos(theDB, log)
	serviceset, err := wireServices(theDB, log, cfg, reposet, images)
	if err != nil {
		log.Sync()
		return nil, err
	}

	if cfg.AdminPassword != "" {
		if err := serviceset.Auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Sync()
			return nil, fmt.Errorf("seed admin: %w", err)
		}
	} else {
		log.Warn("ADMIN_PASSWORD not set; admin account not seeded")
	}

	limiter, err := ratelimit.New(ratelimit.Config{
		Max:       cfg.LoginRateMax,
		Window:    cfg.LoginRateWindow,
		RedisAddr: cfg.RedisAddr,
		Prefix:    "bookmart:login",
	}, log)
	if err != nil {
		log.Warn("Login rate limiting disabled", "error", err)
		limiter = nil
	}

	handlerset := wireHandlers(log, theDB, serviceset)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, handlerset, middleware, limiter)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		shutdownOtel: shutdownOtel,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(ctx, ":"+a.Cfg.Port)
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.shutdownOtel != nil {
		if err := a.shutdownOtel(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
