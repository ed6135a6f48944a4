package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/bookmart-backend/internal/observability"
	"github.com/yungbote/bookmart-backend/internal/platform/envutil"
	"github.com/yungbote/bookmart-backend/internal/platform/logger"
	"github.com/yungbote/bookmart-backend/internal/platform/storage"
)

type Config struct {
	Port     string
	DBDriver string

	JWTSecret string
	TokenTTL  time.Duration

	AdminUsername string
	AdminPassword string

	CORSOrigins []string

	LoginRateMax    int
	LoginRateWindow time.Duration
	RedisAddr       string

	Otel    observability.OtelConfig
	Storage storage.Config
}

func LoadConfig(log *logger.Logger) (Config, error) {
	storageCfg, err := storage.ResolveConfigFromEnv()
	if err != nil {
		return Config{}, fmt.Errorf("object storage config: %w", err)
	}
	cfg := Config{
		Port:            envutil.String("PORT", "5000", log),
		DBDriver:        envutil.String("DB_DRIVER", "postgres", log),
		JWTSecret:       envutil.String("JWT_SECRET", "", log),
		TokenTTL:        envutil.Duration("TOKEN_TTL", 24*time.Hour, log),
		AdminUsername:   envutil.String("ADMIN_USERNAME", "admin", log),
		AdminPassword:   envutil.String("ADMIN_PASSWORD", "", log),
		CORSOrigins:     splitList(envutil.String("CORS_ORIGINS", "", log)),
		LoginRateMax:    envutil.Int("LOGIN_RATE_LIMIT", 10, log),
		LoginRateWindow: envutil.Duration("LOGIN_RATE_WINDOW", time.Minute, log),
		RedisAddr:       envutil.String("REDIS_ADDR", "", log),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "bookmart", log),
			Environment: envutil.String("APP_ENV", "development", log),
			Version:     envutil.String("APP_VERSION", "", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: float64(envutil.Int("OTEL_SAMPLE_PERCENT", 10, log)) / 100,
		},
		Storage: storageCfg,
	}
	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
