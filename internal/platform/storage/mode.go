package storage

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

type Mode string

const (
	ModeLocal       Mode = "local"
	ModeGCS         Mode = "gcs"
	ModeGCSEmulator Mode = "gcs_emulator"
)

type Config struct {
	Mode          Mode
	LocalDir      string
	PublicPrefix  string
	Bucket        string
	CDNDomain     string
	EmulatorHost  string
	PublicBaseURL string
}

func (cfg Config) IsEmulatorMode() bool { return cfg.Mode == ModeGCSEmulator }

type ConfigErrorCode string

const (
	ConfigErrorInvalidMode         ConfigErrorCode = "invalid_mode"
	ConfigErrorMissingBucket       ConfigErrorCode = "missing_bucket"
	ConfigErrorMissingEmulatorHost ConfigErrorCode = "missing_emulator_host"
	ConfigErrorInvalidURL          ConfigErrorCode = "invalid_url"
)

type ConfigError struct {
	Code  ConfigErrorCode
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	switch e.Code {
	case ConfigErrorInvalidMode:
		return fmt.Sprintf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q, %q)", e.Value, ModeLocal, ModeGCS, ModeGCSEmulator)
	case ConfigErrorMissingBucket:
		return "OBJECT_STORAGE_BUCKET is required for GCS modes"
	case ConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set", ModeGCSEmulator)
	case ConfigErrorInvalidURL:
		return fmt.Sprintf("invalid URL %q; expected absolute URL like http://fake-gcs:4443", e.Value)
	default:
		return "invalid object storage config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ResolveConfigFromEnv reads OBJECT_STORAGE_* variables. An empty mode means
// local disk unless an emulator host is set.
func ResolveConfigFromEnv() (Config, error) {
	cfg := Config{
		LocalDir:      envOr("UPLOAD_DIR", "uploads"),
		PublicPrefix:  envOr("UPLOAD_PUBLIC_PREFIX", "/uploads"),
		Bucket:        strings.TrimSpace(os.Getenv("OBJECT_STORAGE_BUCKET")),
		CDNDomain:     strings.TrimSpace(os.Getenv("OBJECT_STORAGE_CDN_DOMAIN")),
		EmulatorHost:  strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")),
		PublicBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("OBJECT_STORAGE_PUBLIC_BASE_URL")), "/"),
	}

	raw := strings.TrimSpace(os.Getenv("OBJECT_STORAGE_MODE"))
	switch mode := Mode(strings.ToLower(raw)); mode {
	case "":
		if cfg.EmulatorHost != "" {
			cfg.Mode = ModeGCSEmulator
		} else {
			cfg.Mode = ModeLocal
		}
	case ModeLocal, ModeGCS, ModeGCSEmulator:
		cfg.Mode = mode
	default:
		return cfg, &ConfigError{Code: ConfigErrorInvalidMode, Value: raw}
	}
	return cfg, Validate(cfg)
}

func Validate(cfg Config) error {
	switch cfg.Mode {
	case ModeLocal:
		return nil
	case ModeGCS, ModeGCSEmulator:
	default:
		return &ConfigError{Code: ConfigErrorInvalidMode, Value: string(cfg.Mode)}
	}
	if cfg.Bucket == "" {
		return &ConfigError{Code: ConfigErrorMissingBucket}
	}
	if cfg.PublicBaseURL != "" {
		if err := requireAbsoluteURL(cfg.PublicBaseURL); err != nil {
			return err
		}
	}
	if !cfg.IsEmulatorMode() {
		return nil
	}
	if cfg.EmulatorHost == "" {
		return &ConfigError{Code: ConfigErrorMissingEmulatorHost}
	}
	return requireAbsoluteURL(cfg.EmulatorHost)
}

func requireAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || strings.TrimSpace(u.Scheme) == "" || strings.TrimSpace(u.Host) == "" {
		return &ConfigError{Code: ConfigErrorInvalidURL, Value: raw, Cause: err}
	}
	return nil
}

func envOr(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}
