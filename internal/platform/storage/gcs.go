package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type gcsStore struct {
	log           *logger.Logger
	client        *gcs.Client
	mode          Mode
	bucket        string
	cdnDomain     string
	emulatorHost  string
	publicBaseURL string
}

func NewGCSStore(ctx context.Context, cfg Config, log *logger.Logger) (ImageStore, error) {
	client, err := newClientForMode(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	s := newGCSStore(cfg, log)
	s.client = client
	s.log.Info("Object storage initialized",
		"mode", cfg.Mode,
		"bucket", cfg.Bucket,
		"emulator_host", cfg.EmulatorHost,
		"public_base_url", cfg.PublicBaseURL,
	)
	return s, nil
}

func newGCSStore(cfg Config, log *logger.Logger) *gcsStore {
	return &gcsStore{
		log:           log.With("service", "GCSImageStore"),
		mode:          cfg.Mode,
		bucket:        cfg.Bucket,
		cdnDomain:     cfg.CDNDomain,
		emulatorHost:  strings.TrimRight(cfg.EmulatorHost, "/"),
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

func newClientForMode(ctx context.Context, cfg Config) (*gcs.Client, error) {
	switch cfg.Mode {
	case ModeGCS:
		opts := ClientOptionsFromEnv()
		opts = append(opts, option.WithScopes(gcs.ScopeReadWrite))
		return gcs.NewClient(ctx, opts...)
	case ModeGCSEmulator:
		_ = os.Setenv("STORAGE_EMULATOR_HOST", strings.TrimRight(cfg.EmulatorHost, "/"))
		return gcs.NewClient(ctx, option.WithoutAuthentication())
	default:
		return nil, &ConfigError{Code: ConfigErrorInvalidMode, Value: string(cfg.Mode)}
	}
}

// ClientOptionsFromEnv accepts inline JSON or a file path in
// GOOGLE_APPLICATION_CREDENTIALS(_JSON).
func ClientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func (s *gcsStore) Save(ctx context.Context, category Category, filename string, r io.Reader) (string, error) {
	key, err := objectKey(category, filename)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentTypeForKey(key)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return s.PublicURL(key), nil
}

func (s *gcsStore) Delete(ctx context.Context, publicURL string) error {
	key := s.keyFromURL(publicURL)
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, s.bucket, err)
	}
	return nil
}

func (s *gcsStore) PublicURL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
	}
	if s.mode == ModeGCSEmulator {
		base := s.publicBaseURL
		if base == "" {
			base = s.emulatorHost
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(s.bucket), url.PathEscape(key))
	}
	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
}

// keyFromURL reverses PublicURL for the non-emulator layouts.
func (s *gcsStore) keyFromURL(publicURL string) string {
	for _, prefix := range []string{
		"https://" + s.cdnDomain + "/",
		s.publicBaseURL + "/" + s.bucket + "/",
		"https://storage.googleapis.com/" + s.bucket + "/",
	} {
		if key, ok := strings.CutPrefix(publicURL, prefix); ok && prefix != "https:///" && key != "" {
			return key
		}
	}
	if i := strings.Index(publicURL, "/o/"); i >= 0 && s.mode == ModeGCSEmulator {
		escaped := strings.TrimSuffix(publicURL[i+3:], "?alt=media")
		if key, err := url.PathUnescape(escaped); err == nil {
			return key
		}
	}
	return ""
}
