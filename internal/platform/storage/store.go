package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type Category string

const (
	CategoryCover  Category = "covers"
	CategoryLogo   Category = "logos"
	CategoryBanner Category = "banners"
)

// ImageStore persists uploaded images and returns the URL clients fetch them from.
type ImageStore interface {
	Save(ctx context.Context, category Category, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, publicURL string) error
}

// New builds the store selected by cfg.Mode.
func New(ctx context.Context, cfg Config, log *logger.Logger) (ImageStore, error) {
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	switch cfg.Mode {
	case ModeLocal:
		return NewLocalStore(cfg.LocalDir, cfg.PublicPrefix, log)
	default:
		return NewGCSStore(ctx, cfg, log)
	}
}

var allowedExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// SupportedImage reports whether filename carries an image extension the
// stores accept.
func SupportedImage(filename string) bool {
	_, ok := allowedExt[strings.ToLower(path.Ext(strings.TrimSpace(filename)))]
	return ok
}

// objectKey names a new object "<category>/<uuid><ext>". Unknown extensions
// are rejected so only images land in the store.
func objectKey(category Category, filename string) (string, error) {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(filename)))
	if _, ok := allowedExt[ext]; !ok {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}
	return fmt.Sprintf("%s/%s%s", category, uuid.NewString(), ext), nil
}

func contentTypeForKey(key string) string {
	return allowedExt[strings.ToLower(path.Ext(key))]
}
