package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yungbote/bookmart-backend/internal/platform/logger"
)

type localStore struct {
	dir    string
	prefix string
	log    *logger.Logger
}

// NewLocalStore writes files under dir and serves them below prefix.
func NewLocalStore(dir, prefix string, log *logger.Logger) (ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localStore{
		dir:    dir,
		prefix: "/" + strings.Trim(prefix, "/"),
		log:    log.With("service", "LocalImageStore"),
	}, nil
}

func (s *localStore) Save(ctx context.Context, category Category, filename string, r io.Reader) (string, error) {
	key, err := objectKey(category, filename)
	if err != nil {
		return "", err
	}
	full := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create category dir: %w", err)
	}
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}
	s.log.Debug("Stored upload", "key", key)
	return s.prefix + "/" + key, nil
}

func (s *localStore) Delete(ctx context.Context, publicURL string) error {
	key, ok := strings.CutPrefix(publicURL, s.prefix+"/")
	if !ok || key == "" || strings.Contains(key, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
