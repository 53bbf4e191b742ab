package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spy-mission/apiserver/config"
)

// LocalClient stores objects as plain files in a content directory, so a
// static file server can expose them directly.
type LocalClient struct {
	dir string
}

// NewLocalClient constructs a local disk backend rooted at cfg.Dir.
func NewLocalClient(cfg config.UploadsConfig) (*LocalClient, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, errors.New("uploads directory is required")
	}
	return &LocalClient{dir: cfg.Dir}, nil
}

// EnsureBucket creates the content directory if it does not exist.
func (l *LocalClient) EnsureBucket(ctx context.Context) error {
	return os.MkdirAll(l.dir, 0o755)
}

// Put writes the object to <dir>/<key>. Keys must not escape the directory.
func (l *LocalClient) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	target, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return err
	}
	return f.Close()
}

// Delete removes the object file. A missing file is not an error.
func (l *LocalClient) Delete(ctx context.Context, key string) error {
	target, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Bucket returns the content directory path.
func (l *LocalClient) Bucket() string {
	return l.dir
}

// Dir returns the content directory for static file serving.
func (l *LocalClient) Dir() string {
	return l.dir
}

func (l *LocalClient) resolve(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("object key is required")
	}
	cleaned := filepath.Clean(key)
	if cleaned != filepath.Base(cleaned) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(l.dir, cleaned), nil
}
