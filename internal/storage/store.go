// Package storage keeps uploaded files (profile images, covers, medical
// reports) on local disk or in an S3 bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BruksfildServices01/clinic-admin/internal/config"
)

var ErrInvalidName = errors.New("storage: invalid file name")

type Store interface {
	Save(ctx context.Context, name string, r io.Reader, contentType string) error
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.UploadDriver {
	case "s3":
		return NewS3Store(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	case "", "local":
		return NewLocalStore(cfg.UploadDir, "/uploads")
	}
	return nil, fmt.Errorf("storage: unknown driver %q", cfg.UploadDriver)
}

// CleanName rejects names that could escape the upload root.
func CleanName(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrInvalidName
	}
	return name, nil
}

// ======================================================
// LOCAL
// ======================================================

type LocalStore struct {
	dir     string
	urlBase string
}

func NewLocalStore(dir, urlBase string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, urlBase: strings.TrimRight(urlBase, "/")}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(_ context.Context, name string, r io.Reader, _ string) error {
	name, err := CleanName(name)
	if err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *LocalStore) Delete(_ context.Context, name string) error {
	name, err := CleanName(name)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *LocalStore) URL(name string) string {
	return s.urlBase + "/" + name
}
