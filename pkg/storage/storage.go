// Package storage stores evidence photos in a blob container.
// Azure Blob Storage and S3-compatible (MinIO) backends are supported.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/JaimeStill/sweep/pkg/lifecycle"
)

// Blob is a downloaded object. The caller must close Body.
type Blob struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// System is the blob store used for evidence photos.
type System interface {
	// Start registers a startup hook that ensures the container exists.
	Start(lc *lifecycle.Coordinator) error
	// Upload writes size bytes from reader to key. size may be -1 when unknown.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Download opens key for reading. Returns ErrNotFound for a missing blob.
	Download(ctx context.Context, key string) (*Blob, error)
	// Delete removes key. Returns ErrNotFound for a missing blob.
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// New creates the backend selected by cfg.Backend.
// Clients are constructed without contacting the service.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "storage", "backend", cfg.Backend)

	switch cfg.Backend {
	case BackendAzure:
		return newAzure(cfg, logger)
	case BackendMinIO:
		return newMinIO(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return ErrInvalidKey
	}
	return nil
}
