package storage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/sweep/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func backends(t *testing.T) map[string]storage.System {
	t.Helper()

	configs := map[string]*storage.Config{
		"azure": {
			Backend:       storage.BackendAzure,
			ContainerName: "evidence",
			Azure:         storage.AzureConfig{ConnectionString: azuriteConnString},
		},
		"minio": {
			Backend:       storage.BackendMinIO,
			ContainerName: "evidence",
			MinIO: storage.MinIOConfig{
				Endpoint:  "127.0.0.1:9000",
				AccessKey: "minioadmin",
				SecretKey: "minioadmin",
			},
		},
	}

	systems := make(map[string]storage.System, len(configs))
	for name, cfg := range configs {
		sys, err := storage.New(cfg, discard())
		if err != nil {
			t.Fatalf("New(%s): %v", name, err)
		}
		systems[name] = sys
	}
	return systems
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := storage.New(&storage.Config{Backend: "ftp"}, discard())
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestNewInvalidConnectionString(t *testing.T) {
	cfg := &storage.Config{
		Backend:       storage.BackendAzure,
		ContainerName: "evidence",
		Azure:         storage.AzureConfig{ConnectionString: "not-a-connection-string"},
	}

	if _, err := storage.New(cfg, discard()); err == nil {
		t.Fatal("expected error for invalid connection string")
	}
}

func TestKeyValidation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		key  string
		want error
	}{
		{"empty", "", storage.ErrEmptyKey},
		{"traversal", "evidence/../secrets", storage.ErrInvalidKey},
		{"absolute", "/evidence/a.jpg", storage.ErrInvalidKey},
	}

	for backend, sys := range backends(t) {
		for _, tt := range tests {
			t.Run(backend+"/"+tt.name, func(t *testing.T) {
				if err := sys.Upload(ctx, tt.key, strings.NewReader("x"), 1, "image/jpeg"); !errors.Is(err, tt.want) {
					t.Errorf("Upload err = %v, want %v", err, tt.want)
				}
				if _, err := sys.Download(ctx, tt.key); !errors.Is(err, tt.want) {
					t.Errorf("Download err = %v, want %v", err, tt.want)
				}
				if err := sys.Delete(ctx, tt.key); !errors.Is(err, tt.want) {
					t.Errorf("Delete err = %v, want %v", err, tt.want)
				}
				if _, err := sys.Exists(ctx, tt.key); !errors.Is(err, tt.want) {
					t.Errorf("Exists err = %v, want %v", err, tt.want)
				}
			})
		}
	}
}
