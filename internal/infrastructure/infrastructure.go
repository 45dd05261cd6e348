// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies (logging, database, storage, cache,
// metrics, identity) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/sweep/internal/config"
	"github.com/JaimeStill/sweep/pkg/cache"
	"github.com/JaimeStill/sweep/pkg/database"
	"github.com/JaimeStill/sweep/pkg/identity"
	"github.com/JaimeStill/sweep/pkg/lifecycle"
	"github.com/JaimeStill/sweep/pkg/metrics"
	"github.com/JaimeStill/sweep/pkg/storage"
)

// MetricsNamespace prefixes every exported Prometheus series.
const MetricsNamespace = "sweep"

// Infrastructure holds the core systems required by all domain modules.
// Cache and Verifier are nil when their configuration is absent.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Cache     cache.System
	Metrics   *metrics.Metrics
	Verifier  identity.Verifier
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	infra := &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Metrics:   metrics.New(MetricsNamespace),
	}

	if cfg.Cache.Enabled() {
		c, err := cache.New(&cfg.Cache, logger)
		if err != nil {
			return nil, fmt.Errorf("cache init failed: %w", err)
		}
		infra.Cache = c
	}

	if cfg.Auth.Enabled() {
		infra.Verifier = identity.New(lc.Context(), &cfg.Auth)
	}

	return infra, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if i.Cache != nil {
		if err := i.Cache.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("cache start failed: %w", err)
		}
	}
	return nil
}
