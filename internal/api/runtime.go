package api

import (
	"github.com/JaimeStill/sweep/internal/config"
	"github.com/JaimeStill/sweep/internal/infrastructure"
	"github.com/JaimeStill/sweep/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	API        config.APIConfig
	Enrichment config.EnrichmentConfig
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Cache:     infra.Cache,
			Metrics:   infra.Metrics,
			Verifier:  infra.Verifier,
		},
		API:        cfg.API,
		Enrichment: cfg.Enrichment,
		Pagination: cfg.API.Pagination,
	}
}
