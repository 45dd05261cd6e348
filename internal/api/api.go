// Package api assembles the API router with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JaimeStill/sweep/internal/config"
	"github.com/JaimeStill/sweep/internal/infrastructure"
	"github.com/JaimeStill/sweep/pkg/identity"
	"github.com/JaimeStill/sweep/pkg/middleware"
	"github.com/JaimeStill/sweep/pkg/openapi"
)

// NewHandler creates the API router with all domain handlers and middleware.
// Routes are relative; the caller mounts the handler at cfg.API.BasePath.
func NewHandler(cfg *config.Config, infra *infrastructure.Infrastructure) (http.Handler, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	spec, err := openapi.MarshalJSON(newSpec(cfg))
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.CORS(&cfg.API.CORS))
	r.Use(middleware.Logger(runtime.Logger))
	r.Use(runtime.Metrics.Middleware)
	if runtime.Verifier != nil {
		r.Use(identity.Middleware(runtime.Verifier, runtime.Logger))
	}

	r.Get("/openapi.json", openapi.ServeSpec(spec))
	registerRoutes(r, domain)

	return r, nil
}
