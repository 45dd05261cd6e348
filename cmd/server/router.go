package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JaimeStill/sweep/internal/infrastructure"
	"github.com/JaimeStill/sweep/pkg/handlers"
)

// DocsPath serves the API reference UI.
const DocsPath = "/docs"

func buildRouter(infra *infrastructure.Infrastructure, basePath string, apiHandler, docs http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	r.Method(http.MethodGet, "/metrics", infra.Metrics.Handler())
	r.Mount(DocsPath, docs)
	r.Mount(basePath, apiHandler)

	return r
}
