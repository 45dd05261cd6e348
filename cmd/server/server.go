package main

import (
	"time"

	"github.com/JaimeStill/sweep/internal/api"
	"github.com/JaimeStill/sweep/internal/config"
	"github.com/JaimeStill/sweep/internal/infrastructure"
	"github.com/JaimeStill/sweep/web/scalar"
)

// Server owns the infrastructure and the HTTP listener.
type Server struct {
	infra *infrastructure.Infrastructure
	http  *httpServer
}

// NewServer initializes infrastructure and builds the root router.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	apiHandler, err := api.NewHandler(cfg, infra)
	if err != nil {
		return nil, err
	}

	docs, err := scalar.NewHandler(cfg.API.OpenAPI.Title, cfg.API.BasePath+"/openapi.json")
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra, cfg.API.BasePath, apiHandler, docs)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"base_path", cfg.API.BasePath,
		"geocode", cfg.Enrichment.Geocode.Enabled(),
		"vision", cfg.Enrichment.Vision.Enabled(),
		"cache", cfg.Cache.Enabled(),
		"auth", cfg.Auth.Enabled(),
	)

	return &Server{
		infra: infra,
		http:  newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start runs startup hooks and begins serving.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		if err := s.infra.Lifecycle.WaitForStartup(); err != nil {
			s.infra.Logger.Error("subsystem startup failed", "error", err)
			return
		}
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown cancels the lifecycle and waits for shutdown hooks.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
