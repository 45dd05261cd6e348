package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/JaimeStill/sweep/pkg/routes"
)

func registerRoutes(r chi.Router, domain *Domain) {
	routes.Register(
		r,
		domain.Reports.Handler().Routes(),
		domain.Views.Routes(),
	)
}
