package api

import (
	"github.com/JaimeStill/sweep/internal/reports"
	"github.com/JaimeStill/sweep/internal/views"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Reports reports.System
	Views   *views.Handler
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	reportsSystem := reports.New(
		runtime.Database.Connection(),
		runtime.Storage,
		reports.Enrichment{
			Geocoder:   newGeocoder(runtime),
			Recognizer: newRecognizer(runtime),
			Metrics:    runtime.Metrics,
		},
		reports.Evidence{
			BaseURL: runtime.API.EvidenceBaseURL(),
			MaxSize: runtime.API.MaxUploadSizeBytes(),
		},
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Reports: reportsSystem,
		Views:   views.NewHandler(reportsSystem, runtime.Logger, runtime.API.ViewPageSize),
	}
}
