package api

import (
	"net/http"

	"github.com/JaimeStill/sweep/internal/geocode"
	"github.com/JaimeStill/sweep/internal/vision"
)

// newGeocoder returns nil when no geocoder is configured. Lookups go
// through the cache when one is available.
func newGeocoder(runtime *Runtime) *geocode.Resolver {
	cfg := runtime.Enrichment.Geocode
	if !cfg.Enabled() {
		return nil
	}

	timeout := runtime.Enrichment.TimeoutDuration()

	var client geocode.Client = geocode.NewNominatim(
		cfg.BaseURL,
		cfg.UserAgent,
		&http.Client{Timeout: timeout},
	)
	if runtime.Cache != nil {
		client = geocode.NewCached(client, runtime.Cache, cfg.CacheTTLDuration(), runtime.Logger)
	}

	return geocode.NewResolver(client, timeout, runtime.Logger)
}

// newRecognizer returns nil when no vision model is configured.
func newRecognizer(runtime *Runtime) *vision.Recognizer {
	cfg := runtime.Enrichment.Vision
	if !cfg.Enabled() {
		return nil
	}

	analyzer := vision.NewOpenAI(vision.OpenAIConfig{
		APIKey:       cfg.APIKey,
		BaseURL:      cfg.BaseURL,
		Model:        cfg.Model,
		InlineImages: cfg.InlineImages,
	})

	return vision.NewRecognizer(analyzer, runtime.Enrichment.TimeoutDuration(), runtime.Logger)
}
