package geocode

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/JaimeStill/sweep/pkg/enrichment"
)

// Resolver bounds reverse geocoding with a timeout and reports the
// outcome as an enrichment result. It never returns an error.
type Resolver struct {
	client  Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewResolver creates a Resolver. A nil client yields Skipped results.
func NewResolver(client Client, timeout time.Duration, logger *slog.Logger) *Resolver {
	return &Resolver{
		client:  client,
		timeout: timeout,
		logger:  logger.With("system", "geocode"),
	}
}

// Resolve looks up the location of lat, lon.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) enrichment.Result[Location] {
	if r == nil || r.client == nil {
		return enrichment.Skip[Location]("geocoder not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	loc, err := r.client.Reverse(ctx, lat, lon)
	if err != nil {
		if errors.Is(err, ErrNoResult) {
			r.logger.Warn("reverse geocode returned no address", "lat", lat, "lon", lon)
			return enrichment.Fail[Location](ReasonNoResult, err)
		}
		r.logger.Warn("reverse geocode failed", "lat", lat, "lon", lon, "error", err)
		return enrichment.Fail[Location](ReasonUnavailable, err)
	}

	return enrichment.Success(loc)
}
