// Package geocode resolves coordinates to a town, county, and country.
package geocode

import (
	"context"
	"errors"
)

// ErrNoResult indicates the geocoder answered but had no usable address.
var ErrNoResult = errors.New("no address for coordinates")

// Reasons attached to failed enrichment results.
const (
	ReasonNoResult    = "no_result"
	ReasonUnavailable = "unavailable"
)

// Location is a reverse geocoding result. Empty fields were not present
// in the geocoder's answer.
type Location struct {
	Town    string `json:"town"`
	County  string `json:"county"`
	Country string `json:"country"`
}

// Empty reports whether no field was resolved.
func (l Location) Empty() bool {
	return l.Town == "" && l.County == "" && l.Country == ""
}

// Client performs reverse geocoding.
type Client interface {
	Reverse(ctx context.Context, lat, lon float64) (Location, error)
}
