package reports

import (
	"strings"

	"github.com/JaimeStill/sweep/internal/geocode"
	"github.com/JaimeStill/sweep/pkg/enrichment"
)

var locationSentinels = []string{
	LocationUnknown,
	LocationLookupFailed,
	LocationNetworkError,
}

// missingLocation reports whether a client-supplied location value should
// be replaced by a lookup.
func missingLocation(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	for _, s := range locationSentinels {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func (c CreateCommand) needsLookup() bool {
	return missingLocation(c.Town) || missingLocation(c.County) || missingLocation(c.Country)
}

// resolveLocation fills missing fields of supplied from the lookup result.
// Supplied values are kept. Fields the lookup could not provide take the
// sentinel for its outcome.
func resolveLocation(supplied geocode.Location, result enrichment.Result[geocode.Location]) geocode.Location {
	fallback := LocationUnknown
	switch {
	case result.Status == enrichment.Failed && result.Reason == geocode.ReasonNoResult:
		fallback = LocationLookupFailed
	case result.Status == enrichment.Failed:
		fallback = LocationNetworkError
	}

	found := result.Or(geocode.Location{Town: fallback, County: fallback, Country: fallback})

	pick := func(given, looked string) string {
		if !missingLocation(given) {
			return given
		}
		if strings.TrimSpace(looked) != "" {
			return looked
		}
		return fallback
	}

	return geocode.Location{
		Town:    pick(supplied.Town, found.Town),
		County:  pick(supplied.County, found.County),
		Country: pick(supplied.Country, found.Country),
	}
}

// categoryFor maps an image recognition outcome to the stored category.
func categoryFor(result enrichment.Result[string]) string {
	switch result.Status {
	case enrichment.Succeeded:
		return result.Value
	case enrichment.Skipped:
		return CategorySkipped
	default:
		return CategoryFailed
	}
}
