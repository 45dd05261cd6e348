package reports

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/JaimeStill/sweep/pkg/query"
	"github.com/JaimeStill/sweep/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "reports", "r").
	Project("id", "ID").
	Project("latitude", "Latitude").
	Project("longitude", "Longitude").
	Project("town", "Town").
	Project("county", "County").
	Project("country", "Country").
	Project("priority", "Priority").
	Project("email", "Email").
	Project("reported_at", "ReportedAt").
	Project("image_url", "ImageURL").
	Project("evidence_key", "EvidenceKey").
	Project("recognized_category", "RecognizedCategory").
	Project("is_clean", "IsClean")

// returning lists the columns of RETURNING clauses in scanReport order.
const returning = `id, latitude, longitude, town, county, country, priority, email,
	reported_at, image_url, evidence_key, recognized_category, is_clean`

var newestFirst = []query.SortField{
	{Field: "ReportedAt", Descending: true},
	{Field: "ID", Descending: true},
}

// Filters narrows report queries. Nil fields are ignored.
type Filters struct {
	Email   *string `json:"email,omitempty"`
	IsClean *bool   `json:"isClean,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Email", f.Email).
		WhereEquals("IsClean", f.IsClean)
}

// FiltersFromQuery reads email and includeClean. includeClean defaults to
// true; includeClean=false restricts results to open reports.
func FiltersFromQuery(values url.Values) (Filters, error) {
	var f Filters

	if e := NormalizeEmail(values.Get("email")); e != "" {
		f.Email = &e
	}

	if raw := values.Get("includeClean"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			return f, fmt.Errorf("%w: includeClean=%q", ErrInvalidArgument, raw)
		}
		if !include {
			open := false
			f.IsClean = &open
		}
	}

	return f, nil
}

func scanReport(s repository.Scanner) (Report, error) {
	var r Report
	err := s.Scan(reportFields(&r)...)
	return r, err
}

// released is a report row returned by an update that dropped its
// evidence, with the key held before the update.
type released struct {
	Report
	previousKey *string
}

func scanReleased(s repository.Scanner) (released, error) {
	var rel released
	err := s.Scan(append(reportFields(&rel.Report), &rel.previousKey)...)
	return rel, err
}

func reportFields(r *Report) []any {
	return []any{
		&r.ID,
		&r.Latitude,
		&r.Longitude,
		&r.Town,
		&r.County,
		&r.Country,
		&r.Priority,
		&r.Email,
		&r.ReportedAt,
		&r.ImageURL,
		&r.EvidenceKey,
		&r.RecognizedCategory,
		&r.IsClean,
	}
}

func scanLeaderboardEntry(s repository.Scanner) (LeaderboardEntry, error) {
	var e LeaderboardEntry
	err := s.Scan(&e.Email, &e.Total, &e.High, &e.Medium, &e.Low, &e.Cleaned)
	return e, err
}
