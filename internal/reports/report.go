// Package reports implements the litter report domain for Sweep.
// It owns report persistence, the report lifecycle, evidence photo storage,
// and the location and image enrichment applied on write.
package reports

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority is the reporter's urgency assessment. Fixed after create.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Location sentinels stored in town, county, and country.
const (
	LocationUnknown      = "Unknown"
	LocationLookupFailed = "Lookup Failed"
	LocationNetworkError = "Network Error"
)

// Category sentinels stored in recognized_category.
const (
	CategoryPending      = "Pending Analysis"
	CategorySkipped      = "Analysis Skipped"
	CategoryFailed       = "Analysis Failed"
	CategoryUnrecognized = "Unrecognized"
	CategoryCleaned      = "Cleaned"
)

// Report is a geotagged litter sighting.
type Report struct {
	ID                 uuid.UUID `json:"id"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	Town               string    `json:"town"`
	County             string    `json:"county"`
	Country            string    `json:"country"`
	Priority           Priority  `json:"priority"`
	Email              string    `json:"email"`
	ReportedAt         time.Time `json:"reportedAt"`
	ImageURL           *string   `json:"imageUrl"`
	EvidenceKey        *string   `json:"-"`
	RecognizedCategory string    `json:"recognizedCategory"`
	IsClean            bool      `json:"isClean"`
}

// CreateCommand carries a new report. Location fields are optional; empty
// or sentinel values are resolved from the coordinates.
type CreateCommand struct {
	Latitude  *Coordinate `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *Coordinate `json:"longitude" validate:"required,gte=-180,lte=180"`
	Town      string      `json:"town" validate:"max=200"`
	County    string      `json:"county" validate:"max=200"`
	Country   string      `json:"country" validate:"max=200"`
	Priority  Priority    `json:"priority" validate:"required,oneof=low medium high"`
	Email     string      `json:"email" validate:"required,email,max=320"`
}

// Coordinate is a degree value decoded from a JSON number or numeric string.
type Coordinate float64

// Float returns c as a float64.
func (c Coordinate) Float() float64 {
	return float64(c)
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return fmt.Errorf("coordinate %q is not a number", s)
		}
		*c = Coordinate(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("coordinate must be a number: %w", err)
	}
	*c = Coordinate(v)
	return nil
}

// Normalize trims free text and lower-cases email and priority.
func (c *CreateCommand) Normalize() {
	c.Town = strings.TrimSpace(c.Town)
	c.County = strings.TrimSpace(c.County)
	c.Country = strings.TrimSpace(c.Country)
	c.Priority = Priority(strings.ToLower(strings.TrimSpace(string(c.Priority))))
	c.Email = NormalizeEmail(c.Email)
}

// EvidenceCommand carries a photo to attach to a report.
type EvidenceCommand struct {
	ReportID    uuid.UUID
	Filename    string
	ContentType string
	Data        []byte
}

// LeaderboardEntry aggregates reports by reporter email. Priority counts
// include cleaned reports.
type LeaderboardEntry struct {
	Email   string `json:"email"`
	Total   int    `json:"totalReports"`
	High    int    `json:"highPriority"`
	Medium  int    `json:"mediumPriority"`
	Low     int    `json:"lowPriority"`
	Cleaned int    `json:"cleaned"`
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
