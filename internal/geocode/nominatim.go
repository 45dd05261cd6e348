package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Nominatim is a Client for the Nominatim reverse endpoint.
type Nominatim struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewNominatim creates a client for baseURL. Nominatim's usage policy
// requires an identifying User-Agent.
func NewNominatim(baseURL, userAgent string, client *http.Client) *Nominatim {
	if client == nil {
		client = http.DefaultClient
	}
	return &Nominatim{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      client,
	}
}

type nominatimResponse struct {
	Error   string `json:"error"`
	Address struct {
		City          string `json:"city"`
		Town          string `json:"town"`
		Village       string `json:"village"`
		Hamlet        string `json:"hamlet"`
		Suburb        string `json:"suburb"`
		County        string `json:"county"`
		StateDistrict string `json:"state_district"`
		State         string `json:"state"`
		Country       string `json:"country"`
	} `json:"address"`
}

func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (Location, error) {
	params := url.Values{
		"format":         {"jsonv2"},
		"lat":            {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":            {strconv.FormatFloat(lon, 'f', -1, 64)},
		"zoom":           {"10"},
		"addressdetails": {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return Location{}, fmt.Errorf("build reverse request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.http.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("reverse geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("reverse geocode: unexpected status %d", resp.StatusCode)
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Location{}, fmt.Errorf("decode reverse response: %w", err)
	}

	if body.Error != "" {
		return Location{}, fmt.Errorf("%w: %s", ErrNoResult, body.Error)
	}

	a := body.Address
	loc := Location{
		Town:    firstNonEmpty(a.City, a.Town, a.Village, a.Hamlet, a.Suburb),
		County:  firstNonEmpty(a.County, a.StateDistrict, a.State),
		Country: a.Country,
	}

	if loc.Empty() {
		return Location{}, ErrNoResult
	}
	return loc, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
