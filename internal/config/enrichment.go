package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/JaimeStill/sweep/pkg/envvar"
)

const (
	EnvEnrichmentTimeout  = "SWEEP_ENRICHMENT_TIMEOUT"
	EnvGeocodeBaseURL     = "SWEEP_GEOCODE_BASE_URL"
	EnvGeocodeUserAgent   = "SWEEP_GEOCODE_USER_AGENT"
	EnvGeocodeCacheTTL    = "SWEEP_GEOCODE_CACHE_TTL"
	EnvVisionAPIKey       = "SWEEP_VISION_API_KEY"
	EnvVisionBaseURL      = "SWEEP_VISION_BASE_URL"
	EnvVisionModel        = "SWEEP_VISION_MODEL"
	EnvVisionInlineImages = "SWEEP_VISION_INLINE_IMAGES"
)

// EnrichmentConfig configures the lookups applied to reports on write.
type EnrichmentConfig struct {
	Timeout string        `toml:"timeout"`
	Geocode GeocodeConfig `toml:"geocode"`
	Vision  VisionConfig  `toml:"vision"`
}

// GeocodeConfig addresses a Nominatim-compatible reverse geocoder.
// An empty BaseURL disables geocoding.
type GeocodeConfig struct {
	BaseURL   string `toml:"base_url"`
	UserAgent string `toml:"user_agent"`
	CacheTTL  string `toml:"cache_ttl"`
}

// VisionConfig addresses an OpenAI-compatible vision model.
// An empty APIKey disables image analysis.
type VisionConfig struct {
	APIKey       string `toml:"api_key"`
	BaseURL      string `toml:"base_url"`
	Model        string `toml:"model"`
	InlineImages bool   `toml:"inline_images"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *EnrichmentConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// CacheTTLDuration returns CacheTTL as a time.Duration.
func (c *GeocodeConfig) CacheTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.CacheTTL)
	return d
}

// Enabled reports whether a geocoder is configured.
func (c *GeocodeConfig) Enabled() bool {
	return c.BaseURL != ""
}

// Enabled reports whether an analyzer is configured.
func (c *VisionConfig) Enabled() bool {
	return c.APIKey != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
// version identifies the service in the geocoder User-Agent.
func (c *EnrichmentConfig) Finalize(version string) error {
	c.loadDefaults(version)
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EnrichmentConfig) Merge(overlay *EnrichmentConfig) {
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Geocode.BaseURL != "" {
		c.Geocode.BaseURL = overlay.Geocode.BaseURL
	}
	if overlay.Geocode.UserAgent != "" {
		c.Geocode.UserAgent = overlay.Geocode.UserAgent
	}
	if overlay.Geocode.CacheTTL != "" {
		c.Geocode.CacheTTL = overlay.Geocode.CacheTTL
	}
	if overlay.Vision.APIKey != "" {
		c.Vision.APIKey = overlay.Vision.APIKey
	}
	if overlay.Vision.BaseURL != "" {
		c.Vision.BaseURL = overlay.Vision.BaseURL
	}
	if overlay.Vision.Model != "" {
		c.Vision.Model = overlay.Vision.Model
	}
	if overlay.Vision.InlineImages {
		c.Vision.InlineImages = true
	}
}

func (c *EnrichmentConfig) loadDefaults(version string) {
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
	if c.Geocode.UserAgent == "" {
		c.Geocode.UserAgent = "sweep/" + version
	}
	if c.Geocode.CacheTTL == "" {
		c.Geocode.CacheTTL = "24h"
	}
	if c.Vision.Model == "" {
		c.Vision.Model = "gpt-4o-mini"
	}
}

func (c *EnrichmentConfig) loadEnv() {
	envvar.String(&c.Timeout, EnvEnrichmentTimeout)
	envvar.String(&c.Geocode.BaseURL, EnvGeocodeBaseURL)
	envvar.String(&c.Geocode.UserAgent, EnvGeocodeUserAgent)
	envvar.String(&c.Geocode.CacheTTL, EnvGeocodeCacheTTL)
	envvar.String(&c.Vision.APIKey, EnvVisionAPIKey)
	envvar.String(&c.Vision.BaseURL, EnvVisionBaseURL)
	envvar.String(&c.Vision.Model, EnvVisionModel)
	envvar.Bool(&c.Vision.InlineImages, EnvVisionInlineImages)
}

func (c *EnrichmentConfig) validate() error {
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout %q", c.Timeout)
	}
	if _, err := time.ParseDuration(c.Geocode.CacheTTL); err != nil {
		return fmt.Errorf("invalid geocode cache_ttl: %w", err)
	}
	for name, raw := range map[string]string{
		"geocode base_url": c.Geocode.BaseURL,
		"vision base_url":  c.Vision.BaseURL,
	} {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s %q", name, raw)
		}
	}
	return nil
}
