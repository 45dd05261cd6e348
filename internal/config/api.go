package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/JaimeStill/sweep/pkg/envvar"
	"github.com/JaimeStill/sweep/pkg/formatting"
	"github.com/JaimeStill/sweep/pkg/middleware"
	"github.com/JaimeStill/sweep/pkg/openapi"
	"github.com/JaimeStill/sweep/pkg/pagination"
)

const (
	EnvAPIBasePath      = "SWEEP_API_BASE_PATH"
	EnvAPIPublicURL     = "SWEEP_API_PUBLIC_URL"
	EnvAPIMaxUploadSize = "SWEEP_API_MAX_UPLOAD_SIZE"
	EnvAPIViewPageSize  = "SWEEP_API_VIEW_PAGE_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "SWEEP_CORS_ENABLED",
	Origins:          "SWEEP_CORS_ORIGINS",
	AllowedMethods:   "SWEEP_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "SWEEP_CORS_ALLOWED_HEADERS",
	AllowCredentials: "SWEEP_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "SWEEP_CORS_MAX_AGE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "SWEEP_OPENAPI_TITLE",
	Description: "SWEEP_OPENAPI_DESCRIPTION",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "SWEEP_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "SWEEP_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, upload, CORS, and pagination settings.
// PublicURL is the externally reachable origin used to build evidence
// image URLs; an empty PublicURL yields host-relative URLs.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	PublicURL     string                `toml:"public_url"`
	MaxUploadSize string                `toml:"max_upload_size"`
	ViewPageSize  int                   `toml:"view_page_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxUploadSize)
	return size
}

// EvidenceBaseURL is the prefix of public evidence image URLs.
func (c *APIConfig) EvidenceBaseURL() string {
	return strings.TrimRight(c.PublicURL, "/") + c.BasePath
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS, pagination, and OpenAPI configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.PublicURL != "" {
		c.PublicURL = overlay.PublicURL
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
	if overlay.ViewPageSize != 0 {
		c.ViewPageSize = overlay.ViewPageSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
	if c.ViewPageSize == 0 {
		c.ViewPageSize = 9
	}
}

func (c *APIConfig) loadEnv() {
	envvar.String(&c.BasePath, EnvAPIBasePath)
	envvar.String(&c.PublicURL, EnvAPIPublicURL)
	envvar.String(&c.MaxUploadSize, EnvAPIMaxUploadSize)
	envvar.Int(&c.ViewPageSize, EnvAPIViewPageSize)
}

func (c *APIConfig) validate() error {
	if !strings.HasPrefix(c.BasePath, "/") || strings.HasSuffix(c.BasePath, "/") {
		return fmt.Errorf("base_path must start and not end with /: %q", c.BasePath)
	}
	if size, err := formatting.ParseBytes(c.MaxUploadSize); err != nil || size < 1 {
		return fmt.Errorf("invalid max_upload_size %q", c.MaxUploadSize)
	}
	if c.ViewPageSize < 1 {
		return fmt.Errorf("view_page_size must be positive: %d", c.ViewPageSize)
	}
	if c.PublicURL != "" {
		u, err := url.Parse(c.PublicURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid public_url %q", c.PublicURL)
		}
	}
	return nil
}
