package openapi

import "github.com/JaimeStill/sweep/pkg/envvar"

// Config holds OpenAPI metadata for spec generation.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv maps config fields to environment variable names for override injection.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "Sweep API"
	}
	if c.Description == "" {
		c.Description = "Litter reports: geotagged sightings, evidence photos, and cleanup tracking."
	}
	if env != nil {
		envvar.String(&c.Title, env.Title)
		envvar.String(&c.Description, env.Description)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}
