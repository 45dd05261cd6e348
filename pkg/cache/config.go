package cache

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/sweep/pkg/envvar"
)

// Config holds the Redis connection. An empty URL disables caching.
type Config struct {
	URL       string `toml:"url"`
	KeyPrefix string `toml:"key_prefix"`
}

// Env maps config fields to environment variable names.
type Env struct {
	URL       string
	KeyPrefix string
}

// Enabled reports whether a Redis URL is configured.
func (c *Config) Enabled() bool {
	return c.URL != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	if c.KeyPrefix == "" {
		c.KeyPrefix = "sweep"
	}
	if env != nil {
		envvar.String(&c.URL, env.URL)
		envvar.String(&c.KeyPrefix, env.KeyPrefix)
	}

	if c.Enabled() {
		if _, err := redis.ParseURL(c.URL); err != nil {
			return fmt.Errorf("invalid url: %w", err)
		}
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.URL != "" {
		c.URL = overlay.URL
	}
	if overlay.KeyPrefix != "" {
		c.KeyPrefix = overlay.KeyPrefix
	}
}
