package identity

import (
	"fmt"

	"github.com/JaimeStill/sweep/pkg/envvar"
)

// Config points at an OIDC issuer. An empty Issuer disables token verification.
type Config struct {
	Issuer   string `toml:"issuer"`
	ClientID string `toml:"client_id"`
	JWKSURL  string `toml:"jwks_url"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Issuer   string
	ClientID string
	JWKSURL  string
}

// Enabled reports whether an issuer is configured.
func (c *Config) Enabled() bool {
	return c.Issuer != ""
}

// Finalize applies environment variable overrides and validation.
func (c *Config) Finalize(env *Env) error {
	if env != nil {
		envvar.String(&c.Issuer, env.Issuer)
		envvar.String(&c.ClientID, env.ClientID)
		envvar.String(&c.JWKSURL, env.JWKSURL)
	}

	if !c.Enabled() {
		return nil
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id required when issuer is set")
	}
	if c.JWKSURL == "" {
		return fmt.Errorf("jwks_url required when issuer is set")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.JWKSURL != "" {
		c.JWKSURL = overlay.JWKSURL
	}
}
