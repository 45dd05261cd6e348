package storage

import (
	"fmt"

	"github.com/JaimeStill/sweep/pkg/envvar"
)

// Supported storage backends.
const (
	BackendAzure = "azure"
	BackendMinIO = "minio"
)

// Config selects a blob backend and holds the settings for each.
type Config struct {
	Backend       string      `toml:"backend"`
	ContainerName string      `toml:"container_name"`
	Azure         AzureConfig `toml:"azure"`
	MinIO         MinIOConfig `toml:"minio"`
}

// AzureConfig authenticates with a connection string, or with the ambient
// Azure credential chain against AccountURL when no connection string is set.
type AzureConfig struct {
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
}

// MinIOConfig addresses any S3-compatible endpoint.
type MinIOConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Region    string `toml:"region"`
	UseSSL    bool   `toml:"use_ssl"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Backend          string
	ContainerName    string
	ConnectionString string
	AccountURL       string
	Endpoint         string
	AccessKey        string
	SecretKey        string
	Region           string
	UseSSL           string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.Azure.ConnectionString != "" {
		c.Azure.ConnectionString = overlay.Azure.ConnectionString
	}
	if overlay.Azure.AccountURL != "" {
		c.Azure.AccountURL = overlay.Azure.AccountURL
	}
	if overlay.MinIO.Endpoint != "" {
		c.MinIO.Endpoint = overlay.MinIO.Endpoint
	}
	if overlay.MinIO.AccessKey != "" {
		c.MinIO.AccessKey = overlay.MinIO.AccessKey
	}
	if overlay.MinIO.SecretKey != "" {
		c.MinIO.SecretKey = overlay.MinIO.SecretKey
	}
	if overlay.MinIO.Region != "" {
		c.MinIO.Region = overlay.MinIO.Region
	}
	if overlay.MinIO.UseSSL {
		c.MinIO.UseSSL = true
	}
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendAzure
	}
	if c.ContainerName == "" {
		c.ContainerName = "evidence"
	}
}

func (c *Config) loadEnv(env *Env) {
	envvar.String(&c.Backend, env.Backend)
	envvar.String(&c.ContainerName, env.ContainerName)
	envvar.String(&c.Azure.ConnectionString, env.ConnectionString)
	envvar.String(&c.Azure.AccountURL, env.AccountURL)
	envvar.String(&c.MinIO.Endpoint, env.Endpoint)
	envvar.String(&c.MinIO.AccessKey, env.AccessKey)
	envvar.String(&c.MinIO.SecretKey, env.SecretKey)
	envvar.String(&c.MinIO.Region, env.Region)
	envvar.Bool(&c.MinIO.UseSSL, env.UseSSL)
}

func (c *Config) validate() error {
	if c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}

	switch c.Backend {
	case BackendAzure:
		if c.Azure.ConnectionString == "" && c.Azure.AccountURL == "" {
			return fmt.Errorf("azure: connection_string or account_url required")
		}
	case BackendMinIO:
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("minio: endpoint required")
		}
		if c.MinIO.AccessKey == "" || c.MinIO.SecretKey == "" {
			return fmt.Errorf("minio: access_key and secret_key required")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}
