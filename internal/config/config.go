package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/sweep/pkg/cache"
	"github.com/JaimeStill/sweep/pkg/database"
	"github.com/JaimeStill/sweep/pkg/envvar"
	"github.com/JaimeStill/sweep/pkg/identity"
	"github.com/JaimeStill/sweep/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvSweepEnv             = "SWEEP_ENV"
	EnvSweepShutdownTimeout = "SWEEP_SHUTDOWN_TIMEOUT"
	EnvSweepVersion         = "SWEEP_VERSION"
	EnvSweepLogLevel        = "SWEEP_LOG_LEVEL"
)

var databaseEnv = &database.Env{
	Host:            "SWEEP_DB_HOST",
	Port:            "SWEEP_DB_PORT",
	Name:            "SWEEP_DB_NAME",
	User:            "SWEEP_DB_USER",
	Password:        "SWEEP_DB_PASSWORD",
	SSLMode:         "SWEEP_DB_SSL_MODE",
	MaxOpenConns:    "SWEEP_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "SWEEP_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "SWEEP_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "SWEEP_DB_CONN_TIMEOUT",
	ApplicationName: "SWEEP_DB_APPLICATION_NAME",
}

var storageEnv = &storage.Env{
	Backend:          "SWEEP_STORAGE_BACKEND",
	ContainerName:    "SWEEP_STORAGE_CONTAINER_NAME",
	ConnectionString: "SWEEP_STORAGE_CONNECTION_STRING",
	AccountURL:       "SWEEP_STORAGE_ACCOUNT_URL",
	Endpoint:         "SWEEP_STORAGE_ENDPOINT",
	AccessKey:        "SWEEP_STORAGE_ACCESS_KEY",
	SecretKey:        "SWEEP_STORAGE_SECRET_KEY",
	Region:           "SWEEP_STORAGE_REGION",
	UseSSL:           "SWEEP_STORAGE_USE_SSL",
}

var cacheEnv = &cache.Env{
	URL:       "SWEEP_CACHE_URL",
	KeyPrefix: "SWEEP_CACHE_KEY_PREFIX",
}

var authEnv = &identity.Env{
	Issuer:   "SWEEP_AUTH_ISSUER",
	ClientID: "SWEEP_AUTH_CLIENT_ID",
	JWKSURL:  "SWEEP_AUTH_JWKS_URL",
}

// Config is the root configuration for the Sweep service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	Storage         storage.Config   `toml:"storage"`
	Cache           cache.Config     `toml:"cache"`
	API             APIConfig        `toml:"api"`
	Enrichment      EnrichmentConfig `toml:"enrichment"`
	Auth            identity.Config  `toml:"auth"`
	LogLevel        string           `toml:"log_level"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the SWEEP_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvSweepEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Level returns LogLevel as a slog.Level.
func (c *Config) Level() slog.Level {
	var level slog.Level
	level.UnmarshalText([]byte(c.LogLevel))
	return level
}

// Load reads configuration from the working directory.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom loads .env into the process environment without overriding
// variables already set, reads dir/config.toml (if present), applies the
// dir/config.<SWEEP_ENV>.toml overlay, and finalizes all values. If no
// config.toml exists, defaults and environment variables provide all
// configuration.
func LoadFrom(dir string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, DotEnvFile)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}

	base := filepath.Join(dir, BaseConfigFile)
	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(dir); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Cache.Merge(&overlay.Cache)
	c.API.Merge(&overlay.API)
	c.Enrichment.Merge(&overlay.Enrichment)
	c.Auth.Merge(&overlay.Auth)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Cache.Finalize(cacheEnv); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Enrichment.Finalize(c.Version); err != nil {
		return fmt.Errorf("enrichment: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	envvar.String(&c.LogLevel, EnvSweepLogLevel)
	envvar.String(&c.ShutdownTimeout, EnvSweepShutdownTimeout)
	envvar.String(&c.Version, EnvSweepVersion)
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvSweepEnv); env != "" {
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
