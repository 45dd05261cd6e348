// Package cache provides a Redis-backed string cache with TTLs.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/sweep/pkg/lifecycle"
)

// Store reads and writes string values with expiry.
type Store interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// System is a Store whose connection participates in the server lifecycle.
type System interface {
	Store
	Start(lc *lifecycle.Coordinator) error
}

type redisCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// New creates a Redis cache from cfg. The connection is verified at startup.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return &redisCache{
		client: redis.NewClient(opts),
		prefix: cfg.KeyPrefix,
		logger: logger.With("system", "cache"),
	}, nil
}

func (c *redisCache) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup("cache", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := c.client.Ping(pingCtx).Err(); err != nil {
			c.logger.Error("redis ping failed", "error", err)
			return err
		}

		c.logger.Info("redis connection established")
		return nil
	})

	lc.OnShutdown(func() {
		if err := c.client.Close(); err != nil {
			c.logger.Error("redis close failed", "error", err)
		}
	})

	return nil
}

func (c *redisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return val, true, nil
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *redisCache) key(k string) string {
	return c.prefix + ":" + k
}
