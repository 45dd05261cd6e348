package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/JaimeStill/sweep/pkg/cache"
)

// sharedLookupTimeout bounds an upstream lookup shared by concurrent callers.
const sharedLookupTimeout = 30 * time.Second

// Cached decorates a Client with a shared cache and collapses concurrent
// lookups for the same coordinates into a single upstream call. A caller
// that gives up does not cancel the call other callers are waiting on.
// Coordinates are rounded to four decimal places (about 11m) for keying.
type Cached struct {
	next   Client
	store  cache.Store
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

// NewCached wraps next. Cache read and write failures are logged and the
// lookup falls through to next.
func NewCached(next Client, store cache.Store, ttl time.Duration, logger *slog.Logger) *Cached {
	return &Cached{
		next:   next,
		store:  store,
		ttl:    ttl,
		logger: logger.With("component", "geocode-cache"),
	}
}

func (c *Cached) Reverse(ctx context.Context, lat, lon float64) (Location, error) {
	key := cacheKey(lat, lon)

	if loc, ok := c.lookup(ctx, key); ok {
		return loc, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLookupTimeout)
		defer cancel()

		loc, err := c.next.Reverse(shared, lat, lon)
		if err != nil {
			return Location{}, err
		}
		c.save(shared, key, loc)
		return loc, nil
	})

	select {
	case <-ctx.Done():
		return Location{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Location{}, res.Err
		}
		return res.Val.(Location), nil
	}
}

func (c *Cached) lookup(ctx context.Context, key string) (Location, bool) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
		return Location{}, false
	}
	if !ok {
		return Location{}, false
	}

	var loc Location
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		c.logger.Warn("discarding malformed cache entry", "key", key, "error", err)
		return Location{}, false
	}
	return loc, true
}

func (c *Cached) save(ctx context.Context, key string, loc Location) {
	data, err := json.Marshal(loc)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, key, string(data), c.ttl); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("geocode:%.4f:%.4f", lat, lon)
}
