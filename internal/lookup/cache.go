// Package lookup decorates a place lookup provider with the run-scoped cache
// and the rate limit that every outbound lookup goes through.
package lookup

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/couchcryptid/geofix/internal/domain"
	"github.com/couchcryptid/geofix/internal/observability"
	"github.com/couchcryptid/geofix/internal/textnorm"
)

// Entry is a cached lookup answer. Found is false for places the provider
// did not know, so repeated misses are not re-queried.
type Entry struct {
	Coordinate domain.Coordinate `json:"coordinate"`
	Found      bool              `json:"found"`
}

// Store is a second cache tier that outlives a run, such as Redis.
// Get reports false for keys it does not hold.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, e Entry) error
}

// Cache wraps a PlaceLookup with an in-memory LRU and an optional Store.
// Concurrent callers asking for the same key share a single provider call.
type Cache struct {
	inner   domain.PlaceLookup
	mem     *lru
	store   Store
	group   singleflight.Group
	logger  *slog.Logger
	metrics *observability.Metrics
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithStore adds a persistent tier consulted after the in-memory cache.
func WithStore(s Store) CacheOption {
	return func(c *Cache) { c.store = s }
}

// NewCache creates a cache decorator around inner. maxEntries bounds the
// in-memory tier; zero or less keeps every entry for the run.
func NewCache(inner domain.PlaceLookup, maxEntries int, logger *slog.Logger, metrics *observability.Metrics, opts ...CacheOption) *Cache {
	c := &Cache{
		inner:   inner,
		mem:     newLRU(maxEntries),
		logger:  logger,
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key normalizes a query into its cache key: folded place name, upper-cased
// region and the query variant.
func Key(q domain.PlaceQuery) string {
	return textnorm.Fold(q.Place) + "|" + strings.ToUpper(strings.TrimSpace(q.Region)) + "|" + q.Variant.String()
}

// Resolve answers from the cache when possible and otherwise asks the wrapped
// lookup. Provider failures are logged and cached as not found. A cancelled
// context is returned as an error and nothing is cached.
func (c *Cache) Resolve(ctx context.Context, q domain.PlaceQuery) (domain.Coordinate, bool, error) {
	key := Key(q)
	variant := q.Variant.String()

	if e, ok := c.mem.get(key); ok {
		c.metrics.LookupCache.WithLabelValues(variant, "hit").Inc()
		return e.Coordinate, e.Found, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Another caller may have filled the key while this one waited.
		if e, ok := c.mem.get(key); ok {
			c.metrics.LookupCache.WithLabelValues(variant, "hit").Inc()
			return e, nil
		}

		if e, ok := c.fromStore(ctx, key); ok {
			c.metrics.LookupCache.WithLabelValues(variant, "store_hit").Inc()
			c.mem.put(key, e)
			return e, nil
		}

		c.metrics.LookupCache.WithLabelValues(variant, "miss").Inc()
		coord, found, err := c.inner.Resolve(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("place lookup failed",
				"place", q.Place,
				"region", q.Region,
				"variant", variant,
				"error", err,
			)
			e := Entry{}
			c.mem.put(key, e)
			return e, nil
		}

		e := Entry{Coordinate: coord, Found: found}
		c.mem.put(key, e)
		c.toStore(ctx, key, e)
		return e, nil
	})
	if err != nil {
		return domain.Coordinate{}, false, err
	}

	e := v.(Entry)
	return e.Coordinate, e.Found, nil
}

// Len returns the number of entries held in memory.
func (c *Cache) Len() int { return c.mem.len() }

func (c *Cache) fromStore(ctx context.Context, key string) (Entry, bool) {
	if c.store == nil {
		return Entry{}, false
	}
	e, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("lookup store read failed", "key", key, "error", err)
		return Entry{}, false
	}
	return e, ok
}

func (c *Cache) toStore(ctx context.Context, key string, e Entry) {
	if c.store == nil {
		return
	}
	if err := c.store.Put(ctx, key, e); err != nil {
		c.logger.Warn("lookup store write failed", "key", key, "error", err)
	}
}
