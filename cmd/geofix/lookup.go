package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/geofix/internal/adapter/googlemaps"
	"github.com/couchcryptid/geofix/internal/adapter/mapbox"
	"github.com/couchcryptid/geofix/internal/adapter/nominatim"
	"github.com/couchcryptid/geofix/internal/adapter/redis"
	"github.com/couchcryptid/geofix/internal/config"
	"github.com/couchcryptid/geofix/internal/domain"
	"github.com/couchcryptid/geofix/internal/lookup"
	"github.com/couchcryptid/geofix/internal/observability"
)

// newPlaceLookup builds the lookup chain: cache, then throttle, then the
// configured provider. It returns nil when lookups are disabled. The
// returned func releases the Redis connection, if any.
func newPlaceLookup(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) (domain.PlaceLookup, func() error, error) {
	noop := func() error { return nil }

	var provider domain.PlaceLookup
	switch cfg.LookupProvider {
	case config.ProviderNominatim:
		provider = nominatim.NewClient(cfg.NominatimURL, cfg.LookupUserAgent, cfg.LookupCountry, cfg.LookupTimeout, logger, metrics)
	case config.ProviderMapbox:
		provider = mapbox.NewClient(cfg.MapboxToken, cfg.LookupCountry, cfg.LookupTimeout, logger, metrics)
	case config.ProviderGoogle:
		client, err := googlemaps.NewClient(cfg.GoogleMapsAPIKey, cfg.LookupCountry, cfg.LookupRegionBias, cfg.LookupTimeout, logger, metrics)
		if err != nil {
			return nil, nil, fmt.Errorf("create google maps client: %w", err)
		}
		provider = client
	default:
		metrics.LookupEnabled.Set(0)
		logger.Info("place lookup disabled")
		return nil, noop, nil
	}
	metrics.LookupEnabled.Set(1)

	var opts []lookup.CacheOption
	closeFn := noop
	if cfg.RedisAddr != "" {
		store, err := redis.Open(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTTL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect lookup store: %w", err)
		}
		opts = append(opts, lookup.WithStore(store))
		closeFn = store.Close
	}

	logger.Info("place lookup enabled",
		"provider", cfg.LookupProvider,
		"min_interval", cfg.LookupMinInterval,
		"cache_size", cfg.LookupCacheSize,
		"redis", cfg.RedisAddr != "",
	)
	throttled := lookup.NewThrottle(provider, cfg.LookupMinInterval, clock)
	return lookup.NewCache(throttled, cfg.LookupCacheSize, logger, metrics, opts...), closeFn, nil
}
