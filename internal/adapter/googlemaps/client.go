// Package googlemaps resolves place names through the Google Maps
// Geocoding API.
package googlemaps

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"github.com/couchcryptid/geofix/internal/domain"
	"github.com/couchcryptid/geofix/internal/observability"
)

const providerName = "google"

// Client implements domain.PlaceLookup with the Google Geocoding API.
type Client struct {
	maps       *maps.Client
	country    string
	regionBias string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// Option configures the underlying maps client.
type Option = maps.ClientOption

// NewClient creates a Google geocoding client. regionBias is a ccTLD such as
// "br" that ranks results from that country first.
func NewClient(apiKey, country, regionBias string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) (*Client, error) {
	opts = append([]Option{
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(&http.Client{Timeout: timeout}),
	}, opts...)

	mc, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create google maps client: %w", err)
	}
	return &Client{
		maps:       mc,
		country:    country,
		regionBias: regionBias,
		metrics:    metrics,
		logger:     logger,
	}, nil
}

// Resolve geocodes the query text and returns the location of the first result.
func (c *Client) Resolve(ctx context.Context, q domain.PlaceQuery) (domain.Coordinate, bool, error) {
	start := time.Now()
	coord, found, err := c.geocode(ctx, q.Text(c.country))
	c.metrics.LookupAPIDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	c.metrics.LookupRequests.WithLabelValues(providerName, q.Variant.String(), outcome(found, err)).Inc()

	if err != nil {
		return domain.Coordinate{}, false, err
	}
	if !found {
		c.logger.Debug("google geocoding returned no match", "query", q.Text(c.country))
	}
	return coord, found, nil
}

func (c *Client) geocode(ctx context.Context, address string) (domain.Coordinate, bool, error) {
	results, err := c.maps.Geocode(ctx, &maps.GeocodingRequest{
		Address: address,
		Region:  c.regionBias,
	})
	if err != nil {
		// Depending on the library version an empty answer surfaces as a
		// ZERO_RESULTS status error instead of an empty slice.
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return domain.Coordinate{}, false, nil
		}
		return domain.Coordinate{}, false, fmt.Errorf("google geocode: %w", err)
	}
	if len(results) == 0 {
		return domain.Coordinate{}, false, nil
	}

	loc := results[0].Geometry.Location
	return domain.Coordinate{Lat: loc.Lat, Lon: loc.Lng}, true, nil
}

func outcome(found bool, err error) string {
	switch {
	case err != nil:
		return "error"
	case !found:
		return "not_found"
	default:
		return "found"
	}
}
