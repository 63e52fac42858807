// Package nominatim resolves place names through an OpenStreetMap Nominatim
// search endpoint.
package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/geofix/internal/domain"
	"github.com/couchcryptid/geofix/internal/observability"
)

const (
	providerName = "nominatim"

	// DefaultBaseURL is the public OpenStreetMap instance. Its usage policy
	// requires an identifying User-Agent and at most one request per second.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"
)

// Client implements domain.PlaceLookup against a Nominatim /search endpoint.
type Client struct {
	baseURL    string
	userAgent  string
	country    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim client. An empty baseURL selects the public instance.
func NewClient(baseURL, userAgent, country string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		country:   country,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve searches for the query text and returns the first hit.
func (c *Client) Resolve(ctx context.Context, q domain.PlaceQuery) (domain.Coordinate, bool, error) {
	params := url.Values{
		"q":      {q.Text(c.country)},
		"format": {"jsonv2"},
		"limit":  {"1"},
	}

	start := time.Now()
	coord, found, err := c.search(ctx, c.baseURL+"/search?"+params.Encode())
	c.metrics.LookupAPIDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	c.metrics.LookupRequests.WithLabelValues(providerName, q.Variant.String(), outcome(found, err)).Inc()

	if err != nil {
		return domain.Coordinate{}, false, err
	}
	if !found {
		c.logger.Debug("nominatim returned no match", "query", q.Text(c.country))
	}
	return coord, found, nil
}

func (c *Client) search(ctx context.Context, fullURL string) (domain.Coordinate, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.Coordinate{}, false, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("decode response: %w", err)
	}
	if len(places) == 0 {
		return domain.Coordinate{}, false, nil
	}

	// Nominatim returns coordinates as decimal strings.
	lat, err1 := strconv.ParseFloat(places[0].Lat, 64)
	lon, err2 := strconv.ParseFloat(places[0].Lon, 64)
	if err := errors.Join(err1, err2); err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("decode coordinates: %w", err)
	}
	return domain.Coordinate{Lat: lat, Lon: lon}, true, nil
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

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	Type        string `json:"type"`
}
