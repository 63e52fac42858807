package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/geofix/internal/domain"
	"github.com/couchcryptid/geofix/internal/observability"
)

const (
	providerName   = "mapbox"
	defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"
)

// Client implements domain.PlaceLookup using the Mapbox Geocoding API.
type Client struct {
	token      string
	country    string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox lookup client. country is appended to every
// query text, e.g. "Brasil".
func NewClient(token, country string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		token:   token,
		country: country,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve forward-geocodes the query text and returns the center of the
// best match.
func (c *Client) Resolve(ctx context.Context, q domain.PlaceQuery) (domain.Coordinate, bool, error) {
	u := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(q.Text(c.country)))
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"types":        {"place,locality"},
	}

	start := time.Now()
	coord, found, err := c.doRequest(ctx, u+"?"+params.Encode())
	c.metrics.LookupAPIDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())
	c.metrics.LookupRequests.WithLabelValues(providerName, q.Variant.String(), outcome(found, err)).Inc()

	if err != nil {
		return domain.Coordinate{}, false, err
	}
	if !found {
		c.logger.Debug("mapbox returned no match", "query", q.Text(c.country))
	}
	return coord, found, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.Coordinate, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("mapbox request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.Coordinate{}, false, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		return domain.Coordinate{}, false, fmt.Errorf("decode response: %w", err)
	}

	if len(mapboxResp.Features) == 0 || len(mapboxResp.Features[0].Center) != 2 {
		return domain.Coordinate{}, false, nil
	}

	// Mapbox uses lon,lat order.
	center := mapboxResp.Features[0].Center
	return domain.Coordinate{Lat: center[1], Lon: center[0]}, true, nil
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

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center    []float64 `json:"center"` // [lon, lat]
	PlaceName string    `json:"place_name"`
	Text      string    `json:"text"`
	Relevance float64   `json:"relevance"`
}
