package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/geofix/internal/domain"
)

const (
	defaultBroker   = "localhost:9092"
	testMapboxToken = "pk.test-token"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.InputPath)
	assert.Empty(t, cfg.InputSheet)
	assert.Equal(t, "br.json", cfg.BoundariesPath)
	assert.Equal(t, "corrected.json", cfg.OutputPath)
	assert.Empty(t, cfg.GeoJSONPath)
	assert.Equal(t, "rejected.csv", cfg.RejectedPath)
	assert.Empty(t, cfg.OverridesPath)
	assert.Equal(t, "BR", cfg.RegionPrefix)
	assert.Equal(t, "pt", cfg.CoordLanguage)
	assert.Equal(t, domain.UnmarkedNegative, cfg.UnmarkedPolicy)
	assert.Equal(t, domain.BrazilBounds, cfg.Bounds)
	assert.Equal(t, ProviderNone, cfg.LookupProvider)
	assert.Equal(t, "Brasil", cfg.LookupCountry)
	assert.Equal(t, time.Second, cfg.LookupMinInterval)
	assert.Equal(t, 5*time.Second, cfg.LookupTimeout)
	assert.Equal(t, 0, cfg.LookupCacheSize)
	assert.Equal(t, "br", cfg.LookupRegionBias)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 720*time.Hour, cfg.RedisTTL)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "corrected-locations", cfg.KafkaSinkTopic)
	assert.Empty(t, cfg.KafkaRejectedTopic)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Empty(t, cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("INPUT_PATH", "apolices.xlsx")
	t.Setenv("INPUT_SHEET", "RANDOM")
	t.Setenv("BOUNDARIES_PATH", "uf.json")
	t.Setenv("OUTPUT_PATH", "out.json")
	t.Setenv("GEOJSON_PATH", "out.geojson")
	t.Setenv("REJECTED_PATH", "drop.csv")
	t.Setenv("OVERRIDES_PATH", "manual.json")
	t.Setenv("REGION_PREFIX", "AR")
	t.Setenv("COORD_LANGUAGE", "en")
	t.Setenv("COORD_UNMARKED_POLICY", "keep")
	t.Setenv("BOUNDS", "-10, 10, -20, 20")
	t.Setenv("LOOKUP_PROVIDER", "Mapbox")
	t.Setenv("LOOKUP_COUNTRY", "Argentina")
	t.Setenv("LOOKUP_MIN_INTERVAL", "0s")
	t.Setenv("LOOKUP_TIMEOUT", "2s")
	t.Setenv("LOOKUP_CACHE_SIZE", "500")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_TTL", "1h")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_REJECTED_TOPIC", "custom-rejected")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "apolices.xlsx", cfg.InputPath)
	assert.Equal(t, "RANDOM", cfg.InputSheet)
	assert.Equal(t, "uf.json", cfg.BoundariesPath)
	assert.Equal(t, "out.json", cfg.OutputPath)
	assert.Equal(t, "out.geojson", cfg.GeoJSONPath)
	assert.Equal(t, "drop.csv", cfg.RejectedPath)
	assert.Equal(t, "manual.json", cfg.OverridesPath)
	assert.Equal(t, "AR", cfg.RegionPrefix)
	assert.Equal(t, "en", cfg.CoordLanguage)
	assert.Equal(t, domain.UnmarkedKeep, cfg.UnmarkedPolicy)
	assert.Equal(t, domain.Bounds{MinLat: -10, MaxLat: 10, MinLon: -20, MaxLon: 20}, cfg.Bounds)
	assert.Equal(t, ProviderMapbox, cfg.LookupProvider)
	assert.Equal(t, "Argentina", cfg.LookupCountry)
	assert.Equal(t, time.Duration(0), cfg.LookupMinInterval)
	assert.Equal(t, 2*time.Second, cfg.LookupTimeout)
	assert.Equal(t, 500, cfg.LookupCacheSize)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, time.Hour, cfg.RedisTTL)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-rejected", cfg.KafkaRejectedTopic)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"shutdown timeout", "SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"negative shutdown timeout", "SHUTDOWN_TIMEOUT", "-1s"},
		{"batch size zero", "BATCH_SIZE", "0"},
		{"batch size too large", "BATCH_SIZE", "9999"},
		{"min interval", "LOOKUP_MIN_INTERVAL", "soon"},
		{"zero lookup timeout", "LOOKUP_TIMEOUT", "0s"},
		{"redis ttl", "REDIS_TTL", "-1h"},
		{"cache size", "LOOKUP_CACHE_SIZE", "-5"},
		{"redis db", "REDIS_DB", "zero"},
		{"unmarked policy", "COORD_UNMARKED_POLICY", "positive"},
		{"language", "COORD_LANGUAGE", "fr"},
		{"bounds", "BOUNDS", "1,2,3"},
		{"provider", "LOOKUP_PROVIDER", "bing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_ProviderCredentials(t *testing.T) {
	t.Run("mapbox without token", func(t *testing.T) {
		t.Setenv("LOOKUP_PROVIDER", "mapbox")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
	})
	t.Run("google without key", func(t *testing.T) {
		t.Setenv("LOOKUP_PROVIDER", "google")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GOOGLE_MAPS_API_KEY")
	})
	t.Run("nominatim needs nothing", func(t *testing.T) {
		t.Setenv("LOOKUP_PROVIDER", "nominatim")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ProviderNominatim, cfg.LookupProvider)
	})
}

func TestValidateRun(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	err = cfg.ValidateRun()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INPUT_PATH")

	cfg.InputPath = "apolices.xlsx"
	require.NoError(t, cfg.ValidateRun())

	cfg.OutputPath = ""
	require.Error(t, cfg.ValidateRun())
}
