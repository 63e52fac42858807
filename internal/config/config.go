package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/geofix/internal/domain"
)

// Lookup provider names accepted by LOOKUP_PROVIDER.
const (
	ProviderNone      = "none"
	ProviderNominatim = "nominatim"
	ProviderMapbox    = "mapbox"
	ProviderGoogle    = "google"
)

// Config holds all settings, populated from environment variables.
type Config struct {
	InputPath      string
	InputSheet     string
	BoundariesPath string
	OutputPath     string
	GeoJSONPath    string
	RejectedPath   string
	OverridesPath  string
	RegionPrefix   string

	CoordLanguage  string
	UnmarkedPolicy domain.UnmarkedPolicy
	Bounds         domain.Bounds

	// Place lookup configuration.
	LookupProvider    string
	LookupCountry     string
	LookupMinInterval time.Duration
	LookupTimeout     time.Duration
	LookupCacheSize   int
	LookupUserAgent   string
	LookupRegionBias  string
	NominatimURL      string
	MapboxToken       string
	GoogleMapsAPIKey  string

	// Optional Redis tier behind the in-memory lookup cache.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSinkTopic     string
	KafkaRejectedTopic string
	BatchSize          int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	minInterval, err := parseDuration("LOOKUP_MIN_INTERVAL", "1s", true)
	if err != nil {
		return nil, err
	}
	lookupTimeout, err := parseDuration("LOOKUP_TIMEOUT", "5s", false)
	if err != nil {
		return nil, err
	}
	redisTTL, err := parseDuration("REDIS_TTL", "720h", true)
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseNonNegative("LOOKUP_CACHE_SIZE", 0)
	if err != nil {
		return nil, err
	}
	redisDB, err := parseNonNegative("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	policy, err := domain.ParseUnmarkedPolicy(sharedcfg.EnvOrDefault("COORD_UNMARKED_POLICY", "negative"))
	if err != nil {
		return nil, fmt.Errorf("invalid COORD_UNMARKED_POLICY: %w", err)
	}
	language := sharedcfg.EnvOrDefault("COORD_LANGUAGE", "pt")
	if _, err := domain.HemisphereWordsFor(language); err != nil {
		return nil, fmt.Errorf("invalid COORD_LANGUAGE: %w", err)
	}

	bounds := domain.BrazilBounds
	if s := os.Getenv("BOUNDS"); s != "" {
		if bounds, err = domain.ParseBounds(s); err != nil {
			return nil, fmt.Errorf("invalid BOUNDS: %w", err)
		}
	}

	cfg := &Config{
		InputPath:      os.Getenv("INPUT_PATH"),
		InputSheet:     os.Getenv("INPUT_SHEET"),
		BoundariesPath: sharedcfg.EnvOrDefault("BOUNDARIES_PATH", "br.json"),
		OutputPath:     sharedcfg.EnvOrDefault("OUTPUT_PATH", "corrected.json"),
		GeoJSONPath:    os.Getenv("GEOJSON_PATH"),
		RejectedPath:   sharedcfg.EnvOrDefault("REJECTED_PATH", "rejected.csv"),
		OverridesPath:  os.Getenv("OVERRIDES_PATH"),
		RegionPrefix:   sharedcfg.EnvOrDefault("REGION_PREFIX", "BR"),

		CoordLanguage:  language,
		UnmarkedPolicy: policy,
		Bounds:         bounds,

		LookupProvider:    strings.ToLower(sharedcfg.EnvOrDefault("LOOKUP_PROVIDER", ProviderNone)),
		LookupCountry:     sharedcfg.EnvOrDefault("LOOKUP_COUNTRY", "Brasil"),
		LookupMinInterval: minInterval,
		LookupTimeout:     lookupTimeout,
		LookupCacheSize:   cacheSize,
		LookupUserAgent:   sharedcfg.EnvOrDefault("LOOKUP_USER_AGENT", "geofix/1.0"),
		LookupRegionBias:  sharedcfg.EnvOrDefault("LOOKUP_REGION_BIAS", "br"),
		NominatimURL:      os.Getenv("NOMINATIM_URL"),
		MapboxToken:       os.Getenv("MAPBOX_TOKEN"),
		GoogleMapsAPIKey:  os.Getenv("GOOGLE_MAPS_API_KEY"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		RedisTTL:      redisTTL,

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "corrected-locations"),
		KafkaRejectedTopic: os.Getenv("KAFKA_REJECTED_TOPIC"),
		BatchSize:          batchSize,

		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	switch cfg.LookupProvider {
	case ProviderNone, ProviderNominatim:
	case ProviderMapbox:
		if cfg.MapboxToken == "" {
			return nil, errors.New("LOOKUP_PROVIDER is mapbox but MAPBOX_TOKEN is not set")
		}
	case ProviderGoogle:
		if cfg.GoogleMapsAPIKey == "" {
			return nil, errors.New("LOOKUP_PROVIDER is google but GOOGLE_MAPS_API_KEY is not set")
		}
	default:
		return nil, fmt.Errorf("invalid LOOKUP_PROVIDER %q", cfg.LookupProvider)
	}
	if cfg.BoundariesPath == "" {
		return nil, errors.New("BOUNDARIES_PATH is required")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}

	return cfg, nil
}

// ValidateRun checks the settings only a correction run needs.
func (c *Config) ValidateRun() error {
	if c.InputPath == "" {
		return errors.New("INPUT_PATH is required")
	}
	if c.OutputPath == "" {
		return errors.New("OUTPUT_PATH is required")
	}
	return nil
}

func parseDuration(key, def string, allowZero bool) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseNonNegative(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
