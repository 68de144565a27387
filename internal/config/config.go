package config

import (
	"errors"
	"fmt"
	"lawn-route-service/internal/domain"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the service.
// Values come from defaults, then an optional YAML file named by CONFIG_FILE,
// then environment variables.
type Config struct {
	Port        string `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`
	SeedPath    string `yaml:"seed_path"`

	ORSAPIKey       string        `yaml:"ors_api_key"`
	ORSBaseURL      string        `yaml:"ors_base_url"`
	GeocodeRPS      float64       `yaml:"geocode_rps"`
	GeocodeCacheTTL time.Duration `yaml:"geocode_cache_ttl"`

	GroupThresholdMeters float64  `yaml:"group_threshold_meters"`
	RoadBonus            float64  `yaml:"road_bonus"`
	DepotLat             *float64 `yaml:"depot_lat"`
	DepotLon             *float64 `yaml:"depot_lon"`
	MaxClients           int      `yaml:"max_clients"`
}

func Default() Config {
	return Config{
		Port:                 "8080",
		SeedPath:             "data/seeds/clients.json",
		ORSBaseURL:           "https://api.openrouteservice.org",
		GeocodeRPS:           1.5,
		GeocodeCacheTTL:      30 * 24 * time.Hour,
		GroupThresholdMeters: 150,
		RoadBonus:            0.25,
		MaxClients:           2000,
	}
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load builds the configuration and validates it.
func Load() (Config, error) {
	cfg := Default()

	if path := Get("CONFIG_FILE", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, fmt.Errorf("load config: %w", err)
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %q: %w", path, err)
	}

	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse %q: %w", path, err)
	}

	return nil
}

func (c *Config) loadEnv() error {
	c.Port = Get("PORT", c.Port)
	c.DatabaseURL = Get("DATABASE_URL", c.DatabaseURL)
	c.RedisURL = Get("REDIS_URL", c.RedisURL)
	c.SeedPath = Get("SEED_PATH", c.SeedPath)
	c.ORSAPIKey = Get("ORS_API_KEY", c.ORSAPIKey)
	c.ORSBaseURL = Get("ORS_BASE_URL", c.ORSBaseURL)

	var errs []error
	floatEnv := func(key string, dst *float64) {
		v := Get(key, "")
		if v == "" {
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = f
	}
	optionalFloatEnv := func(key string, dst **float64) {
		if Get(key, "") == "" {
			return
		}
		var f float64
		floatEnv(key, &f)
		*dst = &f
	}

	floatEnv("GEOCODE_RPS", &c.GeocodeRPS)
	floatEnv("GROUP_THRESHOLD_METERS", &c.GroupThresholdMeters)
	floatEnv("ROAD_BONUS", &c.RoadBonus)
	optionalFloatEnv("DEPOT_LAT", &c.DepotLat)
	optionalFloatEnv("DEPOT_LON", &c.DepotLon)

	if v := Get("GEOCODE_CACHE_TTL", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("GEOCODE_CACHE_TTL: %w", err))
		} else {
			c.GeocodeCacheTTL = d
		}
	}

	if v := Get("MAX_CLIENTS", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("MAX_CLIENTS: %w", err))
		} else {
			c.MaxClients = n
		}
	}

	return errors.Join(errs...)
}

// Validate reports every unusable setting at once.
func (c Config) Validate() error {
	var errs []error

	if t := c.GroupThresholdMeters; math.IsNaN(t) || math.IsInf(t, 0) || t <= 0 {
		errs = append(errs, fmt.Errorf("group_threshold_meters must be positive, got %v", t))
	}
	if b := c.RoadBonus; math.IsNaN(b) || b < 0 || b >= 1 {
		errs = append(errs, fmt.Errorf("road_bonus must be in [0, 1), got %v", b))
	}
	if c.MaxClients <= 0 {
		errs = append(errs, fmt.Errorf("max_clients must be positive, got %d", c.MaxClients))
	}
	if c.GeocodeCacheTTL < 0 {
		errs = append(errs, fmt.Errorf("geocode_cache_ttl must not be negative, got %s", c.GeocodeCacheTTL))
	}

	if (c.DepotLat == nil) != (c.DepotLon == nil) {
		errs = append(errs, errors.New("depot_lat and depot_lon must be set together"))
	} else if d := c.Depot(); d != nil && !d.Valid() {
		errs = append(errs, fmt.Errorf("depot (%v, %v) is out of range", d.Lat, d.Lon))
	}

	return errors.Join(errs...)
}

// Depot returns the configured default depot, or nil when none is set.
func (c Config) Depot() *domain.Coordinates {
	if c.DepotLat == nil || c.DepotLon == nil {
		return nil
	}
	return &domain.Coordinates{Lat: *c.DepotLat, Lon: *c.DepotLon}
}
