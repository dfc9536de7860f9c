// Package config centralizes all application configuration into typed
// structs. Defaults are loaded first, then overridden by GIGMAP_-prefixed
// environment variables (GIGMAP_SERVER_PORT, GIGMAP_CACHE_TTL, ...), and the
// merged result is validated before the server starts.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"gigmap/internal/logging"
)

// envPrefix namespaces the environment variables read by Load.
const envPrefix = "GIGMAP_"

// Config is the top-level configuration container.
type Config struct {
	Server  ServerConfig   `koanf:"server"`
	Index   ServiceConfig  `koanf:"index"`
	Enrich  ServiceConfig  `koanf:"enrich"`
	Cache   CacheConfig    `koanf:"cache"`
	Geo     GeoConfig      `koanf:"geo"`
	Map     MapConfig      `koanf:"map"`
	Logging logging.Config `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"readtimeout" validate:"gt=0"`
	WriteTimeout time.Duration `koanf:"writetimeout" validate:"gt=0"`
}

// ServiceConfig points at one of the external backends. Every call against
// the backend is bounded by Timeout; a timed-out call resolves with a
// distinct timeout error rather than hanging.
type ServiceConfig struct {
	BaseURL string        `koanf:"baseurl" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`
}

// CacheConfig controls the read-through cache: TTL bounds staleness, and
// GCWindow evicts entries unused since their last read.
type CacheConfig struct {
	TTL      time.Duration `koanf:"ttl" validate:"gt=0"`
	GCWindow time.Duration `koanf:"gcwindow" validate:"gt=0"`
}

// GeoConfig controls geohash encoding precision. Precision 7 yields ~150 m
// city-block-scale cells; the 3x3 tiling then covers roughly 450 m x 450 m.
type GeoConfig struct {
	GeohashPrecision int `koanf:"precision" validate:"min=1,max=12"`
}

// MapConfig holds the fixed default center used when no device location is
// available, and the default list-view radius.
type MapConfig struct {
	DefaultLat  float64 `koanf:"lat" validate:"min=-90,max=90"`
	DefaultLng  float64 `koanf:"lng" validate:"min=-180,max=180"`
	RadiusMiles float64 `koanf:"radius" validate:"gte=0"`
}

// Default returns a Config populated with sensible defaults. Birmingham
// city centre is the fallback map center.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Index: ServiceConfig{
			BaseURL: "http://127.0.0.1:7070",
			Timeout: 5 * time.Second,
		},
		Enrich: ServiceConfig{
			BaseURL: "http://127.0.0.1:7071",
			Timeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			TTL:      2 * time.Minute,
			GCWindow: 15 * time.Minute,
		},
		Geo: GeoConfig{
			GeohashPrecision: 7,
		},
		Map: MapConfig{
			DefaultLat:  52.4797,
			DefaultLng:  -1.9026,
			RadiusMiles: 25,
		},
		Logging: logging.Config{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load layers environment variables over the defaults and validates the
// result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// GIGMAP_CACHE_TTL -> cache.ttl, GIGMAP_INDEX_BASEURL -> index.baseurl
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the struct-level constraints declared in the validate
// tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
