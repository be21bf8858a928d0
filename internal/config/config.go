package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const defaultJWTSecret = "dev-secret-change-in-production"

var ErrDefaultSecret = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"development"`

	DatabaseDriver string        `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseDSN    string        `env:"DATABASE_DSN" envDefault:"file:carmarket.db?_pragma=busy_timeout(5000)"`
	StoreTimeout   time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-secret-change-in-production"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"24h"`

	ListingsFreshness time.Duration `env:"LISTINGS_FRESHNESS" envDefault:"30m"`
	ProfileFreshness  time.Duration `env:"PROFILE_FRESHNESS" envDefault:"10m"`
	CacheMaxEntries   int           `env:"CACHE_MAX_ENTRIES" envDefault:"512"`
	FeaturedLimit     int           `env:"FEATURED_LIMIT" envDefault:"6"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// Production reports whether the service runs in the production environment.
func (c Config) Production() bool {
	return c.Env == "production"
}

// Load parses the environment into a Config. Call godotenv.Load first to pick
// up a .env file.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Production() && cfg.JWTSecret == defaultJWTSecret {
		return Config{}, ErrDefaultSecret
	}
	switch cfg.DatabaseDriver {
	case "mysql", "sqlite":
	default:
		return Config{}, fmt.Errorf("DATABASE_DRIVER must be mysql or sqlite, got %q", cfg.DatabaseDriver)
	}
	if cfg.CacheMaxEntries <= 0 {
		return Config{}, fmt.Errorf("CACHE_MAX_ENTRIES must be positive, got %d", cfg.CacheMaxEntries)
	}

	return cfg, nil
}
