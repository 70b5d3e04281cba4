// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config holds everything cmd/server needs at startup.
type Config struct {
	Addr            string        `env:"LATEPIZZA_ADDR"             envDefault:":8080"`
	Store           string        `env:"LATEPIZZA_STORE"            envDefault:"sqlite"`
	DBPath          string        `env:"LATEPIZZA_DB_PATH"          envDefault:"./data/latepizza.db"`
	JWTSecret       string        `env:"LATEPIZZA_JWT_SECRET,required,notEmpty"`
	TokenTTL        time.Duration `env:"LATEPIZZA_TOKEN_TTL"        envDefault:"24h"`
	VerifyTokenTTL  time.Duration `env:"LATEPIZZA_VERIFY_TOKEN_TTL" envDefault:"24h"`
	RateLimit       float64       `env:"LATEPIZZA_RATE_LIMIT"       envDefault:"5"`
	RateBurst       int           `env:"LATEPIZZA_RATE_BURST"       envDefault:"20"`
	CORSOrigins     []string      `env:"LATEPIZZA_CORS_ORIGINS"     envDefault:"*" envSeparator:","`
	ShutdownTimeout time.Duration `env:"LATEPIZZA_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c Config) Validate() error {
	switch c.Store {
	case StoreSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("LATEPIZZA_DB_PATH is required for the sqlite store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("LATEPIZZA_STORE must be %q or %q, got %q", StoreSQLite, StoreMemory, c.Store)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("LATEPIZZA_TOKEN_TTL must be positive")
	}
	if c.VerifyTokenTTL <= 0 {
		return fmt.Errorf("LATEPIZZA_VERIFY_TOKEN_TTL must be positive")
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("LATEPIZZA_RATE_LIMIT and LATEPIZZA_RATE_BURST must be positive")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	return nil
}
