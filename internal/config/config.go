package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DBPath   string `envconfig:"ADALENS_DB_PATH" default:"./data/adalens.sqlite"`
	Port     int    `envconfig:"ADALENS_PORT" default:"8080"`
	LogLevel string `envconfig:"ADALENS_LOG_LEVEL" default:"info"`
	LogDir   string `envconfig:"ADALENS_LOG_DIR" default:"./logs"`

	// CheckTimeoutMs is the default per-provider budget for one reward check.
	CheckTimeoutMs int `envconfig:"ADALENS_CHECK_TIMEOUT_MS" default:"10000"`

	// RelayBase is the CORS relay prefix for providers whose origin blocks
	// direct browser calls. Empty disables relaying.
	RelayBase string `envconfig:"ADALENS_RELAY_BASE" default:"https://api.allorigins.win/get?url="`

	// Provider endpoint overrides (primarily for testing against fakes).
	TosiDropURL  string `envconfig:"ADALENS_TOSIDROP_URL" default:"https://api.tosidrop.io/v1"`
	SundaeURL    string `envconfig:"ADALENS_SUNDAE_URL" default:"https://stats.sundaeswap.finance/api/v1"`
	DripDropzURL string `envconfig:"ADALENS_DRIPDROPZ_URL" default:"https://api.dripdropz.io/v2"`
	KoiosURL     string `envconfig:"ADALENS_KOIOS_URL" default:"https://api.koios.rest/api/v1"`
	MinswapURL   string `envconfig:"ADALENS_MINSWAP_URL" default:"https://graphql.minswap.org"`
}

// Load reads configuration from .env file (if present) then from environment variables.
// Environment variables override .env values.
func Load() (*Config, error) {
	// godotenv does NOT override already-set env vars, so real environment
	// variables take precedence over .env values.
	envFiles := []string{".env"}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				slog.Warn("failed to load .env file", "file", f, "error", err)
			} else {
				slog.Info("loaded .env file", "file", f)
			}
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: port must be 1-65535, got %d", ErrInvalidConfig, c.Port)
	}
	if c.CheckTimeoutMs < MinCheckTimeoutMs {
		return fmt.Errorf("%w: check timeout must be >= %dms, got %d", ErrInvalidConfig, MinCheckTimeoutMs, c.CheckTimeoutMs)
	}
	return nil
}
