// Package config loads tactics settings from the environment. A .env file in
// the working directory is read first when present; variables already set
// in the environment win over it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// Prefix is prepended to every variable name, e.g. TACTICS_DB_PATH.
const Prefix = "TACTICS"

// Config holds all runtime settings.
type Config struct {
	DBPath   string `envconfig:"DB_PATH"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn error"`
	Workers  int    `envconfig:"WORKERS" default:"4" validate:"min=1,max=64"`

	ProviderBaseURL string        `envconfig:"PROVIDER_URL" validate:"omitempty,url"`
	ProviderAPIKey  string        `envconfig:"PROVIDER_API_KEY"`
	ProviderTimeout time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"30s" validate:"gt=0"`

	AnthropicModel  string `envconfig:"ANTHROPIC_MODEL" default:"claude-haiku-4-5-20251001"`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
}

// DefaultDBPath is ~/.tactics/matches.db, or ./matches.db without a home
// directory.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "matches.db"
	}
	return filepath.Join(home, ".tactics", "matches.db")
}

// Load reads the configuration and validates it.
func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	// The SDK's own variable is honored so existing setups keep working.
	if cfg.AnthropicAPIKey == "" {
		cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	logger.Debug().
		Str("db_path", cfg.DBPath).
		Str("log_level", cfg.LogLevel).
		Int("workers", cfg.Workers).
		Str("provider_url", cfg.ProviderBaseURL).
		Dur("provider_timeout", cfg.ProviderTimeout).
		Str("anthropic_model", cfg.AnthropicModel).
		Msg("configuration loaded")

	return &cfg, nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validate.Struct(c)
}
