package config

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv removes keys for the duration of the test.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	unsetenv(t, "TACTICS_DB_PATH", "TACTICS_LOG_LEVEL", "TACTICS_WORKERS",
		"TACTICS_PROVIDER_URL", "TACTICS_PROVIDER_TIMEOUT",
		"TACTICS_ANTHROPIC_MODEL", "TACTICS_ANTHROPIC_API_KEY")
	t.Setenv("ANTHROPIC_API_KEY", "sdk-key")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, DefaultDBPath(), cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 30*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.AnthropicModel)
	assert.Equal(t, "sdk-key", cfg.AnthropicAPIKey)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("TACTICS_DB_PATH", "/tmp/x.db")
	t.Setenv("TACTICS_LOG_LEVEL", "debug")
	t.Setenv("TACTICS_WORKERS", "8")
	t.Setenv("TACTICS_PROVIDER_URL", "https://example.org/api")
	t.Setenv("TACTICS_PROVIDER_TIMEOUT", "5s")
	t.Setenv("TACTICS_ANTHROPIC_API_KEY", "own-key")
	t.Setenv("ANTHROPIC_API_KEY", "sdk-key")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "https://example.org/api", cfg.ProviderBaseURL)
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, "own-key", cfg.AnthropicAPIKey)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"level":   {"TACTICS_LOG_LEVEL", "loud"},
		"workers": {"TACTICS_WORKERS", "0"},
		"url":     {"TACTICS_PROVIDER_URL", "not a url"},
		"parse":   {"TACTICS_WORKERS", "many"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load(zerolog.Nop())
			assert.Error(t, err)
		})
	}
}
