package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/fskit/internal/config"
)

// TestDefault tests the built-in defaults
func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "8090", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "/var/lib/fskit", cfg.Storage.Root)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.RateLimit.Enabled)
}

// TestLoadFromEnv tests that FSKIT_ variables override defaults
func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FSKIT_PORT", "9999")
	t.Setenv("FSKIT_STORAGE_ROOT", "/tmp/fskit-test")
	t.Setenv("FSKIT_LOG_LEVEL", "debug")
	t.Setenv("FSKIT_RATE_LIMIT_ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "/tmp/fskit-test", cfg.Storage.Root)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.RateLimit.Enabled)
}

// TestLoadDefaultsWithoutEnv tests that Load falls back to struct defaults
func TestLoadDefaultsWithoutEnv(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8090", cfg.Server.Port)
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
}

// TestLoadOrDefault tests the non-failing loader
func TestLoadOrDefault(t *testing.T) {
	cfg := config.LoadOrDefault()
	require.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.Server.Port)
}
