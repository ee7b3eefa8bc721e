package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Batch.Workers)
	assert.Equal(t, 30000, cfg.Enrich.TimeoutMS)
	assert.Equal(t, 30*time.Second, cfg.Enrich.Timeout())
	assert.Equal(t, 90, cfg.Cache.TTLDays)
	assert.Equal(t, 90*24*time.Hour, cfg.Cache.TTL())
	assert.Equal(t, "https://api.connector-os.com", cfg.Providers.SSM.BaseURL)
	assert.Equal(t, "https://api.apollo.io", cfg.Providers.Apollo.BaseURL)
	assert.Equal(t, "https://api.anymailfinder.com", cfg.Providers.Anymail.BaseURL)

	assert.False(t, cfg.Providers.SSM.Configured())
	assert.False(t, cfg.Providers.Apollo.Configured())
}

func TestLoadFromYAML(t *testing.T) {
	chdirTemp(t)

	yaml := `
providers:
  apollo:
    key: test-apollo-key
  anymail:
    key: test-anymail-key
    rps: 1.5
log:
  level: debug
  format: console
batch:
  workers: 5
cache:
  path: /tmp/test_cache.json
  ttl_days: 30
`
	require.NoError(t, os.WriteFile("config.yaml", []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-apollo-key", cfg.Providers.Apollo.Key)
	assert.True(t, cfg.Providers.Apollo.Configured())
	assert.InDelta(t, 1.5, cfg.Providers.Anymail.RPS, 0.001)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 5, cfg.Batch.Workers)
	assert.Equal(t, "/tmp/test_cache.json", cfg.Cache.Path)
	assert.Equal(t, 30, cfg.Cache.TTLDays)

	// Defaults survive partial files.
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFromEnv(t *testing.T) {
	chdirTemp(t)

	t.Setenv("SIGNALIS_LOG_LEVEL", "warn")
	t.Setenv("SIGNALIS_BATCH_WORKERS", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 7, cfg.Batch.Workers)
}

func TestLoadMalformedYAML(t *testing.T) {
	chdirTemp(t)
	require.NoError(t, os.WriteFile("config.yaml", []byte("providers: [not a map"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))

	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))
	assert.False(t, zap.L().Core().Enabled(zap.InfoLevel))
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouty", Format: "json"})
	assert.Error(t, err)
}
