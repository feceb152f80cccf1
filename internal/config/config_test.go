package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 0.70, cfg.PassThreshold)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.False(t, cfg.BasicAuthEnabled())
	assert.Equal(t, 0.70, cfg.Policy().PassThreshold)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "agentready.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: 3s\nconcurrency: 8\npass_threshold: 0.8\nuser_agent: file-agent\n"), 0o600))

	t.Setenv("AGENTREADY_CONCURRENCY", "2")
	t.Setenv("AGENTREADY_CACHE_TTL", "5m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, 0.8, cfg.PassThreshold)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "file-agent", cfg.FetchOptions().UserAgent)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BASIC_AUTH_USER=admin\nBASIC_AUTH_PASS=secret\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.BasicAuthEnabled())
	assert.Equal(t, "admin", cfg.BasicAuthUser)
}

func TestFetchAndAPIRateLimitsAreIndependent(t *testing.T) {
	chdirTemp(t)
	t.Setenv("AGENTREADY_RATE_LIMIT", "2")
	t.Setenv("AGENTREADY_API_RATE_LIMIT", "50")
	t.Setenv("AGENTREADY_API_RATE_BURST", "10")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2.0, cfg.FetchOptions().RateLimit)
	assert.Equal(t, 1, cfg.FetchOptions().RateBurst)
	assert.Equal(t, 50.0, cfg.APIRateLimit)
	assert.Equal(t, 10, cfg.APIRateBurst)
}

func TestLoadMissingFile(t *testing.T) {
	chdirTemp(t)
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{Timeout: time.Second, Concurrency: 1, PassThreshold: 0.7}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
		{"threshold above one", func(c *Config) { c.PassThreshold = 1.1 }},
		{"negative rate", func(c *Config) { c.RateLimit = -1 }},
		{"negative api rate", func(c *Config) { c.APIRateLimit = -1 }},
		{"half basic auth", func(c *Config) { c.BasicAuthUser = "admin" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
