package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8081", cfg.Upstream.BaseURL)
	assert.Equal(t, 60, cfg.Cache.ListStaleAfter)
	assert.Equal(t, 1800, cfg.Cache.ReferenceTTL)
	assert.Equal(t, 500, cfg.Cache.SearchDebounce)
	assert.True(t, cfg.Polling.Enabled)
	assert.Equal(t, 45, cfg.Polling.BoardInterval)
	assert.Equal(t, "/metrics", cfg.Monitoring.MetricsPath)
	assert.Equal(t, "/healthz", cfg.Monitoring.HealthPath)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadHonorsEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("HMS_API_URL", "https://api.hospital.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://api.hospital.example", cfg.Upstream.BaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadIgnoresMalformedPortOverride(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing upstream URL", func(c *Config) { c.Upstream.BaseURL = "" }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"zero reference TTL", func(c *Config) { c.Cache.ReferenceTTL = 0 }},
		{"polling enabled without interval", func(c *Config) {
			c.Polling.Enabled = true
			c.Polling.BoardInterval = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				Server:   ServerConfig{Port: 8080},
				Upstream: UpstreamConfig{BaseURL: "http://localhost:8081"},
				Cache:    CacheConfig{ReferenceTTL: 1800},
				Polling:  PollingConfig{Enabled: true, BoardInterval: 45},
			}
			tt.mutate(&cfg)
			assert.Error(t, validate(&cfg))
		})
	}
}

func TestDurationHelpers(t *testing.T) {
	cache := CacheConfig{ListStaleAfter: 60, ReferenceTTL: 1800, SearchDebounce: 500}
	assert.Equal(t, "1m0s", cache.ListStaleAfterDuration().String())
	assert.Equal(t, "30m0s", cache.ReferenceTTLDuration().String())
	assert.Equal(t, "500ms", cache.SearchDebounceDuration().String())

	polling := PollingConfig{BoardInterval: 45}
	assert.Equal(t, "45s", polling.BoardIntervalDuration().String())
}
