// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 6571, cfg.Port)
	assert.Equal(t, 3, cfg.Video.LifetimeDays)
	assert.Equal(t, 1, cfg.Video.SweepIntervalHours)
	assert.True(t, cfg.Weather.Enabled)
	assert.True(t, cfg.Video.Enabled)
	assert.NotEmpty(t, cfg.Video.DeviceKey)
}

func TestFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 8080
video:
  enabled: true
  apiKey: test-key
  lifetimeDays: 7
  sweepIntervalHours: 2
stocks:
  enabled: false
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "test-key", cfg.Video.APIKey)
	assert.Equal(t, 7, cfg.Video.LifetimeDays)
	assert.Equal(t, 2, cfg.Video.SweepIntervalHours)
	assert.False(t, cfg.Stocks.Enabled)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 8080\n"), 0o600))

	t.Setenv("RETROGATE_PORT", "9000")
	t.Setenv("RETROGATE_VIDEO_API_KEY", "env-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "env-key", cfg.Video.APIKey)
}

func TestMissingFileIsOptional(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Port = 0 }},
		{"huge port", func(c *Config) { c.Port = 70000 }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"zero lifetime", func(c *Config) { c.Video.LifetimeDays = 0 }},
		{"zero sweep interval", func(c *Config) { c.Video.SweepIntervalHours = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestBaseURL(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "http://127.0.0.1:6571", cfg.BaseURL())

	cfg.Host = "192.168.1.10"
	assert.Equal(t, "http://192.168.1.10:6571", cfg.BaseURL())

	cfg.PublicURL = "https://gw.example.net"
	assert.Equal(t, "https://gw.example.net", cfg.BaseURL())
}
