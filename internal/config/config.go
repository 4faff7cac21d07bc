// SPDX-License-Identifier: MIT

// Package config provides configuration management for retrogate.
//
// Configuration is resolved in three layers: built-in defaults, an optional
// YAML file, and RETROGATE_*-prefixed environment variables. Later layers
// win.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the gateway.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"logLevel" envconfig:"LOG_LEVEL"`
	DataDir  string `yaml:"dataDir" envconfig:"DATA_DIR"`

	// PublicURL is the base URL clients can reach this gateway under. It is
	// embedded into feed documents as the host part of media and thumbnail
	// locators. Defaults to http://<host>:<port>.
	PublicURL string `yaml:"publicUrl" envconfig:"PUBLIC_URL"`

	Weather WeatherConfig `yaml:"weather"`
	Video   VideoConfig   `yaml:"video"`
	Stocks  StocksConfig  `yaml:"stocks"`
}

// WeatherConfig holds the weather widget domain settings.
type WeatherConfig struct {
	Enabled bool `yaml:"enabled"`
}

// VideoConfig holds the video portal domain settings.
type VideoConfig struct {
	Enabled bool `yaml:"enabled"`

	// APIKey authenticates against the metadata provider. Required when the
	// domain is enabled.
	APIKey string `yaml:"apiKey" envconfig:"API_KEY"`

	// DeviceKey is the fixed key string returned on every device
	// registration. Legacy clients verify its presence, not its value.
	DeviceKey string `yaml:"deviceKey" envconfig:"DEVICE_KEY"`

	// LifetimeDays is the retention lifetime for cached media and
	// thumbnails. Files older than this are removed by the sweeper.
	LifetimeDays int `yaml:"lifetimeDays" envconfig:"LIFETIME_DAYS"`

	// SweepIntervalHours is the period of the retention sweeper loop.
	SweepIntervalHours int `yaml:"sweepIntervalHours" envconfig:"SWEEP_INTERVAL_HOURS"`
}

// StocksConfig holds the stock widget domain settings.
type StocksConfig struct {
	Enabled bool `yaml:"enabled"`
}

const defaultDeviceKey = "ULxlVAAVMhZ2GeqZA/X1GgqEEIP1ibcd3S+42pkWfmk="

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    6571,
		DataDir: "data",
		Weather: WeatherConfig{Enabled: true},
		Video: VideoConfig{
			Enabled:            true,
			DeviceKey:          defaultDeviceKey,
			LifetimeDays:       3,
			SweepIntervalHours: 1,
		},
		Stocks: StocksConfig{Enabled: true},
	}
}

// Load resolves the configuration from defaults, the YAML file at path (if
// path is non-empty and the file exists) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// optional file
		default:
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("retrogate", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks invariants that would otherwise surface as confusing
// runtime failures.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.DataDir == "" {
		return errors.New("dataDir must not be empty")
	}
	if c.Video.Enabled {
		if c.Video.LifetimeDays <= 0 {
			return fmt.Errorf("video.lifetimeDays must be positive, got %d", c.Video.LifetimeDays)
		}
		if c.Video.SweepIntervalHours <= 0 {
			return fmt.Errorf("video.sweepIntervalHours must be positive, got %d", c.Video.SweepIntervalHours)
		}
	}
	return nil
}

// Addr returns the host:port bind address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// BaseURL returns the externally visible base URL without a trailing slash.
func (c *Config) BaseURL() string {
	if c.PublicURL != "" {
		return c.PublicURL
	}
	host := c.Host
	if host == "0.0.0.0" || host == "::" || host == "" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(c.Port))
}

// VideosDir returns the media cache directory.
func (c *Config) VideosDir() string {
	return filepath.Join(c.DataDir, "videos")
}

// ThumbnailsDir returns the derived thumbnail cache directory.
func (c *Config) ThumbnailsDir() string {
	return filepath.Join(c.DataDir, "thumbnails")
}
