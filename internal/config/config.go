// Package config loads engine configuration from a YAML file with an
// environment-variable overlay. Secrets come only from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported platform values.
const (
	PlatformCloud  = "cloud"
	PlatformOnPrem = "onprem"
)

type Config struct {
	Platform string         `yaml:"platform"`
	Cloud    CloudConfig    `yaml:"cloud"`
	OnPrem   OnPremConfig   `yaml:"onprem"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type CloudConfig struct {
	BaseURL string `yaml:"base_url"`
	// APIKey is never read from the file; set QLIKFOX_API_KEY.
	APIKey string `yaml:"-"`
}

type OnPremConfig struct {
	BaseURL       string `yaml:"base_url"`
	UserDirectory string `yaml:"user_directory"`
	UserID        string `yaml:"user_id"`
}

type DefaultsConfig struct {
	TimeoutSeconds      int `yaml:"timeout_seconds"`
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`
	CrossCheckEvery     int `yaml:"cross_check_every"`
	HistoryLimit        int `yaml:"history_limit"`
	CacheTTLSeconds     int `yaml:"cache_ttl_seconds"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Load reads the YAML file at path (optional), loads envFile through
// godotenv (optional, missing file tolerated), then applies environment
// overrides, defaults, and validation.
func Load(path, envFile string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("load env file %s: %w", envFile, err)
			}
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overlay := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	overlay(&c.Platform, "QLIKFOX_PLATFORM")
	overlay(&c.Cloud.BaseURL, "QLIKFOX_CLOUD_BASE_URL")
	overlay(&c.Cloud.APIKey, "QLIKFOX_API_KEY")
	overlay(&c.OnPrem.BaseURL, "QLIKFOX_ONPREM_BASE_URL")
	overlay(&c.OnPrem.UserDirectory, "QLIKFOX_ONPREM_USER_DIRECTORY")
	overlay(&c.OnPrem.UserID, "QLIKFOX_ONPREM_USER_ID")
	overlay(&c.Logging.Level, "QLIKFOX_LOG_LEVEL")
	overlay(&c.Logging.Format, "QLIKFOX_LOG_FORMAT")
}

func (c *Config) applyDefaults() {
	if c.Platform == "" {
		c.Platform = PlatformCloud
	}
	if c.Defaults.TimeoutSeconds <= 0 {
		c.Defaults.TimeoutSeconds = 300
	}
	if c.Defaults.PollIntervalSeconds <= 0 {
		c.Defaults.PollIntervalSeconds = 2
	}
	if c.Defaults.CrossCheckEvery <= 0 {
		c.Defaults.CrossCheckEvery = 5
	}
	if c.Defaults.HistoryLimit <= 0 {
		c.Defaults.HistoryLimit = 50
	}
	if c.Defaults.CacheTTLSeconds < 0 {
		c.Defaults.CacheTTLSeconds = 0
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

func (c *Config) Validate() error {
	switch c.Platform {
	case PlatformCloud:
		if c.Cloud.BaseURL == "" {
			return fmt.Errorf("cloud.base_url is required (or QLIKFOX_CLOUD_BASE_URL)")
		}
	case PlatformOnPrem:
		if c.OnPrem.BaseURL == "" {
			return fmt.Errorf("onprem.base_url is required (or QLIKFOX_ONPREM_BASE_URL)")
		}
	default:
		return fmt.Errorf("platform must be %q or %q, got %q", PlatformCloud, PlatformOnPrem, c.Platform)
	}
	return nil
}
