// Package config reads and writes the persisted application settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when config.yaml is absent or a field is empty.
const (
	DefaultAPIBaseURL      = "https://api.modrinth.com/v2"
	DefaultUserAgent       = "modrith/1.0"
	DefaultSearchLimit     = 10
	DefaultSearchTimeout   = 10 * time.Second
	DefaultDownloadWorkers = 4
)

// Config holds global application settings stored in config.yaml under the
// data directory.
type Config struct {
	APIBaseURL       string        `yaml:"api_base_url"`
	UserAgent        string        `yaml:"user_agent"`
	SearchLimit      int           `yaml:"search_limit"`
	SearchTimeout    time.Duration `yaml:"-"`
	SearchTimeoutStr string        `yaml:"search_timeout"`
	DownloadWorkers  int           `yaml:"download_workers"`
	BackupExcludes   []string      `yaml:"backup_excludes"`
	LogLevel         string        `yaml:"log_level"`
}

// Load reads configuration from the given directory, returning defaults
// when no config file exists.
func Load(dataDir string) (*Config, error) {
	cfg := &Config{
		APIBaseURL:      DefaultAPIBaseURL,
		UserAgent:       DefaultUserAgent,
		SearchLimit:     DefaultSearchLimit,
		SearchTimeout:   DefaultSearchTimeout,
		DownloadWorkers: DefaultDownloadWorkers,
		LogLevel:        "info",
	}

	configPath := filepath.Join(dataDir, "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // Return defaults
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.SearchTimeoutStr != "" {
		d, err := time.ParseDuration(cfg.SearchTimeoutStr)
		if err != nil {
			return nil, fmt.Errorf("parsing search_timeout: %w", err)
		}
		cfg.SearchTimeout = d
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.SearchLimit <= 0 {
		cfg.SearchLimit = DefaultSearchLimit
	}
	if cfg.DownloadWorkers <= 0 {
		cfg.DownloadWorkers = DefaultDownloadWorkers
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// Save writes configuration to the given directory.
func (c *Config) Save(dataDir string) error {
	c.SearchTimeoutStr = c.SearchTimeout.String()

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	configPath := filepath.Join(dataDir, "config.yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
