// Package config handles loading, saving and validating insider configuration.
// Configuration lives in ~/.insider/config.yaml and can be overridden with
// INSIDER_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all insider configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Remote API configuration
	API APIConfig `yaml:"api"`

	// Local state (token, cache, logs)
	State StateConfig `yaml:"state"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the Athletic Insider REST API client.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// StateConfig configures where local state is kept.
type StateConfig struct {
	// Dir is the state directory. Empty means ~/.insider.
	Dir string `yaml:"dir"`

	// CacheTTL controls how old the school cache may get before a
	// refresh is forced. Duration string, e.g. "24h".
	CacheTTL string `yaml:"cache_ttl"`
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "insider",
		Version: "1.0.0",

		API: APIConfig{
			BaseURL: "https://api.athleticinsider.com",
			Timeout: "30s",
		},

		State: StateConfig{
			CacheTTL: "24h",
		},

		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// DefaultPath returns the default config file location (~/.insider/config.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".insider", "config.yaml")
}

// Load reads configuration from a YAML file, falling back to defaults if the
// file does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("INSIDER_API_URL"); url != "" {
		c.API.BaseURL = url
	}
	if dir := os.Getenv("INSIDER_STATE_DIR"); dir != "" {
		c.State.Dir = dir
	}
	if debug := os.Getenv("INSIDER_DEBUG"); debug == "1" || debug == "true" {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
}

// StateDir resolves the state directory, defaulting to ~/.insider.
func (c *Config) StateDir() string {
	if c.State.Dir != "" {
		return c.State.Dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".insider"
	}
	return filepath.Join(home, ".insider")
}

// GetAPITimeout parses the API timeout with a fallback of 30s.
func (c *Config) GetAPITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetCacheTTL parses the cache TTL with a fallback of 24h.
func (c *Config) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.State.CacheTTL)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("API base URL not configured (set api.base_url or INSIDER_API_URL)")
	}
	if _, err := time.ParseDuration(c.API.Timeout); c.API.Timeout != "" && err != nil {
		return fmt.Errorf("invalid API timeout %q: %w", c.API.Timeout, err)
	}
	return nil
}
