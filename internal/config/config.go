// Package config loads catalog-manager configuration: a YAML base with a
// typed Config struct, environment-variable overrides applied after load,
// and a DefaultConfig that is usable entirely on its own.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all catalog-manager configuration.
type Config struct {
	Catalog     string            `yaml:"catalog"`
	InstallRoot string            `yaml:"install_root"`
	Content     ContentConfig     `yaml:"content"`
	Search      SearchConfig      `yaml:"search"`
	Resolver    ResolverConfig    `yaml:"resolver"`
	Installer   InstallerConfig   `yaml:"installer"`
	UI          UIConfig          `yaml:"ui"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ContentConfig struct {
	AllowedHosts []string `yaml:"allowed_hosts"`
}

type SearchConfig struct {
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
	DefaultLimit   int     `yaml:"default_limit"`
	MemoCacheSize  int     `yaml:"memo_cache_size"`
}

type ResolverConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

type InstallerConfig struct {
	Concurrency      int           `yaml:"concurrency"`
	RetryBase        time.Duration `yaml:"retry_base"`
	RetryFactor      float64       `yaml:"retry_factor"`
	RetryMaxAttempts int           `yaml:"retry_max_attempts"`
	TotalTimeout     time.Duration `yaml:"total_timeout"`
	AttemptTimeout   time.Duration `yaml:"attempt_timeout"`
}

type UIConfig struct {
	NoColor       bool   `yaml:"no_color"`
	DefaultSort   string `yaml:"default_sort_field"`
	DefaultOrder  string `yaml:"default_sort_direction"`
}

type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Catalog:     "catalog",
		InstallRoot: filepath.Join(home, ".claude"),
		Content: ContentConfig{
			AllowedHosts: []string{"raw.githubusercontent.com"},
		},
		Search: SearchConfig{
			FuzzyThreshold: 60,
			DefaultLimit:   50,
			MemoCacheSize:  256,
		},
		Resolver: ResolverConfig{
			MaxDepth: 5,
		},
		Installer: InstallerConfig{
			Concurrency:      5,
			RetryBase:        1 * time.Second,
			RetryFactor:      2,
			RetryMaxAttempts: 3,
			TotalTimeout:     30 * time.Second,
			AttemptTimeout:   15 * time.Second,
		},
		UI: UIConfig{
			DefaultSort:  "name",
			DefaultOrder: "asc",
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load reads path (if it exists) over DefaultConfig, then applies
// environment-variable overrides. A missing file is
// not an error — it just means defaults apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if uErr := yaml.Unmarshal(data, cfg); uErr != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, uErr)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CRM_CATALOG"); v != "" {
		c.Catalog = v
	}
	if v := os.Getenv("CRM_INSTALL_ROOT"); v != "" {
		c.InstallRoot = v
	}
	if v := os.Getenv("NO_COLOR"); v != "" {
		c.UI.NoColor = true
	}
	if v := os.Getenv("CRM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
		c.Logging.DebugMode = v == "debug"
	}
}
