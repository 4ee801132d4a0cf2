// Package models defines data structures for configuration, cached word
// frequencies and run reports.
package models

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCacheDir   = "cache"
	DefaultDataDir    = "data"
	DefaultCacheTTL   = 7 * 24 * time.Hour
	DefaultAPIBase    = "https://en.wikipedia.org/w/api.php"
	DefaultTimeout    = 10 * time.Second
	DefaultUserAgent  = "wiki-wordcloud/1.0 (https://github.com/dtnitsch/wiki-wordcloud)"
	DefaultMaxMembers = 500
	DefaultAddr       = "127.0.0.1:5000"
	DefaultConfigFile = "wiki-wordcloud.yaml"
)

// Config holds runtime configuration. Values come from an optional YAML file
// and are then overridden by CLI flags.
type Config struct {
	CacheDir   string        `yaml:"cache_dir"`
	DataDir    string        `yaml:"data_dir"`
	CacheTTL   time.Duration `yaml:"cache_ttl"`
	APIBase    string        `yaml:"api_base"`
	Timeout    time.Duration `yaml:"timeout"`
	UserAgent  string        `yaml:"user_agent"`
	MaxMembers int           `yaml:"max_members"`
	Addr       string        `yaml:"addr"`

	HTMLFallback bool `yaml:"html_fallback"`
	EnglishOnly  bool `yaml:"english_only"`
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() *Config {
	return &Config{
		CacheDir:   DefaultCacheDir,
		DataDir:    DefaultDataDir,
		CacheTTL:   DefaultCacheTTL,
		APIBase:    DefaultAPIBase,
		Timeout:    DefaultTimeout,
		UserAgent:  DefaultUserAgent,
		MaxMembers: DefaultMaxMembers,
		Addr:       DefaultAddr,
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
// A missing file is not an error when optional is true.
func LoadConfig(path string, optional bool) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills zero values left behind by a partial config file.
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.CacheDir == "" {
		c.CacheDir = d.CacheDir
	}
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.APIBase == "" {
		c.APIBase = d.APIBase
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.MaxMembers <= 0 {
		c.MaxMembers = d.MaxMembers
	}
	if c.Addr == "" {
		c.Addr = d.Addr
	}
}

// Init creates the cache and data directories. Safe to call repeatedly.
func (c *Config) Init() error {
	for _, dir := range []string{c.CacheDir, c.DataDir} {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
