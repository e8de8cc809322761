// Package config loads preview-server configuration from solara.yml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the per-directory configuration file.
const ConfigFileName = "solara.yml"

// Config configures the preview server and the renderer behind it.
type Config struct {
	Title string `yaml:"title"`
	Addr  string `yaml:"addr"`

	// LiveTag overrides the reserved live-execution fence language.
	LiveTag string `yaml:"live_tag"`

	// UnsafeExecute opts served pages in to live-fence execution. The flag is
	// deliberately off by default and must be set explicitly, either here or
	// on the command line.
	UnsafeExecute bool `yaml:"unsafe_execute"`

	// Sanitize filters rendered HTML before serving.
	Sanitize bool `yaml:"sanitize"`

	HighlightStyle string `yaml:"highlight_style"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Ignore lists glob patterns for markdown files the server skips.
	Ignore []string `yaml:"ignore"`
}

// RateLimitConfig configures per-IP request limiting.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled"`
	RPS     float64 `yaml:"rps"`
	Burst   int     `yaml:"burst"`
}

// Default returns the configuration used when no solara.yml exists.
func Default() *Config {
	return &Config{
		Title:          "solara preview",
		Addr:           ":8742",
		LiveTag:        "solara",
		HighlightStyle: "github",
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     20,
			Burst:   40,
		},
	}
}

// Load reads solara.yml from dir, falling back to defaults when the file
// does not exist. Unset fields take their default values.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Title == "" {
		c.Title = d.Title
	}
	if c.Addr == "" {
		c.Addr = d.Addr
	}
	if c.LiveTag == "" {
		c.LiveTag = d.LiveTag
	}
	if c.HighlightStyle == "" {
		c.HighlightStyle = d.HighlightStyle
	}
	if c.RateLimit.RPS <= 0 {
		c.RateLimit.RPS = d.RateLimit.RPS
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = d.RateLimit.Burst
	}
}

// Ignored reports whether relPath matches one of the ignore patterns.
func (c *Config) Ignored(relPath string) bool {
	for _, pattern := range c.Ignore {
		if ok, _ := filepath.Match(pattern, relPath); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(relPath)); ok {
			return true
		}
	}
	return false
}
