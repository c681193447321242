// Package config holds everything needed to set up a link check run.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the full configuration for the checker.
type Config struct {
	Crawl   CrawlConfig   `yaml:"crawl"`
	Logging LoggingConfig `yaml:"logging"`
	Export  ExportConfig  `yaml:"export"`
}

// CrawlConfig controls the crawl frontier, scope, and fetch behaviour.
type CrawlConfig struct {
	Seeds          []string          `yaml:"seeds"`
	HostGlobs      []string          `yaml:"host_globs"`
	CheckExternal  bool              `yaml:"check_external"`
	Connections    int               `yaml:"connections"`
	UserAgent      string            `yaml:"user_agent"`
	Headers        map[string]string `yaml:"headers"`
	RequestTimeout Duration          `yaml:"request_timeout"`
	MaxBodyBytes   int64             `yaml:"max_body_bytes"`
	MaxRedirects   int               `yaml:"max_redirects"`
	PerHostDelay   Duration          `yaml:"per_host_delay"`
	RateLimit      RateLimitConfig   `yaml:"rate_limit_per_host"`
}

// RateLimitConfig applies a token bucket per host.
type RateLimitConfig struct {
	Requests int      `yaml:"requests"`
	Window   Duration `yaml:"window"`
}

// LoggingConfig selects log verbosity and format.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Structured bool   `yaml:"structured"`
}

// ExportConfig names optional report sinks.
type ExportConfig struct {
	JSONPath string `yaml:"json_path"`
	CSVPath  string `yaml:"csv_path"`
}

// Default returns a Config populated with sensible defaults.
func Default() Config {
	return Config{
		Crawl: CrawlConfig{
			CheckExternal:  true,
			Connections:    4,
			UserAgent:      "linkcheck-bot/1.0",
			Headers:        map[string]string{},
			RequestTimeout: DurationFrom(20 * time.Second),
			MaxBodyBytes:   6 * 1024 * 1024,
			MaxRedirects:   10,
		},
		Logging: LoggingConfig{
			Level:      "warn",
			Structured: false,
		},
	}
}

// Load reads, merges, and validates configuration from a YAML file.
func Load(path string) (*Config, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer fh.Close()

	raw, err := io.ReadAll(fh)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Crawl.Connections <= 0 {
		return errors.New("config: connections must be positive")
	}
	if c.Crawl.Connections > 256 {
		return fmt.Errorf("config: connections must be at most 256, got %d", c.Crawl.Connections)
	}
	if c.Crawl.RequestTimeout.Duration < 0 {
		return errors.New("config: request_timeout cannot be negative")
	}
	if c.Crawl.RateLimit.Requests < 0 {
		return errors.New("config: rate_limit_per_host.requests cannot be negative")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config: unsupported log level %q", c.Logging.Level)
	}
	return nil
}
