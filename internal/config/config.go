// Package config loads cvdesk settings from ~/.cvdesk/config.yaml, an
// optional project overlay and CVDESK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// SchemaVersion is written by `cvdesk config init`.
	SchemaVersion = "1.0.0"
	// SupportedSchema is the range of schema versions this build reads.
	SupportedSchema = ">= 1.0.0, < 2.0.0"

	configFileName = "config.yaml"
	configDirName  = ".cvdesk"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the root of config.yaml.
type Config struct {
	SchemaVersion string        `yaml:"schema_version"`
	Source        SourceConfig  `yaml:"source"`
	View          ViewConfig    `yaml:"view"`
	Breaker       BreakerConfig `yaml:"breaker"`
	Logging       LoggingConfig `yaml:"logging"`

	path string
}

// SourceConfig selects where CVs are fetched from. File wins over BaseURL.
type SourceConfig struct {
	BaseURL string        `yaml:"base_url"`
	File    string        `yaml:"file"`
	Timeout time.Duration `yaml:"timeout"`
	Token   string        `yaml:"token,omitempty"`
	Watch   bool          `yaml:"watch"`
}

// ViewConfig holds the table defaults.
type ViewConfig struct {
	PageSize       int    `yaml:"page_size"`
	Sort           string `yaml:"sort"`
	FailureMessage string `yaml:"failure_message"`
}

// BreakerConfig enables the circuit breaker around the fetcher.
type BreakerConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxFailures uint32        `yaml:"max_failures"`
	OpenTimeout time.Duration `yaml:"open_timeout"`
}

// LoggingConfig mirrors logging.Config in YAML form.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		SchemaVersion: SchemaVersion,
		Source: SourceConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 10 * time.Second,
		},
		View: ViewConfig{
			PageSize: 10,
		},
		Breaker: BreakerConfig{
			MaxFailures: 3,
			OpenTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// New returns the defaults overlaid with the global config file, if one
// exists, and the environment. A broken config file is ignored; use Load to
// see the error.
func New() *Config {
	cfg := Default()
	if path, err := ConfigPath(); err == nil {
		cfg.path = path
		if data, readErr := os.ReadFile(path); readErr == nil {
			loaded := Default()
			if yaml.Unmarshal(data, loaded) == nil {
				loaded.path = path
				cfg = loaded
			}
		}
	}
	cfg.ApplyEnv()
	return cfg
}

// Load reads path on top of the defaults and applies the environment.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.path = path
	cfg.ApplyEnv()
	return cfg, nil
}

// Path returns the file the configuration was loaded from or will be saved to.
func (c *Config) Path() string {
	return c.path
}

// Save writes the configuration to Path, creating the directory if needed.
func (c *Config) Save() error {
	if c.path == "" {
		path, err := ConfigPath()
		if err != nil {
			return err
		}
		c.path = path
	}
	return c.SaveTo(c.path)
}

// SaveTo writes the configuration to path. The token is written as-is, so the
// file is created owner-readable only.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	c.path = path
	return nil
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Source.Token != "" {
		out.Source.Token = "********"
	}
	return &out
}
