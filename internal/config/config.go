// Package config provides configuration management for backlog.
//
// Config file locations (priority order):
//  1. $BACKLOG_CONFIG
//  2. ./backlog.yaml
//  3. $XDG_CONFIG_HOME/backlog/config.yaml
//  4. ~/.config/backlog/config.yaml
//  5. /etc/backlog/config.yaml
//
// $BACKLOG_DB overrides storage.path after the file is loaded.
package config

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultStatePath is where the state lives when nothing is configured
	DefaultStatePath = "./data/db.json"
	// EnvStatePath overrides storage.path
	EnvStatePath = "BACKLOG_DB"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, path, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Storage: StorageConfig{Driver: DriverFile, Path: DefaultStatePath},
		Log:     LogConfig{Level: "info"},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverFile
	}
	if c.Storage.Path == "" {
		if c.Storage.Driver == DriverSQLite {
			c.Storage.Path = "./data/backlog.db"
		} else {
			c.Storage.Path = DefaultStatePath
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) applyEnv() {
	if path := os.Getenv(EnvStatePath); path != "" {
		c.Storage.Path = path
	}
}

// Validate rejects unknown drivers, formats and log levels
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch strings.ToLower(c.Storage.Format) {
	case "", "json", "yaml", "yml":
	default:
		return fmt.Errorf("unknown storage format %q", c.Storage.Format)
	}
	if c.Storage.Format != "" && c.Storage.Driver != DriverFile {
		return fmt.Errorf("storage format only applies to the %s driver", DriverFile)
	}

	if _, err := c.ZapLevel(); err != nil {
		return err
	}
	return nil
}

// ZapLevel parses the configured log level
func (c *Config) ZapLevel() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Storage: %s at %s", c.Storage.Driver, c.Storage.Path)
	if c.Storage.Format != "" {
		summary += fmt.Sprintf(" (%s)", c.Storage.Format)
	}
	summary += fmt.Sprintf("\nLog level: %s", c.Log.Level)
	return summary
}
