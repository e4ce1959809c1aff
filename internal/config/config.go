// Package config provides configuration management for poetrydesk.
//
// The config file holds settings only; poets, critics and poems live in the
// per-project database files under storage.dir.
//
// Config file locations (priority order):
//  1. $POETRYDESK_CONFIG
//  2. ./poetrydesk.yaml
//  3. $XDG_CONFIG_HOME/poetrydesk/config.yaml
//  4. ~/.config/poetrydesk/config.yaml
//  5. /etc/poetrydesk/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"poetrydesk/internal/domain"
)

const (
	DefaultStorageDir  = "DataBases"
	DefaultBusyTimeout = 5 * time.Second
	DefaultServerAddr  = ":3000"
	DefaultLogLevel    = "info"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
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

	if err := cfg.Validate(); err != nil {
		return nil, path, err
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
		Storage: StorageConfig{Dir: DefaultStorageDir},
		Database: DatabaseConfig{
			ForeignKeys: false,
			BusyTimeout: Duration(DefaultBusyTimeout),
		},
		Poems:  PoemsConfig{Uniqueness: string(domain.UniquePerPoet)},
		Log:    LogConfig{Level: DefaultLogLevel},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Storage.Dir == "" {
		c.Storage.Dir = DefaultStorageDir
	}
	if c.Database.BusyTimeout <= 0 {
		c.Database.BusyTimeout = Duration(DefaultBusyTimeout)
	}
	if c.Poems.Uniqueness == "" {
		c.Poems.Uniqueness = string(domain.UniquePerPoet)
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}

// Validate rejects values no component can act on
func (c *Config) Validate() error {
	if !c.PoemUniqueness().Valid() {
		return fmt.Errorf("poems.uniqueness: unknown policy %q (want %q or %q)",
			c.Poems.Uniqueness, domain.UniquePerPoet, domain.UniquePerPair)
	}
	if c.Database.Name != "" && !domain.DatabaseNameRule.Match(c.Database.Name) {
		return fmt.Errorf("database.name: %w", domain.ErrInvalidDatabaseName)
	}
	return nil
}

// PoemUniqueness returns the configured duplicate-submission policy
func (c *Config) PoemUniqueness() domain.PoemUniqueness {
	return domain.PoemUniqueness(c.Poems.Uniqueness)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Storage: %s, Poem uniqueness: %s\n", c.Storage.Dir, c.Poems.Uniqueness)
	summary += fmt.Sprintf("Foreign keys: %t, Busy timeout: %s, Log level: %s",
		c.Database.ForeignKeys, c.Database.BusyTimeout.Duration(), c.Log.Level)
	return summary
}

// Resolve loads the explicitly named config file, or falls back to the
// discovery order when explicit is empty
func Resolve(explicit string) (*Config, string, error) {
	if explicit != "" {
		return LoadFromPath(explicit)
	}
	return Load()
}
