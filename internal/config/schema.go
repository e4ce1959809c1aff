package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Poems    PoemsConfig    `yaml:"poems"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
}

// StorageConfig says where database files live
type StorageConfig struct {
	Dir string `yaml:"dir"`
}

// DatabaseConfig holds per-connection settings
type DatabaseConfig struct {
	Name        string   `yaml:"name,omitempty"` // opened when --db is not given
	ForeignKeys bool     `yaml:"foreign_keys"`
	BusyTimeout Duration `yaml:"busy_timeout"`
}

// PoemsConfig holds the duplicate-submission policy
type PoemsConfig struct {
	Uniqueness string `yaml:"uniqueness"` // poet, poet_critic
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
