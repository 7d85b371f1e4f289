// Package config reads and writes the aura configuration file (~/.aura/config.toml).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultProfile = "main"
	DefaultLogMode = "dev"
)

// Config holds aura settings. Empty fields fall back to defaults at use time.
type Config struct {
	DBPath         string `toml:"db_path,omitempty" json:"db_path,omitempty"`
	Profile        string `toml:"profile,omitempty" json:"profile,omitempty"`
	LogMode        string `toml:"log_mode,omitempty" json:"log_mode,omitempty"`
	Timezone       string `toml:"timezone,omitempty" json:"timezone,omitempty"`
	PlayerName     string `toml:"player_name,omitempty" json:"player_name,omitempty"`
	CharacterClass string `toml:"character_class,omitempty" json:"character_class,omitempty"`
}

var validKeys = map[string]bool{
	"db_path":         true,
	"profile":         true,
	"log_mode":        true,
	"timezone":        true,
	"player_name":     true,
	"character_class": true,
}

// ValidKeys returns the sorted list of valid configuration keys.
func ValidKeys() []string {
	return []string{"character_class", "db_path", "log_mode", "player_name", "profile", "timezone"}
}

// Path returns the default config file path (~/.aura/config.toml).
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".aura", "config.toml")
	}
	return filepath.Join(home, ".aura", "config.toml")
}

// Load reads the config from the default path and applies environment overrides.
func Load() (*Config, error) {
	cfg, err := LoadFrom(Path())
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFrom reads the config from a specific path. Returns an empty Config if
// the file does not exist.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overlays AURA_DB, AURA_PROFILE and AURA_LOG when set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("AURA_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("AURA_PROFILE"); v != "" {
		c.Profile = v
	}
	if v := os.Getenv("AURA_LOG"); v != "" {
		c.LogMode = v
	}
}

// SaveTo writes the config to path, creating parent directories as needed.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) ProfileOrDefault() string {
	if p := strings.TrimSpace(c.Profile); p != "" {
		return p
	}
	return DefaultProfile
}

func (c *Config) LogModeOrDefault() string {
	if m := strings.TrimSpace(c.LogMode); m != "" {
		return m
	}
	return DefaultLogMode
}

// Location resolves the configured IANA timezone, or time.Local when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Get returns the string value of a configuration key.
func (c *Config) Get(key string) (string, error) {
	if !validKeys[key] {
		return "", fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(ValidKeys(), ", "))
	}
	switch key {
	case "db_path":
		return c.DBPath, nil
	case "profile":
		return c.Profile, nil
	case "log_mode":
		return c.LogMode, nil
	case "timezone":
		return c.Timezone, nil
	case "player_name":
		return c.PlayerName, nil
	case "character_class":
		return c.CharacterClass, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set assigns a value to a configuration key.
func (c *Config) Set(key, value string) error {
	if !validKeys[key] {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(ValidKeys(), ", "))
	}
	switch key {
	case "db_path":
		c.DBPath = value
	case "profile":
		c.Profile = value
	case "log_mode":
		switch strings.ToLower(value) {
		case "", "dev", "debug", "prod", "off":
		default:
			return fmt.Errorf("invalid log_mode %q (valid: dev, debug, prod, off)", value)
		}
		c.LogMode = strings.ToLower(value)
	case "timezone":
		if value != "" {
			if _, err := time.LoadLocation(value); err != nil {
				return fmt.Errorf("invalid timezone %q: %w", value, err)
			}
		}
		c.Timezone = value
	case "player_name":
		c.PlayerName = value
	case "character_class":
		c.CharacterClass = value
	}
	return nil
}
