// Package config loads custform settings from a TOML file with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"
)

// Config holds all custform configuration.
type Config struct {
	Form       FormConfig        `toml:"form"`
	Messages   map[string]string `toml:"messages,omitempty"`
	Appearance AppearanceConfig  `toml:"appearance"`
	Log        LogConfig         `toml:"log"`
}

// FormConfig holds the tunable form rules.
type FormConfig struct {
	DebounceMS int     `toml:"debounce_ms" env:"CUSTFORM_DEBOUNCE_MS"`
	RatingMin  float64 `toml:"rating_min"`
	RatingMax  float64 `toml:"rating_max"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme" env:"CUSTFORM_THEME"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `toml:"level" env:"CUSTFORM_LOG_LEVEL"`
	Format string `toml:"format" env:"CUSTFORM_LOG_FORMAT"`
	File   string `toml:"file,omitempty" env:"CUSTFORM_LOG_FILE"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Form: FormConfig{
			DebounceMS: 1000,
			RatingMin:  1,
			RatingMax:  5,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Debounce returns the email debounce delay.
func (c Config) Debounce() time.Duration {
	if c.Form.DebounceMS < 0 {
		return 0
	}
	return time.Duration(c.Form.DebounceMS) * time.Millisecond
}

// Validate rejects settings the form cannot run with.
func (c Config) Validate() error {
	if c.Form.RatingMin > c.Form.RatingMax {
		return fmt.Errorf("rating_min %.2f is above rating_max %.2f", c.Form.RatingMin, c.Form.RatingMax)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "custform")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "custform")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// LogPath returns where the TUI writes its log when no file is configured.
func LogPath() string {
	return filepath.Join(Dir(), "custform.log")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment variables override file values.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom is Load for an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo is Save for an explicit path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
