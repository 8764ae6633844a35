// Package config loads the application configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	FileName   = "config.yaml"
	DefaultDir = ".promptvault"

	defaultLocale = "en"
)

// Config is the on-disk configuration. A missing file yields defaults.
type Config struct {
	// DataDir holds the database and configuration. Defaults to
	// ~/.promptvault.
	DataDir string `yaml:"data_dir"`

	// Locale selects the collation language for sorted listings.
	Locale string `yaml:"locale"`
}

// Default returns the built-in configuration.
func Default() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("config: resolving home directory: %w", err)
	}
	return &Config{
		DataDir: filepath.Join(home, DefaultDir),
		Locale:  defaultLocale,
	}, nil
}

// Load reads the configuration from dir, falling back to defaults for a
// missing file or missing fields.
func Load(dir string) (*Config, error) {
	def, err := Default()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		dir = def.DataDir
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if os.IsNotExist(err) {
		def.DataDir = dir
		return def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: reading config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing config file: %w", err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dir
	}
	if cfg.Locale == "" {
		cfg.Locale = defaultLocale
	}
	return cfg, nil
}

// Save writes the configuration to its data directory with owner-only
// permissions.
func Save(cfg *Config) error {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return fmt.Errorf("config: creating data dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encoding config: %w", err)
	}
	path := filepath.Join(cfg.DataDir, FileName)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("config: writing config file: %w", err)
	}
	return nil
}
