// Package config loads loader settings from a YAML file overlaid by MODLOAD_* environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Backends.
const (
	Native = "native"
	Object = "object"
)

// EnvPrefix is the prefix of environment overrides, e.g. MODLOAD_BACKEND.
const EnvPrefix = "MODLOAD"

type Config struct {
	Backend    string   `yaml:"backend" envconfig:"BACKEND"`
	SearchPath []string `yaml:"search_path" envconfig:"SEARCH_PATH"`
	Package    string   `yaml:"package" envconfig:"PACKAGE"`
	Debug      bool     `yaml:"debug" envconfig:"DEBUG"`
}

// Load reads path when not empty, then applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if cfg.Backend == "" {
		cfg.Backend = Native
	}
	if cfg.Package == "" {
		cfg.Package = "main"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case Native, Object:
		return nil
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
}
