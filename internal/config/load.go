// Package config loads the lexinote-server configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the bundled configuration file, relative to the working directory.
const DefaultPath = "config/config.yaml"

// expandEnv replaces ${VAR} and ${VAR:-fallback}; unset variables without a fallback become "".
func expandEnv(s string) string {
	return os.Expand(s, func(key string) string {
		name, fallback, hasFallback := strings.Cut(key, ":-")
		if v, ok := os.LookupEnv(name); ok && v != "" {
			return v
		}
		if hasFallback {
			return fallback
		}
		return ""
	})
}

// Load reads filename over NewDefaultConfig and validates the result.
// Unknown keys are rejected. An absent or empty providers list keeps the built-in providers.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", filename, err)
	}

	cfg := NewDefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expandEnv(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config file %s: %w", filename, err)
	}
	if len(cfg.Providers) == 0 {
		cfg.Providers = defaultProviders()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadWithDefaults loads filename, falling back to fallback when filename does not exist.
func LoadWithDefaults(filename, fallback string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		if fallback == "" || fallback == filename {
			return nil, fmt.Errorf("config file not found: %s", filename)
		}
		return Load(fallback)
	}
	return Load(filename)
}
