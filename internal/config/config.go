// Package config loads server configuration from an optional YAML file
// with environment variables taking precedence.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port             string `yaml:"port"`
	FirestoreProject string `yaml:"firestore_project"`
	JWTSecret        string `yaml:"jwt_secret"`
}

// Load reads the config file at path when it exists, then applies env
// overrides. A missing file is fine; missing required values are not.
func Load(path string) (*Config, error) {
	cfg := &Config{Port: "8080"}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %v", err)
			}
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		cfg.FirestoreProject = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}

	if cfg.FirestoreProject == "" {
		return nil, errors.New("firestore project is required (GOOGLE_CLOUD_PROJECT)")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is required (JWT_SECRET)")
	}

	return cfg, nil
}
