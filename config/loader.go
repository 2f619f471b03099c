package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader layers configuration sources in priority order: code defaults,
// an optional YAML file, then environment variables.
type Loader struct {
	path    string
	sources []string
}

// NewLoader creates a loader that reads an optional YAML file at path.
// An empty path skips the file layer entirely.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load produces a validated Config.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()
	l.sources = append(l.sources, "defaults")

	if l.path != "" {
		if err := l.loadFile(cfg); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file %s: %w", l.path, err)
		}
	}

	l.loadEnvironmentVariables(cfg)
	cfg.LoadedFrom = l.sources

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (l *Loader) loadFile(cfg *Config) error {
	f, err := os.Open(l.path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", l.path, err)
	}
	l.sources = append(l.sources, l.path)
	return nil
}

// loadEnvironmentVariables overlays the highest-priority source.
func (l *Loader) loadEnvironmentVariables(cfg *Config) {
	applied := false
	if v := os.Getenv("GRAPHREASON_KEY_SIZE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Maintainer.KeySizeLimit = n
			applied = true
		}
	}
	if v := os.Getenv("GRAPHREASON_TRAVERSER_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Traverser.BatchSize = n
			applied = true
		}
	}
	if v := os.Getenv("GRAPHREASON_REASONER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Reasoner.Timeout = d
			applied = true
		}
	}
	if v := os.Getenv("GRAPHREASON_MAX_CASCADE_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Incremental.MaxCascadeDepth = n
			applied = true
		}
	}
	if applied {
		l.sources = append(l.sources, "environment")
	}
}
