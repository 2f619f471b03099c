// Package config provides layered configuration for the graph/reasoning
// core: defaults in code, overlaid by an optional YAML file, overlaid by
// environment variables, validated with struct tags before use.
package config

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// MaintainerConfig bounds the Graph Index Maintainer (C2).
type MaintainerConfig struct {
	// KeySizeLimit is the Store's key-size limit in bytes; writes that
	// would exceed it abort the whole mutation (§4.1).
	KeySizeLimit int `yaml:"keySizeLimit" validate:"required,gt=0"`
}

// TraverserConfig bounds the Traverser (C5).
type TraverserConfig struct {
	// BatchSize is the number of frontier node ids processed within a
	// single Store transaction before folding results (§4.4).
	BatchSize int `yaml:"batchSize" validate:"required,gt=0"`
	// BatchScanThreshold (K in §4.2) is the number of bound ids at or
	// above which the scanner prefers one full-subspace scan with a hash-set
	// filter over N prefix scans.
	BatchScanThreshold int `yaml:"batchScanThreshold" validate:"required,gt=0"`
	// DefaultMaxNodes caps BFS result size when the caller omits one.
	DefaultMaxNodes int `yaml:"defaultMaxNodes" validate:"required,gt=0"`
}

// ReasonerConfig bounds the Tableaux Reasoner (C9).
type ReasonerConfig struct {
	// MaxExpansionSteps bounds the outer expansion loop (§4.7 step 4).
	MaxExpansionSteps int `yaml:"maxExpansionSteps" validate:"required,gt=0"`
	// Timeout is the wall-clock budget for one checkSatisfiability call;
	// the deadline is computed at call time, never at construction.
	Timeout time.Duration `yaml:"timeout" validate:"required,gt=0"`
	// EnableRegularityCheck gates the §4.7 step-1 OWL DL regularity gate.
	EnableRegularityCheck bool `yaml:"enableRegularityCheck"`
}

// IncrementalConfig bounds the DRed materializer (C10).
type IncrementalConfig struct {
	// MaxCascadeDepth bounds the transitive-dependents walk on delete.
	MaxCascadeDepth int `yaml:"maxCascadeDepth" validate:"required,gt=0"`
}

// Config is the root configuration for a reasoning-core process.
type Config struct {
	Maintainer  MaintainerConfig  `yaml:"maintainer" validate:"required"`
	Traverser   TraverserConfig   `yaml:"traverser" validate:"required"`
	Reasoner    ReasonerConfig    `yaml:"reasoner" validate:"required"`
	Incremental IncrementalConfig `yaml:"incremental" validate:"required"`

	// LoadedFrom records the layered sources applied, for diagnostics.
	LoadedFrom []string `yaml:"-"`
}

// Default returns a configuration with sensible defaults, used whenever
// the caller doesn't supply a file and no environment overrides apply.
func Default() *Config {
	return &Config{
		Maintainer: MaintainerConfig{
			KeySizeLimit: 10000, // FoundationDB-class stores: 10KB key limit.
		},
		Traverser: TraverserConfig{
			BatchSize:          64,
			BatchScanThreshold: 8,
			DefaultMaxNodes:    1000,
		},
		Reasoner: ReasonerConfig{
			MaxExpansionSteps:     100000,
			Timeout:               30 * time.Second,
			EnableRegularityCheck: true,
		},
		Incremental: IncrementalConfig{
			MaxCascadeDepth: 1000,
		},
		LoadedFrom: []string{"defaults"},
	}
}

var validate = validator.New()

// Validate checks the struct tags above; callers should call this after
// loading or hot-reloading a Config before handing it to any component.
func (c *Config) Validate() error {
	return validate.Struct(c)
}
