// Package logging constructs the zap.Logger every other package accepts
// as a dependency, selecting a development or production zap.Config by
// environment and a level, both taken from a standalone Options value,
// the same way the teacher's own observability initializer does.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment selects the base zap configuration profile.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Options configures logger construction.
type Options struct {
	Environment Environment
	Level       string // "debug", "info", "warn", "error"; defaults to "info"
}

// New builds a zap.Logger per opts. Components that receive a nil
// *zap.Logger (tableaux.NewReasoner, resilient.New) fall back to
// zap.NewNop() themselves, so New is only ever called once at process
// startup.
func New(opts Options) (*zap.Logger, error) {
	var cfg zap.Config
	if opts.Environment == EnvProduction {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}

	level, err := levelFor(opts.Level)
	if err != nil {
		return nil, err
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build zap logger: %w", err)
	}
	return logger, nil
}

func levelFor(level string) (zapcore.Level, error) {
	switch level {
	case "", "info":
		return zap.InfoLevel, nil
	case "debug":
		return zap.DebugLevel, nil
	case "warn":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	default:
		return 0, fmt.Errorf("logging: unknown level %q", level)
	}
}
