package config_test

import (
	"os"
	"testing"
	"time"

	"graphreason/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	cfg, err := config.NewLoader("").Load()
	require.NoError(t, err)

	assert.Equal(t, 10000, cfg.Maintainer.KeySizeLimit)
	assert.Equal(t, 64, cfg.Traverser.BatchSize)
	assert.Equal(t, 8, cfg.Traverser.BatchScanThreshold)
	assert.Equal(t, 30*time.Second, cfg.Reasoner.Timeout)
	assert.Equal(t, []string{"defaults"}, cfg.LoadedFrom)
}

func TestLoadConfig_EnvironmentOverridesDefaults(t *testing.T) {
	os.Setenv("GRAPHREASON_TRAVERSER_BATCH_SIZE", "128")
	os.Setenv("GRAPHREASON_MAX_CASCADE_DEPTH", "5000")
	defer os.Unsetenv("GRAPHREASON_TRAVERSER_BATCH_SIZE")
	defer os.Unsetenv("GRAPHREASON_MAX_CASCADE_DEPTH")

	cfg, err := config.NewLoader("").Load()
	require.NoError(t, err)

	assert.Equal(t, 128, cfg.Traverser.BatchSize)
	assert.Equal(t, 5000, cfg.Incremental.MaxCascadeDepth)
}

func TestLoadConfig_FileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/reasoner.yaml"
	require.NoError(t, os.WriteFile(path, []byte(`
maintainer:
  keySizeLimit: 5000
reasoner:
  maxExpansionSteps: 500
  timeout: 2s
  enableRegularityCheck: false
traverser:
  batchSize: 32
  batchScanThreshold: 4
  defaultMaxNodes: 100
incremental:
  maxCascadeDepth: 20
`), 0o644))

	cfg, err := config.NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Maintainer.KeySizeLimit)
	assert.Equal(t, 500, cfg.Reasoner.MaxExpansionSteps)
	assert.False(t, cfg.Reasoner.EnableRegularityCheck)
	assert.Contains(t, cfg.LoadedFrom, path)
}

func TestConfig_ValidateRejectsZeroBudgets(t *testing.T) {
	cfg := config.Default()
	cfg.Reasoner.MaxExpansionSteps = 0
	assert.Error(t, cfg.Validate())
}
