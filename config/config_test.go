package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, OnlySuccess, cfg.RewardType)
	assert.False(t, cfg.SubLoss)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
eps: 0.2
reward_type: dense
sub_loss: true
batch_size: 4
store: badger
metrics_addr: "localhost:9090"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.2, cfg.Eps)
	assert.Equal(t, Dense, cfg.RewardType)
	assert.True(t, cfg.SubLoss)
	assert.Equal(t, 4, cfg.BatchSize)
	assert.Equal(t, BadgerStore, cfg.Store)
	// untouched fields keep their defaults
	assert.Equal(t, 10, cfg.EpisodeLength)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"eps above one", func(c *Config) { c.Eps = 1.5 }},
		{"unknown reward", func(c *Config) { c.RewardType = "sparse" }},
		{"zero batch", func(c *Config) { c.BatchSize = 0 }},
		{"zero episode length", func(c *Config) { c.EpisodeLength = 0 }},
		{"unknown policy", func(c *Config) { c.Policy = "beam" }},
		{"unknown store", func(c *Config) { c.Store = "s3" }},
		{"no model path", func(c *Config) { c.ModelPath = "" }},
		{"bad metrics address", func(c *Config) { c.MetricsAddr = "nope" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch_size: -1\n"), 0o644))
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}
