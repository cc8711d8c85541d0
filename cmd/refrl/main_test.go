package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/refrl/checkpoint"
	"github.com/neurlang/refrl/config"
	"github.com/neurlang/refrl/datasets"
)

// reset restores every flag, they outlive a single execution.
func reset() {
	configPath, dataPath, graphsPath, cpuProfile = "", "", "", ""
	restore := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(restore)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(restore)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	reset()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestConfigFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refrl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("eps: 0.1\nbatch_size: 8\n"), 0o644))
	data, graphs := filepath.Join(dir, "p.jsonl"), filepath.Join(dir, "g.json")

	_, err := execute(t, "gen", "--config", path, "--batch-size", "2", "--reward-type", "dense",
		"--log-level", "error", "--scenes", "2", "--objects", "3", "--data", data, "--graphs", graphs)
	require.NoError(t, err)

	assert.Equal(t, 0.1, cfg.Eps)
	assert.Equal(t, 2, cfg.BatchSize)
	assert.Equal(t, config.Dense, cfg.RewardType)

	d, err := datasets.Load(data, graphs)
	require.NoError(t, err)
	assert.Len(t, d.Points, 6)
}

func TestTrainThenTest(t *testing.T) {
	dir := t.TempDir()
	data, graphs := filepath.Join(dir, "p.jsonl"), filepath.Join(dir, "g.json")
	model := filepath.Join(dir, "model.ckpt.zlib")
	common := []string{"--data", data, "--graphs", graphs, "--model-path", model, "--log-level", "error"}

	_, err := execute(t, append([]string{"gen", "--scenes", "3", "--objects", "3"}, common...)...)
	require.NoError(t, err)

	_, err = execute(t, append([]string{"train", "--episode-iter", "1"}, common...)...)
	require.NoError(t, err)
	assert.FileExists(t, model)

	out, err := execute(t, append([]string{"test", "--split", "train"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "train: success")
}

func TestTestIteration(t *testing.T) {
	dir := t.TempDir()
	data, graphs := filepath.Join(dir, "p.jsonl"), filepath.Join(dir, "g.json")
	common := []string{"--data", data, "--graphs", graphs, "--log-level", "error"}
	badger := append([]string{"--store", "badger", "--model-path", filepath.Join(dir, "db")}, common...)

	_, err := execute(t, append([]string{"gen", "--scenes", "3", "--objects", "3"}, common...)...)
	require.NoError(t, err)
	_, err = execute(t, append([]string{"train", "--episode-iter", "2"}, badger...)...)
	require.NoError(t, err)

	// the only save happens at the end of Fit, after two finished iterations
	out, err := execute(t, append([]string{"test", "--split", "train", "--iteration", "2"}, badger...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "train: success")

	_, err = execute(t, append([]string{"test", "--iteration", "0"}, badger...)...)
	assert.ErrorIs(t, err, checkpoint.ErrNotFound)

	file := append([]string{"--model-path", filepath.Join(dir, "m.zlib")}, common...)
	_, err = execute(t, append([]string{"train", "--episode-iter", "1"}, file...)...)
	require.NoError(t, err)
	_, err = execute(t, append([]string{"test", "--iteration", "1"}, file...)...)
	assert.ErrorIs(t, err, checkpoint.ErrNoHistory)
}

func TestInvalidFlag(t *testing.T) {
	_, err := execute(t, "gen", "--store", "s3", "--log-level", "error")
	assert.ErrorIs(t, err, config.ErrInvalid)
}
