package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseTrainFlags tests defaults and validation.
func TestParseTrainFlags(t *testing.T) {
	var out bytes.Buffer
	cfg, err := parseTrainFlags(nil, &out)
	require.NoError(t, err)
	assert.Equal(t, 2000, cfg.epochs)
	assert.Equal(t, "adam", cfg.optimizer)
	assert.Equal(t, 4, cfg.hidden)

	cfg, err = parseTrainFlags([]string{"-optimizer", "sgd", "-lr", "0.5", "-hidden", "8"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "sgd", cfg.optimizer)
	assert.InDelta(t, 0.5, cfg.lr, 1e-12)
	assert.Equal(t, 8, cfg.hidden)

	bad := [][]string{
		{"-optimizer", "rmsprop"},
		{"-epochs", "0"},
		{"-hidden", "-1"},
		{"-lr", "0"},
		{"-activation", "tanh"},
		{"-unknown"},
	}
	for _, args := range bad {
		_, err := parseTrainFlags(args, &out)
		assert.Error(t, err, strings.Join(args, " "))
	}
}

// TestTrain tests that Adam lowers the loss.
func TestTrain(t *testing.T) {
	var out bytes.Buffer
	cfg, err := parseTrainFlags([]string{"-epochs", "500", "-lr", "0.1", "-log-every", "0"}, &out)
	require.NoError(t, err)

	res, err := train(cfg, &out)
	require.NoError(t, err)
	assert.Less(t, res.FinalLoss, res.FirstLoss)
	require.Len(t, res.Predictions, 4)
	for _, p := range res.Predictions {
		assert.True(t, p > 0 && p < 1)
	}
	assert.Equal(t, 4, strings.Count(out.String(), "pred="))
}

// TestTrain_Variants tests the SGD and ReLU paths end to end.
func TestTrain_Variants(t *testing.T) {
	for _, args := range [][]string{
		{"-optimizer", "sgd", "-momentum", "0.5"},
		{"-activation", "relu", "-hidden", "8"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			var out bytes.Buffer
			cfg, err := parseTrainFlags(append(args, "-epochs", "20", "-log-every", "5"), &out)
			require.NoError(t, err)

			res, err := train(cfg, &out)
			require.NoError(t, err)
			assert.Len(t, res.Predictions, 4)
			assert.False(t, math.IsNaN(res.FinalLoss))
		})
	}
}

// TestTrain_Deterministic tests that a seed fixes the run.
func TestTrain_Deterministic(t *testing.T) {
	var out bytes.Buffer
	args := []string{"-epochs", "20", "-seed", "7", "-log-every", "0"}

	cfg, err := parseTrainFlags(args, &out)
	require.NoError(t, err)
	a, err := train(cfg, &out)
	require.NoError(t, err)
	b, err := train(cfg, &out)
	require.NoError(t, err)

	assert.Equal(t, a.Predictions, b.Predictions)
}

// TestTrain_SaveLoad tests checkpoint resume and SafeTensors export.
func TestTrain_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	ckpt := filepath.Join(dir, "xor.mgrd")
	st := filepath.Join(dir, "xor.safetensors")

	var out bytes.Buffer
	first, err := runTrain([]string{"-epochs", "50", "-log-every", "0", "-save", ckpt, "-safetensors", st}, &out)
	require.NoError(t, err)
	require.FileExists(t, ckpt)
	require.FileExists(t, st)

	resumed, err := runTrain([]string{"-epochs", "1", "-log-every", "0", "-seed", "99", "-load", ckpt}, &out)
	require.NoError(t, err)
	assert.Equal(t, 50, resumed.StartEpoch)
	// The resumed model starts from the trained weights, not the new seed.
	assert.InDelta(t, first.FinalLoss, resumed.FirstLoss, 0.05)

	_, err = runTrain([]string{"-load", filepath.Join(dir, "missing.mgrd")}, &out)
	assert.Error(t, err)
}

// TestRunGraph tests DOT output to stdout and to a file.
func TestRunGraph(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runGraph(nil, &out))
	assert.Contains(t, out.String(), "digraph")
	assert.Contains(t, out.String(), "{ a | data 3.0000 | grad 4.0000 }")
	assert.Contains(t, out.String(), "{ b | data 4.0000 | grad 11.0000 }")

	path := filepath.Join(t.TempDir(), "f.dot")
	out.Reset()
	require.NoError(t, runGraph([]string{"-a", "1", "-b", "-2", "-o", path}, &out))
	assert.Zero(t, out.Len())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "{ a | data 1.0000 | grad -2.0000 }")
}

// TestUsage tests the command list.
func TestUsage(t *testing.T) {
	var out bytes.Buffer
	usage(&out)
	for _, cmd := range []string{"version", "train", "graph"} {
		assert.Contains(t, out.String(), cmd)
	}
}
