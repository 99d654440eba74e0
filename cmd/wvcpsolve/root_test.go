package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildOptionsLayersFileUnderFlags(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "wvcpsolve.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"method: local_search\nrand_seed: 42\nwindow_size: 9\n"), 0o644))

	flags := rootCmd.Flags()
	require.NoError(t, flags.Set("config", cfgPath))
	require.NoError(t, flags.Set("instance", "queen10_10"))
	require.NoError(t, flags.Set("method", "mcts"))

	opts, err := buildOptions(rootCmd)
	require.NoError(t, err)

	// Explicit flag beats the file; file beats the default; untouched
	// fields keep their defaults.
	require.Equal(t, "mcts", opts.Method)
	require.Equal(t, int64(42), opts.RandSeed)
	require.Equal(t, 9, opts.WindowSize)
	require.Equal(t, "queen10_10", opts.Instance)
	require.Equal(t, "fit", opts.Simulation)
}
