package wconfig_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/katalvlaran/wvcp-mcts/internal/wconfig"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptionsValidates(t *testing.T) {
	require.NoError(t, wconfig.DefaultOptions().Validate())
}

func TestValidateRejectsUnknownProblem(t *testing.T) {
	o := wconfig.DefaultOptions()
	o.Problem = "not-a-problem"
	require.ErrorIs(t, o.Validate(), wconfig.ErrUnknownProblem)
}

func TestValidateRejectsNonPositiveWindowSize(t *testing.T) {
	o := wconfig.DefaultOptions()
	o.WindowSize = 0
	require.ErrorIs(t, o.Validate(), wconfig.ErrNonPositiveWindowSize)
}

func TestLoadFileMissingIsNotAnError(t *testing.T) {
	overlay, err := wconfig.LoadFile(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	require.Nil(t, overlay)
}

func TestLoadFileEmptyPathIsNotAnError(t *testing.T) {
	overlay, err := wconfig.LoadFile("")
	require.NoError(t, err)
	require.Nil(t, overlay)
}

func TestLoadFileAppliesOverridesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wvcpsolve.yml")
	writeFile(t, path, "method: tabu_weight\nwindow_size: 20\n")

	overlay, err := wconfig.LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, overlay)

	merged := overlay.ApplyTo(wconfig.DefaultOptions())
	require.Equal(t, "tabu_weight", merged.Method)
	require.Equal(t, 20, merged.WindowSize)
	// Untouched field keeps the default.
	require.Equal(t, wconfig.ProblemWVCP, merged.Problem)
}

func TestNilOverlayApplyToIsIdentity(t *testing.T) {
	var overlay *wconfig.FileOverlay
	merged := overlay.ApplyTo(wconfig.DefaultOptions())
	require.Equal(t, wconfig.DefaultOptions(), merged)
}

func TestClockStopIsCooperative(t *testing.T) {
	c := wconfig.NewClock(0)
	require.False(t, c.ShouldStop())
	c.Stop()
	require.True(t, c.ShouldStop())
}

func TestClockDeadlineExpires(t *testing.T) {
	c := wconfig.NewClock(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	require.True(t, c.ShouldStop())
}

func TestCheckEverySkipsBetweenMasks(t *testing.T) {
	c := wconfig.NewClock(0)
	c.Stop()
	require.False(t, wconfig.CheckEvery(c, 1, 3))
	require.True(t, wconfig.CheckEvery(c, 4, 3))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
