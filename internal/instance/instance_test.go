package instance_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/wvcp-mcts/internal/instance"
	"github.com/katalvlaran/wvcp-mcts/internal/wconfig"
	"github.com/stretchr/testify/require"
)

func writeInstance(t *testing.T, root, name, col, weights string) {
	t.Helper()
	dir := filepath.Join(root, "reduced_wvcp")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".col"), []byte(col), 0o644))
	if weights != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".col.w"), []byte(weights), 0o644))
	}
}

func TestLoadParsesColAndWeightFiles(t *testing.T) {
	root := t.TempDir()
	writeInstance(t, root, "p3",
		"c a path on three vertices\np edge 3 2\ne 1 2\ne 2 3\n",
		"3 2 1\n")

	g, err := instance.Load(root, "p3", wconfig.ProblemWVCP)
	require.NoError(t, err)
	require.Equal(t, 3, g.NbVertices())
	require.Equal(t, 2, g.NbEdges())
	// G-1: heaviest vertex first.
	require.Equal(t, 3, g.Weight(0))
	require.Equal(t, 1, g.Weight(g.NbVertices()-1))
}

func TestLoadGCPUsesUnitWeights(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "reduced_gcp")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "k3.col"),
		[]byte("p edge 3 3\ne 1 2\ne 2 3\ne 1 3\n"), 0o644))

	g, err := instance.Load(root, "k3", wconfig.ProblemGCP)
	require.NoError(t, err)
	for v := 0; v < g.NbVertices(); v++ {
		require.Equal(t, 1, g.Weight(v))
	}
}

func TestLoadToleratesMissingProblemLine(t *testing.T) {
	root := t.TempDir()
	writeInstance(t, root, "nop", "e 1 2\ne 2 4\n", "4 3 2 1\n")

	g, err := instance.Load(root, "nop", wconfig.ProblemWVCP)
	require.NoError(t, err)
	require.Equal(t, 4, g.NbVertices())
	require.Equal(t, 2, g.NbEdges())
}

func TestLoadRejectsWeightCountMismatch(t *testing.T) {
	root := t.TempDir()
	writeInstance(t, root, "bad", "p edge 3 1\ne 1 2\n", "5 4\n")

	_, err := instance.Load(root, "bad", wconfig.ProblemWVCP)
	require.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := instance.Load(t.TempDir(), "absent", wconfig.ProblemWVCP)
	require.Error(t, err)
}

func TestLoadAcceptsDirectColPath(t *testing.T) {
	root := t.TempDir()
	colPath := filepath.Join(root, "direct.col")
	require.NoError(t, os.WriteFile(colPath, []byte("p edge 2 1\ne 1 2\n"), 0o644))
	require.NoError(t, os.WriteFile(colPath+".w", []byte("2 1\n"), 0o644))

	g, err := instance.Load("ignored", colPath, wconfig.ProblemWVCP)
	require.NoError(t, err)
	require.Equal(t, 2, g.NbVertices())
	require.Equal(t, 2, g.Weight(0))
}
