package runner_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/katalvlaran/wvcp-mcts/internal/runner"
	"github.com/katalvlaran/wvcp-mcts/internal/wconfig"
	"github.com/katalvlaran/wvcp-mcts/internal/wgraph"
	"github.com/stretchr/testify/require"
)

func completeGraph(t *testing.T, n int, weights []int) *wgraph.Graph {
	t.Helper()
	var edges []wgraph.Edge
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			edges = append(edges, wgraph.Edge{U: u, V: v})
		}
	}
	g, err := wgraph.NewGraph(n, edges, weights)
	require.NoError(t, err)
	return g
}

func lsOptions(init, operator string) wconfig.Options {
	opts := wconfig.DefaultOptions()
	opts.Method = "local_search"
	opts.Initialization = init
	opts.LocalSearch = operator
	opts.NbIterLocalSearch = 500
	opts.MaxTimeLocalSearch = 2 * time.Second
	return opts
}

// Complete graph on five vertices, unit weights: every vertex needs its own
// color and the score equals the color count.
func TestSolveK5UnitWeightsDeterministic(t *testing.T) {
	g := completeGraph(t, 5, []int{1, 1, 1, 1, 1})
	opts := lsOptions("deterministic", "none_ls")

	var buf bytes.Buffer
	best, err := runner.Solve(g, opts, wconfig.NewClock(10*time.Second), &buf, nil)
	require.NoError(t, err)
	require.Equal(t, 5, best.ScoreWVCP())
	require.Equal(t, 5, len(best.NonEmptyColors()))
	require.Contains(t, buf.String(), "turn,time,nb_colors,penalty,score,solution")
}

// Path a-b-c with weights 3,2,1: the optimum groups the endpoints, paying
// 3 for {a,c} plus 2 for {b}.
func TestSolvePathThreeTabuWeight(t *testing.T) {
	g, err := wgraph.NewGraph(3,
		[]wgraph.Edge{{U: 0, V: 1}, {U: 1, V: 2}},
		[]int{3, 2, 1})
	require.NoError(t, err)
	opts := lsOptions("deterministic", "tabu_weight")

	best, err := runner.Solve(g, opts, wconfig.NewClock(5*time.Second), nil, nil)
	require.NoError(t, err)
	require.Equal(t, 5, best.ScoreWVCP())
	require.Zero(t, best.NbConflictingVertices())
}

// Five isolated vertices all fit in one color; the score is the heaviest.
func TestSolveIsolatedVerticesOneColor(t *testing.T) {
	g, err := wgraph.NewGraph(5, nil, []int{5, 4, 3, 2, 1})
	require.NoError(t, err)
	opts := lsOptions("deterministic", "tabu_weight")
	opts.NbIterLocalSearch = 50

	best, err := runner.Solve(g, opts, wconfig.NewClock(5*time.Second), nil, nil)
	require.NoError(t, err)
	require.Equal(t, 5, best.ScoreWVCP())
	require.Equal(t, 1, len(best.NonEmptyColors()))
}

// K4 with distinct weights: every coloring is one vertex per color, so MCTS
// must stop at the target 4+3+2+1 = 10.
func TestSolveMCTSK4ReachesTarget(t *testing.T) {
	g := completeGraph(t, 4, []int{4, 3, 2, 1})
	opts := wconfig.DefaultOptions()
	opts.Method = "mcts"
	opts.Initialization = "total_random"
	opts.Simulation = "no_ls"
	opts.LocalSearch = "none_ls"
	opts.NbMaxIterations = 100000
	opts.UseTarget = true
	opts.Target = 10

	var buf bytes.Buffer
	best, err := runner.Solve(g, opts, wconfig.NewClock(30*time.Second), &buf, nil)
	require.NoError(t, err)
	require.Equal(t, 10, best.ScoreWVCP())
	require.Equal(t, 4, len(best.NonEmptyColors()))
}

// Six-cycle with unit weights is 2-colorable; tabu_col at target 2 must
// find the proper 2-coloring.
func TestSolveCycleSixTabuColReachesTwoColors(t *testing.T) {
	var edges []wgraph.Edge
	for i := 0; i < 6; i++ {
		edges = append(edges, wgraph.Edge{U: i, V: (i + 1) % 6})
	}
	g, err := wgraph.NewGraph(6, edges, []int{1, 1, 1, 1, 1, 1})
	require.NoError(t, err)

	opts := lsOptions("random", "tabu_col")
	opts.Target = 2
	opts.RandSeed = 1

	best, err := runner.Solve(g, opts, wconfig.NewClock(30*time.Second), nil, nil)
	require.NoError(t, err)
	require.Equal(t, 2, best.ScoreWVCP())
	require.Equal(t, 2, len(best.NonEmptyColors()))
	require.Zero(t, best.Penalty())
}

func TestSolveRejectsUnknownNames(t *testing.T) {
	g := completeGraph(t, 3, []int{1, 1, 1})
	clock := wconfig.NewClock(time.Second)

	opts := lsOptions("bogus", "none_ls")
	_, err := runner.Solve(g, opts, clock, nil, nil)
	require.ErrorIs(t, err, runner.ErrUnknownInitializer)

	opts = lsOptions("deterministic", "bogus")
	_, err = runner.Solve(g, opts, clock, nil, nil)
	require.ErrorIs(t, err, runner.ErrUnknownLocalSearch)

	opts = lsOptions("deterministic", "none_ls")
	opts.Method = "bogus"
	_, err = runner.Solve(g, opts, clock, nil, nil)
	require.ErrorIs(t, err, runner.ErrUnknownMethod)
}

func TestRunWritesAndFinalizesOutputFiles(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "reduced_wvcp")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p3.col"),
		[]byte("p edge 3 2\ne 1 2\ne 2 3\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p3.col.w"),
		[]byte("3 2 1\n"), 0o644))

	outDir := filepath.Join(root, "out")
	opts := lsOptions("deterministic", "tabu_weight")
	opts.Instance = "p3"
	opts.InstancesDirectory = root
	opts.OutputDirectory = outDir
	opts.RandSeed = 7
	opts.TimeLimit = 5 * time.Second

	require.NoError(t, runner.Run(opts))

	mainPath := filepath.Join(outDir, "p3_7.csv")
	data, err := os.ReadFile(mainPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "#date,problem,instance")
	require.Contains(t, string(data), "turn,time,nb_colors,penalty,score,solution")

	_, err = os.Stat(mainPath + ".running")
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(outDir, "tbt", "p3_7.csv"))
	require.NoError(t, err)
}
