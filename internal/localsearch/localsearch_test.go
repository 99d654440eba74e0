package localsearch_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/katalvlaran/wvcp-mcts/internal/construct"
	"github.com/katalvlaran/wvcp-mcts/internal/localsearch"
	"github.com/katalvlaran/wvcp-mcts/internal/wcoloring"
	"github.com/katalvlaran/wvcp-mcts/internal/wconfig"
	"github.com/katalvlaran/wvcp-mcts/internal/wgraph"
	"github.com/stretchr/testify/require"
)

func petersenLikeGraph(t *testing.T) *wgraph.Graph {
	t.Helper()
	g, err := wgraph.NewGraph(6, []wgraph.Edge{
		{U: 0, V: 1}, {U: 1, V: 2}, {U: 2, V: 3},
		{U: 3, V: 4}, {U: 4, V: 5}, {U: 5, V: 0},
		{U: 0, V: 3}, {U: 1, V: 4},
	}, []int{6, 5, 4, 3, 2, 1})
	require.NoError(t, err)
	return g
}

func budget(t *testing.T, iters int) localsearch.Budget {
	t.Helper()
	return localsearch.Budget{
		NbIterLocalSearch: iters,
		Clock:             wconfig.NewClock(time.Second),
	}
}

func assertProperColoring(t *testing.T, s *wcoloring.State) {
	t.Helper()
	require.Zero(t, s.NbConflictingVertices())
	require.NoError(t, s.CheckInvariants())
}

func TestByNameResolvesAllOperators(t *testing.T) {
	names := []string{
		"tabu_col", "tabu_weight", "partial_col", "afisa", "afisa_original",
		"ilsts", "redls", "redls_freeze", "none_ls",
	}
	for _, name := range names {
		op, ok := localsearch.ByName(name)
		require.True(t, ok, name)
		require.NotNil(t, op, name)
	}
	_, ok := localsearch.ByName("bogus")
	require.False(t, ok)
}

func TestNoneLSLeavesStateUntouched(t *testing.T) {
	g := petersenLikeGraph(t)
	s := wcoloring.NewState(g)
	r := rand.New(rand.NewSource(1))
	construct.GreedyRandom(s, r)
	before := s.LineCSV()
	localsearch.NoneLS(s, budget(t, 10), r)
	require.Equal(t, before, s.LineCSV())
}

func TestTabuColMaintainsProperColoringAndNeverRaisesColorCount(t *testing.T) {
	g := petersenLikeGraph(t)
	s := wcoloring.NewState(g)
	r := rand.New(rand.NewSource(2))
	construct.GreedyRandom(s, r)
	before := s.NbColors()

	localsearch.TabuCol(s, budget(t, 200), r)

	assertProperColoring(t, s)
	require.LessOrEqual(t, s.NbColors(), before)
}

func TestTabuWeightNeverRaisesScore(t *testing.T) {
	g := petersenLikeGraph(t)
	s := wcoloring.NewState(g)
	r := rand.New(rand.NewSource(3))
	construct.GreedyRandom(s, r)
	before := s.ScoreWVCP()

	localsearch.TabuWeight(s, budget(t, 200), r)

	assertProperColoring(t, s)
	require.LessOrEqual(t, s.ScoreWVCP(), before)
}

func TestPartialColKeepsColoringCompleteAndProper(t *testing.T) {
	g := petersenLikeGraph(t)
	s := wcoloring.NewState(g)
	r := rand.New(rand.NewSource(9))
	construct.GreedyWorst(s, r)
	before := s.NbColors()

	localsearch.PartialCol(s, budget(t, 50), r)

	assertProperColoring(t, s)
	for v := 0; v < g.NbVertices(); v++ {
		require.NotEqual(t, wcoloring.Unassigned, s.Color(v))
	}
	require.LessOrEqual(t, len(s.NonEmptyColors()), before)
}

func TestAFISAProducesProperColoringAndNeverWorsens(t *testing.T) {
	g := petersenLikeGraph(t)
	s := wcoloring.NewState(g)
	r := rand.New(rand.NewSource(4))
	construct.GreedyRandom(s, r)
	before := s.ScoreWVCP()

	localsearch.AFISA(s, budget(t, 50), r)

	assertProperColoring(t, s)
	require.LessOrEqual(t, s.ScoreWVCP(), before)
}

func TestAFISAOriginalProducesProperColoringAndNeverWorsens(t *testing.T) {
	g := petersenLikeGraph(t)
	s := wcoloring.NewState(g)
	r := rand.New(rand.NewSource(5))
	construct.GreedyRandom(s, r)
	before := s.ScoreWVCP()

	localsearch.AFISAOriginal(s, budget(t, 50), r)

	assertProperColoring(t, s)
	require.LessOrEqual(t, s.ScoreWVCP(), before)
}

func TestILSTSProducesProperColoringAndNeverWorsens(t *testing.T) {
	g := petersenLikeGraph(t)
	s := wcoloring.NewState(g)
	r := rand.New(rand.NewSource(6))
	construct.GreedyRandom(s, r)
	before := s.ScoreWVCP()

	localsearch.ILSTS(s, budget(t, 200), r)

	assertProperColoring(t, s)
	require.LessOrEqual(t, s.ScoreWVCP(), before)
}

func TestRedLSKeepsInvariantsFromConflictingStart(t *testing.T) {
	g := petersenLikeGraph(t)
	s := wcoloring.NewState(g)
	r := rand.New(rand.NewSource(7))
	construct.GreedyWorst(s, r)
	for v := 0; v < g.NbVertices(); v++ {
		_, _ = s.Unassign(v)
	}
	for v := 0; v < g.NbVertices(); v++ {
		_, _ = s.Assign(v, 0)
	}
	require.NotZero(t, s.NbConflictingVertices())

	localsearch.RedLS(s, budget(t, 500), r)

	require.NoError(t, s.CheckInvariants())
}

func TestRedLSFreezeNeverTouchesFrozenVertices(t *testing.T) {
	g := petersenLikeGraph(t)
	s := wcoloring.NewState(g)
	r := rand.New(rand.NewSource(8))
	construct.GreedyRandom(s, r)
	s.IncrementFirstFreeVertex()
	frozenColor := s.Color(0)

	localsearch.RedLSFreeze(s, budget(t, 200), r)

	require.Equal(t, frozenColor, s.Color(0))
}
