package construct_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/wvcp-mcts/internal/construct"
	"github.com/katalvlaran/wvcp-mcts/internal/wcoloring"
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

func assertCompleteProperColoring(t *testing.T, s *wcoloring.State, g *wgraph.Graph) {
	t.Helper()
	for v := 0; v < g.NbVertices(); v++ {
		require.NotEqual(t, wcoloring.Unassigned, s.Color(v))
	}
	require.Zero(t, s.NbConflictingVertices())
	require.NoError(t, s.CheckInvariants())
}

func TestTotalRandomProducesCompleteProperColoring(t *testing.T) {
	g := petersenLikeGraph(t)
	s := wcoloring.NewState(g)
	construct.TotalRandom(s, rand.New(rand.NewSource(1)))
	assertCompleteProperColoring(t, s, g)
}

func TestGreedyRandomProducesCompleteProperColoring(t *testing.T) {
	g := petersenLikeGraph(t)
	s := wcoloring.NewState(g)
	construct.GreedyRandom(s, rand.New(rand.NewSource(2)))
	assertCompleteProperColoring(t, s, g)
}

func TestGreedyConstrainedProducesCompleteProperColoring(t *testing.T) {
	g := petersenLikeGraph(t)
	s := wcoloring.NewState(g)
	construct.GreedyConstrained(s, rand.New(rand.NewSource(3)))
	assertCompleteProperColoring(t, s, g)
}

func TestGreedyDeterministicProducesCompleteProperColoring(t *testing.T) {
	g := petersenLikeGraph(t)
	s := wcoloring.NewState(g)
	construct.GreedyDeterministic(s, nil)
	assertCompleteProperColoring(t, s, g)
}

func TestGreedyWorstOpensOneColorPerVertex(t *testing.T) {
	g := petersenLikeGraph(t)
	s := wcoloring.NewState(g)
	construct.GreedyWorst(s, nil)
	assertCompleteProperColoring(t, s, g)
	require.Equal(t, g.NbVertices(), len(s.NonEmptyColors()))
}

func TestGreedyDSaturProducesCompleteProperColoring(t *testing.T) {
	g := petersenLikeGraph(t)
	s := wcoloring.NewState(g)
	construct.GreedyDSatur(s, nil)
	assertCompleteProperColoring(t, s, g)
}

func TestGreedyDSaturFromPartialColoring(t *testing.T) {
	g := petersenLikeGraph(t)
	s := wcoloring.NewState(g)
	_, err := s.Assign(0, wcoloring.Unassigned)
	require.NoError(t, err)
	s.IncrementFirstFreeVertex()
	construct.GreedyDSatur(s, nil)
	assertCompleteProperColoring(t, s, g)
}

func TestGreedyRLFProducesCompleteProperColoring(t *testing.T) {
	g := petersenLikeGraph(t)
	s := wcoloring.NewState(g)
	construct.GreedyRLF(s, nil)
	assertCompleteProperColoring(t, s, g)
}

func TestByNameResolvesAllInitializers(t *testing.T) {
	names := []string{"total_random", "random", "constrained", "deterministic", "worst", "dsatur", "rlf"}
	for _, name := range names {
		fn, ok := construct.ByName(name)
		require.True(t, ok, name)
		require.NotNil(t, fn, name)
	}
	_, ok := construct.ByName("bogus")
	require.False(t, ok)
}
