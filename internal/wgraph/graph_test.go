package wgraph_test

import (
	"testing"

	"github.com/katalvlaran/wvcp-mcts/internal/wgraph"
	"github.com/stretchr/testify/require"
)

func TestNewGraphRejectsNegativeVertexCount(t *testing.T) {
	_, err := wgraph.NewGraph(-1, nil, nil)
	require.ErrorIs(t, err, wgraph.ErrNegativeVertexCount)
}

func TestNewGraphRejectsWeightCountMismatch(t *testing.T) {
	_, err := wgraph.NewGraph(3, nil, []int{1, 2})
	require.ErrorIs(t, err, wgraph.ErrWeightCountMismatch)
}

func TestNewGraphRejectsNonPositiveWeight(t *testing.T) {
	_, err := wgraph.NewGraph(2, nil, []int{1, 0})
	require.ErrorIs(t, err, wgraph.ErrNonPositiveWeight)
}

func TestNewGraphRejectsOutOfRangeEdge(t *testing.T) {
	_, err := wgraph.NewGraph(2, []wgraph.Edge{{U: 0, V: 5}}, nil)
	require.ErrorIs(t, err, wgraph.ErrEdgeOutOfRange)
}

func TestNewGraphDropsSelfLoopsAndDedupsParallelEdges(t *testing.T) {
	g, err := wgraph.NewGraph(3, []wgraph.Edge{
		{U: 0, V: 1},
		{U: 1, V: 0},
		{U: 2, V: 2},
	}, []int{1, 1, 1})
	require.NoError(t, err)
	require.Equal(t, 1, g.NbEdges())
	require.Len(t, g.EdgesList(), 1)
}

func TestNewGraphSortsByWeightDescThenDegreeDesc(t *testing.T) {
	// The raw edges form a triangle, so every vertex has degree 2. Raw vertex
	// 0 has weight 1; raw vertices 1 and 2 both have weight 5.
	edges := []wgraph.Edge{
		{U: 1, V: 0},
		{U: 2, V: 0},
		{U: 2, V: 1},
	}
	g, err := wgraph.NewGraph(3, edges, []int{1, 5, 5})
	require.NoError(t, err)

	for v := 0; v < g.NbVertices()-1; v++ {
		if g.Weight(v) == g.Weight(v+1) {
			require.GreaterOrEqual(t, g.Degree(v), g.Degree(v+1))
		} else {
			require.Greater(t, g.Weight(v), g.Weight(v+1))
		}
	}
	require.Len(t, g.OriginalIndex, 3)
}

func TestNewGraphAdjacencyMatrixMatchesNeighborLists(t *testing.T) {
	g, err := wgraph.NewGraph(4, []wgraph.Edge{
		{U: 0, V: 1},
		{U: 1, V: 2},
		{U: 2, V: 3},
	}, nil)
	require.NoError(t, err)

	for u := 0; u < g.NbVertices(); u++ {
		for _, v := range g.Neighbors(u) {
			require.True(t, g.Adjacent(u, v))
			require.True(t, g.Adjacent(v, u))
		}
	}
}

func TestNewGraphDefaultWeightsAreOne(t *testing.T) {
	g, err := wgraph.NewGraph(3, nil, nil)
	require.NoError(t, err)
	for v := 0; v < g.NbVertices(); v++ {
		require.Equal(t, 1, g.Weight(v))
	}
}

func TestMaxDegree(t *testing.T) {
	g, err := wgraph.NewGraph(4, []wgraph.Edge{
		{U: 0, V: 1},
		{U: 0, V: 2},
		{U: 0, V: 3},
	}, nil)
	require.NoError(t, err)
	require.Equal(t, 3, g.MaxDegree())
}
