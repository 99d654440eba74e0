package mcts_test

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/katalvlaran/wvcp-mcts/internal/mcts"
	"github.com/katalvlaran/wvcp-mcts/internal/wcoloring"
	"github.com/katalvlaran/wvcp-mcts/internal/wconfig"
	"github.com/katalvlaran/wvcp-mcts/internal/wgraph"
	"github.com/stretchr/testify/require"
)

func smallCycleGraph(t *testing.T) *wgraph.Graph {
	t.Helper()
	g, err := wgraph.NewGraph(6, []wgraph.Edge{
		{U: 0, V: 1}, {U: 1, V: 2}, {U: 2, V: 3},
		{U: 3, V: 4}, {U: 4, V: 5}, {U: 5, V: 0},
	}, []int{3, 2, 1, 3, 2, 1})
	require.NoError(t, err)
	return g
}

func TestNextPossibleMovesCoversEveryConflictFreeColorPlusOpenNew(t *testing.T) {
	g := smallCycleGraph(t)
	s := wcoloring.NewState(g)
	moves := mcts.NextPossibleMoves(s, 1<<30)
	require.Len(t, moves, 1)
	require.Equal(t, wcoloring.Unassigned, moves[0].Color)

	mcts.ApplyAction(s, moves[0])
	moves = mcts.NextPossibleMoves(s, 1<<30)
	require.Len(t, moves, 2)
}

func TestNextPossibleMovesPrunesAgainstBestScore(t *testing.T) {
	g := smallCycleGraph(t)
	s := wcoloring.NewState(g)
	first := mcts.NextPossibleMoves(s, 1<<30)[0]
	mcts.ApplyAction(s, first)

	moves := mcts.NextPossibleMoves(s, 1)
	require.Empty(t, moves)
}

func TestNextPossibleMovesReturnsEmptyWhenFullyColored(t *testing.T) {
	g := smallCycleGraph(t)
	s := wcoloring.NewState(g)
	r := rand.New(rand.NewSource(1))
	for s.FirstFreeVertex() < g.NbVertices() {
		moves := mcts.NextPossibleMoves(s, 1<<30)
		require.NotEmpty(t, moves)
		mcts.ApplyAction(s, moves[r.Intn(len(moves))])
	}
	require.Empty(t, mcts.NextPossibleMoves(s, 1<<30))
}

func TestEngineRunProducesProperColoringOnSmallCycle(t *testing.T) {
	g := smallCycleGraph(t)
	opts := wconfig.DefaultOptions()
	opts.NbMaxIterations = 200
	opts.Simulation = "no_ls"
	opts.LocalSearch = "none_ls"
	clock := wconfig.NewClock(5 * time.Second)
	r := rand.New(rand.NewSource(7))

	var mainBuf, tbtBuf bytes.Buffer
	engine, err := mcts.NewEngine(g, opts, clock, r, &mainBuf, &tbtBuf)
	require.NoError(t, err)

	best := engine.Run()
	require.Zero(t, best.NbConflictingVertices())
	require.NoError(t, best.CheckInvariants())
	require.Contains(t, mainBuf.String(), "turn,time,depth")
}

func TestEngineRunWithAdaptiveLocalSearch(t *testing.T) {
	g := smallCycleGraph(t)
	opts := wconfig.DefaultOptions()
	opts.NbMaxIterations = 100
	opts.Simulation = "chance"
	opts.LocalSearch = "tabu_col:tabu_weight"
	opts.Adaptive = "random"
	opts.NbIterLocalSearch = 50
	clock := wconfig.NewClock(5 * time.Second)
	r := rand.New(rand.NewSource(11))

	var mainBuf, tbtBuf bytes.Buffer
	engine, err := mcts.NewEngine(g, opts, clock, r, &mainBuf, &tbtBuf)
	require.NoError(t, err)

	best := engine.Run()
	require.Zero(t, best.NbConflictingVertices())
	require.NoError(t, best.CheckInvariants())
	require.Contains(t, tbtBuf.String(), "#operators")
}

func TestNewEngineRejectsUnknownNames(t *testing.T) {
	g := smallCycleGraph(t)
	clock := wconfig.NewClock(time.Second)
	r := rand.New(rand.NewSource(1))

	opts := wconfig.DefaultOptions()
	opts.Initialization = "bogus"
	_, err := mcts.NewEngine(g, opts, clock, r, nil, nil)
	require.Error(t, err)

	opts = wconfig.DefaultOptions()
	opts.LocalSearch = "bogus"
	_, err = mcts.NewEngine(g, opts, clock, r, nil, nil)
	require.Error(t, err)
}
