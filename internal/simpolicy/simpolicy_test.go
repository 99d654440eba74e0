package simpolicy_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/wvcp-mcts/internal/simpolicy"
	"github.com/stretchr/testify/require"
)

type fakeState struct {
	score           int
	firstFreeVertex int
	nbColors        int
	colors          []int
}

func (f fakeState) ScoreWVCP() int        { return f.score }
func (f fakeState) FirstFreeVertex() int  { return f.firstFreeVertex }
func (f fakeState) NbColors() int         { return f.nbColors }
func (f fakeState) Colors() []int         { return f.colors }

func TestNoLSNeverRuns(t *testing.T) {
	require.False(t, simpolicy.NoLS(fakeState{}, simpolicy.NewHelper(10, 100), nil))
}

func TestAlwaysLSAlwaysRuns(t *testing.T) {
	require.True(t, simpolicy.AlwaysLS(fakeState{}, simpolicy.NewHelper(10, 100), nil))
}

func TestFitRejectsHighScoreSolutions(t *testing.T) {
	h := simpolicy.NewHelper(10, 100)
	s := fakeState{score: 200, colors: []int{0, 1, 2}, nbColors: 3}
	require.False(t, simpolicy.Fit(s, h, nil))
}

func TestFitAcceptsAndRecordsLowScoreDistinctSolution(t *testing.T) {
	h := simpolicy.NewHelper(10, 100)
	s := fakeState{score: 95, colors: make([]int, 10), nbColors: 1}
	require.True(t, simpolicy.Fit(s, h, nil))
	require.Len(t, h.PastSolutions, 1)
	require.Equal(t, 95, h.FitCondition)
}

func TestFitRejectsTooSimilarSolution(t *testing.T) {
	h := simpolicy.NewHelper(10, 100)
	colors := make([]int, 10)
	s := fakeState{score: 95, colors: colors, nbColors: 1}
	require.True(t, simpolicy.Fit(s, h, nil))
	require.False(t, simpolicy.Fit(s, h, nil))
}

func TestLevelOnlyTriggersOnBoundary(t *testing.T) {
	h := simpolicy.NewHelper(20, 100)
	offBoundary := fakeState{firstFreeVertex: h.DepthMin + 1, colors: make([]int, 20), nbColors: 1}
	onBoundary := fakeState{firstFreeVertex: h.DepthMin * 2, colors: make([]int, 20), nbColors: 1}
	require.False(t, simpolicy.Level(offBoundary, h, nil))
	require.True(t, simpolicy.Level(onBoundary, h, nil))
}

func TestChanceRespectsFlatProbability(t *testing.T) {
	h := simpolicy.NewHelper(10, 100)
	r := rand.New(rand.NewSource(1))
	ran := false
	for i := 0; i < 200; i++ {
		if simpolicy.Chance(fakeState{colors: []int{0}, nbColors: 1}, h, r) {
			ran = true
			break
		}
	}
	require.True(t, ran)
}

func TestByNameResolvesAllPolicies(t *testing.T) {
	names := []string{"no_ls", "always_ls", "fit", "depth", "level", "depth_fit", "chance"}
	for _, name := range names {
		fn, ok := simpolicy.ByName(name)
		require.True(t, ok, name)
		require.NotNil(t, fn, name)
	}
	_, ok := simpolicy.ByName("bogus")
	require.False(t, ok)
}
