package simpolicy_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/wvcp-mcts/internal/simpolicy"
	"github.com/stretchr/testify/require"
)

func TestDistanceZeroForIdenticalColorings(t *testing.T) {
	colors := []int{0, 1, 2, 0, 1, 2}
	require.Zero(t, simpolicy.DistanceApproximation(colors, 3, colors, 3))
	require.Zero(t, simpolicy.DistanceExact(colors, 3, colors, 3))
}

func TestDistanceZeroUnderColorRelabeling(t *testing.T) {
	col1 := []int{0, 1, 2, 0, 1, 2}
	col2 := []int{2, 0, 1, 2, 0, 1}
	require.Zero(t, simpolicy.DistanceApproximation(col1, 3, col2, 3))
	require.Zero(t, simpolicy.DistanceExact(col1, 3, col2, 3))
}

func TestDistanceExactOnKnownSplit(t *testing.T) {
	// col2 splits col1's single class in two: relabeling can save at most
	// the bigger half, so two vertices must change.
	col1 := []int{0, 0, 0, 0}
	col2 := []int{0, 0, 1, 1}
	require.Equal(t, 2, simpolicy.DistanceExact(col1, 1, col2, 2))
}

func TestDistanceApproximationBoundedByExact(t *testing.T) {
	r := rand.New(rand.NewSource(13))
	const n = 12
	for trial := 0; trial < 50; trial++ {
		nb1 := 1 + r.Intn(4)
		nb2 := 1 + r.Intn(4)
		col1 := make([]int, n)
		col2 := make([]int, n)
		for i := 0; i < n; i++ {
			col1[i] = r.Intn(nb1)
			col2[i] = r.Intn(nb2)
		}
		approx := simpolicy.DistanceApproximation(col1, nb1, col2, nb2)
		exact := simpolicy.DistanceExact(col1, nb1, col2, nb2)
		require.GreaterOrEqual(t, approx, 0)
		require.LessOrEqual(t, approx, n)
		require.LessOrEqual(t, approx, exact)
		require.LessOrEqual(t, exact, n)
	}
}
