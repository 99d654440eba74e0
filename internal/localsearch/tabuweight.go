package localsearch

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/wvcp-mcts/internal/wcoloring"
)

// TabuWeight searches over the WVCP score directly rather than over
// conflicts: the neighborhood is every (vertex, color) pair where color is
// either conflict-free or -1 (open a new color). A move is accepted if it
// improves on the best score seen anywhere in the run (aspiration,
// overriding tabu) or improves on the best-in-tabu-window score while not
// tabu. The vacated vertex becomes tabu for `turn + nb_non_empty_colors`
// turns.
func TabuWeight(s *wcoloring.State, budget Budget, r *rand.Rand) {
	n := s.Graph().NbVertices()
	tabuList := make([]int64, n)

	bestScore := s.ScoreWVCP()
	bestSolution := s.Clone()
	defer func() { s.RestoreFrom(bestSolution) }()

	var turn int64
	for int(turn) < budget.NbIterLocalSearch &&
		!(budget.UseTarget && bestScore <= budget.Target) {
		if checkEvery(budget, int(turn)) {
			return
		}
		turn++

		var bestColorations []coloration
		bestEvaluation := math.MaxInt32

		possibleColors := append([]int(nil), s.NonEmptyColors()...)
		possibleColors = append(possibleColors, wcoloring.Unassigned)

		for vertex := 0; vertex < n; vertex++ {
			for _, color := range possibleColors {
				if color == s.Color(vertex) {
					continue
				}
				if color != wcoloring.Unassigned && s.ConflictsColors(color, vertex) != 0 {
					continue
				}
				testScore := s.ScoreWVCP() + s.DeltaScore(vertex, color)
				notTabu := tabuList[vertex] <= turn
				aspires := testScore < bestScore
				switch {
				case testScore < bestEvaluation && (notTabu || aspires):
					bestEvaluation = testScore
					bestColorations = bestColorations[:0]
					bestColorations = append(bestColorations, coloration{vertex, color})
				case testScore == bestEvaluation && (notTabu || aspires):
					bestColorations = append(bestColorations, coloration{vertex, color})
				}
			}
		}

		if len(bestColorations) == 0 {
			continue
		}
		chosen := chooseColoration(bestColorations, r)
		if _, err := s.Unassign(chosen.vertex); err != nil {
			continue
		}
		if _, err := s.Assign(chosen.vertex, chosen.color); err != nil {
			continue
		}
		tabuList[chosen.vertex] = turn + int64(len(s.NonEmptyColors()))

		if s.ScoreWVCP() < bestScore {
			bestScore = s.ScoreWVCP()
			bestSolution = s.Clone()
		}
	}
}
