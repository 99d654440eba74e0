package localsearch

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/wvcp-mcts/internal/wcoloring"
	"github.com/katalvlaran/wvcp-mcts/internal/xrand"
)

// PartialCol works on partial colorings instead of conflicting ones: it
// deletes the color class cheapest to relocate, parks the vertices that
// cannot move into the target color in an unassigned pool, then runs a tabu
// search over (unassigned vertex, color) insertions until the pool is empty
// again. Inserting a vertex ejects its same-colored neighbors back into the
// pool; every (neighbor, color) pair of the inserted vertex, ejected or not,
// becomes tabu for `turn + floor(0.6*|unassigned|) + U[0,10]` turns so the
// insertion is not immediately undone. Only complete poolless rounds are committed to the
// caller's state.
func PartialCol(s *wcoloring.State, budget Budget, r *rand.Rand) {
	n := s.Graph().NbVertices()
	work := s.Clone()

	turnMain := 0
	for turnMain < budget.NbIterLocalSearch && !budget.expired() {
		turnMain++

		unassigned, ok := removeColorUnassigned(work)
		if !ok {
			return
		}
		bestFound := len(unassigned)

		tabuMatrix := make([][]int64, n)
		for i := range tabuMatrix {
			tabuMatrix[i] = make([]int64, work.NbColors())
		}

		var turn int64
		for bestFound != 0 {
			if checkEvery(budget, int(turn)) {
				return
			}
			turn++

			bestCurrent := math.MaxInt32
			var bestColorations []coloration

			for _, vertex := range unassigned {
				for _, color := range work.NonEmptyColors() {
					nbConflicts := work.ConflictsColors(color, vertex)
					if nbConflicts > bestCurrent {
						continue
					}
					isMoveTabu := color < len(tabuMatrix[vertex]) && tabuMatrix[vertex][color] >= turn
					isImproving := nbConflicts == 0 && len(unassigned) <= bestFound
					if isMoveTabu && !isImproving {
						continue
					}
					if nbConflicts < bestCurrent {
						bestCurrent = nbConflicts
						bestColorations = bestColorations[:0]
					}
					bestColorations = append(bestColorations, coloration{vertex, color})
				}
			}

			if len(bestColorations) == 0 {
				vertex := xrand.ChoiceInt(unassigned, r)
				color := xrand.ChoiceInt(work.NonEmptyColors(), r)
				bestColorations = append(bestColorations, coloration{vertex, color})
			}

			chosen := chooseColoration(bestColorations, r)
			if _, err := work.Assign(chosen.vertex, chosen.color); err != nil {
				continue
			}
			unassigned = removeVertex(unassigned, chosen.vertex)

			for _, neighbor := range work.Graph().Neighbors(chosen.vertex) {
				// Keep the neighbors out of the chosen color for a while so
				// the inserted vertex does not immediately drop back out.
				tenure := int64(0.6*float64(len(unassigned))) + int64(r.Intn(11))
				if chosen.color < len(tabuMatrix[neighbor]) {
					tabuMatrix[neighbor][chosen.color] = turn + tenure
				}
				if work.Color(neighbor) == chosen.color {
					_, _ = work.Unassign(neighbor)
					unassigned = append(unassigned, neighbor)
				}
			}

			if len(unassigned) < bestFound {
				bestFound = len(unassigned)
			}
		}

		s.RestoreFrom(work)
		if budget.UseTarget && s.ScoreWVCP() <= budget.Target {
			return
		}
	}
}

// removeColorUnassigned deletes the color pair whose relocation is cheapest
// (the same criterion as RemoveOneColorAndCreateConflicts), but instead of
// creating conflicts it leaves the vertices that would conflict unassigned,
// returning them. The second return is false when fewer than two colors are
// in use and nothing can be removed.
func removeColorUnassigned(s *wcoloring.State) ([]int, bool) {
	bestSumConflicts := s.Graph().NbVertices()
	bestColor1, bestColor2 := wcoloring.Unassigned, wcoloring.Unassigned
	for _, color1 := range s.NonEmptyColors() {
		for _, color2 := range s.NonEmptyColors() {
			if color1 == color2 {
				continue
			}
			sumConflicts := 0
			for _, vertex := range s.ColorsVertices(color1) {
				sumConflicts += s.ConflictsColors(color2, vertex)
			}
			if sumConflicts < bestSumConflicts {
				bestColor1, bestColor2 = color1, color2
				bestSumConflicts = sumConflicts
			}
		}
	}
	if bestColor1 == wcoloring.Unassigned {
		return nil, false
	}

	var unassigned []int
	toDelete := append([]int(nil), s.ColorsVertices(bestColor1)...)
	for _, vertex := range toDelete {
		_, _ = s.Unassign(vertex)
		if s.ConflictsColors(bestColor2, vertex) == 0 {
			_, _ = s.Assign(vertex, bestColor2)
		} else {
			unassigned = append(unassigned, vertex)
		}
	}
	return unassigned, true
}

func removeVertex(a []int, v int) []int {
	for i, x := range a {
		if x == v {
			a[i] = a[len(a)-1]
			return a[:len(a)-1]
		}
	}
	return a
}
