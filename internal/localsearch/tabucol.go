package localsearch

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/wvcp-mcts/internal/wcoloring"
)

// TabuCol runs at a fixed color budget: whenever the working coloring has no
// conflicts, a color is forcibly removed (creating new ones) so the search
// keeps pushing toward fewer colors. Each inner step scans every conflicting
// vertex against every non-empty color other than its own, picks uniformly
// among the moves minimizing delta_conflicts (subject to a tabu list with
// aspiration), and marks the vacated (vertex, old_color) pair tabu for
// `turn + U[0,10] + floor(0.6*penalty)` turns. Only conflict-free rounds are
// committed back to the caller's state, so s always holds the best proper
// coloring reached.
func TabuCol(s *wcoloring.State, budget Budget, r *rand.Rand) {
	n := s.Graph().NbVertices()
	work := s.Clone()

	turnMain := 0
	for turnMain < budget.NbIterLocalSearch && !budget.expired() {
		turnMain++
		if work.NbConflictingVertices() == 0 {
			work.RemoveOneColorAndCreateConflicts()
		}
		bestFound := work.Penalty()

		tabuMatrix := make([][]int, n)
		for i := range tabuMatrix {
			tabuMatrix[i] = make([]int, work.NbColors())
		}

		var turn int64
		for bestFound != 0 {
			if checkEvery(budget, int(turn)) {
				break
			}
			turn++

			bestCurrent := math.MaxInt32
			var bestColorations []coloration

			for vertex := 0; vertex < n; vertex++ {
				if !work.HasConflicts(vertex) {
					continue
				}
				for _, color := range work.NonEmptyColors() {
					if color == work.Color(vertex) {
						continue
					}
					deltaConflict := work.DeltaConflicts(vertex, color)
					if deltaConflict > bestCurrent {
						continue
					}
					// A color opened after tabuMatrix was sized is never tabu.
					isMoveTabu := color < len(tabuMatrix[vertex]) && int64(tabuMatrix[vertex][color]) >= turn
					isImproving := work.Penalty()+deltaConflict < bestFound
					if isMoveTabu && !isImproving {
						continue
					}
					if deltaConflict < bestCurrent {
						bestCurrent = deltaConflict
						bestColorations = bestColorations[:0]
					}
					bestColorations = append(bestColorations, coloration{vertex, color})
				}
			}

			if len(bestColorations) == 0 {
				vertex := r.Intn(n)
				nonEmpty := work.NonEmptyColors()
				if len(nonEmpty) == 0 {
					return
				}
				color := nonEmpty[r.Intn(len(nonEmpty))]
				for tries := 0; color == work.Color(vertex) && tries < 2*len(nonEmpty); tries++ {
					color = nonEmpty[r.Intn(len(nonEmpty))]
				}
				bestColorations = append(bestColorations, coloration{vertex, color})
			}

			chosen := chooseColoration(bestColorations, r)
			oldColor, err := work.Unassign(chosen.vertex)
			if err != nil {
				continue
			}
			if _, err := work.Assign(chosen.vertex, chosen.color); err != nil {
				continue
			}

			if oldColor < len(tabuMatrix[chosen.vertex]) {
				tabuMatrix[chosen.vertex][oldColor] = int(turn) + r.Intn(11) + int(0.6*float64(work.Penalty()))
			}

			if work.Penalty() < bestFound {
				bestFound = work.Penalty()
			}
		}

		if work.Penalty() == 0 {
			s.RestoreFrom(work)
			if budget.UseTarget && s.ScoreWVCP() <= budget.Target {
				return
			}
		}
	}
}

func checkEvery(budget Budget, step int) bool {
	if step&deadlineCheckMask != 0 {
		return false
	}
	return budget.expired()
}
