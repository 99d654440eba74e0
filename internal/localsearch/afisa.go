package localsearch

import (
	"math"
	"math/rand"

	"github.com/katalvlaran/wvcp-mcts/internal/wcoloring"
)

// afisaPerturbation selects how the tabu loop marks moved vertices: the
// regular tenure (no perturbation), no tabu at all, or tabu for the rest of
// the phase (unlimited).
type afisaPerturbation int

const (
	afisaNoPerturbation afisaPerturbation = iota
	afisaNoTabu
	afisaUnlimited
)

const (
	afisaTabuPhaseFactor  = 10
	afisaNonImproveRounds = 50
	afisaSmallPerturbFrac = 0.05
	afisaLargePerturbFrac = 0.5
)

// AFISA alternates a long tabu phase over the augmented objective
// score_wvcp + penalty_coeff*penalty with a short perturbation phase of the
// same move selection whose tabu discipline is drawn by a fair coin (no
// tabu at all, or tabu for the whole phase). penalty_coeff adapts between
// rounds: +1 while the best-in-phase still has conflicts, -1 (floored at 1)
// once it is conflict-free. This variant keeps a per-vertex tabu list with
// tenure `turn + 0.2*n + U[0,10]`.
func AFISA(s *wcoloring.State, budget Budget, r *rand.Rand) {
	afisaRun(s, budget, r, false)
}

// AFISAOriginal is the per-(vertex, old_color) tenure variant: the vacated
// pair stays tabu for `turn + U[0,10] + floor(score + penalty_coeff*penalty*0.6)`
// turns, and the open-a-new-color move is withheld once the color count
// reaches its cap of max(nb_colors, 15)*1.15.
func AFISAOriginal(s *wcoloring.State, budget Budget, r *rand.Rand) {
	afisaRun(s, budget, r, true)
}

// afisaRun keeps s as the best feasible solution found: only conflict-free
// improvements are copied back into it. bestAfisa, the best solution by the
// augmented objective, may carry conflicts.
func afisaRun(s *wcoloring.State, budget Budget, r *rand.Rand, originalTenure bool) {
	n := s.Graph().NbVertices()

	bestAfisa := s.Clone()
	penaltyCoeff := 1
	noImprovement := 0
	smallPerturbation := int64(afisaSmallPerturbFrac * float64(n))
	largePerturbation := int64(afisaLargePerturbFrac * float64(n))
	perturbation := smallPerturbation
	nbTurnTabu := int64(afisaTabuPhaseFactor * n)

	var turn int64
	for int(turn) < budget.NbIterLocalSearch && !budget.expired() &&
		!(budget.UseTarget && s.ScoreWVCP() <= budget.Target) {
		turn++

		solution := bestAfisa.Clone()
		afisaTabu(solution, s, bestAfisa, penaltyCoeff, nbTurnTabu, afisaNoPerturbation, budget, r, originalTenure)

		if bestAfisa.ScoreWVCP() < s.ScoreWVCP() && bestAfisa.Penalty() == 0 {
			s.RestoreFrom(bestAfisa)
			noImprovement = 0
			perturbation = smallPerturbation
		} else {
			if bestAfisa.ScoreWVCP() == s.ScoreWVCP() && bestAfisa.Penalty() == 0 {
				s.RestoreFrom(bestAfisa)
			}
			noImprovement++
			if noImprovement == afisaNonImproveRounds {
				perturbation = largePerturbation
			}
		}

		if bestAfisa.Penalty() != 0 {
			penaltyCoeff++
		} else if penaltyCoeff > 1 {
			penaltyCoeff--
		}

		mode := afisaNoTabu
		if r.Intn(100) >= 50 {
			mode = afisaUnlimited
		}
		afisaTabu(solution, s, bestAfisa, penaltyCoeff, perturbation, mode, budget, r, originalTenure)
	}
}

// afisaTabu runs `turns` steps of best-move selection over every (vertex,
// color) pair, color -1 (open a new color) included. A move is taken when it
// improves the best augmented evaluation of the step and is not tabu, or
// when it would yield a conflict-free solution strictly better than the best
// feasible score (aspiration). bestAfisa is updated whenever the live
// augmented objective improves on it.
func afisaTabu(solution, best, bestAfisa *wcoloring.State,
	penaltyCoeff int, turns int64, mode afisaPerturbation,
	budget Budget, r *rand.Rand, originalTenure bool) {
	n := solution.Graph().NbVertices()

	var tabuList []int64
	var tabuMatrix [][]int64
	nbMaxColors := 0
	if originalTenure {
		nbMaxColors = int(float64(maxInt(solution.NbColors(), 15)) * 1.15)
		tabuMatrix = make([][]int64, n)
		for i := range tabuMatrix {
			tabuMatrix[i] = make([]int64, nbMaxColors)
		}
	} else {
		tabuList = make([]int64, n)
	}
	turnTabuMin := int64(0.2 * float64(n))

	var turnTabu int64
	for turnTabu < turns {
		if checkEvery(budget, int(turnTabu)) {
			return
		}
		turnTabu++

		var bestColorations []coloration
		bestEvaluation := math.MaxInt32

		possibleColors := append([]int(nil), solution.NonEmptyColors()...)
		if !originalTenure || len(possibleColors) < nbMaxColors {
			possibleColors = append(possibleColors, wcoloring.Unassigned)
		}

		for vertex := 0; vertex < n; vertex++ {
			for _, color := range possibleColors {
				if color == solution.Color(vertex) {
					continue
				}
				deltaPenalty := solution.DeltaConflicts(vertex, color)
				testScore := solution.ScoreWVCP() + solution.DeltaScore(vertex, color) +
					penaltyCoeff*(deltaPenalty+solution.Penalty())

				var notTabu bool
				if originalTenure {
					notTabu = color == wcoloring.Unassigned ||
						color >= nbMaxColors || tabuMatrix[vertex][color] <= turnTabu
				} else {
					notTabu = tabuList[vertex] <= turnTabu
				}
				// Aspiration demands feasibility: the move must leave zero
				// conflicts, not merely a lower augmented score.
				aspires := testScore < best.ScoreWVCP() && solution.Penalty()+deltaPenalty == 0

				switch {
				case (testScore < bestEvaluation && notTabu) || aspires:
					bestColorations = bestColorations[:0]
					bestColorations = append(bestColorations, coloration{vertex, color})
					bestEvaluation = testScore
				case testScore == bestEvaluation && (notTabu || aspires):
					bestColorations = append(bestColorations, coloration{vertex, color})
				}
			}
		}

		if len(bestColorations) == 0 {
			continue
		}
		chosen := chooseColoration(bestColorations, r)
		oldColor, err := solution.Unassign(chosen.vertex)
		if err != nil {
			continue
		}
		if _, err := solution.Assign(chosen.vertex, chosen.color); err != nil {
			continue
		}

		switch mode {
		case afisaNoPerturbation:
			if originalTenure {
				if oldColor < nbMaxColors {
					tabuMatrix[chosen.vertex][oldColor] = turnTabu + int64(r.Intn(11)) +
						int64(float64(solution.ScoreWVCP())+float64(penaltyCoeff*solution.Penalty())*0.6)
				}
			} else {
				tabuList[chosen.vertex] = turnTabu + turnTabuMin + int64(r.Intn(11))
			}
		case afisaUnlimited:
			if originalTenure {
				if oldColor < nbMaxColors {
					tabuMatrix[chosen.vertex][oldColor] = turns + 1
				}
			} else {
				tabuList[chosen.vertex] = turns + 1
			}
		case afisaNoTabu:
		}

		if solution.ScoreWVCP()+penaltyCoeff*solution.Penalty() <
			bestAfisa.ScoreWVCP()+penaltyCoeff*bestAfisa.Penalty() {
			bestAfisa.RestoreFrom(solution)
		}

		if budget.UseTarget && solution.Penalty() == 0 && solution.ScoreWVCP() <= budget.Target {
			return
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
