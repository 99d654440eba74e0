package localsearch

import (
	"math/rand"

	"github.com/katalvlaran/wvcp-mcts/internal/wcoloring"
	"github.com/katalvlaran/wvcp-mcts/internal/xrand"
)

// RedLS is a guided local search over edge weights. While the working
// coloring is conflict-free it drains every strictly-improving move, adopts
// the result if its score is no worse than the best's, then forces conflicts
// back in by moving
// the heaviest vertices of the color with the best score-gain/conflict
// ratio. With conflicts present it escalates through four stages: a tabu
// move improving both conflicts and score, any conflict-non-increasing
// score-improving move, recoloring one conflicting vertex into a fresh color
// while staying under the best score, and finally bumping every conflicting
// edge's weight before forcing a move on a random conflicting edge.
func RedLS(s *wcoloring.State, budget Budget, r *rand.Rand) {
	redlsRun(s, budget, r, 0)
}

// RedLSFreeze is RedLS restricted to never touch a vertex with index below
// the coloring's first_free_vertex (those vertices are considered settled
// by an earlier construction phase).
func RedLSFreeze(s *wcoloring.State, budget Budget, r *rand.Rand) {
	redlsRun(s, budget, r, s.FirstFreeVertex())
}

// redlsRun keeps s as the best feasible solution found; the working clone
// behind view is free to carry conflicts between rounds.
func redlsRun(s *wcoloring.State, budget Budget, r *rand.Rand, frozenBelow int) {
	work := s.Clone()
	view := wcoloring.NewRedLSView(work)
	tabu := make([]bool, s.Graph().NbVertices())

	var turn int64
	for int(turn) < budget.NbIterLocalSearch && !budget.expired() &&
		!(budget.UseTarget && s.ScoreWVCP() <= budget.Target) {
		turn++

		if view.Penalty() == 0 {
			for redlsImproveConflicts(view, false, tabu, frozenBelow, r) {
			}

			if work.ScoreWVCP() <= s.ScoreWVCP() {
				s.RestoreFrom(work)
				if budget.UseTarget && s.ScoreWVCP() <= budget.Target {
					return
				}
			}
			for i := range tabu {
				tabu[i] = false
			}
			if !redlsMoveHeaviestVertices(view, frozenBelow) {
				// no color pair left to squeeze
				return
			}
		}

		if !redlsImproveConflictsAndScore(view, s.ScoreWVCP(), tabu, frozenBelow, r) {
			for redlsImproveConflicts(view, true, tabu, frozenBelow, r) {
			}

			if !redlsSolveOneConflictPreserveScore(view, s.ScoreWVCP(), tabu, frozenBelow, r) {
				view.IncrementEdgeWeights()
				if len(view.ConflictEdges()) != 0 {
					if !redlsSolveOneConflict(view, s.ScoreWVCP(), tabu, frozenBelow, r) {
						return
					}
				}
			}
		}
	}
}

// redlsImproveConflictsAndScore applies one move that strictly reduces the
// weighted conflict count (picking the largest reduction) while keeping the
// score gain under the distance to the best score. The moved vertex becomes
// tabu; its neighbors are released.
func redlsImproveConflictsAndScore(view *wcoloring.RedLSView, bestScore int,
	tabu []bool, frozenBelow int, r *rand.Rand) bool {
	s := view.State()
	n := s.Graph().NbVertices()
	deltaWvcp := bestScore - s.ScoreWVCP()
	if deltaWvcp < 0 {
		deltaWvcp = -deltaWvcp
	}

	bestConflicts := 0
	var bestColorations []coloration
	for vertex := frozenBelow; vertex < n; vertex++ {
		if tabu[vertex] || !s.HasConflicts(vertex) {
			continue
		}
		for _, color := range s.NonEmptyColors() {
			if color == s.Color(vertex) {
				continue
			}
			deltaConflicts := view.DeltaConflicts(vertex, color)
			if deltaConflicts >= 0 || deltaConflicts > bestConflicts ||
				s.DeltaScore(vertex, color) >= deltaWvcp {
				continue
			}
			if deltaConflicts < bestConflicts {
				bestConflicts = deltaConflicts
				bestColorations = bestColorations[:0]
			}
			bestColorations = append(bestColorations, coloration{vertex, color})
		}
	}

	if len(bestColorations) == 0 {
		return false
	}
	chosen := chooseColoration(bestColorations, r)
	view.Unassign(chosen.vertex)
	view.Assign(chosen.vertex, chosen.color)
	tabu[chosen.vertex] = true
	for _, neighbor := range s.Graph().Neighbors(chosen.vertex) {
		tabu[neighbor] = false
	}
	return true
}

// redlsImproveConflicts applies one uniformly-chosen move that does not
// increase the weighted conflict count and strictly lowers the score. With
// withConf set the tabu list is honored and the moved vertex becomes tabu.
func redlsImproveConflicts(view *wcoloring.RedLSView, withConf bool,
	tabu []bool, frozenBelow int, r *rand.Rand) bool {
	s := view.State()
	n := s.Graph().NbVertices()

	var colorations []coloration
	for vertex := frozenBelow; vertex < n; vertex++ {
		if withConf && tabu[vertex] {
			continue
		}
		for _, color := range s.NonEmptyColors() {
			if color == s.Color(vertex) ||
				view.DeltaConflicts(vertex, color) > 0 ||
				s.DeltaScore(vertex, color) >= 0 {
				continue
			}
			colorations = append(colorations, coloration{vertex, color})
		}
	}

	if len(colorations) == 0 {
		return false
	}
	chosen := chooseColoration(colorations, r)
	view.Unassign(chosen.vertex)
	view.Assign(chosen.vertex, chosen.color)
	if withConf {
		tabu[chosen.vertex] = true
	}
	return true
}

// redlsSolveOneConflictPreserveScore recolors one non-tabu conflicting
// vertex into a brand new color, provided that keeps the score under the
// best found. The vertex becomes tabu.
func redlsSolveOneConflictPreserveScore(view *wcoloring.RedLSView, bestScore int,
	tabu []bool, frozenBelow int, r *rand.Rand) bool {
	s := view.State()
	n := s.Graph().NbVertices()
	deltaWvcp := bestScore - s.ScoreWVCP()

	var vertices []int
	for vertex := frozenBelow; vertex < n; vertex++ {
		if !tabu[vertex] && s.HasConflicts(vertex) &&
			s.DeltaScore(vertex, wcoloring.Unassigned) < deltaWvcp {
			vertices = append(vertices, vertex)
		}
	}

	if len(vertices) == 0 {
		return false
	}
	vertex := xrand.ChoiceInt(vertices, r)
	view.Unassign(vertex)
	view.Assign(vertex, wcoloring.Unassigned)
	tabu[vertex] = true
	return true
}

// redlsMoveHeaviestVertices deliberately creates conflicts: among all color
// pairs (c1, c2) it picks the one maximizing the ratio of score gained to
// weighted conflicts created, then moves every heaviest vertex of c1 into
// c2. A conflict-free relocation counts double so it always wins over a
// conflicted one with the same gain.
func redlsMoveHeaviestVertices(view *wcoloring.RedLSView, frozenBelow int) bool {
	s := view.State()
	g := s.Graph()

	bestRatio := float64(0)
	bestColor := wcoloring.Unassigned
	var bestHeaviest []int
	for _, color1 := range s.NonEmptyColors() {
		maxWeight1 := s.MaxWeight(color1)
		secondMax := 0
		var heaviest []int
		for _, vertex := range s.ColorsVertices(color1) {
			if w := g.Weight(vertex); w == maxWeight1 {
				heaviest = append(heaviest, vertex)
			} else if w > secondMax {
				secondMax = w
			}
		}
		if heaviest[0] < frozenBelow {
			continue
		}
		deltaMove := maxWeight1 - secondMax
		for _, color2 := range s.NonEmptyColors() {
			if color1 == color2 {
				continue
			}
			deltaConflict := 0
			for _, vertex := range heaviest {
				deltaConflict += view.ConflictsColors(color2, vertex)
			}
			maxWeight2 := s.MaxWeight(color2)
			deltaWvcp := deltaMove
			if maxWeight1 > maxWeight2 {
				deltaWvcp = deltaMove - maxWeight1 + maxWeight2
			}
			ratio := float64(deltaWvcp) * 2
			if deltaConflict != 0 {
				ratio = float64(deltaWvcp) / float64(deltaConflict)
			}
			if ratio > bestRatio || len(bestHeaviest) == 0 {
				bestRatio = ratio
				bestHeaviest = append([]int(nil), heaviest...)
				bestColor = color2
			}
		}
	}
	if len(bestHeaviest) == 0 {
		return false
	}

	for _, vertex := range bestHeaviest {
		view.Unassign(vertex)
		view.Assign(vertex, bestColor)
	}
	return true
}

// redlsSolveOneConflict picks a random conflicting edge and applies the best
// conflict-reducing move on one of its endpoints that stays under the best
// score, falling back to a uniformly random recoloring (a new color
// included) of one endpoint when no such move exists.
func redlsSolveOneConflict(view *wcoloring.RedLSView, bestScore int,
	tabu []bool, frozenBelow int, r *rand.Rand) bool {
	s := view.State()
	deltaWvcp := bestScore - s.ScoreWVCP()

	edge := xrand.Choice(view.ConflictEdges(), r)
	v1, v2 := edge.Lower, edge.Higher
	changed := false
	if v1 < frozenBelow {
		v1 = v2
		changed = true
	}
	if v2 < frozenBelow {
		if changed {
			// two frozen vertices cannot be in conflict
			return false
		}
		v2 = v1
	}

	best := coloration{vertex: -1, color: -1}
	bestConflicts := 0
	for _, vertex := range []int{v1, v2} {
		for _, color := range s.NonEmptyColors() {
			if color == s.Color(vertex) || s.DeltaScore(vertex, color) >= deltaWvcp {
				continue
			}
			deltaConflicts := view.DeltaConflicts(vertex, color)
			if deltaConflicts < bestConflicts || best.vertex == -1 {
				bestConflicts = deltaConflicts
				best = coloration{vertex, color}
			}
		}
	}

	if best.vertex == -1 {
		vertex := v1
		if r.Intn(2) == 1 {
			vertex = v2
		}
		possibleColors := []int{wcoloring.Unassigned}
		for _, color := range s.NonEmptyColors() {
			if color != s.Color(vertex) {
				possibleColors = append(possibleColors, color)
			}
		}
		best = coloration{vertex, xrand.ChoiceInt(possibleColors, r)}
	}

	view.Unassign(best.vertex)
	view.Assign(best.vertex, best.color)
	tabu[best.vertex] = true
	return true
}
