package localsearch

import (
	"math/rand"

	"github.com/katalvlaran/wvcp-mcts/internal/wcoloring"
	"github.com/katalvlaran/wvcp-mcts/internal/xrand"
)

// ilstsMaxForce caps the grenade force before it wraps back to 1.
const ilstsMaxForce = 3

// ILSTS is the iterated grenade operator. Each outer iteration builds a
// candidate by unassigning the heaviest vertices of `force` random colors,
// then repairs it with the movement operators M1..M6 (in order, restarting
// from M1 after every success) until nothing is left unassigned or the
// inner budget of 10*n moves runs out. A candidate that completes with a
// strictly lower score is adopted; otherwise force escalates 1→2→3→1, and
// after n stale iterations one random grenade perturbation is applied to
// the working solution. s receives every complete working solution at least
// as good as the best.
func ILSTS(s *wcoloring.State, budget Budget, r *rand.Rand) {
	n := s.Graph().NbVertices()
	working := wcoloring.NewILSTSView(s.Clone())
	tabu := make([]int64, n)

	vertices := make([]int, n)
	for i := range vertices {
		vertices[i] = i
	}

	var noImprove int64
	force := 1
	var turn int64
	for int(turn) < budget.NbIterLocalSearch && !budget.expired() &&
		!(budget.UseTarget && s.ScoreWVCP() <= budget.Target) {
		turn++

		next := working.Clone()
		next.UnassignRandomHeavyVertices(force, r)

		var iter int64
		for next.HasUnassignedVertices() && iter < int64(10*n) {
			if checkEvery(budget, int(iter)) {
				break
			}
			iter++

			if ilstsM123(next, iter, tabu, r) {
				continue
			}
			xrand.Shuffle(vertices, r)
			if ilstsM4(next, iter, vertices, tabu, r) {
				continue
			}
			if ilstsM5(next, iter, vertices, tabu, r) {
				continue
			}
			if ilstsM6(next, iter, tabu, r) {
				continue
			}
			break
		}

		switch {
		case next.Score() < working.Score():
			noImprove = 1
			working = next
			force = 1
		case noImprove <= int64(n):
			noImprove++
			if force == ilstsMaxForce {
				force = 1
			} else {
				force++
			}
		default:
			// Perturbation assumes a complete working solution.
			if !working.HasUnassignedVertices() {
				working.PerturbVertices(1, r)
			}
			noImprove = 1
		}

		if !working.HasUnassignedVertices() &&
			working.State().ScoreWVCP() <= s.ScoreWVCP() {
			s.RestoreFrom(working.State())
		}
	}
}

// ilstsM123 tries the three grenade moves on the unassigned vertices, in
// escalating damage order.
//
// M1 places an unassigned vertex into a conflict-free color that keeps the
// score below the pre-grenade one. M2, the perfect grenade, places it into
// a conflicting color after relocating every same-colored neighbor to one of
// its own free colors. M3 does the same but sacrifices exactly one non-tabu
// neighbor with no free color, which goes back to the unassigned pool.
func ilstsM123(view *wcoloring.ILSTSView, iter int64, tabu []int64, r *rand.Rand) bool {
	s := view.State()
	g := s.Graph()
	delta := view.UnassignedScore() - s.ScoreWVCP()

	var grenadeOneLost []coloration
	nonEmptyColors := append([]int(nil), s.NonEmptyColors()...)
	xrand.Shuffle(nonEmptyColors, r)

	for _, vertex := range view.Unassigned() {
		vertexWeight := g.Weight(vertex)

		// M1
		for _, color := range nonEmptyColors {
			if s.ConflictsColors(color, vertex) == 0 &&
				delta > maxInt(0, vertexWeight-s.MaxWeight(color)) {
				view.Assign(vertex, color)
				view.RemoveUnassignedVertex(vertex)
				return true
			}
		}

		// M2: costs counts the neighbors that would drop out (tabu-free but
		// colorless); relocated counts the neighbors that can move away.
		costs := make([]int, s.NbColors())
		relocated := make([]int, s.NbColors())
		for _, neighbor := range g.Neighbors(vertex) {
			neighborColor := s.Color(neighbor)
			if neighborColor == wcoloring.Unassigned {
				continue
			}
			if delta <= maxInt(0, vertexWeight-s.MaxWeight(neighborColor)) {
				continue
			}
			if view.NbFreeColors(neighbor) > 0 {
				relocated[neighborColor]++
			} else if tabu[neighbor] < iter {
				relocated[neighborColor]++
				costs[neighborColor]++
			}
			if relocated[neighborColor] != s.ConflictsColors(neighborColor, vertex) {
				continue
			}
			if costs[neighborColor] == 0 {
				var displaced []int
				for _, y := range g.Neighbors(vertex) {
					if s.Color(y) == neighborColor {
						view.Unassign(y)
						displaced = append(displaced, y)
					}
				}
				target := neighborColor
				if s.IsColorEmpty(neighborColor) {
					target = wcoloring.Unassigned
				}
				view.Assign(vertex, target)
				for _, y := range view.AssignConstrainedAll(displaced, r) {
					view.AddUnassignedVertex(y)
				}
				view.RemoveUnassignedVertex(vertex)
				return true
			}
			if costs[neighborColor] == 1 {
				grenadeOneLost = append(grenadeOneLost, coloration{vertex, neighborColor})
			}
		}
	}

	return ilstsM3(view, iter, grenadeOneLost, tabu, r)
}

// ilstsM3 fires one of the collected one-lost grenades: the single neighbor
// without a free color becomes unassigned, the rest relocate, and the
// grenade vertex becomes tabu for |non_empty_colors| iterations.
func ilstsM3(view *wcoloring.ILSTSView, iter int64, grenadeOneLost []coloration, tabu []int64, r *rand.Rand) bool {
	if len(grenadeOneLost) == 0 {
		return false
	}
	s := view.State()
	g := s.Graph()

	chosen := xrand.Choice(grenadeOneLost, r)
	var displaced []int
	for _, y := range g.Neighbors(chosen.vertex) {
		if s.Color(y) == chosen.color {
			if view.NbFreeColors(y) > 0 {
				displaced = append(displaced, y)
			} else {
				view.AddUnassignedVertex(y)
			}
			view.Unassign(y)
		}
	}

	target := chosen.color
	if s.IsColorEmpty(chosen.color) {
		target = wcoloring.Unassigned
	}
	view.Assign(chosen.vertex, target)
	tabu[chosen.vertex] = iter + int64(len(s.NonEmptyColors()))
	for _, y := range view.AssignConstrainedAll(displaced, r) {
		view.AddUnassignedVertex(y)
	}
	view.RemoveUnassignedVertex(chosen.vertex)
	return true
}

// ilstsM4 relocates up to |non_empty_colors| non-tabu colored vertices that
// still have a free color, marking each tabu.
func ilstsM4(view *wcoloring.ILSTSView, iter int64, vertices []int, tabu []int64, r *rand.Rand) bool {
	s := view.State()
	maxCounter := len(s.NonEmptyColors())
	counter := 0
	for _, vertex := range vertices {
		if view.NbFreeColors(vertex) > 0 && tabu[vertex] < iter &&
			s.Color(vertex) != wcoloring.Unassigned {
			tabu[vertex] = iter + int64(len(s.NonEmptyColors()))
			view.AssignConstrained(vertex, r)
			counter++
			if counter == maxCounter {
				return true
			}
		}
	}
	return counter > 0
}

// ilstsM5 frees a target color for a stuck vertex (colored, not tabu, no
// free colors) by relocating the neighbors occupying that color, then moves
// the vertex in.
func ilstsM5(view *wcoloring.ILSTSView, iter int64, vertices []int, tabu []int64, r *rand.Rand) bool {
	s := view.State()
	g := s.Graph()
	delta := view.UnassignedScore() - s.ScoreWVCP()

	for _, vertex := range vertices {
		if view.NbFreeColors(vertex) != 0 || tabu[vertex] >= iter ||
			s.Color(vertex) == wcoloring.Unassigned {
			continue
		}
		relocated := make([]int, s.NbColors())
		for _, neighbor := range g.Neighbors(vertex) {
			neighborColor := s.Color(neighbor)
			if neighborColor == wcoloring.Unassigned {
				continue
			}
			if delta > maxInt(0, g.Weight(vertex)-s.MaxWeight(neighborColor)) {
				if view.NbFreeColors(neighbor) > 0 {
					relocated[neighborColor]++
				}
			}
			if relocated[neighborColor] == s.ConflictsColors(neighborColor, vertex) {
				var displaced []int
				for _, y := range g.Neighbors(vertex) {
					if s.Color(y) == neighborColor && view.NbFreeColors(y) > 0 {
						view.Unassign(y)
						displaced = append(displaced, y)
					}
				}
				view.Unassign(vertex)
				tabu[vertex] = iter + int64(len(s.NonEmptyColors()))
				target := neighborColor
				if s.IsColorEmpty(neighborColor) {
					target = wcoloring.Unassigned
				}
				view.Assign(vertex, target)
				for _, y := range view.AssignConstrainedAll(displaced, r) {
					view.AddUnassignedVertex(y)
				}
				return true
			}
		}
	}
	return false
}

// ilstsM6 fires the cheapest grenade available to a random unassigned
// vertex (minimizing the neighbors that would drop out) and resets the
// whole tabu list.
func ilstsM6(view *wcoloring.ILSTSView, iter int64, tabu []int64, r *rand.Rand) bool {
	s := view.State()
	g := s.Graph()
	delta := view.UnassignedScore() - s.ScoreWVCP()

	minCost := g.NbVertices()
	minCostColor := wcoloring.Unassigned
	vertex := xrand.ChoiceInt(view.Unassigned(), r)

	relocated := make([]int, s.NbColors())
	costs := make([]int, s.NbColors())
	for _, neighbor := range g.Neighbors(vertex) {
		neighborColor := s.Color(neighbor)
		if neighborColor == wcoloring.Unassigned {
			continue
		}
		if delta > maxInt(0, g.Weight(vertex)-s.MaxWeight(neighborColor)) {
			relocated[neighborColor]++
			if view.NbFreeColors(neighbor) == 0 {
				costs[neighborColor]++
			}
			if relocated[neighborColor] == s.ConflictsColors(neighborColor, vertex) &&
				minCost > costs[neighborColor] {
				minCostColor = neighborColor
				minCost = costs[neighborColor]
			}
		}
	}

	if minCostColor == wcoloring.Unassigned {
		return false
	}
	for i := range tabu {
		tabu[i] = 0
	}
	var displaced []int
	for _, y := range g.Neighbors(vertex) {
		if s.Color(y) == minCostColor {
			if view.NbFreeColors(y) > 0 {
				displaced = append(displaced, y)
			} else {
				view.AddUnassignedVertex(y)
			}
			view.Unassign(y)
		}
	}
	tabu[vertex] = iter + int64(len(s.NonEmptyColors()))
	target := minCostColor
	if s.IsColorEmpty(minCostColor) {
		target = wcoloring.Unassigned
	}
	view.Assign(vertex, target)
	for _, y := range view.AssignConstrainedAll(displaced, r) {
		view.AddUnassignedVertex(y)
	}
	view.RemoveUnassignedVertex(vertex)
	return true
}
