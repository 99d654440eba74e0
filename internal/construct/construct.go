// Package construct implements the greedy initializers that build a
// first complete coloring before local search or MCTS takes over:
// total_random, greedy_random, greedy_constrained, greedy_deterministic,
// greedy_worst, DSATUR, and RLF.
//
// Every initializer has the same signature — it colors whatever vertices
// from state.FirstFreeVertex() onward remain uncolored — so MCTS can also use
// them to complete a partial coloring reached mid-search.
package construct

import (
	"container/heap"
	"math/rand"

	"github.com/katalvlaran/wvcp-mcts/internal/wcoloring"
	"github.com/katalvlaran/wvcp-mcts/internal/xrand"
)

// Initializer completes a coloring starting from state.FirstFreeVertex()
// (total_random instead colors every vertex, ignoring that cursor, since it
// always starts a solution from scratch).
type Initializer func(s *wcoloring.State, r *rand.Rand)

// TotalRandom assigns every vertex, in random order, to a uniformly random
// conflict-free color (including possibly opening a new one).
func TotalRandom(s *wcoloring.State, r *rand.Rand) {
	vertices := xrand.Perm(s.Graph().NbVertices(), r)
	for _, vertex := range vertices {
		possible := s.AvailableColors(vertex)
		_, _ = s.Assign(vertex, xrand.ChoiceInt(possible, r))
	}
}

// GreedyRandom assigns each vertex from FirstFreeVertex onward to a uniformly
// random color among its conflict-free ones plus the option of a new color.
func GreedyRandom(s *wcoloring.State, r *rand.Rand) {
	for vertex := s.FirstFreeVertex(); vertex < s.Graph().NbVertices(); vertex++ {
		possible := append(append([]int(nil), s.AvailableColors(vertex)...), wcoloring.Unassigned)
		_, _ = s.Assign(vertex, xrand.ChoiceInt(possible, r))
	}
}

// GreedyConstrained assigns each vertex from FirstFreeVertex onward to a
// uniformly random conflict-free color, opening a new one only when none
// exists (AvailableColors already falls back to {Unassigned} in that case).
func GreedyConstrained(s *wcoloring.State, r *rand.Rand) {
	for vertex := s.FirstFreeVertex(); vertex < s.Graph().NbVertices(); vertex++ {
		possible := s.AvailableColors(vertex)
		_, _ = s.Assign(vertex, xrand.ChoiceInt(possible, r))
	}
}

// GreedyDeterministic assigns each vertex from FirstFreeVertex onward to the
// first conflict-free color in NonEmptyColors() order (FirstAvailableColor),
// opening a new one when none exists.
func GreedyDeterministic(s *wcoloring.State, _ *rand.Rand) {
	for vertex := s.FirstFreeVertex(); vertex < s.Graph().NbVertices(); vertex++ {
		_, _ = s.Assign(vertex, s.FirstAvailableColor(vertex))
	}
}

// GreedyWorst opens a brand new color for every vertex from FirstFreeVertex
// onward, the deliberately bad baseline initializer.
func GreedyWorst(s *wcoloring.State, _ *rand.Rand) {
	for vertex := s.FirstFreeVertex(); vertex < s.Graph().NbVertices(); vertex++ {
		_, _ = s.Assign(vertex, wcoloring.Unassigned)
	}
}

// satItem is one DSATUR priority-queue entry.
type satItem struct {
	sat, weight, deg, vertex int
}

// satQueue is a container/heap max-heap ordered by saturation desc, then
// weight desc, then degree desc, then vertex asc.
type satQueue []satItem

func (q satQueue) Len() int { return len(q) }
func (q satQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.sat != b.sat {
		return a.sat > b.sat
	}
	if a.weight != b.weight {
		return a.weight > b.weight
	}
	if a.deg != b.deg {
		return a.deg > b.deg
	}
	return a.vertex < b.vertex
}
func (q satQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *satQueue) Push(x any)        { *q = append(*q, x.(satItem)) }
func (q *satQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// GreedyDSatur colors every uncolored vertex in decreasing order of
// saturation degree (distinct colors among colored neighbors), breaking ties
// by vertex weight desc, then remaining degree desc, then vertex index asc.
func GreedyDSatur(s *wcoloring.State, _ *rand.Rand) {
	g := s.Graph()
	n := g.NbVertices()
	degrees := make([]int, n)
	adjacentColors := make([]map[int]bool, n)
	for v := 0; v < n; v++ {
		degrees[v] = g.Degree(v)
		adjacentColors[v] = make(map[int]bool)
	}

	for vertex := 0; vertex < n; vertex++ {
		color := s.Color(vertex)
		if color == wcoloring.Unassigned {
			continue
		}
		for _, neighbor := range g.Neighbors(vertex) {
			if s.Color(neighbor) == wcoloring.Unassigned {
				if !adjacentColors[neighbor][color] {
					adjacentColors[neighbor][color] = true
					degrees[neighbor]--
				}
			}
		}
	}

	q := &satQueue{}
	heap.Init(q)
	for vertex := 0; vertex < n; vertex++ {
		if s.Color(vertex) == wcoloring.Unassigned {
			heap.Push(q, satItem{
				sat:    len(adjacentColors[vertex]),
				weight: g.Weight(vertex),
				deg:    degrees[vertex],
				vertex: vertex,
			})
		}
	}

	for q.Len() > 0 {
		item := heap.Pop(q).(satItem)
		vertex := item.vertex
		if s.Color(vertex) != wcoloring.Unassigned {
			// stale entry left by an earlier re-push; skip it.
			continue
		}

		color := wcoloring.Unassigned
		for c := 0; c < s.NbColors(); c++ {
			if s.ConflictsColors(c, vertex) == 0 {
				color = c
				break
			}
		}
		color, _ = s.Assign(vertex, color)

		for _, neighbor := range g.Neighbors(vertex) {
			if s.Color(neighbor) != wcoloring.Unassigned {
				continue
			}
			if adjacentColors[neighbor][color] {
				continue
			}
			adjacentColors[neighbor][color] = true
			degrees[neighbor]--
			heap.Push(q, satItem{
				sat:    len(adjacentColors[neighbor]),
				weight: g.Weight(neighbor),
				deg:    degrees[neighbor],
				vertex: neighbor,
			})
		}
	}
}

// GreedyRLF implements the Recursive Largest First heuristic: build one
// color class at a time, seeding it with the uncolored vertex of highest
// uncolored-degree, then repeatedly adding, among the heaviest eligible
// vertices, the one with the most uncolored neighbors excluded from this
// class (ties broken toward fewer neighbors still eligible for the class,
// then lower index) until no eligible vertex remains, then starting a new
// class over what's left. Weight is compared first, so a lighter vertex is
// never picked while a heavier one is eligible.
//
// This recomputes eligibility from the live coloring state each step
// (O(V+E) per pick) instead of maintaining incremental legal/illegal vertex
// sets; see DESIGN.md.
func GreedyRLF(s *wcoloring.State, _ *rand.Rand) {
	g := s.Graph()
	n := g.NbVertices()

	for hasUncolored(s) {
		color := wcoloring.Unassigned
		excludedBy := make([]bool, n) // vertex has a neighbor already in this class

		// Seed: uncolored vertex with the most uncolored neighbors.
		seed := -1
		bestUncoloredDeg := -1
		for v := 0; v < n; v++ {
			if s.Color(v) != wcoloring.Unassigned {
				continue
			}
			deg := 0
			for _, nb := range g.Neighbors(v) {
				if s.Color(nb) == wcoloring.Unassigned {
					deg++
				}
			}
			if deg > bestUncoloredDeg {
				bestUncoloredDeg = deg
				seed = v
			}
		}
		color, _ = s.Assign(seed, color)
		for _, nb := range g.Neighbors(seed) {
			excludedBy[nb] = true
		}

		for {
			next := -1
			bestExcluded, bestWeight, bestEligible := -1, -1, n+1
			for v := 0; v < n; v++ {
				if s.Color(v) != wcoloring.Unassigned || excludedBy[v] {
					continue
				}
				excludedNeighbors, eligibleNeighbors := 0, 0
				for _, nb := range g.Neighbors(v) {
					if s.Color(nb) != wcoloring.Unassigned {
						continue
					}
					if excludedBy[nb] {
						excludedNeighbors++
					} else {
						eligibleNeighbors++
					}
				}
				weight := g.Weight(v)
				better := (excludedNeighbors > bestExcluded && weight >= bestWeight) ||
					(excludedNeighbors == bestExcluded && weight == bestWeight && eligibleNeighbors < bestEligible)
				if next == -1 || better {
					next = v
					bestExcluded = excludedNeighbors
					bestWeight = weight
					bestEligible = eligibleNeighbors
				}
			}
			if next == -1 {
				break
			}
			_, _ = s.Assign(next, color)
			for _, nb := range g.Neighbors(next) {
				excludedBy[nb] = true
			}
		}
	}
}

func hasUncolored(s *wcoloring.State) bool {
	for v := 0; v < s.Graph().NbVertices(); v++ {
		if s.Color(v) == wcoloring.Unassigned {
			return true
		}
	}
	return false
}

// ByName resolves the CLI/config initializer name to its Initializer.
func ByName(name string) (Initializer, bool) {
	switch name {
	case "total_random":
		return TotalRandom, true
	case "random":
		return GreedyRandom, true
	case "constrained":
		return GreedyConstrained, true
	case "deterministic":
		return GreedyDeterministic, true
	case "worst":
		return GreedyWorst, true
	case "dsatur":
		return GreedyDSatur, true
	case "rlf":
		return GreedyRLF, true
	default:
		return nil, false
	}
}
