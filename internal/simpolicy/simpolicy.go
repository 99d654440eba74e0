// Package simpolicy implements the simulation policies MCTS consults after
// each playout's greedy completion to decide whether to spend a local-search
// budget on it: no_ls, always_ls, fit, depth, level, depth_fit, chance.
package simpolicy

import "math/rand"

// Func is the common signature every policy satisfies: given the
// just-completed solution and the run's shared Helper state, decide whether
// to run local search on it.
type Func func(s State, h *Helper, r *rand.Rand) bool

// State is the subset of *wcoloring.State the policies need; kept as an
// interface so this package has no dependency on wcoloring (and so tests can
// fake it cheaply).
type State interface {
	ScoreWVCP() int
	FirstFreeVertex() int
	NbColors() int
	Colors() []int
}

// Helper tracks the run-wide bookkeeping the policies share: the best score
// seen so far ("fit condition"), and every accepted solution's coloring (for
// the distance-approximation diversity check).
type Helper struct {
	FitCondition  int
	PastSolutions [][]int
	PastNbColors  []int

	NbVertices int
	DistanceMin int
	DepthMin    int
}

// NewHelper builds a Helper for a graph of nbVertices vertices, seeded with
// the best score known at MCTS start.
func NewHelper(nbVertices, bestScore int) *Helper {
	return &Helper{
		FitCondition: bestScore,
		NbVertices:   nbVertices,
		DistanceMin:  maxInt(nbVertices/10, 3),
		DepthMin:     maxInt(nbVertices/5, 3),
	}
}

// AcceptSolution records s as one of the diverse solutions local search has
// already been tried on, and tightens the fit condition if s improves it.
func (h *Helper) AcceptSolution(s State) {
	h.PastSolutions = append(h.PastSolutions, append([]int(nil), s.Colors()...))
	h.PastNbColors = append(h.PastNbColors, s.NbColors())
	if s.ScoreWVCP() < h.FitCondition {
		h.FitCondition = s.ScoreWVCP()
	}
}

// DistantEnough reports whether s differs enough, by DistanceApproximation,
// from every previously accepted solution.
func (h *Helper) DistantEnough(s State) bool {
	for i := range h.PastSolutions {
		d := DistanceApproximation(h.PastSolutions[i], h.PastNbColors[i], s.Colors(), s.NbColors())
		if d < h.DistanceMin {
			return false
		}
	}
	return true
}

// ScoreLowEnough reports whether s's score is within 1% (or +1, whichever is
// looser) of the best fit condition seen so far.
func (h *Helper) ScoreLowEnough(s State) bool {
	minScore := maxInt(int(float64(h.FitCondition)*1.01), h.FitCondition+1)
	return s.ScoreWVCP() <= minScore
}

// LevelOK reports whether first_free_vertex lands on a depth_min boundary
// past the first depth_min vertices.
func (h *Helper) LevelOK(s State) bool {
	v := s.FirstFreeVertex()
	return v > h.DepthMin && v%h.DepthMin == 0
}

// DepthChanceOK rolls a chance of passing uniform in [5,95] against how far
// through the vertex order s has colored, biasing toward deeper solutions.
func (h *Helper) DepthChanceOK(s State, r *rand.Rand) bool {
	percentageColored := (s.FirstFreeVertex() * 100) / h.NbVertices
	chanceOfPassing := 5 + r.Intn(91)
	return percentageColored >= chanceOfPassing
}

// NoLS never runs local search.
func NoLS(_ State, _ *Helper, _ *rand.Rand) bool { return false }

// AlwaysLS always runs local search.
func AlwaysLS(_ State, _ *Helper, _ *rand.Rand) bool { return true }

// Fit runs local search only on solutions close to the best score found and
// distant enough from every previously accepted one.
func Fit(s State, h *Helper, _ *rand.Rand) bool {
	if !h.ScoreLowEnough(s) || !h.DistantEnough(s) {
		return false
	}
	h.AcceptSolution(s)
	return true
}

// Depth runs local search with a chance biased by how deep the playout went,
// still requiring diversity from prior accepted solutions.
func Depth(s State, h *Helper, r *rand.Rand) bool {
	if !h.DepthChanceOK(s, r) || !h.DistantEnough(s) {
		return false
	}
	h.AcceptSolution(s)
	return true
}

// Level runs local search only every depth_min levels of the tree.
func Level(s State, h *Helper, _ *rand.Rand) bool {
	if !h.LevelOK(s) || !h.DistantEnough(s) {
		return false
	}
	h.AcceptSolution(s)
	return true
}

// DepthFit combines Fit's score gate with Depth's depth-biased chance.
func DepthFit(s State, h *Helper, r *rand.Rand) bool {
	if !h.ScoreLowEnough(s) || !h.DepthChanceOK(s, r) || !h.DistantEnough(s) {
		return false
	}
	h.AcceptSolution(s)
	return true
}

// Chance runs local search with a flat 95% probability, no diversity or
// score gating.
func Chance(s State, h *Helper, r *rand.Rand) bool {
	if r.Intn(100) < 5 {
		return false
	}
	h.AcceptSolution(s)
	return true
}

// ByName resolves a CLI/config simulation-policy name to its Func.
func ByName(name string) (Func, bool) {
	switch name {
	case "no_ls":
		return NoLS, true
	case "always_ls":
		return AlwaysLS, true
	case "fit":
		return Fit, true
	case "depth":
		return Depth, true
	case "level":
		return Level, true
	case "depth_fit":
		return DepthFit, true
	case "chance":
		return Chance, true
	default:
		return nil, false
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
