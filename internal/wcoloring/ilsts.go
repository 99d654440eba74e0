package wcoloring

import (
	"math/rand"

	"github.com/katalvlaran/wvcp-mcts/internal/xrand"
)

// ILSTSView wraps a *State with the extra bookkeeping ILSTS's grenade
// operator needs: for every vertex, how many non-empty colors it could move
// into without increasing the score, and the set of vertices deliberately
// left unassigned mid-perturbation.
type ILSTSView struct {
	s *State

	nbFreeColors     []int
	unassignedScore  int
	unassigned       []int
}

// NewILSTSView builds a view over s, computing the initial free-color counts
// from scratch (O(nb_vertices * nb_colors), done once per ILSTS run).
func NewILSTSView(s *State) *ILSTSView {
	v := &ILSTSView{
		s:               s,
		nbFreeColors:    make([]int, s.g.NbVertices()),
		unassignedScore: s.ScoreWVCP(),
	}
	for vertex := 0; vertex < s.g.NbVertices(); vertex++ {
		for color := 0; color < s.NbColors(); color++ {
			if s.ConflictsColors(color, vertex) == 0 &&
				color != s.Color(vertex) &&
				!s.IsColorEmpty(color) &&
				s.g.Weight(vertex) <= s.MaxWeight(color) {
				v.nbFreeColors[vertex]++
			}
		}
	}
	return v
}

// State returns the wrapped coloring state.
func (v *ILSTSView) State() *State { return v.s }

// Clone returns a deep copy of the view and its wrapped state, independent
// of the receiver.
func (v *ILSTSView) Clone() *ILSTSView {
	return &ILSTSView{
		s:               v.s.Clone(),
		nbFreeColors:    append([]int(nil), v.nbFreeColors...),
		unassignedScore: v.unassignedScore,
		unassigned:      append([]int(nil), v.unassigned...),
	}
}

// Assign colors vertex with colorProposed and maintains nb_free_colors for
// every affected vertex incrementally:
// neighbors losing their only conflict-free slot in color lose a free color;
// if the assignment raised color's max weight, every vertex outside color
// that newly qualifies (heavier than the old max, no heavier than vertex,
// conflict-free with color) gains one.
func (v *ILSTSView) Assign(vertex, colorProposed int) int {
	oldMaxWeight := v.s.MaxWeight(colorProposed)
	color, _ := v.s.Assign(vertex, colorProposed)

	for _, neighbor := range v.s.g.Neighbors(vertex) {
		if v.s.ConflictsColors(color, neighbor) == 1 && v.s.g.Weight(neighbor) <= oldMaxWeight {
			v.nbFreeColors[neighbor]--
		}
	}

	if v.s.g.Weight(vertex) > oldMaxWeight {
		for out := 0; out < v.s.g.NbVertices(); out++ {
			if v.s.Color(out) == color {
				continue
			}
			if v.s.g.Weight(out) > oldMaxWeight &&
				v.s.g.Weight(out) <= v.s.g.Weight(vertex) &&
				v.s.ConflictsColors(color, out) == 0 {
				v.nbFreeColors[out]++
			}
		}
	} else {
		v.nbFreeColors[vertex]--
	}
	return color
}

// Unassign removes vertex's color, maintaining nb_free_colors symmetrically
// with Assign.
func (v *ILSTSView) Unassign(vertex int) int {
	oldWeight := v.s.MaxWeight(v.s.Color(vertex))
	color, _ := v.s.Unassign(vertex)

	for _, neighbor := range v.s.g.Neighbors(vertex) {
		if v.s.ConflictsColors(color, neighbor) == 0 && v.s.g.Weight(neighbor) <= oldWeight {
			v.nbFreeColors[neighbor]++
		}
	}

	vertexWeight := v.s.g.Weight(vertex)
	maxWeightColor := v.s.MaxWeight(color)

	if vertexWeight == oldWeight {
		for out := 0; out < v.s.g.NbVertices(); out++ {
			if v.s.Color(out) == color || out == vertex {
				continue
			}
			if v.s.g.Weight(out) <= oldWeight &&
				v.s.g.Weight(out) > maxWeightColor &&
				v.s.ConflictsColors(color, out) == 0 {
				v.nbFreeColors[out]--
			}
		}
	}

	if oldWeight == maxWeightColor {
		v.nbFreeColors[vertex]++
	}
	return color
}

// UnassignedScore returns the WVCP score as of the last
// UnassignRandomHeavyVertices call (the score before the perturbation's
// vertices were put back, used while some vertices remain unassigned).
func (v *ILSTSView) UnassignedScore() int { return v.unassignedScore }

// UnassignRandomHeavyVertices removes every heaviest vertex from `force`
// randomly chosen non-empty colors, then tries to reassign each removed
// vertex without raising the score; any that cannot be are added to the
// unassigned list.
func (v *ILSTSView) UnassignRandomHeavyVertices(force int, r *rand.Rand) {
	var removed []int
	v.unassignedScore = v.s.ScoreWVCP()
	for i := 0; i < force; i++ {
		color := xrand.ChoiceInt(v.s.NonEmptyColors(), r)
		oldMaxWeight := v.s.MaxWeight(color)

		var toUnassign []int
		for _, vertex := range v.s.ColorsVertices(color) {
			if v.s.g.Weight(vertex) == oldMaxWeight {
				toUnassign = append(toUnassign, vertex)
			}
		}
		for _, vertex := range toUnassign {
			v.Unassign(vertex)
			removed = append(removed, vertex)
		}
	}

	xrand.Shuffle(removed, r)
	for _, vertex := range removed {
		if !v.AssignConstrained(vertex, r) {
			v.unassigned = append(v.unassigned, vertex)
		}
	}
}

// PerturbVertices applies the "grenade" move `force` times: pick a random
// vertex and a random non-empty color different from its own, unassign the
// vertex plus every same-color neighbor, re-home the vertex (forming a new
// color if the vacated one became empty), then greedily reassign the
// displaced neighbors without raising the score where possible, falling back
// to a random available color otherwise.
func (v *ILSTSView) PerturbVertices(force int, r *rand.Rand) {
	for i := 0; i < force; i++ {
		vertex := 0
		color := v.s.Color(vertex)
		for v.s.Color(vertex) == color {
			vertex = r.Intn(v.s.g.NbVertices())
			color = xrand.ChoiceInt(v.s.NonEmptyColors(), r)
		}

		v.Unassign(vertex)

		var displaced []int
		for _, neighbor := range v.s.g.Neighbors(vertex) {
			if v.s.Color(neighbor) == color {
				displaced = append(displaced, neighbor)
				v.Unassign(neighbor)
			}
		}

		if v.s.IsColorEmpty(color) {
			color = Unassigned
		}
		v.Assign(vertex, color)

		xrand.Shuffle(displaced, r)

		var toRandom []int
		for _, vx := range displaced {
			if !v.AssignConstrained(vx, r) {
				toRandom = append(toRandom, vx)
			}
		}
		for _, vx := range toRandom {
			v.Assign(vx, xrand.ChoiceInt(v.s.AvailableColors(vx), r))
		}
	}
}

// AssignConstrained tries to color vertex with a random available color that
// does not raise the score (i.e. a color whose max weight is already >=
// vertex's weight). Returns false, uncoloring vertex, if no such color
// exists.
func (v *ILSTSView) AssignConstrained(vertex int, r *rand.Rand) bool {
	available := v.s.AvailableColors(vertex)
	if available[0] == Unassigned {
		return false
	}
	vertexWeight := v.s.g.Weight(vertex)
	vertexColor := v.s.Color(vertex)

	var possible []int
	for _, color := range available {
		if color != vertexColor && vertexWeight <= v.s.MaxWeight(color) {
			possible = append(possible, color)
		}
	}

	if vertexColor != Unassigned {
		v.Unassign(vertex)
	}

	if len(possible) == 0 {
		return false
	}

	v.Assign(vertex, xrand.ChoiceInt(possible, r))
	return true
}

// AssignConstrainedAll runs AssignConstrained over vertices in place, leaving
// in the slice only those it failed to assign.
func (v *ILSTSView) AssignConstrainedAll(vertices []int, r *rand.Rand) []int {
	out := vertices[:0]
	for _, vertex := range vertices {
		if !v.AssignConstrained(vertex, r) {
			out = append(out, vertex)
		}
	}
	return out
}

// Score returns the complete-solution score, or the last recorded
// unassigned-score if vertices remain unassigned.
func (v *ILSTSView) Score() int {
	if len(v.unassigned) == 0 {
		return v.s.ScoreWVCP()
	}
	return v.unassignedScore
}

// Unassigned returns the vertices currently left uncolored by the
// perturbation.
func (v *ILSTSView) Unassigned() []int { return v.unassigned }

// NbFreeColors returns the number of non-empty colors vertex could move into
// without raising the score.
func (v *ILSTSView) NbFreeColors(vertex int) int { return v.nbFreeColors[vertex] }

// HasUnassignedVertices reports whether any vertex is currently left uncolored.
func (v *ILSTSView) HasUnassignedVertices() bool { return len(v.unassigned) != 0 }

// AddUnassignedVertex records vertex as deliberately left uncolored.
func (v *ILSTSView) AddUnassignedVertex(vertex int) {
	v.unassigned = append(v.unassigned, vertex)
}

// RemoveUnassignedVertex drops vertex from the unassigned list (no-op if
// absent).
func (v *ILSTSView) RemoveUnassignedVertex(vertex int) {
	v.unassigned = removeUnordered(v.unassigned, vertex)
}
