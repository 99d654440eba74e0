package wcoloring

// RedLSView wraps a *State with per-edge weights and a live conflict-edge
// list, the bookkeeping RedLS's edge-weighting scheme needs on top of the
// base conflict counts. Conflict counts here track weighted conflicts (an
// edge's weight, not a flat 1), diverging from State's own penalty/conflict
// fields, so RedLSView keeps its own copies rather than reusing State's.
type RedLSView struct {
	s *State

	penalty         int
	conflictsColors [][]int // per color, per vertex: weighted conflict count
	conflictEdges   []Edge
	edgeWeights     [][]int
}

// Edge is an unordered conflicting-vertex pair (lower index first).
type Edge struct {
	Lower, Higher int
}

// NewRedLSView builds a view over s, copying its current conflict-color
// table and initializing every graph edge to weight 1.
func NewRedLSView(s *State) *RedLSView {
	n := s.g.NbVertices()
	v := &RedLSView{
		s:           s,
		edgeWeights: make([][]int, n),
	}
	v.conflictsColors = make([][]int, len(s.conflictsColors))
	for i, cc := range s.conflictsColors {
		v.conflictsColors[i] = append([]int(nil), cc...)
	}
	for i := range v.edgeWeights {
		v.edgeWeights[i] = make([]int, n)
	}
	for _, e := range s.g.EdgesList() {
		v.edgeWeights[e.U][e.V] = 1
		v.edgeWeights[e.V][e.U] = 1
	}
	return v
}

// State returns the wrapped coloring state.
func (v *RedLSView) State() *State { return v.s }

// Assign colors vertex with proposedColor, recording any newly-created
// conflicting edges and accumulating weighted conflict counts for neighbors.
func (v *RedLSView) Assign(vertex, proposedColor int) int {
	color, _ := v.s.Assign(vertex, proposedColor)
	if proposedColor != color {
		v.conflictsColors = append(v.conflictsColors, make([]int, v.s.g.NbVertices()))
	}

	if v.conflictsColors[color][vertex] > 0 {
		v.penalty += v.conflictsColors[color][vertex]
		for _, neighbor := range v.s.g.Neighbors(vertex) {
			if v.s.Color(neighbor) == color {
				v.conflictEdges = append(v.conflictEdges, makeEdge(neighbor, vertex))
			}
		}
	}

	for _, neighbor := range v.s.g.Neighbors(vertex) {
		v.conflictsColors[color][neighbor] += v.edgeWeights[vertex][neighbor]
	}

	return color
}

// Unassign removes vertex's color, dropping the conflicting edges it no
// longer participates in and decrementing weighted conflict counts for
// neighbors.
func (v *RedLSView) Unassign(vertex int) int {
	color := v.s.Color(vertex)

	if v.conflictsColors[color][vertex] > 0 {
		v.penalty -= v.conflictsColors[color][vertex]
		for _, neighbor := range v.s.g.Neighbors(vertex) {
			if v.s.Color(neighbor) == color {
				v.conflictEdges = removeEdge(v.conflictEdges, makeEdge(neighbor, vertex))
			}
		}
	}

	for _, neighbor := range v.s.g.Neighbors(vertex) {
		v.conflictsColors[color][neighbor] -= v.edgeWeights[vertex][neighbor]
	}

	color, _ = v.s.Unassign(vertex)
	return color
}

// IncrementEdgeWeights bumps the weight of every currently conflicting edge
// by one (the RedLS "penalize stuck conflicts" step), updating the weighted
// conflict counts and penalty to match.
func (v *RedLSView) IncrementEdgeWeights() {
	for _, e := range v.conflictEdges {
		v.edgeWeights[e.Lower][e.Higher]++
		v.edgeWeights[e.Higher][e.Lower]++
		v.conflictsColors[v.s.Color(e.Lower)][e.Higher]++
		v.conflictsColors[v.s.Color(e.Higher)][e.Lower]++
	}
	v.penalty += len(v.conflictEdges)
}

// DeltaConflicts returns the change in weighted conflict count that would
// result from (re)coloring vertex with color; an uncolored vertex has no
// current conflicts to give up.
func (v *RedLSView) DeltaConflicts(vertex, color int) int {
	old := 0
	if c := v.s.Color(vertex); c != Unassigned {
		old = v.conflictsColors[c][vertex]
	}
	return v.conflictsColors[color][vertex] - old
}

// ConflictsColors returns the weighted conflict count of vertex in color.
func (v *RedLSView) ConflictsColors(color, vertex int) int {
	return v.conflictsColors[color][vertex]
}

// Penalty returns the current weighted conflict penalty.
func (v *RedLSView) Penalty() int { return v.penalty }

// ConflictEdges returns the currently conflicting edges.
func (v *RedLSView) ConflictEdges() []Edge { return v.conflictEdges }

func makeEdge(a, b int) Edge {
	if a < b {
		return Edge{Lower: a, Higher: b}
	}
	return Edge{Lower: b, Higher: a}
}

func removeEdge(edges []Edge, e Edge) []Edge {
	for i, x := range edges {
		if x == e {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return edges
}
