// Package wcoloring implements the incrementally-maintained coloring state
// the rest of the solver mutates: vertex-to-color assignment, per-color
// conflict counts, and the WVCP score, all kept current in O(degree) per
// assign/unassign rather than recomputed from scratch.
//
// Two read/write wrappers sit on top of a *State for methods that need extra
// bookkeeping beyond the base invariants: ILSTSView (free-color counts for
// vertices left deliberately unassigned) and RedLSView (per-edge weights and
// the live list of conflicting edges). Both wrap a *State by holding a pointer
// to it rather than subclassing, since Go has no inheritance; they stay in this
// package because they reach into State's unexported fields on every call.
package wcoloring

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/katalvlaran/wvcp-mcts/internal/wgraph"
)

// Sentinel errors for coloring-state operations.
var (
	// ErrVertexOutOfRange indicates a vertex index outside [0, nb_vertices).
	ErrVertexOutOfRange = errors.New("wcoloring: vertex out of range")

	// ErrVertexAlreadyUncolored indicates an Unassign call on a vertex with no color.
	ErrVertexAlreadyUncolored = errors.New("wcoloring: vertex already uncolored")

	// ErrInvariantViolation indicates CheckInvariants found an inconsistency.
	ErrInvariantViolation = errors.New("wcoloring: invariant violation")
)

// Unassigned is the sentinel color value meaning "no color" / "ask for a new
// color" depending on context.
const Unassigned = -1

// State is the coloring state for a single partial or complete solution.
// Nothing here is safe for concurrent use; the whole engine is
// single-threaded.
type State struct {
	g *wgraph.Graph

	colors          []int   // colors[v] = color of v, or Unassigned
	colorsVertices  [][]int // per color: vertices in that color, sorted ascending
	heaviestWeight  []int   // per color: max vertex weight in that color
	conflictsColors [][]int // conflictsColors[color][v] = number of v's neighbors in color

	nbColors       int
	nonEmptyColors []int
	emptyColors    []int

	firstFreeVertex int

	scoreWVCP             int
	penalty               int
	nbConflictingVertices int
}

// NewState returns an empty coloring state over g: no vertex assigned, no
// colors opened.
func NewState(g *wgraph.Graph) *State {
	colors := make([]int, g.NbVertices())
	for i := range colors {
		colors[i] = Unassigned
	}
	return &State{
		g:      g,
		colors: colors,
	}
}

// Graph returns the underlying graph instance.
func (s *State) Graph() *wgraph.Graph { return s.g }

func (s *State) openNewColor() int {
	s.conflictsColors = append(s.conflictsColors, make([]int, s.g.NbVertices()))
	s.colorsVertices = append(s.colorsVertices, nil)
	s.heaviestWeight = append(s.heaviestWeight, 0)
	s.nonEmptyColors = append(s.nonEmptyColors, s.nbColors)
	color := s.nbColors
	s.nbColors++
	return color
}

func (s *State) reuseEmptyColor() int {
	n := len(s.emptyColors)
	color := s.emptyColors[n-1]
	s.emptyColors = s.emptyColors[:n-1]
	s.nonEmptyColors = append(s.nonEmptyColors, color)
	return color
}

func insertSorted(a []int, v int) []int {
	i := sort.SearchInts(a, v)
	a = append(a, 0)
	copy(a[i+1:], a[i:])
	a[i] = v
	return a
}

func removeSorted(a []int, v int) []int {
	i := sort.SearchInts(a, v)
	return append(a[:i], a[i+1:]...)
}

func removeUnordered(a []int, v int) []int {
	for i, x := range a {
		if x == v {
			a[i] = a[len(a)-1]
			return a[:len(a)-1]
		}
	}
	return a
}

// Assign colors vertex with color, creating a new color group when color ==
// Unassigned, or reusing a freed one. Returns the color actually used. If the
// vertex already has a color, callers must Unassign it first; Assign does
// not implicitly move.
func (s *State) Assign(vertex, color int) (int, error) {
	if vertex < 0 || vertex >= s.g.NbVertices() {
		return 0, ErrVertexOutOfRange
	}

	if color == Unassigned {
		if len(s.emptyColors) == 0 {
			color = s.openNewColor()
		} else {
			color = s.reuseEmptyColor()
		}
	} else if len(s.colorsVertices[color]) == 0 {
		s.emptyColors = removeUnordered(s.emptyColors, color)
		s.nonEmptyColors = append(s.nonEmptyColors, color)
	}

	s.penalty += s.conflictsColors[color][vertex]

	for _, neighbor := range s.g.Neighbors(vertex) {
		s.conflictsColors[color][neighbor]++
		if color == s.colors[neighbor] && s.conflictsColors[color][neighbor] == 1 {
			s.nbConflictingVertices++
		}
	}
	if s.conflictsColors[color][vertex] > 0 {
		s.nbConflictingVertices++
	}

	oldMaxWeight := s.MaxWeight(color)
	vertexWeight := s.g.Weight(vertex)

	s.colorsVertices[color] = insertSorted(s.colorsVertices[color], vertex)
	s.colors[vertex] = color

	if vertexWeight > oldMaxWeight {
		s.scoreWVCP += vertexWeight - oldMaxWeight
		s.heaviestWeight[color] = vertexWeight
	}

	return color, nil
}

// Unassign removes vertex's color and returns the color it had.
func (s *State) Unassign(vertex int) (int, error) {
	if vertex < 0 || vertex >= s.g.NbVertices() {
		return 0, ErrVertexOutOfRange
	}
	color := s.colors[vertex]
	if color == Unassigned {
		return 0, ErrVertexAlreadyUncolored
	}

	s.penalty -= s.conflictsColors[color][vertex]
	if s.conflictsColors[color][vertex] > 0 {
		s.nbConflictingVertices--
	}

	for _, neighbor := range s.g.Neighbors(vertex) {
		if color == s.colors[neighbor] && s.conflictsColors[color][neighbor] == 1 {
			s.nbConflictingVertices--
		}
		s.conflictsColors[color][neighbor]--
	}

	deltaScore := s.DeltaScoreOldColor(vertex)
	s.scoreWVCP += deltaScore
	if deltaScore != 0 {
		s.heaviestWeight[color] = s.SecondMaxWeight(color)
	}

	s.colorsVertices[color] = removeSorted(s.colorsVertices[color], vertex)
	s.colors[vertex] = Unassigned

	if len(s.colorsVertices[color]) == 0 {
		s.nonEmptyColors = removeUnordered(s.nonEmptyColors, color)
		s.emptyColors = append(s.emptyColors, color)
	}

	return color, nil
}

// FirstAvailableColor returns the first non-empty color with no conflicts for
// vertex, or Unassigned if none exists.
func (s *State) FirstAvailableColor(vertex int) int {
	for _, color := range s.nonEmptyColors {
		if s.conflictsColors[color][vertex] == 0 {
			return color
		}
	}
	return Unassigned
}

// AvailableColors returns every non-empty, conflict-free color for vertex, or
// []int{Unassigned} if none exists, so callers can always index [0].
func (s *State) AvailableColors(vertex int) []int {
	var out []int
	for _, color := range s.nonEmptyColors {
		if s.conflictsColors[color][vertex] == 0 {
			out = append(out, color)
		}
	}
	if len(out) == 0 {
		return []int{Unassigned}
	}
	return out
}

// CleanConflicts repeatedly unassigns the most-conflicted vertex (ties broken
// uniformly at random via r) until no conflicts remain.
func (s *State) CleanConflicts(r *rand.Rand) {
	for s.nbConflictingVertices != 0 {
		nbMaxConflicts := 0
		var maxVertex []int
		for vertex := 0; vertex < s.g.NbVertices(); vertex++ {
			color := s.colors[vertex]
			if color == Unassigned {
				continue
			}
			nbConflicts := s.conflictsColors[color][vertex]
			if nbConflicts == 0 || nbConflicts < nbMaxConflicts {
				continue
			}
			if nbConflicts > nbMaxConflicts {
				nbMaxConflicts = nbConflicts
				maxVertex = maxVertex[:0]
			}
			maxVertex = append(maxVertex, vertex)
		}
		pick := maxVertex[r.Intn(len(maxVertex))]
		if _, err := s.Unassign(pick); err != nil {
			panic(err) // pick always holds a colored vertex; a bug here is not recoverable
		}
	}
}

// RemoveOneColorAndCreateConflicts deletes the non-empty color pair whose
// relocation creates the fewest new conflicts, moving every vertex of the
// losing color into the other one. Used to force fewer color groups.
func (s *State) RemoveOneColorAndCreateConflicts() {
	bestSumConflicts := s.g.NbVertices()
	bestColor1, bestColor2 := Unassigned, Unassigned
	for _, color1 := range s.nonEmptyColors {
		for _, color2 := range s.nonEmptyColors {
			if color1 == color2 {
				continue
			}
			sumConflicts := 0
			for _, vertex := range s.colorsVertices[color1] {
				sumConflicts += s.conflictsColors[color2][vertex]
			}
			if sumConflicts < bestSumConflicts {
				bestColor1, bestColor2 = color1, color2
				bestSumConflicts = sumConflicts
			}
		}
	}
	if bestColor1 == Unassigned {
		return
	}
	toDelete := append([]int(nil), s.colorsVertices[bestColor1]...)
	for _, vertex := range toDelete {
		_, _ = s.Unassign(vertex)
		_, _ = s.Assign(vertex, bestColor2)
	}
}

// DeltaScoreOldColor returns the change in score_wvcp that would result from
// uncoloring vertex (without actually doing it).
func (s *State) DeltaScoreOldColor(vertex int) int {
	color := s.colors[vertex]
	vertexWeight := s.g.Weight(vertex)
	if len(s.colorsVertices[color]) == 1 {
		return -vertexWeight
	}
	secondMax := s.SecondMaxWeight(color)
	if vertexWeight == s.MaxWeight(color) && secondMax < vertexWeight {
		return secondMax - vertexWeight
	}
	return 0
}

// DeltaScore returns the change in score_wvcp that would result from coloring
// vertex with color (without actually doing it). color == Unassigned asks
// about opening a brand new color.
func (s *State) DeltaScore(vertex, color int) int {
	vertexWeight := s.g.Weight(vertex)
	diff := 0
	if s.colors[vertex] != Unassigned {
		diff = s.DeltaScoreOldColor(vertex)
	}
	if color == Unassigned || s.IsColorEmpty(color) {
		return vertexWeight + diff
	}
	oldMaxWeight := s.MaxWeight(color)
	if vertexWeight > oldMaxWeight {
		return vertexWeight - oldMaxWeight + diff
	}
	return diff
}

// DeltaConflicts returns the change in Penalty() that would result from
// (re)coloring vertex with color; an uncolored vertex has no current
// conflicts to give up.
func (s *State) DeltaConflicts(vertex, color int) int {
	old := 0
	if s.colors[vertex] != Unassigned {
		old = s.conflictsColors[s.colors[vertex]][vertex]
	}
	if color == Unassigned {
		return -old
	}
	return s.conflictsColors[color][vertex] - old
}

// IncrementFirstFreeVertex advances the MCTS "next vertex to color" cursor.
func (s *State) IncrementFirstFreeVertex() { s.firstFreeVertex++ }

// ReorganizeColors compacts color indices so the used colors are exactly
// 0..len(NonEmptyColors())-1, then drops the trailing empty colors, leaving
// no empty color behind. Colors above the compacted range are fully
// re-colored (delete every vertex, then re-add it into the lowest empty
// color) rather than relabeled in place, so Assign's bookkeeping still runs
// for each vertex.
func (s *State) ReorganizeColors() {
	if len(s.emptyColors) == 0 {
		return
	}
	firstNotUsed := minInt(s.emptyColors)
	lastUsed := maxInt(s.nonEmptyColors)
	for firstNotUsed < lastUsed {
		lastColor := maxInt(s.nonEmptyColors)
		vertices := append([]int(nil), s.colorsVertices[lastColor]...)
		for _, vertex := range vertices {
			_, _ = s.Unassign(vertex)
		}
		color := firstNotUsed
		for _, vertex := range vertices {
			color, _ = s.Assign(vertex, color)
		}
		firstNotUsed = minInt(s.emptyColors)
		lastUsed = maxInt(s.nonEmptyColors)
	}
	s.nbColors = len(s.nonEmptyColors)
	s.conflictsColors = s.conflictsColors[:s.nbColors]
	s.colorsVertices = s.colorsVertices[:s.nbColors]
	s.heaviestWeight = s.heaviestWeight[:s.nbColors]
	s.emptyColors = s.emptyColors[:0]
}

func minInt(a []int) int {
	m := a[0]
	for _, v := range a[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxInt(a []int) int {
	m := a[0]
	for _, v := range a[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// CheckInvariants recomputes per-color max weight and total score from
// scratch and compares them against the incrementally maintained values,
// returning ErrInvariantViolation (wrapped with detail) on the first
// mismatch. Called from tests; no solver path calls it.
func (s *State) CheckInvariants() error {
	maxColorsWeights := make([]int, s.nbColors)
	for vertex := 0; vertex < s.g.NbVertices(); vertex++ {
		color := s.colors[vertex]
		if color == Unassigned {
			continue
		}
		if w := s.g.Weight(vertex); w > maxColorsWeights[color] {
			maxColorsWeights[color] = w
		}
	}

	score := 0
	for color := 0; color < s.nbColors; color++ {
		if len(s.colorsVertices[color]) == 0 {
			continue
		}
		if s.MaxWeight(color) != maxColorsWeights[color] {
			return fmt.Errorf("%w: color %d max weight %d, recomputed %d",
				ErrInvariantViolation, color, s.MaxWeight(color), maxColorsWeights[color])
		}
		score += maxColorsWeights[color]
	}

	for _, color := range s.emptyColors {
		if maxColorsWeights[color] != 0 || s.heaviestWeight[color] != 0 || len(s.colorsVertices[color]) != 0 {
			return fmt.Errorf("%w: empty color %d not actually empty", ErrInvariantViolation, color)
		}
	}

	if score != s.scoreWVCP {
		return fmt.Errorf("%w: score_wvcp %d, recomputed %d", ErrInvariantViolation, s.scoreWVCP, score)
	}
	return nil
}

// MaxWeight returns the heaviest vertex weight in color, 0 if color is
// Unassigned, empty, or out of range.
func (s *State) MaxWeight(color int) int {
	if color == Unassigned || color >= s.nbColors {
		return 0
	}
	return s.heaviestWeight[color]
}

// SecondMaxWeight returns the second-heaviest vertex weight in color. Valid
// only because vertices are pre-sorted by weight desc (wgraph's G-1): the
// smallest vertex index present in a color class is its heaviest vertex, so
// the second element of the ascending colorsVertices slice is its
// second-heaviest.
func (s *State) SecondMaxWeight(color int) int {
	if color == Unassigned || color >= s.nbColors || len(s.colorsVertices[color]) <= 1 {
		return 0
	}
	return s.g.Weight(s.colorsVertices[color][1])
}

// HasConflicts reports whether vertex currently has any same-color neighbor.
func (s *State) HasConflicts(vertex int) bool {
	color := s.colors[vertex]
	if color == Unassigned {
		return false
	}
	return s.conflictsColors[color][vertex] != 0
}

// IsColorEmpty reports whether color holds no vertices (or does not exist).
func (s *State) IsColorEmpty(color int) bool {
	return color >= s.nbColors || len(s.colorsVertices[color]) == 0
}

// LineCSV renders "nb_colors,penalty,score,solution" the way the runner's
// main CSV expects it, solution being the colon-joined per-vertex color list.
func (s *State) LineCSV() string {
	var b strings.Builder
	for i, c := range s.colors {
		if i > 0 {
			b.WriteByte(':')
		}
		fmt.Fprintf(&b, "%d", c)
	}
	return fmt.Sprintf("%d,%d,%d,%s", len(s.nonEmptyColors), s.penalty, s.scoreWVCP, b.String())
}

// Colors returns the full vertex-to-color table (read-only; callers must not
// mutate it).
func (s *State) Colors() []int { return s.colors }

// Color returns the color of vertex, or Unassigned.
func (s *State) Color(vertex int) int { return s.colors[vertex] }

// NbColors returns the number of opened colors (including currently-empty
// ones freed by Unassign but not yet reused or compacted away).
func (s *State) NbColors() int { return s.nbColors }

// ScoreWVCP returns the current WVCP objective value.
func (s *State) ScoreWVCP() int { return s.scoreWVCP }

// Penalty returns the current conflict penalty: the number of edges whose
// endpoints share a color, each such edge counted once.
func (s *State) Penalty() int { return s.penalty }

// NbConflictingVertices returns the number of vertices with at least one
// same-color neighbor.
func (s *State) NbConflictingVertices() int { return s.nbConflictingVertices }

// ConflictsColors returns the number of vertex's neighbors assigned to color.
func (s *State) ConflictsColors(color, vertex int) int {
	return s.conflictsColors[color][vertex]
}

// ColorsVertices returns the vertices assigned to color, sorted ascending.
func (s *State) ColorsVertices(color int) []int { return s.colorsVertices[color] }

// NonEmptyColors returns the list of currently non-empty colors, in
// assign/reuse order (not sorted).
func (s *State) NonEmptyColors() []int { return s.nonEmptyColors }

// EmptyColors returns the list of freed-but-not-reused colors.
func (s *State) EmptyColors() []int { return s.emptyColors }

// FirstFreeVertex returns the next vertex to color in the MCTS expansion
// order.
func (s *State) FirstFreeVertex() int { return s.firstFreeVertex }

// Clone returns a deep copy of s, independent of the receiver.
func (s *State) Clone() *State {
	out := &State{
		g:                     s.g,
		colors:                append([]int(nil), s.colors...),
		heaviestWeight:        append([]int(nil), s.heaviestWeight...),
		nbColors:              s.nbColors,
		nonEmptyColors:        append([]int(nil), s.nonEmptyColors...),
		emptyColors:           append([]int(nil), s.emptyColors...),
		firstFreeVertex:       s.firstFreeVertex,
		scoreWVCP:             s.scoreWVCP,
		penalty:               s.penalty,
		nbConflictingVertices: s.nbConflictingVertices,
	}
	out.colorsVertices = make([][]int, len(s.colorsVertices))
	for i, cv := range s.colorsVertices {
		out.colorsVertices[i] = append([]int(nil), cv...)
	}
	out.conflictsColors = make([][]int, len(s.conflictsColors))
	for i, cc := range s.conflictsColors {
		out.conflictsColors[i] = append([]int(nil), cc...)
	}
	return out
}

// RestoreFrom overwrites s's fields with a deep copy of other's, leaving s
// pointing at the same graph. Used by local-search operators that track a
// best-seen solution separately and roll back to it before returning.
func (s *State) RestoreFrom(other *State) {
	*s = *other.Clone()
}
