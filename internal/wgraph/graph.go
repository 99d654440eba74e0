// Package wgraph defines the immutable Graph instance the solver operates on:
// vertices pre-sorted by (weight desc, degree desc), an adjacency list, a dense
// adjacency matrix, and per-vertex weight/degree tables.
//
// The sort invariant (G-1: weights[v] >= weights[v+1], ties broken by
// degrees[v] >= degrees[v+1]) is load-bearing: second_max_weight in wcoloring
// relies on color classes staying sorted by vertex index, which is sorted by
// weight desc; several initializers and operators also rely on it for deterministic
// tie-breaking. NewGraph returns a Graph with vertices permuted accordingly and
// an OriginalIndex slice recording, for each sorted vertex, its index before
// the sort. The CSV output is written in sorted indices and does not use it.
package wgraph

import (
	"errors"
	"sort"
)

// Sentinel errors for graph construction.
var (
	// ErrNegativeVertexCount indicates a negative nb_vertices was requested.
	ErrNegativeVertexCount = errors.New("wgraph: negative vertex count")

	// ErrEdgeOutOfRange indicates an edge endpoint is outside [0, nb_vertices).
	ErrEdgeOutOfRange = errors.New("wgraph: edge endpoint out of range")

	// ErrWeightCountMismatch indicates the weights slice does not have one
	// entry per vertex.
	ErrWeightCountMismatch = errors.New("wgraph: weight count does not match vertex count")

	// ErrNonPositiveWeight indicates a vertex weight <= 0 was supplied; the
	// WVCP objective assumes strictly positive weights.
	ErrNonPositiveWeight = errors.New("wgraph: vertex weight must be positive")
)

// Edge is an unordered pair of 0-based vertex indices, as they appear in the
// instance edge list.
type Edge struct {
	U, V int
}

// Graph is the read-only instance the whole solver operates against. All
// fields are fixed at construction time; nothing in the rest of the module
// mutates a Graph.
type Graph struct {
	nbVertices int
	nbEdges    int
	edgesList  []Edge
	adjacency  [][]bool
	neighbors  [][]int
	degrees    []int
	weights    []int

	// OriginalIndex[v] is the 0-based vertex index this graph's vertex v had
	// before the G-1 sort was applied (identity if the caller already
	// supplied pre-sorted data).
	OriginalIndex []int
}

// NewGraph builds a Graph from a raw (unsorted) edge list and per-vertex
// weights, re-indexing vertices to satisfy G-1 (weight desc, degree desc).
// Parallel edges are collapsed; self-loops are silently dropped (WVCP/GCP
// instances are simple graphs).
func NewGraph(nbVertices int, rawEdges []Edge, rawWeights []int) (*Graph, error) {
	if nbVertices < 0 {
		return nil, ErrNegativeVertexCount
	}
	if rawWeights == nil {
		rawWeights = make([]int, nbVertices)
		for i := range rawWeights {
			rawWeights[i] = 1
		}
	}
	if len(rawWeights) != nbVertices {
		return nil, ErrWeightCountMismatch
	}
	for _, w := range rawWeights {
		if w <= 0 {
			return nil, ErrNonPositiveWeight
		}
	}

	adjacency := make([][]bool, nbVertices)
	for i := range adjacency {
		adjacency[i] = make([]bool, nbVertices)
	}
	neighbors := make([][]int, nbVertices)
	nbEdges := 0
	for _, e := range rawEdges {
		if e.U < 0 || e.U >= nbVertices || e.V < 0 || e.V >= nbVertices {
			return nil, ErrEdgeOutOfRange
		}
		if e.U == e.V {
			continue
		}
		if adjacency[e.U][e.V] {
			continue
		}
		adjacency[e.U][e.V] = true
		adjacency[e.V][e.U] = true
		neighbors[e.U] = append(neighbors[e.U], e.V)
		neighbors[e.V] = append(neighbors[e.V], e.U)
		nbEdges++
	}

	degrees := make([]int, nbVertices)
	for v := range degrees {
		degrees[v] = len(neighbors[v])
	}

	order := make([]int, nbVertices)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if rawWeights[a] != rawWeights[b] {
			return rawWeights[a] > rawWeights[b]
		}
		return degrees[a] > degrees[b]
	})

	// newIndex[old] = new position.
	newIndex := make([]int, nbVertices)
	for newPos, oldV := range order {
		newIndex[oldV] = newPos
	}

	g := &Graph{
		nbVertices:    nbVertices,
		weights:       make([]int, nbVertices),
		degrees:       make([]int, nbVertices),
		neighbors:     make([][]int, nbVertices),
		adjacency:     make([][]bool, nbVertices),
		OriginalIndex: make([]int, nbVertices),
	}
	for newPos, oldV := range order {
		g.weights[newPos] = rawWeights[oldV]
		g.degrees[newPos] = degrees[oldV]
		g.OriginalIndex[newPos] = oldV
		remapped := make([]int, len(neighbors[oldV]))
		for i, n := range neighbors[oldV] {
			remapped[i] = newIndex[n]
		}
		sort.Ints(remapped)
		g.neighbors[newPos] = remapped
	}
	for i := 0; i < nbVertices; i++ {
		g.adjacency[i] = make([]bool, nbVertices)
	}
	for u := 0; u < nbVertices; u++ {
		for _, v := range g.neighbors[u] {
			g.adjacency[u][v] = true
			if u < v {
				g.edgesList = append(g.edgesList, Edge{U: u, V: v})
			}
		}
	}
	g.nbEdges = nbEdges

	return g, nil
}

// NbVertices returns the number of vertices.
func (g *Graph) NbVertices() int { return g.nbVertices }

// NbEdges returns the number of (deduplicated, non-loop) edges.
func (g *Graph) NbEdges() int { return g.nbEdges }

// EdgesList returns the ordered sequence of unordered pairs, u < v.
func (g *Graph) EdgesList() []Edge { return g.edgesList }

// Neighbors returns the ordered (ascending) neighbor list of v.
func (g *Graph) Neighbors(v int) []int { return g.neighbors[v] }

// Degree returns the degree of v.
func (g *Graph) Degree(v int) int { return g.degrees[v] }

// Weight returns the weight of v.
func (g *Graph) Weight(v int) int { return g.weights[v] }

// Weights returns the full per-vertex weight table (read-only; callers must
// not mutate it).
func (g *Graph) Weights() []int { return g.weights }

// Adjacent reports whether u and v are connected by an edge.
func (g *Graph) Adjacent(u, v int) bool { return g.adjacency[u][v] }

// MaxDegree returns the maximum vertex degree, used to derive
// bound_nb_colors = max(degrees) + 1 when the CLI leaves it at -1.
func (g *Graph) MaxDegree() int {
	m := 0
	for _, d := range g.degrees {
		if d > m {
			m = d
		}
	}
	return m
}
