// Package instance reads DIMACS .col edge-list files and their .col.w
// sibling weight files into a wgraph.Graph. This is the solver's only input
// boundary: everything downstream works on the in-memory Graph.
//
// The expected layout mirrors the reference instance repository: a root
// directory holding one reduced_<problem> subdirectory per problem, each
// containing <name>.col (and, for WVCP, <name>.col.w). Load resolves the
// paths from an instance base name; LoadFiles takes explicit paths for
// callers that lay their files out differently.
package instance

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/katalvlaran/wvcp-mcts/internal/wconfig"
	"github.com/katalvlaran/wvcp-mcts/internal/wgraph"
)

// Sentinel errors for instance loading.
var (
	// ErrMalformedEdgeLine indicates an "e" line without two integer endpoints.
	ErrMalformedEdgeLine = errors.New("instance: malformed edge line")

	// ErrMalformedProblemLine indicates a "p" line without vertex/edge counts.
	ErrMalformedProblemLine = errors.New("instance: malformed problem line")

	// ErrMalformedWeight indicates a non-integer token in the weight file.
	ErrMalformedWeight = errors.New("instance: malformed weight")
)

// Load reads instance <name> for the given problem from
// <root>/reduced_<problem>/<name>.col, plus the .col.w weight file when the
// problem is WVCP (GCP instances get unit weights). name may also be a
// direct path to a .col file, in which case root and the layout convention
// are ignored and the weight file is looked up next to it.
func Load(root, name string, problem wconfig.Problem) (*wgraph.Graph, error) {
	colPath := filepath.Join(root, "reduced_"+string(problem), name+".col")
	if strings.HasSuffix(name, ".col") {
		colPath = name
	}
	weightPath := ""
	if problem == wconfig.ProblemWVCP {
		weightPath = colPath + ".w"
	}
	return LoadFiles(colPath, weightPath)
}

// LoadFiles reads a DIMACS .col file and an optional whitespace-separated
// weight file (empty path = unit weights), returning the constructed graph.
func LoadFiles(colPath, weightPath string) (*wgraph.Graph, error) {
	nbVertices, edges, err := readCol(colPath)
	if err != nil {
		return nil, err
	}

	var weights []int
	if weightPath != "" {
		weights, err = readWeights(weightPath, nbVertices)
		if err != nil {
			return nil, err
		}
	}
	return wgraph.NewGraph(nbVertices, edges, weights)
}

// readCol parses the line-oriented DIMACS format: "p edge <n> <m>" declares
// the sizes, "e <u> <v>" declares an edge with 1-based endpoints, anything
// else is a comment. A missing "p" line is tolerated by growing the vertex
// count to the largest endpoint seen.
func readCol(path string) (int, []wgraph.Edge, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, nil, fmt.Errorf("instance: open %s: %w", path, err)
	}
	defer file.Close()

	nbVertices := 0
	var edges []wgraph.Edge

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "p":
			if len(fields) < 3 {
				return 0, nil, fmt.Errorf("%w: %q", ErrMalformedProblemLine, scanner.Text())
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				return 0, nil, fmt.Errorf("%w: %q", ErrMalformedProblemLine, scanner.Text())
			}
			if n > nbVertices {
				nbVertices = n
			}
		case "e":
			if len(fields) < 3 {
				return 0, nil, fmt.Errorf("%w: %q", ErrMalformedEdgeLine, scanner.Text())
			}
			u, err1 := strconv.Atoi(fields[1])
			v, err2 := strconv.Atoi(fields[2])
			if err1 != nil || err2 != nil {
				return 0, nil, fmt.Errorf("%w: %q", ErrMalformedEdgeLine, scanner.Text())
			}
			// DIMACS vertex IDs are 1-based.
			u--
			v--
			edges = append(edges, wgraph.Edge{U: u, V: v})
			if u+1 > nbVertices {
				nbVertices = u + 1
			}
			if v+1 > nbVertices {
				nbVertices = v + 1
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, nil, fmt.Errorf("instance: read %s: %w", path, err)
	}
	return nbVertices, edges, nil
}

// readWeights parses whitespace-separated integer weights, one per vertex in
// vertex-ID order. Extra trailing tokens are an error; missing ones too.
func readWeights(path string, nbVertices int) ([]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("instance: open %s: %w", path, err)
	}
	defer file.Close()

	weights := make([]int, 0, nbVertices)
	scanner := bufio.NewScanner(file)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		w, err := strconv.Atoi(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("%w: %q in %s", ErrMalformedWeight, scanner.Text(), path)
		}
		weights = append(weights, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("instance: read %s: %w", path, err)
	}
	if len(weights) != nbVertices {
		return nil, fmt.Errorf("%w: %s has %d weights for %d vertices",
			wgraph.ErrWeightCountMismatch, path, len(weights), nbVertices)
	}
	return weights, nil
}
