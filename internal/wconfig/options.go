// Package wconfig holds the solver's tunable Options, a cooperative
// cancellation Clock shared by every long-running component, and an optional
// YAML overlay so the same fields can come from a config file instead of
// flags.
package wconfig

import (
	"errors"
	"time"
)

// Sentinel errors for option validation and file loading.
var (
	// ErrUnknownProblem indicates Problem is neither "gcp" nor "wvcp".
	ErrUnknownProblem = errors.New("wconfig: unknown problem")

	// ErrUnknownMethod indicates Method is neither "local_search" nor "mcts".
	ErrUnknownMethod = errors.New("wconfig: unknown method")

	// ErrNonPositiveWindowSize indicates WindowSize <= 0 was requested for an
	// adaptive selector that needs a ring-buffer memory.
	ErrNonPositiveWindowSize = errors.New("wconfig: window size must be positive")
)

// Problem selects the optimization problem: plain coloring (GCP, minimize
// colors) or weighted vertex coloring (WVCP, minimize score).
type Problem string

// Supported Problem values.
const (
	ProblemGCP  Problem = "gcp"
	ProblemWVCP Problem = "wvcp"
)

// Objective selects how stop_condition interprets a reached target.
type Objective string

// Supported Objective values.
const (
	ObjectiveOptimality Objective = "optimality"
	ObjectiveReached    Objective = "reached"
)

// Options defines every configurable parameter of a solver run. Zero value is
// not meaningful; use DefaultOptions() and override fields as needed.
type Options struct {
	// Problem selects GCP or WVCP. Default: ProblemWVCP.
	Problem Problem

	// Instance is the instance base name, resolved against
	// InstancesDirectory/reduced_<problem>/, or a direct path to a DIMACS
	// .col file (with its .col.w sibling for WVCP).
	Instance string

	// InstancesDirectory is the root the instance files are resolved
	// against. Default: "../instances".
	InstancesDirectory string

	// Method selects "local_search" (run the first LocalSearch operator once)
	// or "mcts". Default: "mcts".
	Method string

	// RandSeed seeds every derived RNG stream for the run. Default: 1.
	RandSeed int64

	// Target is the score the search stops at once reached; -1 disables the
	// target-based stop condition.
	Target int

	// UseTarget makes MCTS prune the tree against Target instead of the best
	// score found during the search.
	UseTarget bool

	// Objective controls whether reaching Target is itself sufficient to stop
	// (ObjectiveReached) or only optimality proofs count (ObjectiveOptimality,
	// effectively never true for this heuristic solver).
	Objective Objective

	// TimeLimit bounds total wall-clock run time. Zero means "no limit".
	TimeLimit time.Duration

	// NbMaxIterations bounds the number of MCTS turns; a direct local-search
	// run does not read it. Zero means "no limit".
	NbMaxIterations int

	// Initialization names the greedy initializer ("total_random",
	// "random", "constrained", "deterministic", "worst", "dsatur", "rlf").
	Initialization string

	// NbIterLocalSearch bounds the outer-loop iteration count of a
	// local-search operator invocation.
	NbIterLocalSearch int

	// MaxTimeLocalSearch bounds the wall-clock time of a single local-search
	// operator invocation (as opposed to TimeLimit, which bounds the whole run). A
	// negative value asks the runner to derive it from the instance size as
	// max(1, OTime + PTime*nb_vertices) seconds.
	MaxTimeLocalSearch time.Duration

	// OTime is the constant term of the derived local-search time budget,
	// in seconds. Only read when MaxTimeLocalSearch < 0.
	OTime int

	// PTime is the per-vertex term of the derived local-search time budget,
	// in seconds. Only read when MaxTimeLocalSearch < 0.
	PTime float64

	// BoundNbColors is a bound on the number of colors; -1 means "derive from
	// max(degree)+1". The runner resolves and records it in the output
	// header, but no solver component reads it to limit the colors used.
	BoundNbColors int

	// LocalSearch is a colon-separated list of local-search operator names;
	// MCTS's adaptive selector picks among them each turn a simulation policy
	// decides to run local search at all. A direct "local_search" method run
	// uses only the first entry.
	LocalSearch string

	// Adaptive names the operator-selection policy.
	Adaptive string

	// WindowSize is the ring-buffer memory length for adaptive selectors that
	// need one. Default: 50.
	WindowSize int

	// CoeffExploiExplo is the UCB/exploration-exploitation trade-off
	// coefficient shared by MCTS node scoring and the ucb adaptive selector.
	CoeffExploiExplo float64

	// Simulation names the simulation policy MCTS uses during rollouts.
	Simulation string

	// OutputDirectory is where the CSV files are written.
	OutputDirectory string

	// DebugInvariants is carried in Options, but no component reads it:
	// State.CheckInvariants() is only called from tests.
	DebugInvariants bool
}

// Default tuning constants, named the way tsp/types.go names its
// DefaultTwoOptMaxIters/DefaultEps constants.
const (
	DefaultRandSeed           int64         = 1
	DefaultWindowSize         int           = 50
	DefaultCoeffExploiExplo   float64       = 0.5
	DefaultNbIterLocalSearch  int           = 100000
	DefaultMaxTimeLocalSearch time.Duration = 10 * time.Second
	DefaultBoundNbColors      int           = -1
	DefaultOTime              int           = 0
	DefaultPTime              float64       = 0.02
)

// DefaultOptions returns a fully populated Options struct with safe defaults:
//   - WVCP problem, MCTS method
//   - deterministic RNG (RandSeed=1), one-hour time limit, no target
//   - DSATUR initialization, tabu_weight local search, fit simulation policy,
//     roulette_wheel adaptive
func DefaultOptions() Options {
	return Options{
		Problem:            ProblemWVCP,
		InstancesDirectory: "../instances",
		Method:             "mcts",
		RandSeed:           DefaultRandSeed,
		Target:             -1,
		UseTarget:          false,
		Objective:          ObjectiveReached,
		TimeLimit:          3600 * time.Second,
		NbMaxIterations:    0,
		Initialization:     "dsatur",
		NbIterLocalSearch:  DefaultNbIterLocalSearch,
		MaxTimeLocalSearch: DefaultMaxTimeLocalSearch,
		OTime:              DefaultOTime,
		PTime:              DefaultPTime,
		BoundNbColors:      DefaultBoundNbColors,
		LocalSearch:        "tabu_weight",
		Adaptive:           "roulette_wheel",
		WindowSize:         DefaultWindowSize,
		CoeffExploiExplo:   DefaultCoeffExploiExplo,
		Simulation:         "fit",
		OutputDirectory:    "",
	}
}

// Validate reports the first structural problem with o, or nil.
func (o Options) Validate() error {
	if o.Problem != ProblemGCP && o.Problem != ProblemWVCP {
		return ErrUnknownProblem
	}
	if o.WindowSize <= 0 {
		return ErrNonPositiveWindowSize
	}
	return nil
}
