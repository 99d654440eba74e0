// Package runner binds a method (a single local-search operator or the MCTS
// engine) to its Options, drives it to termination, and emits the run's CSV
// output. Run is the file-and-signal-handling entry point the CLI
// calls; Solve is the in-memory core it delegates to, also usable directly
// by library callers and tests.
package runner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/katalvlaran/wvcp-mcts/internal/construct"
	"github.com/katalvlaran/wvcp-mcts/internal/instance"
	"github.com/katalvlaran/wvcp-mcts/internal/localsearch"
	"github.com/katalvlaran/wvcp-mcts/internal/mcts"
	"github.com/katalvlaran/wvcp-mcts/internal/wcoloring"
	"github.com/katalvlaran/wvcp-mcts/internal/wconfig"
	"github.com/katalvlaran/wvcp-mcts/internal/wgraph"
	"github.com/katalvlaran/wvcp-mcts/internal/wlog"
	"github.com/katalvlaran/wvcp-mcts/internal/xrand"
)

// Sentinel errors for method resolution.
var (
	// ErrUnknownInitializer indicates Options.Initialization names no greedy
	// initializer.
	ErrUnknownInitializer = errors.New("runner: unknown initializer")

	// ErrUnknownLocalSearch indicates Options.LocalSearch names no
	// local-search operator.
	ErrUnknownLocalSearch = errors.New("runner: unknown local-search operator")

	// ErrUnknownMethod indicates Options.Method is neither "local_search"
	// nor "mcts".
	ErrUnknownMethod = errors.New("runner: unknown method")
)

// lsHeaderCSV is the direct local-search run's column header; MCTS prefixes
// its own tree columns (see mcts.Engine).
const lsHeaderCSV = "turn,time,nb_colors,penalty,score,solution\n"

// Run loads the instance named by opts, installs the interrupt hook, drives
// Solve, and finalizes the output files (atomic rename from the .running
// suffix). It is the one place errors surface; everything below it returns
// cleanly.
func Run(opts wconfig.Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	g, err := instance.Load(opts.InstancesDirectory, opts.Instance, opts.Problem)
	if err != nil {
		return err
	}

	clock := wconfig.NewClock(opts.TimeLimit)

	// The handler's only side effect is flipping the cancellation token;
	// every loop re-reads it cooperatively.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt, syscall.SIGTERM)
	defer func() {
		signal.Stop(interrupts)
		close(interrupts)
	}()
	go func() {
		sig, ok := <-interrupts
		if !ok {
			return
		}
		wlog.Logger.Info().Str("signal", sig.String()).Msg("interrupt received, stopping")
		clock.Stop()
	}()

	mainW, tbtW, finish, err := openOutputs(opts)
	if err != nil {
		return err
	}

	best, err := Solve(g, opts, clock, mainW, tbtW)
	if err != nil {
		return err
	}

	wlog.Logger.Info().
		Int("score", best.ScoreWVCP()).
		Int("nb_colors", len(best.NonEmptyColors())).
		Int("penalty", best.Penalty()).
		Dur("elapsed", clock.Elapsed()).
		Msg("search finished")

	return finish()
}

// Solve runs the configured method over g to termination and returns the
// best solution found. The comment header, the column header, and every
// result row go to mainW; the adaptive turn-by-turn rows (MCTS only) go to
// tbtW. Either writer may be nil to discard that stream.
func Solve(g *wgraph.Graph, opts wconfig.Options, clock *wconfig.Clock, mainW, tbtW io.Writer) (*wcoloring.State, error) {
	if opts.BoundNbColors < 0 {
		opts.BoundNbColors = g.MaxDegree() + 1
	}
	if opts.MaxTimeLocalSearch < 0 {
		seconds := opts.OTime + int(opts.PTime*float64(g.NbVertices()))
		if seconds < 1 {
			seconds = 1
		}
		opts.MaxTimeLocalSearch = time.Duration(seconds) * time.Second
	}

	if mainW != nil {
		writeCommentHeader(mainW, opts)
	}

	switch opts.Method {
	case "local_search":
		return solveLocalSearch(g, opts, clock, mainW)
	case "mcts":
		engine, err := mcts.NewEngine(g, opts, clock, xrand.New(opts.RandSeed), mainW, tbtW)
		if err != nil {
			return nil, err
		}
		return engine.Run(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, opts.Method)
	}
}

// solveLocalSearch builds an initial coloring with the configured
// initializer, then hands it to the first configured operator for one full
// budgeted invocation.
func solveLocalSearch(g *wgraph.Graph, opts wconfig.Options, clock *wconfig.Clock, mainW io.Writer) (*wcoloring.State, error) {
	initFn, ok := construct.ByName(opts.Initialization)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInitializer, opts.Initialization)
	}
	opName := strings.Split(opts.LocalSearch, ":")[0]
	op, ok := localsearch.ByName(opName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocalSearch, opName)
	}

	r := xrand.New(opts.RandSeed)
	s := wcoloring.NewState(g)
	initFn(s, r)

	if mainW != nil {
		fmt.Fprint(mainW, lsHeaderCSV)
		fmt.Fprintf(mainW, "0,%d,%s\n", int64(clock.Elapsed().Seconds()), s.LineCSV())
	}
	wlog.Logger.Debug().
		Str("initialization", opts.Initialization).
		Int("score", s.ScoreWVCP()).
		Msg("initial solution built")

	budget := localsearch.Budget{
		NbIterLocalSearch: opts.NbIterLocalSearch,
		Clock:             clock,
		UseTarget:         opts.Target >= 0,
		Target:            opts.Target,
	}
	if opts.MaxTimeLocalSearch > 0 {
		budget.Deadline = time.Now().Add(opts.MaxTimeLocalSearch)
	}
	op(s, budget, r)

	s.ReorganizeColors()
	if mainW != nil {
		fmt.Fprintf(mainW, "1,%d,%s\n", int64(clock.Elapsed().Seconds()), s.LineCSV())
	}
	return s, nil
}

// writeCommentHeader emits the two "#"-prefixed parameter lines every run's
// main CSV starts with.
func writeCommentHeader(w io.Writer, opts wconfig.Options) {
	fmt.Fprint(w,
		"#date,problem,instance,method,rand_seed,target,use_target,objective,"+
			"time_limit,nb_max_iterations,initialization,nb_iter_local_search,"+
			"max_time_local_search,bound_nb_colors,local_search,adaptive,"+
			"window_size,coeff_exploi_explo,simulation\n")
	fmt.Fprintf(w, "#%s,%s,%s,%s,%d,%d,%t,%s,%d,%d,%s,%d,%d,%d,%s,%s,%d,%g,%s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		opts.Problem,
		instanceBaseName(opts.Instance),
		opts.Method,
		opts.RandSeed,
		opts.Target,
		opts.UseTarget,
		opts.Objective,
		int64(opts.TimeLimit.Seconds()),
		opts.NbMaxIterations,
		opts.Initialization,
		opts.NbIterLocalSearch,
		int64(opts.MaxTimeLocalSearch.Seconds()),
		opts.BoundNbColors,
		opts.LocalSearch,
		opts.Adaptive,
		opts.WindowSize,
		opts.CoeffExploiExplo,
		opts.Simulation)
}

// openOutputs resolves the main and turn-by-turn writers. An empty
// OutputDirectory streams both to stdout, and finish only prints a closing
// "#<date>" line there. Otherwise the
// files are created under a .running suffix and finish renames them to
// their final names, so a crash never leaves a file that looks complete.
func openOutputs(opts wconfig.Options) (mainW, tbtW io.Writer, finish func() error, err error) {
	if opts.OutputDirectory == "" {
		finish = func() error {
			fmt.Fprintf(os.Stdout, "#%s\n", time.Now().Format("2006-01-02 15:04:05"))
			return nil
		}
		return os.Stdout, os.Stdout, finish, nil
	}

	tbtDir := filepath.Join(opts.OutputDirectory, "tbt")
	if err := os.MkdirAll(tbtDir, 0o755); err != nil {
		return nil, nil, nil, fmt.Errorf("runner: create output directory: %w", err)
	}

	base := fmt.Sprintf("%s_%d.csv", instanceBaseName(opts.Instance), opts.RandSeed)
	mainPath := filepath.Join(opts.OutputDirectory, base)
	tbtPath := filepath.Join(tbtDir, base)

	mainFile, err := os.Create(mainPath + ".running")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("runner: create %s: %w", mainPath, err)
	}
	tbtFile, err := os.Create(tbtPath + ".running")
	if err != nil {
		mainFile.Close()
		return nil, nil, nil, fmt.Errorf("runner: create %s: %w", tbtPath, err)
	}

	finish = func() error {
		fmt.Fprintf(mainFile, "#%s\n", time.Now().Format("2006-01-02 15:04:05"))
		if err := mainFile.Close(); err != nil {
			return fmt.Errorf("runner: close %s: %w", mainPath, err)
		}
		if err := tbtFile.Close(); err != nil {
			return fmt.Errorf("runner: close %s: %w", tbtPath, err)
		}
		if err := os.Rename(mainPath+".running", mainPath); err != nil {
			return fmt.Errorf("runner: finalize %s: %w", mainPath, err)
		}
		if err := os.Rename(tbtPath+".running", tbtPath); err != nil {
			return fmt.Errorf("runner: finalize %s: %w", tbtPath, err)
		}
		return nil
	}
	return mainFile, tbtFile, finish, nil
}

// instanceBaseName strips any directory and .col suffix from an instance
// name, so direct-path instances still produce clean output file names.
func instanceBaseName(name string) string {
	return strings.TrimSuffix(filepath.Base(name), ".col")
}
