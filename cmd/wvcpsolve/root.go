package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/wvcp-mcts/internal/runner"
	"github.com/katalvlaran/wvcp-mcts/internal/wconfig"
	"github.com/katalvlaran/wvcp-mcts/internal/wlog"
)

// clockSeed is the rand_seed flag sentinel meaning "seed from the clock".
const clockSeed int64 = -1

var (
	flagProblem            string
	flagInstance           string
	flagInstancesDirectory string
	flagMethod             string
	flagRandSeed           int64
	flagTarget             int
	flagUseTarget          bool
	flagObjective          string
	flagTimeLimit          int
	flagNbMaxIterations    int
	flagInitialization     string
	flagNbIterLS           int
	flagMaxTimeLS          int
	flagOTime              int
	flagPTime              float64
	flagBoundNbColors      int
	flagLocalSearch        string
	flagAdaptive           string
	flagWindowSize         int
	flagCoeffExploiExplo   float64
	flagSimulation         string
	flagOutputDirectory    string
	flagConfigPath         string
	flagLogLevel           string
)

var rootCmd = &cobra.Command{
	Use:   "wvcpsolve",
	Short: "Solve WVCP/GCP instances with local search or adaptive MCTS",
	Long: "wvcpsolve searches for a minimum-score weighted vertex coloring (or a\n" +
		"minimum coloring for GCP) of a DIMACS instance, either by driving one\n" +
		"local-search operator directly or by running a Monte Carlo Tree Search\n" +
		"whose rollouts pick operators adaptively. Results are streamed as CSV to\n" +
		"stdout or to <output_directory>/<instance>_<seed>.csv.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		wlog.Init(flagLogLevel)
		opts, err := buildOptions(cmd)
		if err != nil {
			return err
		}
		return runner.Run(opts)
	},
}

func init() {
	defaults := wconfig.DefaultOptions()
	flags := rootCmd.Flags()

	flags.StringVarP(&flagProblem, "problem", "p", string(defaults.Problem), "problem (gcp, wvcp)")
	flags.StringVarP(&flagInstance, "instance", "i", "", "instance base name (under <instances_directory>/reduced_<problem>/) or path to a .col file")
	flags.StringVar(&flagInstancesDirectory, "instances_directory", defaults.InstancesDirectory, "root directory of the instance files")
	flags.StringVarP(&flagMethod, "method", "m", defaults.Method, "method (mcts, local_search)")
	flags.Int64VarP(&flagRandSeed, "rand_seed", "r", clockSeed, "random seed (-1 = seed from the clock)")
	flags.IntVarP(&flagTarget, "target", "T", -1, "stop once the score reaches this value (-1 disables)")
	flags.BoolVarP(&flagUseTarget, "use_target", "u", defaults.UseTarget, "MCTS prunes against the target instead of the best found score")
	flags.StringVarP(&flagObjective, "objective", "b", string(defaults.Objective), "MCTS stop criterion (reached, optimality)")
	flags.IntVarP(&flagTimeLimit, "time_limit", "t", 3600, "maximum execution time in seconds")
	flags.IntVarP(&flagNbMaxIterations, "nb_max_iterations", "n", defaults.NbMaxIterations, "maximum number of MCTS turns (0 = unlimited)")
	flags.StringVarP(&flagInitialization, "initialization", "I", defaults.Initialization, "initializer (total_random, random, constrained, deterministic, worst, dsatur, rlf)")
	flags.IntVarP(&flagNbIterLS, "nb_iter_local_search", "N", defaults.NbIterLocalSearch, "iteration cap per local-search invocation")
	flags.IntVarP(&flagMaxTimeLS, "max_time_local_search", "M", int(defaults.MaxTimeLocalSearch.Seconds()), "seconds per local-search invocation (-1 = derive from O_time + P_time*nb_vertices)")
	flags.IntVarP(&flagOTime, "O_time", "O", defaults.OTime, "constant term of the derived local-search time budget")
	flags.Float64VarP(&flagPTime, "P_time", "P", defaults.PTime, "per-vertex term of the derived local-search time budget")
	flags.IntVarP(&flagBoundNbColors, "bound_nb_colors", "k", defaults.BoundNbColors, "bound on the number of colors (-1 = max degree + 1)")
	flags.StringVarP(&flagLocalSearch, "local_search", "l", defaults.LocalSearch, "colon-separated local-search operator names")
	flags.StringVarP(&flagAdaptive, "adaptive", "A", defaults.Adaptive, "adaptive operator selection (none, iterated, random, deleter, roulette_wheel, pursuit, ucb)")
	flags.IntVarP(&flagWindowSize, "window_size", "w", defaults.WindowSize, "sliding-window length for adaptive selectors")
	flags.Float64VarP(&flagCoeffExploiExplo, "coeff_exploi_explo", "c", defaults.CoeffExploiExplo, "exploration/exploitation coefficient (MCTS UCB and ucb adaptive)")
	flags.StringVarP(&flagSimulation, "simulation", "s", defaults.Simulation, "MCTS simulation policy (no_ls, always_ls, fit, depth, level, depth_fit, chance)")
	flags.StringVarP(&flagOutputDirectory, "output_directory", "o", "", "output directory (empty = stdout)")
	flags.StringVar(&flagConfigPath, "config", "", "optional YAML config file; explicit flags take precedence")
	flags.StringVar(&flagLogLevel, "log_level", "info", "log level (debug, info, warn, error)")

	_ = rootCmd.MarkFlagRequired("instance")
}

// buildOptions layers the three configuration sources: library defaults,
// then the optional YAML overlay, then every flag the user actually set.
func buildOptions(cmd *cobra.Command) (wconfig.Options, error) {
	opts := wconfig.DefaultOptions()

	overlay, err := wconfig.LoadFile(flagConfigPath)
	if err != nil {
		return opts, err
	}
	opts = overlay.ApplyTo(opts)

	flags := cmd.Flags()
	if flags.Changed("problem") {
		opts.Problem = wconfig.Problem(flagProblem)
	}
	opts.Instance = flagInstance
	if flags.Changed("instances_directory") {
		opts.InstancesDirectory = flagInstancesDirectory
	}
	if flags.Changed("method") {
		opts.Method = flagMethod
	}
	switch {
	case flags.Changed("rand_seed") && flagRandSeed != clockSeed:
		opts.RandSeed = flagRandSeed
	case overlay == nil || overlay.RandSeed == nil:
		// Neither flag nor config file pinned a seed: seed from the clock.
		opts.RandSeed = time.Now().UnixNano()
	}
	if flags.Changed("target") {
		opts.Target = flagTarget
	}
	if flags.Changed("use_target") {
		opts.UseTarget = flagUseTarget
	}
	if flags.Changed("objective") {
		opts.Objective = wconfig.Objective(flagObjective)
	}
	if flags.Changed("time_limit") {
		opts.TimeLimit = time.Duration(flagTimeLimit) * time.Second
	}
	if flags.Changed("nb_max_iterations") {
		opts.NbMaxIterations = flagNbMaxIterations
	}
	if flags.Changed("initialization") {
		opts.Initialization = flagInitialization
	}
	if flags.Changed("nb_iter_local_search") {
		opts.NbIterLocalSearch = flagNbIterLS
	}
	if flags.Changed("max_time_local_search") {
		opts.MaxTimeLocalSearch = time.Duration(flagMaxTimeLS) * time.Second
	}
	if flags.Changed("O_time") {
		opts.OTime = flagOTime
	}
	if flags.Changed("P_time") {
		opts.PTime = flagPTime
	}
	if flags.Changed("bound_nb_colors") {
		opts.BoundNbColors = flagBoundNbColors
	}
	if flags.Changed("local_search") {
		opts.LocalSearch = flagLocalSearch
	}
	if flags.Changed("adaptive") {
		opts.Adaptive = flagAdaptive
	}
	if flags.Changed("window_size") {
		opts.WindowSize = flagWindowSize
	}
	if flags.Changed("coeff_exploi_explo") {
		opts.CoeffExploiExplo = flagCoeffExploiExplo
	}
	if flags.Changed("simulation") {
		opts.Simulation = flagSimulation
	}
	if flags.Changed("output_directory") {
		opts.OutputDirectory = flagOutputDirectory
	}
	return opts, nil
}

// Execute runs the root command, reporting any error to stderr and exiting
// with code 1: configuration and file errors are fatal.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		wlog.Logger.Error().Err(err).Msg("run failed")
		os.Exit(1)
	}
}
