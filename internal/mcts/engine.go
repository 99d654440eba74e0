package mcts

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/katalvlaran/wvcp-mcts/internal/adaptive"
	"github.com/katalvlaran/wvcp-mcts/internal/construct"
	"github.com/katalvlaran/wvcp-mcts/internal/localsearch"
	"github.com/katalvlaran/wvcp-mcts/internal/simpolicy"
	"github.com/katalvlaran/wvcp-mcts/internal/wcoloring"
	"github.com/katalvlaran/wvcp-mcts/internal/wconfig"
	"github.com/katalvlaran/wvcp-mcts/internal/wgraph"
)

// headerCSV is the main-output CSV header: the shared solution columns
// prefixed with the MCTS-specific tree columns.
const headerCSV = "turn,time,depth,nb_total_node,nb_current_node,height,nb_colors,penalty,score,solution\n"

// Engine drives the four MCTS phases (selection, expansion, simulation,
// backpropagation) to termination and emits the run's main and turn-by-turn
// CSV output.
type Engine struct {
	opts  wconfig.Options
	clock *wconfig.Clock
	r     *rand.Rand

	stats    treeStats
	rootNode *Node
	current  *Node

	// pruningBound is the process-wide best-score-ever-seen next_possible_moves
	// prunes against. Distinct from bestSolution.ScoreWVCP(): when UseTarget is
	// set this starts at the target, which may be tighter than the actual
	// greedy solution held in bestSolution.
	pruningBound int

	baseSolution    *wcoloring.State
	bestSolution    *wcoloring.State
	currentSolution *wcoloring.State

	turn  int64
	tBest time.Duration

	initialization construct.Initializer
	localSearch    []localsearch.Operator
	simulation     simpolicy.Func
	simHelper      *simpolicy.Helper
	adaptiveHelper adaptive.Selector

	mainCSV io.Writer
	tbtCSV  io.Writer
}

// NewEngine builds an Engine over g with opts, seeded from r, writing the
// main run CSV to mainCSV and (if simulation != "no_ls") the turn-by-turn
// adaptive CSV to tbtCSV.
func NewEngine(g *wgraph.Graph, opts wconfig.Options, clock *wconfig.Clock, r *rand.Rand, mainCSV, tbtCSV io.Writer) (*Engine, error) {
	initFn, ok := construct.ByName(opts.Initialization)
	if !ok {
		return nil, fmt.Errorf("mcts: unknown initializer %q", opts.Initialization)
	}
	simFn, ok := simpolicy.ByName(opts.Simulation)
	if !ok {
		return nil, fmt.Errorf("mcts: unknown simulation policy %q", opts.Simulation)
	}

	names := strings.Split(opts.LocalSearch, ":")
	operators := make([]localsearch.Operator, 0, len(names))
	for _, name := range names {
		op, ok := localsearch.ByName(name)
		if !ok {
			return nil, fmt.Errorf("mcts: unknown local-search operator %q", name)
		}
		operators = append(operators, op)
	}

	best := wcoloring.NewState(g)
	construct.GreedyRandom(best, r)
	bestScore := best.ScoreWVCP()
	if opts.UseTarget && opts.Target > 0 {
		bestScore = opts.Target
	}

	base := wcoloring.NewState(g)
	firstMoves := NextPossibleMoves(base, bestScore+1)
	if len(firstMoves) != 1 {
		return nil, fmt.Errorf("mcts: expected exactly one opening move, got %d", len(firstMoves))
	}
	ApplyAction(base, firstMoves[0])

	stats := treeStats{}
	root := NewNode(&stats, nil, firstMoves[0], NextPossibleMoves(base, bestScore))

	e := &Engine{
		opts:             opts,
		clock:            clock,
		r:                r,
		stats:            stats,
		rootNode:         root,
		current:          nil,
		pruningBound:     bestScore,
		baseSolution:     base,
		bestSolution:     best,
		currentSolution:  base.Clone(),
		initialization:   initFn,
		simulation:       simFn,
		simHelper:        simpolicy.NewHelper(g.NbVertices(), bestScore),
		mainCSV:          mainCSV,
		tbtCSV:           tbtCSV,
	}

	if opts.Simulation != "no_ls" {
		e.localSearch = operators
		sel, ok := adaptive.ByName(opts.Adaptive, len(operators), opts.WindowSize, opts.CoeffExploiExplo)
		if !ok {
			return nil, fmt.Errorf("mcts: unknown adaptive selector %q", opts.Adaptive)
		}
		e.adaptiveHelper = sel
		if tbtCSV != nil {
			fmt.Fprintf(tbtCSV, "#operators\n#%s\n", strings.Join(names, ":"))
			fmt.Fprint(tbtCSV, "time,turn,proba,selected,score_pre_ls,score_post_ls\n")
		}
	}

	if mainCSV != nil {
		fmt.Fprint(mainCSV, headerCSV)
	}

	return e, nil
}

// stopCondition: keep going while under the
// iteration cap, under the time limit, short of a reached target, and the
// tree still has something left to explore.
func (e *Engine) stopCondition() bool {
	if e.opts.NbMaxIterations > 0 && e.turn >= int64(e.opts.NbMaxIterations) {
		return false
	}
	if e.clock.ShouldStop() {
		return false
	}
	if e.opts.Target >= 0 && e.opts.Objective == wconfig.ObjectiveReached &&
		e.bestSolution.ScoreWVCP() <= e.opts.Target {
		return false
	}
	return !e.rootNode.FullyExplored()
}

// Run drives the search to termination and returns the best solution found.
func (e *Engine) Run() *wcoloring.State {
	operatorNumber := 0

	for e.stopCondition() {
		e.turn++

		e.current = e.rootNode
		e.currentSolution = e.baseSolution.Clone()

		e.selection()
		e.expansion()

		e.initialization(e.currentSolution, e.r)
		scoreBeforeLS := e.currentSolution.ScoreWVCP()

		useLocalSearch := e.simulation(e.currentSolution, e.simHelper, e.r)
		if useLocalSearch && e.adaptiveHelper != nil {
			operatorNumber = e.adaptiveHelper.GetOperator(e.r)
			op := e.localSearch[operatorNumber]
			budget := localsearch.Budget{
				NbIterLocalSearch: e.opts.NbIterLocalSearch,
				Clock:             e.clock,
				UseTarget:         e.opts.Target >= 0,
				Target:            e.opts.Target,
			}
			if e.opts.MaxTimeLocalSearch > 0 {
				budget.Deadline = time.Now().Add(e.opts.MaxTimeLocalSearch)
			}
			op(e.currentSolution, budget, e.r)

			e.adaptiveHelper.UpdateObtainedSolution(operatorNumber, e.currentSolution.ScoreWVCP())
			e.adaptiveHelper.UpdateHelper()

			if e.tbtCSV != nil {
				fmt.Fprintf(e.tbtCSV, "%d,%d,%s,%d,%d,%d\n",
					int64(e.clock.Elapsed().Seconds()), e.turn, e.adaptiveHelper.ToStrProba(),
					operatorNumber, scoreBeforeLS, e.currentSolution.ScoreWVCP())
			}

			e.adaptiveHelper.IncrementTurn()
		}

		scoreWVCP := e.currentSolution.ScoreWVCP()
		e.current.Update(float64(scoreWVCP), e.opts.CoeffExploiExplo)

		if e.bestSolution.ScoreWVCP() > scoreWVCP {
			e.tBest = e.clock.Elapsed()
			e.bestSolution = e.currentSolution.Clone()
			if e.pruningBound > scoreWVCP {
				e.pruningBound = scoreWVCP
			}
			if e.mainCSV != nil {
				fmt.Fprint(e.mainCSV, e.lineCSV())
			}
			e.current = nil
			e.rootNode.CleanGraph(e.bestSolution.ScoreWVCP(), &e.stats)
		}
		e.current = nil
	}

	e.current = e.rootNode
	if e.mainCSV != nil {
		fmt.Fprint(e.mainCSV, e.lineCSV())
	}
	e.current = nil

	return e.bestSolution
}

func (e *Engine) selection() {
	for e.current.FullyExpanded() {
		e.current = e.current.SelectChild(e.r)
		ApplyAction(e.currentSolution, e.current.Move())
	}
}

func (e *Engine) expansion() {
	move := e.current.Next()
	ApplyAction(e.currentSolution, move)
	nextMoves := NextPossibleMoves(e.currentSolution, e.pruningBound)
	if len(nextMoves) != 0 {
		child := NewNode(&e.stats, e.current, move, nextMoves)
		e.current.AddChild(child)
		e.current = child
	}
}

func (e *Engine) lineCSV() string {
	return fmt.Sprintf("%d,%d,%d,%d,%d,%d,%s\n",
		e.turn, int64(e.tBest.Seconds()), e.current.Depth(), e.stats.totalNodes, e.stats.currentNodes,
		e.stats.height, e.bestSolution.LineCSV())
}
