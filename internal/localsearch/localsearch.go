// Package localsearch implements the local-search operator family:
// TabuCol, TabuWeight, PartialCol, AFISA (two tabu-tenure variants), the
// ILSTS grenade operator, RedLS (plain and "freeze" variants), and none_ls,
// the identity operator MCTS uses when no local search should run.
//
// Every operator has the shape "mutate a *wcoloring.State in place until a
// budget is exhausted or the target is hit", returning cleanly rather than
// panicking on any exhausted budget — the coloring state is always left
// internally consistent.
package localsearch

import (
	"math/rand"
	"time"

	"github.com/katalvlaran/wvcp-mcts/internal/wcoloring"
	"github.com/katalvlaran/wvcp-mcts/internal/wconfig"
)

// Budget bounds a single operator invocation: an outer iteration cap, an
// optional wall-clock sub-deadline distinct from the run's overall Clock
// (max_time_local_search vs. time_limit), and a target score that, once
// reached, ends the operator early.
type Budget struct {
	NbIterLocalSearch int
	Clock             *wconfig.Clock
	Deadline          time.Time // sub-deadline for this invocation; zero = none
	UseTarget         bool
	Target            int
}

// expired reports whether the run clock or this invocation's own deadline
// has fired.
func (b Budget) expired() bool {
	if b.Clock != nil && b.Clock.ShouldStop() {
		return true
	}
	return !b.Deadline.IsZero() && time.Now().After(b.Deadline)
}

// deadlineCheckMask gates the deadline test: the Clock is only asked every
// 64 inner-loop turns instead of every turn.
const deadlineCheckMask = 63

// Operator is the common signature every local-search operator satisfies,
// dispatched by name via ByName.
type Operator func(s *wcoloring.State, budget Budget, r *rand.Rand)

// coloration is one candidate (vertex, color) move under consideration.
type coloration struct {
	vertex, color int
}

func chooseColoration(candidates []coloration, r *rand.Rand) coloration {
	return candidates[r.Intn(len(candidates))]
}

// ByName resolves a CLI/config local-search operator name to its Operator.
func ByName(name string) (Operator, bool) {
	switch name {
	case "tabu_col":
		return TabuCol, true
	case "tabu_weight":
		return TabuWeight, true
	case "partial_col":
		return PartialCol, true
	case "afisa":
		return AFISA, true
	case "afisa_original":
		return AFISAOriginal, true
	case "ilsts":
		return ILSTS, true
	case "redls":
		return RedLS, true
	case "redls_freeze":
		return RedLSFreeze, true
	case "none_ls":
		return NoneLS, true
	default:
		return nil, false
	}
}
