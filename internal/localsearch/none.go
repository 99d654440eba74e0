package localsearch

import (
	"math/rand"

	"github.com/katalvlaran/wvcp-mcts/internal/wcoloring"
)

// NoneLS is the identity operator: it leaves the state untouched. MCTS uses
// it as the "no simulation local search" choice.
func NoneLS(_ *wcoloring.State, _ Budget, _ *rand.Rand) {}
