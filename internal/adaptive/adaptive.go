// Package adaptive implements the operator selectors MCTS uses to pick which
// local-search operator to apply after a playout: none, iterated, random,
// deleter, roulette_wheel, pursuit, ucb.
package adaptive

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/katalvlaran/wvcp-mcts/internal/xrand"
)

// Selector is the interface MCTS drives every turn: ask for an operator,
// report the score it produced, let the selector update its internal
// probabilities, then advance its turn counter.
type Selector interface {
	GetOperator(r *rand.Rand) int
	UpdateObtainedSolution(operatorNumber, score int)
	UpdateHelper()
	IncrementTurn()
	ToStrProba() string
}

// base holds the bookkeeping every selector shares: a probability per
// operator, a ring buffer of the last memorySize (operator, score) pairs, and
// the derived normalized-utility / selection-count vectors the window-based
// selectors recompute each update.
type base struct {
	nbOperators int
	memorySize  int

	probaOperator []float64
	utility       []float64
	pastOperators []int
	turn          int

	normalizedUtilities []float64
	nbTimesSelected     []int
	nbTimesUsedTotal    []int
	meanScore           []float64

	coeffExploiExplo float64
}

func newBase(nbOperators, memorySize int, coeffExploiExplo float64) *base {
	proba := make([]float64, nbOperators)
	for i := range proba {
		proba[i] = 1 / float64(nbOperators)
	}
	past := make([]int, memorySize)
	for i := range past {
		past[i] = -1
	}
	return &base{
		nbOperators:         nbOperators,
		memorySize:          memorySize,
		probaOperator:       proba,
		utility:             make([]float64, memorySize),
		pastOperators:       past,
		normalizedUtilities: make([]float64, nbOperators),
		nbTimesSelected:     make([]int, nbOperators),
		nbTimesUsedTotal:    make([]int, nbOperators),
		meanScore:           make([]float64, nbOperators),
		coeffExploiExplo:    coeffExploiExplo,
	}
}

// UpdateObtainedSolution records score as the result of operatorNumber in the
// ring buffer slot for the current turn and updates that operator's running
// mean score.
func (b *base) UpdateObtainedSolution(operatorNumber, score int) {
	index := b.turn % b.memorySize
	b.utility[index] = float64(score)
	b.pastOperators[index] = operatorNumber
	b.meanScore[operatorNumber] = (b.meanScore[operatorNumber]*float64(b.nbTimesUsedTotal[operatorNumber]) + float64(score)) /
		float64(b.nbTimesUsedTotal[operatorNumber]+1)
	b.nbTimesUsedTotal[operatorNumber]++
}

// UpdateHelper is the default no-op; selectors whose probabilities respond to
// history override it.
func (b *base) UpdateHelper() {}

// IncrementTurn advances the shared turn counter.
func (b *base) IncrementTurn() { b.turn++ }

// ToStrProba renders the current probability vector for the turn-by-turn CSV.
func (b *base) ToStrProba() string {
	parts := make([]string, len(b.probaOperator))
	for i, p := range b.probaOperator {
		parts[i] = fmt.Sprintf("%.2f", p)
	}
	return strings.Join(parts, ":")
}

// computeNormalizedUtilitiesAndNbSelected averages the ring buffer's scores
// per operator, backfills never-selected operators with the worst observed
// mean, then min-max-normalizes and inverts (this is a minimization problem:
// the operator with the lowest mean score gets normalized utility 1).
func (b *base) computeNormalizedUtilitiesAndNbSelected() {
	for i := range b.normalizedUtilities {
		b.normalizedUtilities[i] = 0
		b.nbTimesSelected[i] = 0
	}

	for i := range b.utility {
		op := b.pastOperators[i]
		if op == -1 {
			continue
		}
		b.nbTimesSelected[op]++
		b.normalizedUtilities[op] += b.utility[i]
	}
	for o := 0; o < b.nbOperators; o++ {
		if b.nbTimesSelected[o] != 0 {
			b.normalizedUtilities[o] /= float64(b.nbTimesSelected[o])
		}
	}

	worst := b.normalizedUtilities[0]
	for _, v := range b.normalizedUtilities {
		if v > worst {
			worst = v
		}
	}
	for o := 0; o < b.nbOperators; o++ {
		if b.nbTimesSelected[o] == 0 {
			b.normalizedUtilities[o] = worst
		}
	}

	minVal, maxVal := b.normalizedUtilities[0], b.normalizedUtilities[0]
	for _, v := range b.normalizedUtilities {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if minVal == maxVal {
		for o := range b.normalizedUtilities {
			b.normalizedUtilities[o] = 1
		}
		return
	}
	for o := range b.normalizedUtilities {
		b.normalizedUtilities[o] = (b.normalizedUtilities[o] - maxVal) / (minVal - maxVal)
	}
}

// warmupTurns is the number of turns every window-based selector waits before
// its probabilities start reacting to history (5 per operator).
func warmupTurns(nbOperators int) int { return 5 * nbOperators }

// None always selects operator 0.
type None struct{ *base }

// NewNone builds a selector that never varies its choice.
func NewNone(nbOperators int) *None {
	b := newBase(nbOperators, 1, 0)
	return &None{base: b}
}

func (n *None) GetOperator(_ *rand.Rand) int { return 0 }

// Iterated cycles through every operator in turn order.
type Iterated struct{ *base }

func NewIterated(nbOperators int) *Iterated {
	return &Iterated{base: newBase(nbOperators, 1, 0)}
}

func (it *Iterated) GetOperator(_ *rand.Rand) int { return it.turn % it.nbOperators }

// Random picks uniformly (proba_operator stays uniform, never updated).
type Random struct{ *base }

func NewRandom(nbOperators int) *Random {
	return &Random{base: newBase(nbOperators, 1, 0)}
}

func (rs *Random) GetOperator(r *rand.Rand) int {
	return xrand.WeightedIndex(rs.probaOperator, r)
}

// Deleter picks uniformly among operators not yet deleted, dropping the
// current worst-mean-score one every 5 turns once past warmup, until one
// remains.
type Deleter struct {
	*base
	possibleOperators []int
}

func NewDeleter(nbOperators int) *Deleter {
	possible := make([]int, nbOperators)
	for i := range possible {
		possible[i] = i
	}
	return &Deleter{base: newBase(nbOperators, 1, 0), possibleOperators: possible}
}

func (d *Deleter) GetOperator(r *rand.Rand) int {
	return xrand.ChoiceInt(d.possibleOperators, r)
}

func (d *Deleter) UpdateHelper() {
	if d.turn < warmupTurns(d.nbOperators) || d.turn%5 != 0 || len(d.possibleOperators) == 1 {
		return
	}
	worst := d.possibleOperators[0]
	for _, o := range d.possibleOperators {
		if d.meanScore[o] > d.meanScore[worst] {
			worst = o
		}
	}
	kept := d.possibleOperators[:0]
	for _, o := range d.possibleOperators {
		if o != worst {
			kept = append(kept, o)
		}
	}
	d.possibleOperators = kept
}

// RouletteWheel sets each operator's selection probability proportional to
// its normalized utility, with a floor of p_min = 1/(5*nb_operators).
type RouletteWheel struct{ *base }

func NewRouletteWheel(nbOperators, windowSize int) *RouletteWheel {
	return &RouletteWheel{base: newBase(nbOperators, windowSize, 0)}
}

func (rw *RouletteWheel) GetOperator(r *rand.Rand) int {
	return xrand.WeightedIndex(rw.probaOperator, r)
}

func (rw *RouletteWheel) UpdateHelper() {
	if rw.turn < warmupTurns(rw.nbOperators) {
		return
	}
	rw.computeNormalizedUtilitiesAndNbSelected()

	var sumUtilities float64
	for _, u := range rw.normalizedUtilities {
		sumUtilities += u
	}
	pMin := 1.0 / float64(rw.nbOperators*5)
	for o := 0; o < rw.nbOperators; o++ {
		rw.probaOperator[o] = pMin + (1-float64(rw.nbOperators)*pMin)*(rw.normalizedUtilities[o]/sumUtilities)
	}
}

// Pursuit nudges each operator's probability toward p_max if it is the
// best-normalized operator, or toward p_min otherwise, resetting to uniform
// every 20 turns.
type Pursuit struct{ *base }

func NewPursuit(nbOperators, windowSize int) *Pursuit {
	return &Pursuit{base: newBase(nbOperators, windowSize, 0)}
}

func (p *Pursuit) GetOperator(r *rand.Rand) int {
	return xrand.WeightedIndex(p.probaOperator, r)
}

const pursuitBeta = 0.7

func (p *Pursuit) UpdateHelper() {
	if p.turn < warmupTurns(p.nbOperators) {
		return
	}
	if p.turn%20 == 0 {
		val := 1 / float64(p.nbOperators)
		for o := range p.probaOperator {
			p.probaOperator[o] = val
		}
	}

	pMin := 1.0 / float64(p.nbOperators*5)
	pMax := 1 - float64(p.nbOperators-1)*pMin

	p.computeNormalizedUtilitiesAndNbSelected()

	for o := 0; o < p.nbOperators; o++ {
		prev := p.probaOperator[o]
		if p.normalizedUtilities[o] == 1 {
			p.probaOperator[o] = prev + pursuitBeta*(pMax-prev)
		} else {
			p.probaOperator[o] = prev + pursuitBeta*(pMin-prev)
		}
	}
}

// UCB scores each operator by normalized utility plus an exploration bonus
// favoring rarely-selected operators, and always picks among the current
// max-scoring operators (ties broken uniformly).
type UCB struct{ *base }

func NewUCB(nbOperators, windowSize int, coeffExploiExplo float64) *UCB {
	return &UCB{base: newBase(nbOperators, windowSize, coeffExploiExplo)}
}

func (u *UCB) GetOperator(r *rand.Rand) int {
	maxVal := u.probaOperator[0]
	for _, v := range u.probaOperator {
		if v > maxVal {
			maxVal = v
		}
	}
	var best []int
	for o, v := range u.probaOperator {
		if v == maxVal {
			best = append(best, o)
		}
	}
	return xrand.ChoiceInt(best, r)
}

func (u *UCB) UpdateHelper() {
	if u.turn < warmupTurns(u.nbOperators) {
		return
	}
	u.computeNormalizedUtilitiesAndNbSelected()

	size := u.memorySize
	if u.turn < u.memorySize {
		size = u.turn + 1
	}

	for o := 0; o < u.nbOperators; o++ {
		exploration := math.Sqrt(2 * math.Log(float64(size)) / float64(u.nbTimesSelected[o]+1))
		u.probaOperator[o] = u.normalizedUtilities[o] + u.coeffExploiExplo*exploration
	}
}

// ByName resolves a CLI/config adaptive-selector name to a Selector,
// parameterized by the run's operator count, window size, and UCB
// exploration coefficient.
func ByName(name string, nbOperators, windowSize int, coeffExploiExplo float64) (Selector, bool) {
	switch name {
	case "none":
		return NewNone(nbOperators), true
	case "iterated":
		return NewIterated(nbOperators), true
	case "random":
		return NewRandom(nbOperators), true
	case "deleter":
		return NewDeleter(nbOperators), true
	case "roulette_wheel":
		return NewRouletteWheel(nbOperators, windowSize), true
	case "pursuit":
		return NewPursuit(nbOperators, windowSize), true
	case "ucb":
		return NewUCB(nbOperators, windowSize, coeffExploiExplo), true
	default:
		return nil, false
	}
}
