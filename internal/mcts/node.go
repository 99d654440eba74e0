// Package mcts implements the Monte Carlo Tree Search engine: a node
// tree over (vertex, color) moves, the four MCTS phases (selection,
// expansion, simulation, backpropagation), and the admissibility pruning that
// keeps the tree bounded as the best known score improves.
package mcts

import (
	"math"
	"math/rand"
	"sort"

	"github.com/katalvlaran/wvcp-mcts/internal/xrand"
)

// Action is one candidate move: color vertex with color (Unassigned opens a
// new color), reaching the given resulting score.
type Action struct {
	Vertex int
	Color  int
	Score  int
}

// sortActionsDescending orders actions highest score first, ties broken by
// highest color first. Combined with popping
// from the tail in Next, this means the least-promising move by this
// ordering is expanded first — intentional, not an oversight: it lets MCTS's
// rank-based exploitation spend its first visits cheaply on long-shot moves
// before better ones dominate tree statistics.
func sortActionsDescending(actions []Action) {
	sort.SliceStable(actions, func(i, j int) bool {
		if actions[i].Score != actions[j].Score {
			return actions[i].Score > actions[j].Score
		}
		return actions[i].Color > actions[j].Color
	})
}

// Node is one node of the search tree. Children are owned by their parent
// (no separate arena); Parent is a plain back-reference, never freed
// explicitly — Go's GC reclaims a subtree once CleanGraph drops the last
// reference to it.
type Node struct {
	parent *Node

	move          Action
	possibleMoves []Action
	children      []*Node

	visits int
	score  float64

	exploration  float64
	exploitation float64
	scoreUCB     float64

	depth int
}

// treeStats tracks the run-wide node counters (total nodes ever created,
// currently-alive nodes, tree height). The engine owns one instance per run.
type treeStats struct {
	totalNodes    int
	currentNodes  int
	height        int
}

// NewNode allocates a node reached from parent via move, with possibleMoves
// as its still-unexplored children.
func NewNode(stats *treeStats, parent *Node, move Action, possibleMoves []Action) *Node {
	n := &Node{
		parent:        parent,
		move:          move,
		possibleMoves: possibleMoves,
	}
	if parent != nil {
		n.depth = parent.depth + 1
	}
	if stats != nil {
		if n.depth > stats.height {
			stats.height = n.depth
		}
		stats.totalNodes++
		stats.currentNodes++
	}
	return n
}

// Update folds score into the running average, prunes any child left with no
// children and no possible moves, re-ranks the surviving children by
// descending score, recomputes their exploitation/exploration/UCB, and
// recurses up through every ancestor.
func (n *Node) Update(score float64, coeffExploiExplo float64) {
	n.score = (n.score*float64(n.visits) + score) / float64(n.visits+1)
	n.visits++

	if len(n.children) != 0 {
		kept := n.children[:0]
		for _, child := range n.children {
			if len(child.children) == 0 && len(child.possibleMoves) == 0 {
				continue
			}
			kept = append(kept, child)
		}
		n.children = kept

		sort.SliceStable(n.children, func(i, j int) bool {
			return n.children[i].score > n.children[j].score
		})

		sumRank := float64(len(n.children)*(len(n.children)+1)) / 2
		for i, child := range n.children {
			rank := float64(i + 1)
			child.exploitation = rank / sumRank
			child.exploration = math.Sqrt(2 * math.Log(float64(n.visits)) / float64(child.visits))
			child.scoreUCB = child.exploitation + coeffExploiExplo*child.exploration
		}
	}

	if n.parent != nil {
		n.parent.Update(score, coeffExploiExplo)
	}
}

// CleanGraph recursively drops every possible move and child whose move
// score is no better than bestScore (i.e. >= bestScore, since lower is
// better here), reporting whether n itself still has anything left to
// explore.
func (n *Node) CleanGraph(bestScore int, stats *treeStats) bool {
	kept := n.possibleMoves[:0]
	for _, m := range n.possibleMoves {
		if m.Score < bestScore {
			kept = append(kept, m)
		}
	}
	n.possibleMoves = kept

	survivors := n.children[:0]
	for _, child := range n.children {
		if child.move.Score >= bestScore {
			child.releaseSubtree(stats)
			continue
		}
		if child.CleanGraph(bestScore, stats) {
			survivors = append(survivors, child)
		} else {
			child.releaseSubtree(stats)
		}
	}
	n.children = survivors

	return len(n.children) != 0 || len(n.possibleMoves) != 0
}

// releaseSubtree decrements stats.currentNodes once per node in n's subtree
// (n included), keeping the live-node counter exact when a multi-level
// branch is pruned.
func (n *Node) releaseSubtree(stats *treeStats) {
	if stats != nil {
		stats.currentNodes--
	}
	for _, child := range n.children {
		child.releaseSubtree(stats)
	}
}

// Next pops and returns the node's next unexplored move (from the tail of
// possibleMoves, per sortActionsDescending's ordering note).
func (n *Node) Next() Action {
	last := len(n.possibleMoves) - 1
	move := n.possibleMoves[last]
	n.possibleMoves = n.possibleMoves[:last]
	return move
}

// FullyExpanded reports whether every possible move from n has already been
// turned into a child, meaning descent must pick a child rather than expand.
func (n *Node) FullyExpanded() bool { return len(n.possibleMoves) == 0 }

// FullyExplored reports whether n has no possible move left to expand and no
// surviving child — i.e. this branch of the tree is dead.
func (n *Node) FullyExplored() bool {
	return len(n.possibleMoves) == 0 && len(n.children) == 0
}

// SelectChild walks to the child with the highest UCB score, breaking ties
// uniformly at random.
func (n *Node) SelectChild(r *rand.Rand) *Node {
	maxScore := math.Inf(-1)
	var best []*Node
	for _, child := range n.children {
		switch {
		case child.scoreUCB > maxScore:
			maxScore = child.scoreUCB
			best = []*Node{child}
		case child.scoreUCB == maxScore:
			best = append(best, child)
		}
	}
	return xrand.Choice(best, r)
}

// Depth returns n's depth in the tree (root is 0).
func (n *Node) Depth() int { return n.depth }

// Move returns the action that led to n.
func (n *Node) Move() Action { return n.move }

// AddChild registers child under n's children list.
func (n *Node) AddChild(child *Node) { n.children = append(n.children, child) }

// Children returns n's current children.
func (n *Node) Children() []*Node { return n.children }
