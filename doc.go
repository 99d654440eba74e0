// Package wvcpmcts is a solver playground for the Weighted Vertex Coloring
// Problem (WVCP) and its unweighted cousin, the classic Graph Coloring
// Problem (GCP).
//
// 🚀 What is wvcp-mcts?
//
//	A deterministic, single-binary heuristic solver that brings together:
//
//	  • Incremental coloring state: O(deg) score/conflict deltas, cheap clones
//	  • A local-search operator family: TabuCol, TabuWeight, PartialCol,
//	    AFISA, ILSTS grenades, RedLS edge-weighting
//	  • Monte Carlo Tree Search over partial colorings, pruned by the best
//	    known score
//	  • Adaptive operator selection: roulette wheel, pursuit, UCB and friends
//
// ✨ Why this layout?
//
//   - Reproducible          — every random stream derives from one rand_seed
//   - Cooperative           — one cancellation token, polled by every loop
//   - Pure Go               — no cgo, the solver core has no hidden dependencies
//
// Under the hood, everything is organized under internal/ packages:
//
//	wgraph/      — the immutable instance (vertices pre-sorted by weight then degree)
//	wcoloring/   — the coloring state and its ILSTS/RedLS bookkeeping views
//	construct/   — greedy initializers (DSATUR, RLF, randomized variants)
//	localsearch/ — the operator family
//	mcts/        — the tree-search engine
//	adaptive/    — operator-selection policies
//	runner/      — run controller and CSV output
//
// The cmd/wvcpsolve binary wires a DIMACS .col instance (plus a .col.w
// weight file for WVCP) to either one local-search operator or the full
// adaptive MCTS, and streams results as CSV.
//
// Dive into DESIGN.md for the component-by-component rationale.
package wvcpmcts
