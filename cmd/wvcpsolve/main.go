// wvcpsolve solves Weighted Vertex Coloring / Graph Coloring instances with
// a single local-search operator or the adaptive MCTS engine, writing one
// CSV per run.
package main

func main() {
	Execute()
}
