package mcts

import "github.com/katalvlaran/wvcp-mcts/internal/wcoloring"

// NextPossibleMoves lists every legal next move for the next uncolored
// vertex in s (s.FirstFreeVertex()): one Action per conflict-free non-empty
// color plus one for opening a brand new color, each kept only if its
// resulting score still beats bestScore, sorted so the least promising move
// (by sortActionsDescending's convention) is expanded first.
func NextPossibleMoves(s *wcoloring.State, bestScore int) []Action {
	vertex := s.FirstFreeVertex()
	if vertex == s.Graph().NbVertices() {
		return nil
	}

	var moves []Action
	for _, color := range s.NonEmptyColors() {
		if s.ConflictsColors(color, vertex) != 0 {
			continue
		}
		nextScore := s.ScoreWVCP() + s.DeltaScore(vertex, color)
		if nextScore < bestScore {
			moves = append(moves, Action{Vertex: vertex, Color: color, Score: nextScore})
		}
	}
	nextScore := s.ScoreWVCP() + s.Graph().Weight(vertex)
	if nextScore < bestScore {
		moves = append(moves, Action{Vertex: vertex, Color: wcoloring.Unassigned, Score: nextScore})
	}

	sortActionsDescending(moves)
	return moves
}

// ApplyAction colors move.Vertex with move.Color in s and advances
// first_free_vertex.
func ApplyAction(s *wcoloring.State, move Action) {
	_, _ = s.Assign(move.Vertex, move.Color)
	s.IncrementFirstFreeVertex()
}
