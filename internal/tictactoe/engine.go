package tictactoe

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/hailam/gametree/internal/engine"
	"github.com/hailam/gametree/internal/game"
)

// Move places a mark on cell To (0-8).
type Move struct {
	To int `json:"to"`
}

// Engine adapts the rules to the search engine. Scores are from the point
// of view of AI: 1 for a win, -1 for a loss and 0 otherwise.
type Engine struct {
	AI Mark
}

var (
	_ game.Game[State, Move] = Engine{}
	_ game.Evaluator[State]  = Engine{}
)

// InitialState returns the empty board with X to move.
func (Engine) InitialState() State {
	return NewState()
}

// ValidMoves returns one move per empty cell, none once the game is over.
func (Engine) ValidMoves(s State) ([]Move, error) {
	if s.Over() {
		return nil, nil
	}
	cells := s.EmptyCells()
	moves := make([]Move, len(cells))
	for i, c := range cells {
		moves[i] = Move{To: c}
	}
	return moves, nil
}

// ApplyMove plays m, rejecting moves Apply would ignore.
func (Engine) ApplyMove(s State, m Move) (State, error) {
	if s.Over() || m.To < 0 || m.To >= len(s.Board) || s.Board[m.To] != Empty {
		return s, errors.Wrapf(game.ErrIllegalMove, "cell %d", m.To)
	}
	return Apply(s, m.To), nil
}

// Evaluate scores finished games; unfinished positions are worth 0.
func (e Engine) Evaluate(s State) (float64, error) {
	switch s.Winner.Winner() {
	case Empty:
		return 0, nil
	case e.AI:
		return 1, nil
	}
	return -1, nil
}

// StateHash fingerprints a state as its cells joined by commas, then the turn,
// e.g. "X,,O,,,,,,|X".
func StateHash(s State) string {
	var sb strings.Builder
	for i, c := range s.Board {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(c.String())
	}
	sb.WriteByte('|')
	sb.WriteString(s.Turn.String())
	return sb.String()
}

// cellPriority ranks the center above corners above edges.
var cellPriority = [9]int{1, 0, 1, 0, 2, 0, 1, 0, 1}

// CenterFirst orders moves center, corners, then edges.
var CenterFirst engine.OrderFunc[State, Move] = func(moves []Move, s State, _ bool) []Move {
	return engine.ByScore(func(_ State, m Move) int {
		return cellPriority[m.To]
	})(moves, s, true)
}
