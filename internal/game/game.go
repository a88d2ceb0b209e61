// Package game defines the capability contract a turn-based, two-player game
// implements to be searched by the engine.
package game

import "github.com/pkg/errors"

// ErrIllegalMove is returned by ApplyMove implementations when the move was
// not produced by ValidMoves for the given state.
var ErrIllegalMove = errors.New("illegal move")

// Game is the rules of a game: a starting position, legal move generation
// and move application.
//
// States are values. ApplyMove must return an independent state and leave its
// input untouched, because the engine keeps the parent state alive while it
// walks sibling branches.
type Game[S, M any] interface {
	// InitialState returns a fresh starting state.
	InitialState() S

	// ValidMoves returns the legal moves from state in any order.
	// An empty slice marks a terminal or stalemate position.
	ValidMoves(state S) ([]M, error)

	// ApplyMove returns the state reached by playing move in state.
	ApplyMove(state S, move M) (S, error)
}

// Evaluator is implemented by games that can score a position statically.
// Scores are from the maximizing player's point of view.
type Evaluator[S any] interface {
	Evaluate(state S) (float64, error)
}

// Evaluate scores state with g's Evaluator, or returns 0 when g has none.
func Evaluate[S, M any](g Game[S, M], state S) (float64, error) {
	ev, ok := g.(Evaluator[S])
	if !ok {
		return 0, nil
	}
	return ev.Evaluate(state)
}
