// Package tictactoe implements 3x3 tic-tac-toe and an AI player on top of
// the generic minimax engine.
package tictactoe

// Mark is the content of a cell, or a player.
type Mark uint8

const (
	Empty Mark = iota
	X
	O
)

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	}
	return ""
}

// Opponent returns the other player.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	}
	return Empty
}

// Outcome is the result of a game.
type Outcome uint8

const (
	InProgress Outcome = iota
	XWins
	OWins
	Draw
)

func (o Outcome) String() string {
	switch o {
	case XWins:
		return "X"
	case OWins:
		return "O"
	case Draw:
		return "draw"
	}
	return "in progress"
}

// Winner returns the player who won, or Empty for a draw or an unfinished game.
func (o Outcome) Winner() Mark {
	switch o {
	case XWins:
		return X
	case OWins:
		return O
	}
	return Empty
}

func winFor(m Mark) Outcome {
	if m == X {
		return XWins
	}
	return OWins
}

// Board is the 3x3 grid flattened row by row.
type Board [9]Mark

// State is a position. It is a value: copies are independent.
type State struct {
	Board  Board
	Turn   Mark
	Winner Outcome
}

// NewState returns the empty board with X to move.
func NewState() State {
	return State{Turn: X}
}

var winningLines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// CheckWinner returns the outcome of a board. A full board without a line is
// a draw.
func CheckWinner(b Board) Outcome {
	if line, ok := WinningLine(b); ok {
		return winFor(b[line[0]])
	}
	for _, c := range b {
		if c == Empty {
			return InProgress
		}
	}
	return Draw
}

// WinningLine returns the cells of the first completed line on b.
func WinningLine(b Board) ([3]int, bool) {
	for _, line := range winningLines {
		m := b[line[0]]
		if m != Empty && m == b[line[1]] && m == b[line[2]] {
			return line, true
		}
	}
	return [3]int{}, false
}

// EmptyCells returns the indices of empty cells in ascending order.
func (s State) EmptyCells() []int {
	cells := make([]int, 0, 9)
	for i, c := range s.Board {
		if c == Empty {
			cells = append(cells, i)
		}
	}
	return cells
}

// Over reports whether the game has finished.
func (s State) Over() bool {
	return s.Winner != InProgress
}

// Apply places the mark of the side to move on index. Moves on a finished game,
// an occupied cell or outside the board are ignored and s is returned as is.
// The turn passes to the opponent only while the game is still in progress.
func Apply(s State, index int) State {
	if s.Over() || index < 0 || index >= len(s.Board) || s.Board[index] != Empty {
		return s
	}

	next := s
	next.Board[index] = s.Turn
	next.Winner = CheckWinner(next.Board)
	if next.Winner == InProgress {
		next.Turn = s.Turn.Opponent()
	}
	return next
}
