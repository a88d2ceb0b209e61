package tictactoe

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidBoard is returned for boards that do not parse.
	ErrInvalidBoard = errors.New("tictactoe: invalid board")
	// ErrInvalidSide is returned for a side other than X or O.
	ErrInvalidSide = errors.New("tictactoe: side must be X or O")
)

// ParseBoard reads nine cells row by row. X and O may be either case; '.',
// '-' and '_' are empty cells.
func ParseBoard(str string) (Board, error) {
	var b Board
	if len(str) != len(b) {
		return b, errors.Wrapf(ErrInvalidBoard, "%q has %d cells", str, len(str))
	}
	for i := 0; i < len(str); i++ {
		switch str[i] {
		case 'x', 'X':
			b[i] = X
		case 'o', 'O':
			b[i] = O
		case '.', '-', '_':
			b[i] = Empty
		default:
			return b, errors.Wrapf(ErrInvalidBoard, "unexpected %q at cell %d", str[i], i)
		}
	}
	return b, nil
}

// ParseSide reads "x" or "o" in either case.
func ParseSide(str string) (Mark, error) {
	switch strings.ToUpper(str) {
	case "X":
		return X, nil
	case "O":
		return O, nil
	}
	return Empty, errors.Wrapf(ErrInvalidSide, "%q", str)
}

// ParseState builds a state from a board and the side to move. The winner is
// derived from the board.
func ParseState(board, turn string) (State, error) {
	b, err := ParseBoard(board)
	if err != nil {
		return State{}, err
	}
	side, err := ParseSide(turn)
	if err != nil {
		return State{}, err
	}
	return State{Board: b, Turn: side, Winner: CheckWinner(b)}, nil
}

// Compact renders the board as nine characters, '.' for empty cells.
func (b Board) Compact() string {
	var sb strings.Builder
	for _, c := range b {
		if c == Empty {
			sb.WriteByte('.')
		} else {
			sb.WriteString(c.String())
		}
	}
	return sb.String()
}

// String renders the board as three rows.
func (b Board) String() string {
	compact := b.Compact()
	return compact[0:3] + "\n" + compact[3:6] + "\n" + compact[6:9]
}
