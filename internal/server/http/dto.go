package httpserver

// MoveRequest asks for the best move in a position.
type MoveRequest struct {
	Board string `json:"board"` // nine cells row by row, e.g. "xx.o....."
	Turn  string `json:"turn"`  // side to move, "x" or "o"
	Depth *int   `json:"depth,omitempty"`
}

// MoveResponse carries the chosen cell, or a null move when the position has
// none (finished game or depth 0).
type MoveResponse struct {
	Move  *int    `json:"move"`
	Score float64 `json:"score"`
	Nodes uint64  `json:"nodes"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse answers health checks and resets.
type StatusResponse struct {
	Status string `json:"status"`
}
