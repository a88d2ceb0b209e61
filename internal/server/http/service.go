package httpserver

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/hailam/gametree/internal/engine"
	"github.com/hailam/gametree/internal/tictactoe"
)

// ErrBadRequest marks errors caused by the request rather than the engine.
var ErrBadRequest = errors.New("bad request")

// Service answers move requests with a shared AI. Searchers are not safe for
// concurrent use, so requests are serialized. Every request is an independent
// game and starts from empty caches.
type Service struct {
	mu       sync.Mutex
	ai       *tictactoe.AI
	maxDepth int
}

// NewService creates a service searching with settings.
func NewService(settings engine.Settings) (*Service, error) {
	ai, err := tictactoe.NewAI(settings)
	if err != nil {
		return nil, err
	}
	return &Service{ai: ai, maxDepth: settings.MaxDepth}, nil
}

// Move searches the requested position for the side to move.
func (s *Service) Move(req MoveRequest) (MoveResponse, error) {
	state, err := tictactoe.ParseState(req.Board, req.Turn)
	if err != nil {
		return MoveResponse{}, errors.Wrap(ErrBadRequest, err.Error())
	}
	depth := s.maxDepth
	if req.Depth != nil {
		depth = *req.Depth
	}
	if depth < 0 {
		return MoveResponse{}, errors.Wrapf(ErrBadRequest, "depth %d must not be negative", depth)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ai.Reset()
	before := s.ai.Stats().Nodes
	res, err := s.ai.AnalyzeDepth(state, state.Turn, depth)
	if err != nil {
		return MoveResponse{}, err
	}

	resp := MoveResponse{Score: res.Score, Nodes: s.ai.Stats().Nodes - before}
	if res.Found {
		cell := res.Move.To
		resp.Move = &cell
	}
	return resp, nil
}

// Reset clears the caches.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ai.Reset()
}

// Stats returns the search counters.
func (s *Service) Stats() engine.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ai.Stats()
}
