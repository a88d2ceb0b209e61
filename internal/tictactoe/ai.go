package tictactoe

import (
	"github.com/rs/zerolog/log"

	"github.com/hailam/gametree/internal/engine"
)

// PerfectDepth searches every tic-tac-toe game to the end.
const PerfectDepth = 9

// DefaultSettings returns engine settings for perfect play.
func DefaultSettings() engine.Settings {
	s := engine.DefaultSettings()
	s.MaxDepth = PerfectDepth
	return s
}

// AI picks moves for either side. It keeps one searcher per side, each
// scoring positions for that side, so caches never mix perspectives.
type AI struct {
	searchers map[Mark]*engine.Minimax[State, Move]
}

// NewAI creates an AI whose searchers use settings.
func NewAI(settings engine.Settings) (*AI, error) {
	ai := &AI{searchers: make(map[Mark]*engine.Minimax[State, Move], 2)}
	for _, side := range []Mark{X, O} {
		m, err := engine.NewMinimax[State, Move](Engine{AI: side}, settings)
		if err != nil {
			return nil, err
		}
		m.SetStateHash(StateHash)
		ai.searchers[side] = m
	}
	return ai, nil
}

// Searcher returns the searcher playing side.
func (ai *AI) Searcher(side Mark) *engine.Minimax[State, Move] {
	return ai.searchers[side]
}

// SetMoveOrdering installs an ordering hook on both searchers.
func (ai *AI) SetMoveOrdering(fn engine.OrderFunc[State, Move]) {
	for _, m := range ai.searchers {
		m.SetMoveOrdering(fn)
	}
}

// Analyze searches s from side's point of view at the configured depth.
func (ai *AI) Analyze(s State, side Mark) (engine.Result[Move], error) {
	return ai.AnalyzeDepth(s, side, ai.searchers[side].Settings().MaxDepth)
}

// AnalyzeDepth searches s from side's point of view, depth plies deep.
// Side maximizes when it is to move.
func (ai *AI) AnalyzeDepth(s State, side Mark, depth int) (engine.Result[Move], error) {
	m, ok := ai.searchers[side]
	if !ok {
		return engine.Result[Move]{}, ErrInvalidSide
	}
	return m.SearchDepth(s, side == s.Turn, depth)
}

// BestMove returns the cell side should play, or false when the game is
// over. A failed search falls back to the first empty cell.
func (ai *AI) BestMove(s State, side Mark) (int, bool) {
	if s.Over() {
		return -1, false
	}

	res, err := ai.Analyze(s, side)
	if err != nil {
		log.Error().Err(err).Str("side", side.String()).Msg("ai-search-failed")
		cells := s.EmptyCells()
		if len(cells) == 0 {
			return -1, false
		}
		return cells[0], true
	}
	if !res.Found {
		return -1, false
	}
	return res.Move.To, true
}

// Reset clears both caches. Call it when starting a new game.
func (ai *AI) Reset() {
	for _, m := range ai.searchers {
		m.ClearCache()
	}
}

// Stats returns the combined counters of both searchers.
func (ai *AI) Stats() engine.Stats {
	var total engine.Stats
	for _, m := range ai.searchers {
		s := m.Stats()
		total.Nodes += s.Nodes
		total.CacheProbes += s.CacheProbes
		total.CacheHits += s.CacheHits
		total.CacheStores += s.CacheStores
		total.Evictions += s.Evictions
		total.Entries += s.Entries
	}
	return total
}
