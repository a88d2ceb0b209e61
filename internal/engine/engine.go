// Package engine implements a game-independent alpha-beta minimax search
// with a bounded transposition table.
//
// A Minimax searcher holds a game.Game and calls back into it to generate and
// apply moves; it knows nothing about the rules. One searcher is used from
// one goroutine at a time.
package engine

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/hailam/gametree/internal/game"
)

// Result is the outcome of a root search.
type Result[M any] struct {
	Move  M       // Recommended move, valid when Found
	Found bool    // False when the root has no legal move
	Score float64 // Score of Move, or the static evaluation when !Found
}

// Stats contains counters accumulated across searches.
type Stats struct {
	Nodes       uint64 // Nodes visited, leaves included
	CacheProbes uint64 // Transposition table lookups
	CacheHits   uint64 // Lookups whose entry was used instead of searching
	CacheStores uint64 // Entries written
	Evictions   uint64 // Entries dropped to make room
	Entries     int    // Live entries
}

func (s Stats) String() string {
	return fmt.Sprintf("nodes: %s, probes: %s, hits: %s, stores: %s, evictions: %s, entries: %s",
		humanize.Comma(int64(s.Nodes)), humanize.Comma(int64(s.CacheProbes)),
		humanize.Comma(int64(s.CacheHits)), humanize.Comma(int64(s.CacheStores)),
		humanize.Comma(int64(s.Evictions)), humanize.Comma(int64(s.Entries)))
}

// Minimax searches the game tree of one game.
type Minimax[S, M any] struct {
	game     game.Game[S, M]
	settings Settings
	tt       *TranspositionTable[M] // nil when caching is disabled
	hash     func(S) string
	order    OrderFunc[S, M]
	stats    Stats
}

// NewMinimax creates a searcher for g.
func NewMinimax[S, M any](g game.Game[S, M], settings Settings) (*Minimax[S, M], error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	m := &Minimax[S, M]{
		game:     g,
		settings: settings,
		hash:     DefaultStateHash[S],
	}
	if settings.UseTranspositionTable {
		m.tt = NewTranspositionTable[M](settings.TableSize)
	}
	return m, nil
}

// SetStateHash sets the fingerprint used to key the transposition table.
// Two distinct states must never share a fingerprint. Nil restores
// DefaultStateHash.
func (m *Minimax[S, M]) SetStateHash(fn func(S) string) {
	if fn == nil {
		fn = DefaultStateHash[S]
	}
	m.hash = fn
}

// SetMoveOrdering sets the hook that reorders moves before each node is
// expanded. Nil disables ordering.
func (m *Minimax[S, M]) SetMoveOrdering(fn OrderFunc[S, M]) {
	m.order = fn
}

// Settings returns the searcher's settings.
func (m *Minimax[S, M]) Settings() Settings {
	return m.settings
}

// ClearCache empties the transposition table (useful between games).
func (m *Minimax[S, M]) ClearCache() {
	if m.tt != nil {
		m.tt.Clear()
	}
}

// Stats returns the counters accumulated since creation or ResetStats.
func (m *Minimax[S, M]) Stats() Stats {
	s := m.stats
	if m.tt != nil {
		s.Entries = m.tt.Len()
	}
	return s
}

// ResetStats zeroes the counters. The cache is left alone.
func (m *Minimax[S, M]) ResetStats() {
	m.stats = Stats{}
}
