package engine

import "github.com/pkg/errors"

// Default search settings.
const (
	DefaultMaxDepth  = 4
	DefaultTableSize = 30_000
)

var (
	// ErrNegativeDepth is returned for a negative search depth.
	ErrNegativeDepth = errors.New("engine: search depth must not be negative")
	// ErrTableSize is returned when the transposition table is enabled with
	// room for less than one entry.
	ErrTableSize = errors.New("engine: transposition table must hold at least one entry")
)

// Settings configures a Minimax searcher.
type Settings struct {
	MaxDepth              int  `json:"max_depth"`               // Search ply limit
	UseTranspositionTable bool `json:"use_transposition_table"` // Cache results by state fingerprint
	TableSize             int  `json:"table_size"`              // Maximum cached entries

	// BoundedEntries makes cached scores carry whether they are exact or a
	// bound from a cutoff, and only reuses bounds that still cut the current
	// window. When false an entry is reused whenever it was searched at least
	// as deep, which is cheaper but can return a pruned score as exact.
	BoundedEntries bool `json:"bounded_entries"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		MaxDepth:              DefaultMaxDepth,
		UseTranspositionTable: true,
		TableSize:             DefaultTableSize,
	}
}

// Validate reports whether the settings can drive a search.
func (s Settings) Validate() error {
	if s.MaxDepth < 0 {
		return errors.Wrapf(ErrNegativeDepth, "max depth %d", s.MaxDepth)
	}
	if s.UseTranspositionTable && s.TableSize < 1 {
		return errors.Wrapf(ErrTableSize, "table size %d", s.TableSize)
	}
	return nil
}
