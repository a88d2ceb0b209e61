package engine

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

func (f TTFlag) String() string {
	switch f {
	case TTExact:
		return "exact"
	case TTLowerBound:
		return "lower"
	case TTUpperBound:
		return "upper"
	}
	return "unknown"
}

// TTEntry represents an entry in the transposition table.
type TTEntry[M any] struct {
	Score    float64 // Best score found (bounded by Flag)
	Depth    int     // Plies searched below the state
	Flag     TTFlag  // Type of bound
	BestMove M       // Move that produced Score
	HasMove  bool    // Whether BestMove is set
}

// TranspositionTable maps state fingerprints to search results. It holds at
// most a fixed number of entries; storing a new key into a full table evicts
// the oldest inserted key.
//
// Keys are kept in a ring in insertion order, so eviction never scans.
// Not safe for concurrent use.
type TranspositionTable[M any] struct {
	entries  map[string]TTEntry[M]
	order    []string // ring of live keys, oldest at head
	head     int
	capacity int

	// Statistics
	hits   uint64
	probes uint64
}

// NewTranspositionTable creates a table holding up to capacity entries.
// Capacities below one are raised to one.
func NewTranspositionTable[M any](capacity int) *TranspositionTable[M] {
	if capacity < 1 {
		capacity = 1
	}
	return &TranspositionTable[M]{
		entries:  make(map[string]TTEntry[M]),
		order:    make([]string, capacity),
		capacity: capacity,
	}
}

// Probe looks up a fingerprint.
func (tt *TranspositionTable[M]) Probe(key string) (TTEntry[M], bool) {
	tt.probes++
	entry, ok := tt.entries[key]
	if ok {
		tt.hits++
	}
	return entry, ok
}

// Store saves an entry under key and reports whether an older entry had to
// be evicted to make room. Overwriting a live key keeps its place in the
// eviction order.
func (tt *TranspositionTable[M]) Store(key string, entry TTEntry[M]) (evicted bool) {
	if _, ok := tt.entries[key]; ok {
		tt.entries[key] = entry
		return false
	}

	n := len(tt.entries)
	if n >= tt.capacity {
		delete(tt.entries, tt.order[tt.head])
		tt.order[tt.head] = key
		tt.head = (tt.head + 1) % tt.capacity
		evicted = true
	} else {
		tt.order[(tt.head+n)%tt.capacity] = key
	}
	tt.entries[key] = entry
	return evicted
}

// Clear empties the table and resets its statistics.
func (tt *TranspositionTable[M]) Clear() {
	clear(tt.entries)
	clear(tt.order)
	tt.head = 0
	tt.hits = 0
	tt.probes = 0
}

// Len returns the number of live entries.
func (tt *TranspositionTable[M]) Len() int {
	return len(tt.entries)
}

// Capacity returns the maximum number of entries.
func (tt *TranspositionTable[M]) Capacity() int {
	return tt.capacity
}

// Keys returns the live keys from oldest to newest.
func (tt *TranspositionTable[M]) Keys() []string {
	n := len(tt.entries)
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = tt.order[(tt.head+i)%tt.capacity]
	}
	return keys
}

// HashFull returns the permille (parts per thousand) of the table that is used.
func (tt *TranspositionTable[M]) HashFull() int {
	return len(tt.entries) * 1000 / tt.capacity
}

// HitRate returns the percentage of probes that found an entry.
func (tt *TranspositionTable[M]) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}
