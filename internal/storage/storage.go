package storage

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	prefixGame     = "game/"
)

// Outcome values stored in game records.
const (
	OutcomeXWins = "X"
	OutcomeOWins = "O"
	OutcomeDraw  = "draw"
)

// UserPreferences stores user settings
type UserPreferences struct {
	Username              string    `json:"username"`
	HumanSide             string    `json:"human_side"`
	Depth                 int       `json:"depth"`
	UseTranspositionTable bool      `json:"use_transposition_table"`
	SoundEnabled          bool      `json:"sound_enabled"`
	LastPlayed            time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Username:              "Player",
		HumanSide:             "X",
		Depth:                 9,
		UseTranspositionTable: true,
		SoundEnabled:          true,
		LastPlayed:            time.Now(),
	}
}

// GameStats stores game statistics
type GameStats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsBySide     map[string]int `json:"wins_by_side"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		WinsBySide: make(map[string]int),
	}
}

// GameRecord is a finished game as stored under game/<id>.
type GameRecord struct {
	ID        string    `json:"id"`
	Moves     []int     `json:"moves"`
	Outcome   string    `json:"outcome"`
	HumanSide string    `json:"human_side,omitempty"`
	Depth     int       `json:"depth"`
	PlayedAt  time.Time `json:"played_at"`
}

// GameResult represents the result of a completed game against the AI.
type GameResult struct {
	HumanSide string
	Outcome   string
	Moves     []int
	Depth     int
	Duration  time.Duration
}

// Won reports whether the human won.
func (r GameResult) Won() bool {
	return r.Outcome != OutcomeDraw && r.Outcome == r.HumanSide
}

// Draw reports whether the game was drawn.
func (r GameResult) Draw() bool {
	return r.Outcome == OutcomeDraw
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens or creates the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir).
		WithLogger(newBadgerLogger()).
		WithLoggingLevel(badger.WARNING)
	return open(opts)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(newBadgerLogger()).
		WithLoggingLevel(badger.WARNING)
	return open(opts)
}

func open(opts badger.Options) (*Storage, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "storage: open")
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	firstLaunch := true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	_, err := s.get(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	if _, err := s.get(keyStats, stats); err != nil {
		return stats, err
	}
	if stats.WinsBySide == nil {
		stats.WinsBySide = make(map[string]int)
	}
	return stats, nil
}

// RecordGame updates statistics with a game against the AI and stores its
// record. It returns the stored record.
func (s *Storage) RecordGame(result GameResult) (GameRecord, error) {
	stats, err := s.LoadStats()
	if err != nil {
		return GameRecord{}, err
	}

	stats.GamesPlayed++
	stats.TotalPlayTime += result.Duration

	switch {
	case result.Draw():
		stats.Draws++
		stats.CurrentStreak = 0
	case result.Won():
		stats.Wins++
		stats.CurrentStreak++
		if stats.CurrentStreak > stats.LongestWinStrk {
			stats.LongestWinStrk = stats.CurrentStreak
		}
		stats.WinsBySide[result.HumanSide]++
	default:
		stats.Losses++
		stats.CurrentStreak = 0
	}

	if err := s.SaveStats(stats); err != nil {
		return GameRecord{}, err
	}

	return s.SaveRecord(GameRecord{
		Moves:     result.Moves,
		Outcome:   result.Outcome,
		HumanSide: result.HumanSide,
		Depth:     result.Depth,
	})
}

// SaveRecord stores rec under a fresh id without touching statistics. A zero
// PlayedAt is set to now.
func (s *Storage) SaveRecord(rec GameRecord) (GameRecord, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return GameRecord{}, errors.Wrap(err, "storage: game id")
	}
	rec.ID = id.String()
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now()
	}
	return rec, s.put(prefixGame+rec.ID, rec)
}

// Game loads the record with the given id.
func (s *Storage) Game(id string) (GameRecord, bool, error) {
	var rec GameRecord
	found, err := s.get(prefixGame+id, &rec)
	return rec, found, err
}

// Games returns up to limit records, newest first. A limit of zero or less
// returns every record.
func (s *Storage) Games(limit int) ([]GameRecord, error) {
	var games []GameRecord

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixGame)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return errors.Wrapf(err, "storage: decode %s", it.Item().Key())
			}
			games = append(games, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(games, func(a, b GameRecord) int {
		return b.PlayedAt.Compare(a.PlayedAt)
	})
	if limit > 0 && len(games) > limit {
		games = games[:limit]
	}
	return games, nil
}

func (s *Storage) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "storage: encode %s", key)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the value at key into v. A missing key leaves v untouched.
func (s *Storage) get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

// GetWinRate returns the win rate as a percentage (0-100)
func (s *GameStats) GetWinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// OpenConfigured opens an in-memory database, the database in dir, or the
// one in the platform data directory when dir is empty.
func OpenConfigured(dir string, inMemory bool) (*Storage, error) {
	switch {
	case inMemory:
		return OpenInMemory()
	case dir != "":
		return Open(dir)
	}
	return NewStorage()
}
