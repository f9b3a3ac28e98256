package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/hailam/glowfish/internal/record"
)

// ErrGameNotFound is returned by LoadGame for an unknown id.
var ErrGameNotFound = errors.New("storage: game not found")

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	gamePrefix     = "game/"
)

// Preferences stores player settings.
type Preferences struct {
	Username    string    `json:"username"`
	Depth       int       `json:"depth"`
	EngineColor string    `json:"engine_color"`
	BookEnabled bool      `json:"book_enabled"`
	LastPlayed  time.Time `json:"last_played"`
}

// DefaultPreferences returns default player preferences.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Username:    "Player",
		Depth:       2,
		EngineColor: "black",
		BookEnabled: true,
	}
}

// GameStats stores game statistics.
type GameStats struct {
	GamesPlayed int            `json:"games_played"`
	WhiteWins   int            `json:"white_wins"`
	BlackWins   int            `json:"black_wins"`
	Draws       int            `json:"draws"`
	TotalMoves  int            `json:"total_moves"`
	ByReason    map[string]int `json:"by_reason"`
}

// NewGameStats returns empty game statistics.
func NewGameStats() *GameStats {
	return &GameStats{
		ByReason: make(map[string]int),
	}
}

// Decisive returns the number of games that ended with a winner.
func (s *GameStats) Decisive() int {
	return s.WhiteWins + s.BlackWins
}

// DrawRate returns the draw rate as a percentage (0-100).
func (s *GameStats) DrawRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Draws) / float64(s.GamesPlayed) * 100
}

func (s *GameStats) add(r record.Record) {
	s.GamesPlayed++
	s.TotalMoves += len(r.Moves)
	switch r.Result {
	case "1-0":
		s.WhiteWins++
	case "0-1":
		s.BlackWins++
	default:
		s.Draws++
	}
	if r.Reason != "" {
		s.ByReason[r.Reason]++
	}
}

// Storage wraps BadgerDB for persistent storage.
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	return Open("")
}

// Open opens the database under dir, or under the platform data directory
// when dir is empty.
func Open(dir string) (*Storage, error) {
	dbDir, err := GetDatabaseDir(dir)
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", dbDir, err)
	}
	return &Storage{db: db}, nil
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Storage, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("storage: open in-memory: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func setJSON(txn *badger.Txn, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set([]byte(key), data)
}

// getJSON decodes key into v. A missing key leaves v untouched and
// reports false.
func getJSON(txn *badger.Txn, key string, v any) (bool, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

// SavePreferences saves player preferences.
func (s *Storage) SavePreferences(prefs *Preferences) error {
	prefs.LastPlayed = time.Now()
	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, keyPreferences, prefs)
	})
}

// LoadPreferences loads player preferences, returns defaults if not found.
func (s *Storage) LoadPreferences() (*Preferences, error) {
	prefs := DefaultPreferences()
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := getJSON(txn, keyPreferences, prefs)
		return err
	})
	return prefs, err
}

// LoadStats loads game statistics, returns empty stats if not found.
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := getJSON(txn, keyStats, stats)
		return err
	})
	if stats.ByReason == nil {
		stats.ByReason = make(map[string]int)
	}
	return stats, err
}

// SaveGame stores r, replacing any record with the same id.
func (s *Storage) SaveGame(r record.Record) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, gamePrefix+r.ID, r)
	})
}

// LoadGame returns the record stored under id.
func (s *Storage) LoadGame(id string) (record.Record, error) {
	var r record.Record
	err := s.db.View(func(txn *badger.Txn) error {
		found, err := getJSON(txn, gamePrefix+id, &r)
		if err == nil && !found {
			return fmt.Errorf("%w: %s", ErrGameNotFound, id)
		}
		return err
	})
	return r, err
}

// ListGames returns every stored record, newest first.
func (s *Storage) ListGames() ([]record.Record, error) {
	var games []record.Record
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var r record.Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return err
			}
			games = append(games, r)
		}
		return nil
	})
	slices.SortFunc(games, func(a, b record.Record) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
	return games, err
}

// RecordGame stores a finished game and folds it into the statistics in
// one transaction. Recording the same id twice counts it once.
func (s *Storage) RecordGame(r record.Record) error {
	if !r.Finished() {
		return fmt.Errorf("storage: game %s is not finished", r.ID)
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		var prev record.Record
		seen, err := getJSON(txn, gamePrefix+r.ID, &prev)
		if err != nil {
			return err
		}

		stats := NewGameStats()
		if _, err := getJSON(txn, keyStats, stats); err != nil {
			return err
		}
		if stats.ByReason == nil {
			stats.ByReason = make(map[string]int)
		}
		if !seen || !prev.Finished() {
			stats.add(r)
		}

		if err := setJSON(txn, gamePrefix+r.ID, r); err != nil {
			return err
		}
		return setJSON(txn, keyStats, stats)
	})
	if err != nil {
		return err
	}
	log.Printf("[storage] recorded game %s: %s (%s)", r.ID, r.Result, r.Reason)
	return nil
}
