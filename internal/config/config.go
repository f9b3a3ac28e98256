// Package config holds runtime settings for the glowfish binaries.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/hailam/glowfish/internal/engine"
	"github.com/hailam/glowfish/internal/game"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the server and engine configuration.
type Config struct {
	Addr            string `json:"addr"`
	DataDir         string `json:"data_dir"`
	InMemory        bool   `json:"in_memory"`
	Depth           int    `json:"depth"`
	HistoryCapacity int    `json:"history_capacity"`
	BookEnabled     bool   `json:"book_enabled"`
	BookPath        string `json:"book_path"`
	Seed            uint64 `json:"seed"` // 0 picks a random seed
	Verbose         bool   `json:"verbose"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:            ":8080",
		Depth:           engine.DefaultDepth,
		HistoryCapacity: game.DefaultHistoryCapacity,
		BookEnabled:     true,
	}
}

// Load overlays the JSON file at path onto Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from GLOWFISH_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv("GLOWFISH_ADDR"); ok {
		c.Addr = v
	}
	if v, ok := os.LookupEnv("GLOWFISH_DATA_DIR"); ok {
		c.DataDir = v
	}
	if v, ok := os.LookupEnv("GLOWFISH_BOOK"); ok {
		c.BookPath = v
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{"GLOWFISH_DEPTH", &c.Depth},
		{"GLOWFISH_HISTORY_CAPACITY", &c.HistoryCapacity},
	}
	for _, e := range ints {
		if v, ok := os.LookupEnv(e.name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", e.name, err)
			}
			*e.dst = n
		}
	}
	bools := []struct {
		name string
		dst  *bool
	}{
		{"GLOWFISH_BOOK_ENABLED", &c.BookEnabled},
		{"GLOWFISH_IN_MEMORY", &c.InMemory},
		{"GLOWFISH_VERBOSE", &c.Verbose},
	}
	for _, e := range bools {
		if v, ok := os.LookupEnv(e.name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", e.name, err)
			}
			*e.dst = b
		}
	}
	if v, ok := os.LookupEnv("GLOWFISH_SEED"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("GLOWFISH_SEED: %w", err)
		}
		c.Seed = n
	}
	return nil
}

// Validate checks ranges.
func (c Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: empty addr", ErrInvalidConfig)
	case c.Depth < 1 || c.Depth > 8:
		return fmt.Errorf("%w: depth %d outside 1..8", ErrInvalidConfig, c.Depth)
	case c.HistoryCapacity < game.MinHistoryCapacity:
		return fmt.Errorf("%w: history capacity %d below %d", ErrInvalidConfig, c.HistoryCapacity, game.MinHistoryCapacity)
	}
	return nil
}

// Store guards a Config shared between request handlers.
type Store struct {
	mu     sync.RWMutex
	config Config
}

// NewStore creates a store holding cfg.
func NewStore(cfg Config) *Store {
	return &Store{config: cfg}
}

func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Update replaces the configuration if it validates.
func (s *Store) Update(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
	return nil
}
