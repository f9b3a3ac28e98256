package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Depth != 2 || cfg.HistoryCapacity != 150 || !cfg.BookEnabled {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glowfish.json")
	if err := os.WriteFile(path, []byte(`{"addr": ":9000", "depth": 3}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9000" || cfg.Depth != 3 || cfg.HistoryCapacity != 150 {
		t.Errorf("Load = %+v", cfg)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(bad, []byte("{"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Error("Load accepted malformed JSON")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GLOWFISH_ADDR", "127.0.0.1:1")
	t.Setenv("GLOWFISH_DEPTH", "4")
	t.Setenv("GLOWFISH_BOOK_ENABLED", "false")
	t.Setenv("GLOWFISH_SEED", "42")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != "127.0.0.1:1" || cfg.Depth != 4 || cfg.BookEnabled || cfg.Seed != 42 {
		t.Errorf("ApplyEnv = %+v", cfg)
	}

	t.Setenv("GLOWFISH_DEPTH", "deep")
	if err := cfg.ApplyEnv(); err == nil {
		t.Error("ApplyEnv accepted a non-numeric depth")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Addr = "" }},
		{"zero depth", func(c *Config) { c.Depth = 0 }},
		{"deep", func(c *Config) { c.Depth = 9 }},
		{"no history", func(c *Config) { c.HistoryCapacity = 0 }},
		{"history shorter than fifty moves", func(c *Config) { c.HistoryCapacity = 100 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidateHistoryFloor(t *testing.T) {
	cfg := Default()
	cfg.HistoryCapacity = 101
	if err := cfg.Validate(); err != nil {
		t.Errorf("capacity 101 rejected: %v", err)
	}
	cfg.HistoryCapacity = 4
	if err := cfg.Validate(); err == nil {
		t.Error("capacity 4 accepted")
	}
}

func TestStore(t *testing.T) {
	s := NewStore(Default())
	cfg := s.Get()
	cfg.Depth = 0
	if err := s.Update(cfg); err == nil {
		t.Error("Update accepted an invalid config")
	}
	cfg.Depth = 3
	if err := s.Update(cfg); err != nil {
		t.Fatal(err)
	}
	if s.Get().Depth != 3 {
		t.Error("Update not applied")
	}
}
