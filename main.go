// Glowfish serves games against a small chess engine over HTTP and
// websockets.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hailam/glowfish/internal/book"
	"github.com/hailam/glowfish/internal/config"
	"github.com/hailam/glowfish/internal/server"
	"github.com/hailam/glowfish/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "JSON config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	dataDir := flag.String("data", "", "data directory (overrides config)")
	depth := flag.Int("depth", 0, "default search depth (overrides config)")
	memory := flag.Bool("memory", false, "keep games in memory only")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Fatalf("[glowfish] %v", err)
		}
		if err != nil {
			log.Printf("[glowfish] config %s not found, using defaults", *configPath)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("[glowfish] %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *depth != 0 {
		cfg.Depth = *depth
	}
	if *memory {
		cfg.InMemory = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[glowfish] %v", err)
	}

	bk := book.Default()
	if cfg.BookPath != "" {
		var err error
		if bk, err = book.Load(cfg.BookPath); err != nil {
			log.Fatalf("[glowfish] %v", err)
		}
	}
	log.Printf("[glowfish] book has %d positions, depth %d", bk.Size(), cfg.Depth)

	var (
		store *storage.Storage
		err   error
	)
	if cfg.InMemory {
		store, err = storage.OpenInMemory()
	} else {
		store, err = storage.Open(cfg.DataDir)
	}
	if err != nil {
		log.Fatalf("[glowfish] %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("[glowfish] closing storage: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg, store, bk).Serve(ctx); err != nil {
		log.Printf("[glowfish] server: %v", err)
	}
}
