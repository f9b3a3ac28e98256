// Package server exposes games against the engine over HTTP and websockets.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/glowfish/internal/board"
	"github.com/hailam/glowfish/internal/book"
	"github.com/hailam/glowfish/internal/config"
	"github.com/hailam/glowfish/internal/engine"
	"github.com/hailam/glowfish/internal/game"
	"github.com/hailam/glowfish/internal/storage"
)

var (
	// ErrNotFound is returned for an unknown game id.
	ErrNotFound = errors.New("game not found")
	// ErrEngineToMove is returned when a move is submitted while the
	// engine owns the side to move.
	ErrEngineToMove = errors.New("waiting for the engine to move")
)

// Server hosts games. Store may be nil, in which case nothing persists.
type Server struct {
	cfg   config.Config
	store *storage.Storage
	hub   *Hub

	engineMu sync.Mutex
	engine   *engine.Engine
	rng      *rand.Rand
	lastInfo engine.SearchInfo

	mu    sync.RWMutex
	games map[string]*session
}

// New creates a server using bk for opening moves. bk may be nil.
func New(cfg config.Config, store *storage.Storage, bk *book.Book) *Server {
	var eb engine.Book
	if bk != nil {
		eb = bk
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	s := &Server{
		cfg:    cfg,
		store:  store,
		hub:    NewHub(),
		engine: engine.NewEngine(eb),
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		games:  make(map[string]*session),
	}
	s.engine.SetBookEnabled(cfg.BookEnabled)
	s.engine.SetVerbose(cfg.Verbose)
	s.engine.OnInfo = func(info engine.SearchInfo) { s.lastInfo = info }
	return s
}

// Hub returns the websocket hub. Its Run loop is started by Serve.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/stats", s.handleStats)
	r.Get("/api/preferences", s.handleGetPreferences)
	r.Put("/api/preferences", s.handlePutPreferences)

	r.Route("/api/games", func(r chi.Router) {
		r.Get("/", s.handleListGames)
		r.Post("/", s.handleCreateGame)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGame)
			r.Post("/moves", s.handleMove)
			r.Post("/engine", s.handleEngineMove)
			r.Get("/pgn", s.handlePGN)
			r.Get("/board.svg", s.handleDiagram(formatSVG))
			r.Get("/board.png", s.handleDiagram(formatPNG))
		})
	})

	r.Get("/ws/games/{id}", s.serveWS)
	return r
}

// Serve listens on the configured address until ctx is done, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.hub.Run(ctx.Done())
		return nil
	})
	g.Go(func() error {
		log.Printf("[server] listening on %s", s.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[server] graceful shutdown failed: %v", err)
			return srv.Close()
		}
		return nil
	})
	return g.Wait()
}

// session returns the live game for id, reloading it from storage if the
// server has not seen it since starting.
func (s *Server) session(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.games[id]
	s.mu.RUnlock()
	if ok {
		return sess, nil
	}
	if s.store == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	rec, err := s.store.LoadGame(id)
	if errors.Is(err, storage.ErrGameNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	g, err := rec.Replay()
	if err != nil {
		return nil, err
	}
	sess = &session{
		id:       rec.ID,
		game:     g,
		white:    rec.White,
		black:    rec.Black,
		depth:    rec.Depth,
		started:  rec.StartedAt,
		recorded: rec.Finished(),
	}
	if sess.depth < 1 || sess.depth > 8 {
		sess.depth = s.cfg.Depth
	}
	switch {
	case rec.White == engineName:
		sess.hasEngine, sess.engine = true, board.White
	case rec.Black == engineName:
		sess.hasEngine, sess.engine = true, board.Black
	}

	s.mu.Lock()
	if existing, ok := s.games[id]; ok {
		sess = existing
	} else {
		s.games[id] = sess
	}
	s.mu.Unlock()
	return sess, nil
}

const (
	engineName = "glowfish"
	humanName  = "human"
)

type newGameRequest struct {
	FEN         string `json:"fen"`
	EngineColor string `json:"engine_color"` // white, black or none
	Depth       int    `json:"depth"`
}

// createGame starts a session and lets the engine open if it plays the
// side to move.
func (s *Server) createGame(req newGameRequest) (*session, error) {
	if req.EngineColor == "" || req.Depth == 0 {
		prefs := storage.DefaultPreferences()
		prefs.Depth = s.cfg.Depth
		if s.store != nil {
			if p, err := s.store.LoadPreferences(); err == nil {
				prefs = p
			}
		}
		if req.EngineColor == "" {
			req.EngineColor = prefs.EngineColor
		}
		if req.Depth == 0 {
			req.Depth = prefs.Depth
		}
	}
	if req.Depth < 1 || req.Depth > 8 {
		return nil, fmt.Errorf("%w: depth %d", errBadRequest, req.Depth)
	}

	start := board.NewBoard()
	if req.FEN != "" {
		var err error
		if start, err = board.ParseFEN(req.FEN); err != nil {
			return nil, fmt.Errorf("%w: %w", errBadRequest, err)
		}
	}
	g := game.FromBoard(start, s.cfg.HistoryCapacity)

	sess := &session{
		id:      fmt.Sprintf("%016x", rand.Uint64()),
		game:    g,
		white:   humanName,
		black:   humanName,
		depth:   req.Depth,
		started: time.Now(),
	}
	if req.EngineColor != "none" {
		c, ok := parseColor(req.EngineColor)
		if !ok {
			return nil, fmt.Errorf("%w: engine color %q", errBadRequest, req.EngineColor)
		}
		sess.hasEngine, sess.engine = true, c
		if c == board.White {
			sess.white = engineName
		} else {
			sess.black = engineName
		}
	}

	s.mu.Lock()
	s.games[sess.id] = sess
	s.mu.Unlock()
	log.Printf("[server] game %s created (engine %s)", sess.id, req.EngineColor)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.engineToMove() {
		if err := s.engineMoveLocked(sess); err != nil {
			return nil, err
		}
	}
	s.afterChangeLocked(sess)
	return sess, nil
}

// playHuman plays uci in sess and, if the engine is to move next, its reply.
func (s *Server) playHuman(sess *session, uci string) (GameStatus, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.engineToMove() {
		return GameStatus{}, ErrEngineToMove
	}
	if _, err := sess.game.Play(uci); err != nil {
		return GameStatus{}, err
	}
	if sess.engineToMove() {
		s.afterChangeLocked(sess)
		if err := s.engineMoveLocked(sess); err != nil {
			return GameStatus{}, err
		}
	}
	return s.afterChangeLocked(sess), nil
}

// playEngine makes the engine move for the side to move, whoever owns it.
func (s *Server) playEngine(sess *session) (GameStatus, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.game.Status() != board.Ongoing {
		return GameStatus{}, game.ErrGameOver
	}
	if err := s.engineMoveLocked(sess); err != nil {
		return GameStatus{}, err
	}
	return s.afterChangeLocked(sess), nil
}

func (s *Server) engineMoveLocked(sess *session) error {
	s.engineMu.Lock()
	s.engine.SetDepth(sess.depth)
	mv, err := s.engine.BestMove(sess.game, s.rng.Uint64())
	info := s.lastInfo
	s.engineMu.Unlock()
	if err != nil {
		return err
	}
	if !sess.game.TryPlay(mv) {
		return fmt.Errorf("engine produced illegal move %s", mv)
	}
	sess.last = reportFrom(info)
	return nil
}

// afterChangeLocked persists the session, records finished games and
// notifies watchers.
func (s *Server) afterChangeLocked(sess *session) GameStatus {
	st := sess.statusLocked()
	if s.store != nil {
		rec := sess.record()
		var err error
		if rec.Finished() && !sess.recorded {
			if err = s.store.RecordGame(rec); err == nil {
				sess.recorded = true
			}
		} else {
			err = s.store.SaveGame(rec)
		}
		if err != nil {
			log.Printf("[server] persisting game %s: %v", sess.id, err)
		}
	}
	s.hub.Publish(sess.id, "status", st)
	return st
}
