package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hailam/glowfish/internal/board"
	"github.com/hailam/glowfish/internal/diagram"
	"github.com/hailam/glowfish/internal/engine"
	"github.com/hailam/glowfish/internal/game"
	"github.com/hailam/glowfish/internal/storage"
)

var errBadRequest = errors.New("bad request")

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return data
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errBadRequest),
		errors.Is(err, board.ErrInvalidMove),
		errors.Is(err, board.ErrInvalidFEN),
		errors.Is(err, game.ErrIllegalMove):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrGameOver),
		errors.Is(err, engine.ErrNoMove),
		errors.Is(err, ErrEngineToMove):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
	}
	sess, err := s.createGame(req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.snapshot())
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.snapshot())
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var payload wsMove
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	sess, err := s.session(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	st, err := s.playHuman(sess, payload.Move)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleEngineMove(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	st, err := s.playEngine(sess)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.mu.RLock()
		out := make([]GameStatus, 0, len(s.games))
		sessions := make([]*session, 0, len(s.games))
		for _, sess := range s.games {
			sessions = append(sessions, sess)
		}
		s.mu.RUnlock()
		for _, sess := range sessions {
			out = append(out, sess.snapshot())
		}
		writeJSON(w, http.StatusOK, out)
		return
	}
	games, err := s.store.ListGames()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) handlePGN(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	sess.mu.Lock()
	rec := sess.record()
	sess.mu.Unlock()

	pgn, err := rec.PGN()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-chess-pgn")
	_, _ = w.Write([]byte(pgn))
}

type diagramFormat int

const (
	formatSVG diagramFormat = iota
	formatPNG
)

// handleDiagram serves the current position. Query parameters: flip,
// coords and size (square edge in pixels).
func (s *Server) handleDiagram(format diagramFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.session(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		sess.mu.Lock()
		b := sess.game.Board()
		var lastMove []board.Square
		if moves := sess.game.Moves(); len(moves) > 0 {
			last := moves[len(moves)-1]
			lastMove = []board.Square{last.From, last.To}
		}
		sess.mu.Unlock()

		q := r.URL.Query()
		opts := diagram.Options{
			Flip:        q.Get("flip") == "1" || q.Get("flip") == "true",
			Coordinates: q.Get("coords") != "0" && q.Get("coords") != "false",
			Highlight:   lastMove,
		}
		if size := q.Get("size"); size != "" {
			n, err := strconv.Atoi(size)
			if err != nil || n < 8 || n > 256 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid size"})
				return
			}
			opts.SquareSize = n
		}

		switch format {
		case formatPNG:
			w.Header().Set("Content-Type", "image/png")
			err = diagram.PNG(w, b, opts)
		default:
			w.Header().Set("Content-Type", "image/svg+xml")
			err = diagram.SVG(w, b, opts)
		}
		if err != nil {
			writeError(w, err)
		}
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, storage.NewGameStats())
		return
	}
	stats, err := s.store.LoadStats()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, storage.DefaultPreferences())
		return
	}
	prefs, err := s.store.LoadPreferences()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	prefs := storage.DefaultPreferences()
	if err := json.NewDecoder(r.Body).Decode(prefs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if prefs.Depth < 1 || prefs.Depth > 8 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "depth must be 1..8"})
		return
	}
	if _, ok := parseColor(prefs.EngineColor); !ok && prefs.EngineColor != "none" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "engine_color must be white, black or none"})
		return
	}
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "storage disabled"})
		return
	}
	if err := s.store.SavePreferences(prefs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}
