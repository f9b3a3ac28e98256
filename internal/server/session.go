package server

import (
	"strings"
	"sync"
	"time"

	"github.com/hailam/glowfish/internal/board"
	"github.com/hailam/glowfish/internal/engine"
	"github.com/hailam/glowfish/internal/game"
	"github.com/hailam/glowfish/internal/record"
)

// session is one game hosted by the server.
type session struct {
	mu        sync.Mutex
	id        string
	game      *game.Game
	white     string
	black     string
	hasEngine bool
	engine    board.Color
	depth     int
	started   time.Time
	recorded  bool
	last      *engineReport
}

type engineReport struct {
	Move     string  `json:"move"`
	Score    string  `json:"score,omitempty"`
	Depth    int     `json:"depth,omitempty"`
	Nodes    uint64  `json:"nodes"`
	TimeMs   float64 `json:"time_ms"`
	FromBook bool    `json:"from_book"`
}

func reportFrom(info engine.SearchInfo) *engineReport {
	r := &engineReport{
		Move:     info.Move.String(),
		Nodes:    info.Nodes,
		TimeMs:   float64(info.Time.Microseconds()) / 1000,
		FromBook: info.FromBook,
	}
	if !info.FromBook {
		r.Score = engine.ScoreString(info.Score)
		r.Depth = info.Depth
	}
	return r
}

// GameStatus is the JSON view of a session.
type GameStatus struct {
	ID          string        `json:"id"`
	FEN         string        `json:"fen"`
	StartFEN    string        `json:"start_fen"`
	SideToMove  string        `json:"side_to_move"`
	Status      string        `json:"status"`
	Result      string        `json:"result"`
	Reason      string        `json:"reason,omitempty"`
	Winner      string        `json:"winner,omitempty"`
	InCheck     bool          `json:"in_check"`
	Moves       []string      `json:"moves"`
	LegalMoves  []string      `json:"legal_moves"`
	White       string        `json:"white"`
	Black       string        `json:"black"`
	EngineColor string        `json:"engine_color,omitempty"`
	Depth       int           `json:"depth"`
	LastEngine  *engineReport `json:"last_engine,omitempty"`
}

func (s *session) snapshot() GameStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *session) statusLocked() GameStatus {
	b := s.game.Board()
	out := s.game.Outcome()

	st := GameStatus{
		ID:         s.id,
		FEN:        b.FEN(),
		StartFEN:   s.game.StartFEN(),
		SideToMove: colorName(b.SideToMove()),
		Status:     out.Status.String(),
		Result:     out.Result(),
		Reason:     string(out.Reason),
		InCheck:    b.InCheck(),
		Moves:      make([]string, 0, len(s.game.Moves())),
		LegalMoves: []string{},
		White:      s.white,
		Black:      s.black,
		Depth:      s.depth,
		LastEngine: s.last,
	}
	if out.Status == board.Won {
		st.Winner = colorName(out.Winner)
	}
	if s.hasEngine {
		st.EngineColor = colorName(s.engine)
	}
	for _, mv := range s.game.Moves() {
		st.Moves = append(st.Moves, mv.String())
	}
	if out.Status == board.Ongoing {
		for mv := range b.LegalMoves() {
			st.LegalMoves = append(st.LegalMoves, mv.String())
		}
	}
	return st
}

// engineToMove reports whether the engine owns the side to move of an
// unfinished game.
func (s *session) engineToMove() bool {
	return s.hasEngine && s.game.Status() == board.Ongoing && s.game.Board().SideToMove() == s.engine
}

func (s *session) record() record.Record {
	r := record.FromGame(s.id, s.game, s.white, s.black, s.started)
	r.Depth = s.depth
	return r
}

func colorName(c board.Color) string {
	return strings.ToLower(c.String())
}

func parseColor(s string) (board.Color, bool) {
	switch strings.ToLower(s) {
	case "white", "w":
		return board.White, true
	case "black", "b":
		return board.Black, true
	}
	return board.White, false
}
