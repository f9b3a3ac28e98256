// Package record turns finished or ongoing games into storable records and
// PGN text.
package record

import (
	"fmt"
	"time"

	"github.com/notnil/chess"

	"github.com/hailam/glowfish/internal/board"
	"github.com/hailam/glowfish/internal/game"
)

// Record is the persistent form of a game.
type Record struct {
	ID        string    `json:"id"`
	White     string    `json:"white"`
	Black     string    `json:"black"`
	StartFEN  string    `json:"start_fen"`
	Moves     []string  `json:"moves"`
	Result    string    `json:"result"`
	Reason    string    `json:"reason,omitempty"`
	Depth     int       `json:"depth,omitempty"` // engine search depth, 0 if unknown
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at,omitempty"`
}

// FromGame captures g under id. EndedAt is set only when the game is over.
func FromGame(id string, g *game.Game, white, black string, started time.Time) Record {
	moves := make([]string, 0, len(g.Moves()))
	for _, mv := range g.Moves() {
		moves = append(moves, mv.String())
	}
	out := g.Outcome()
	r := Record{
		ID:        id,
		White:     white,
		Black:     black,
		StartFEN:  g.StartFEN(),
		Moves:     moves,
		Result:    out.Result(),
		Reason:    string(out.Reason),
		StartedAt: started,
	}
	if out.Status != board.Ongoing {
		r.EndedAt = time.Now()
	}
	return r
}

// Finished reports whether the record holds a decided game.
func (r Record) Finished() bool {
	return r.Result != "*"
}

// Replay rebuilds the game from the start position and move list.
func (r Record) Replay() (*game.Game, error) {
	g, err := game.FromFEN(r.StartFEN)
	if err != nil {
		return nil, err
	}
	for i, s := range r.Moves {
		if _, err := g.Play(s); err != nil {
			return nil, fmt.Errorf("record %s: move %d: %w", r.ID, i+1, err)
		}
	}
	return g, nil
}

// PGN renders the record in PGN with SAN moves.
func (r Record) PGN() (string, error) {
	var opts []func(*chess.Game)
	if r.StartFEN != "" && r.StartFEN != board.StartFEN {
		fen, err := chess.FEN(r.StartFEN)
		if err != nil {
			return "", fmt.Errorf("record %s: %w", r.ID, err)
		}
		opts = append(opts, fen)
	}
	cg := chess.NewGame(opts...)

	cg.AddTagPair("Event", "glowfish game")
	cg.AddTagPair("Site", "glowfish")
	if !r.StartedAt.IsZero() {
		cg.AddTagPair("Date", r.StartedAt.Format("2006.01.02"))
	}
	cg.AddTagPair("White", nameOr(r.White, "?"))
	cg.AddTagPair("Black", nameOr(r.Black, "?"))
	if len(opts) > 0 {
		cg.AddTagPair("SetUp", "1")
		cg.AddTagPair("FEN", r.StartFEN)
	}

	uci := chess.UCINotation{}
	for i, s := range r.Moves {
		m, err := uci.Decode(cg.Position(), s)
		if err != nil {
			return "", fmt.Errorf("record %s: move %d %q: %w", r.ID, i+1, s, err)
		}
		if err := cg.Move(m); err != nil {
			return "", fmt.Errorf("record %s: move %d %q: %w", r.ID, i+1, s, err)
		}
	}

	// Threefold and fifty-move draws are claims in PGN terms.
	if r.Result == "1/2-1/2" && cg.Outcome() == chess.NoOutcome {
		if err := cg.Draw(drawMethod(r.Reason)); err != nil {
			if err := cg.Draw(chess.DrawOffer); err != nil {
				return "", fmt.Errorf("record %s: %w", r.ID, err)
			}
		}
	}
	if r.Reason != "" {
		cg.AddTagPair("Termination", r.Reason)
	}
	cg.AddTagPair("Result", r.Result)
	return cg.String(), nil
}

func drawMethod(reason string) chess.Method {
	switch reason {
	case string(game.ReasonRepetition):
		return chess.ThreefoldRepetition
	case string(game.ReasonFiftyMoves):
		return chess.FiftyMoveRule
	}
	return chess.DrawOffer
}

func nameOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
