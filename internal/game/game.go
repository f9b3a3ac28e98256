package game

import (
	"errors"
	"fmt"

	"github.com/hailam/glowfish/internal/board"
)

var (
	// ErrIllegalMove is returned by Play for a well-formed but illegal move.
	ErrIllegalMove = errors.New("illegal move")
	// ErrGameOver is returned by Play once the game has a result.
	ErrGameOver = errors.New("game is over")
)

// Reason explains a finished game.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonCheckmate            Reason = "checkmate"
	ReasonStalemate            Reason = "stalemate"
	ReasonFiftyMoves           Reason = "fifty-move rule"
	ReasonRepetition           Reason = "threefold repetition"
	ReasonInsufficientMaterial Reason = "insufficient material"
)

// Outcome is the status of a game with the reason it ended. Winner is
// only meaningful when Status is board.Won.
type Outcome struct {
	Status board.GameStatus
	Reason Reason
	Winner board.Color
}

// Result returns the PGN result token: "1-0", "0-1", "1/2-1/2" or "*".
func (o Outcome) Result() string {
	switch o.Status {
	case board.Won:
		if o.Winner == board.White {
			return "1-0"
		}
		return "0-1"
	case board.Drawn:
		return "1/2-1/2"
	}
	return "*"
}

// Game is a board plus the history needed for repetition detection.
type Game struct {
	board    board.Board
	history  *History
	moves    []board.Move
	startFEN string
}

// New starts a game from the standard position.
func New() *Game {
	return FromBoard(board.NewBoard(), DefaultHistoryCapacity)
}

// FromFEN starts a game from a FEN position.
func FromFEN(fen string) (*Game, error) {
	b, err := board.ParseFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	return FromBoard(b, DefaultHistoryCapacity), nil
}

// FromBoard starts a game from a copy of b with the given history
// capacity. Capacities below MinHistoryCapacity are raised to it.
func FromBoard(b *board.Board, capacity int) *Game {
	g := &Game{
		board:    *b,
		history:  NewHistory(max(capacity, MinHistoryCapacity)),
		startFEN: b.FEN(),
	}
	g.history.Push(b.Hash())
	return g
}

// Board returns a copy of the current position.
func (g *Game) Board() *board.Board {
	return g.board.Clone()
}

// History returns a copy of the position history. Its last entry is the
// current position.
func (g *Game) History() *History {
	return g.history.Clone()
}

// Moves returns the moves played so far.
func (g *Game) Moves() []board.Move {
	return append([]board.Move(nil), g.moves...)
}

// StartFEN returns the FEN the game started from.
func (g *Game) StartFEN() string {
	return g.startFEN
}

// TryPlay plays mv if the game is still going and mv is legal. On false
// the game is unchanged.
func (g *Game) TryPlay(mv board.Move) bool {
	if g.Status() != board.Ongoing {
		return false
	}
	return g.apply(mv)
}

func (g *Game) apply(mv board.Move) bool {
	next := g.board
	if !next.TryPlay(mv) {
		return false
	}
	g.board = next
	// A pawn move or capture makes every earlier position unreachable.
	if g.board.HalfmoveClock() == 0 {
		g.history.Clear()
	}
	g.history.Shift(g.board.Hash())
	g.moves = append(g.moves, mv)
	return true
}

// Play parses a UCI move and plays it.
func (g *Game) Play(uci string) (board.Move, error) {
	mv, err := board.ParseMove(uci)
	if err != nil {
		return board.NoMove, err
	}
	if g.Status() != board.Ongoing {
		return board.NoMove, ErrGameOver
	}
	if !g.TryPlay(mv) {
		return board.NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, uci)
	}
	return mv, nil
}

// ForcePlay is Play without the game-over check. Repetition and the
// fifty-move rule are draws a player has to claim, so a GUI's move list
// can run past them. The move must still be legal.
func (g *Game) ForcePlay(uci string) (board.Move, error) {
	mv, err := board.ParseMove(uci)
	if err != nil {
		return board.NoMove, err
	}
	if !g.apply(mv) {
		return board.NoMove, fmt.Errorf("%w: %s", ErrIllegalMove, uci)
	}
	return mv, nil
}

// Status returns the game status including the draw rules that need
// history or material counting.
func (g *Game) Status() board.GameStatus {
	return g.Outcome().Status
}

// Outcome is Status with the reason and the winner.
func (g *Game) Outcome() Outcome {
	b := &g.board
	if InsufficientMaterial(b) {
		return Outcome{Status: board.Drawn, Reason: ReasonInsufficientMaterial}
	}
	if last, ok := g.history.Last(); ok && g.history.Count(last) >= 3 {
		return Outcome{Status: board.Drawn, Reason: ReasonRepetition}
	}
	switch b.Status() {
	case board.Won:
		return Outcome{Status: board.Won, Reason: ReasonCheckmate, Winner: b.SideToMove().Other()}
	case board.Drawn:
		if b.HasLegalMoves() {
			return Outcome{Status: board.Drawn, Reason: ReasonFiftyMoves}
		}
		return Outcome{Status: board.Drawn, Reason: ReasonStalemate}
	}
	return Outcome{Status: board.Ongoing}
}

// InsufficientMaterial reports bare kings, or kings with a single minor piece.
func InsufficientMaterial(b *board.Board) bool {
	switch b.Occupied().PopCount() {
	case 2:
		return true
	case 3:
		return b.Pieces(board.Bishop)|b.Pieces(board.Knight) != 0
	}
	return false
}
