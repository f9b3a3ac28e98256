package engine

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hailam/glowfish/internal/board"
	"github.com/hailam/glowfish/internal/game"
)

// ErrNoMove is returned when the game has no move to offer.
var ErrNoMove = errors.New("engine: no move available")

// Book supplies prepared moves by position hash.
type Book interface {
	Lookup(hash uint64) []board.Move
}

// SearchInfo describes how a move was chosen.
type SearchInfo struct {
	Depth    int
	Score    int16
	Nodes    uint64
	Time     time.Duration
	Move     board.Move
	FromBook bool
}

// Engine is the chess AI engine. It is not safe for concurrent use.
type Engine struct {
	searcher *Searcher
	book     Book
	depth    int
	useBook  bool
	verbose  bool

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine consulting bk before searching. bk may be nil.
func NewEngine(bk Book) *Engine {
	return &Engine{
		searcher: NewSearcher(Evaluate),
		book:     bk,
		depth:    DefaultDepth,
		useBook:  bk != nil,
	}
}

// SetDepth sets the nominal search depth. Values below 1 are ignored.
func (e *Engine) SetDepth(depth int) {
	if depth >= 1 {
		e.depth = depth
	}
}

// Depth returns the nominal search depth.
func (e *Engine) Depth() int {
	return e.depth
}

// SetBookEnabled turns the opening book on or off.
func (e *Engine) SetBookEnabled(on bool) {
	e.useBook = on && e.book != nil
}

// SetEvaluator replaces the leaf evaluator.
func (e *Engine) SetEvaluator(eval EvalFunc) {
	e.searcher = NewSearcher(eval)
}

// SetVerbose logs every decision.
func (e *Engine) SetVerbose(v bool) {
	e.verbose = v
}

// BestMove returns the move to play in g. A book move wins if the
// position is in the book; random picks among book candidates. Otherwise
// a fixed-depth search decides.
func (e *Engine) BestMove(g *game.Game, random uint64) (board.Move, error) {
	b := g.Board()
	if !b.HasLegalMoves() {
		return board.NoMove, ErrNoMove
	}
	start := time.Now()

	if e.useBook {
		if moves := e.book.Lookup(b.Hash()); len(moves) > 0 {
			mv := moves[random%uint64(len(moves))]
			e.report(SearchInfo{Move: mv, FromBook: true, Time: time.Since(start)})
			return mv, nil
		}
	}

	// The search sees only the positions before the current one, at most
	// as many as the fifty-move rule can still repeat.
	history := g.History().Tail(game.MinHistoryCapacity, e.depth)
	history.Pop()

	e.searcher.ResetNodes()
	res := e.searcher.Search(history, b, e.depth, 0, -Infinity, Infinity)
	if !res.HasMove {
		// b itself is a draw that was never claimed; keep playing.
		res = e.searcher.SearchMoves(history, b, e.depth, 0, -Infinity, Infinity)
	}
	e.report(SearchInfo{
		Depth: e.depth,
		Score: res.Score,
		Nodes: e.searcher.Nodes(),
		Time:  time.Since(start),
		Move:  res.Move,
	})
	return res.Move, nil
}

func (e *Engine) report(info SearchInfo) {
	if e.verbose {
		if info.FromBook {
			log.Printf("[engine] book move %s", info.Move)
		} else {
			log.Printf("[engine] depth %d move %s score %s nodes %d time %v",
				info.Depth, info.Move, ScoreString(info.Score), info.Nodes, info.Time)
		}
	}
	if e.OnInfo != nil {
		e.OnInfo(info)
	}
}

// IsMateScore reports whether score encodes a forced mate.
func IsMateScore(score int16) bool {
	return score > MateScore-QuiescencePlyLimit*2 || score < -MateScore+QuiescencePlyLimit*2
}

// ScoreString formats a score for UCI: "cp 35" or "mate 2" (in moves).
func ScoreString(score int16) string {
	if IsMateScore(score) {
		plies := int(MateScore) - int(abs16(score))
		moves := (plies + 1) / 2
		if score < 0 {
			moves = -moves
		}
		return fmt.Sprintf("mate %d", moves)
	}
	return fmt.Sprintf("cp %d", score)
}

func abs16(x int16) int16 {
	if x < 0 {
		return -x
	}
	return x
}
