package engine

import (
	"math"
	"sync/atomic"

	"github.com/hailam/glowfish/internal/board"
	"github.com/hailam/glowfish/internal/game"
)

// Search constants
const (
	Infinity  int16 = 15000
	MateScore int16 = 10000

	// QuiescencePlyLimit stops capture sequences at this ply.
	QuiescencePlyLimit = 20
	DefaultDepth       = 2
)

// Result is the outcome of a search node. HasMove is false at terminal
// nodes, at depth 0 and when a repetition cut the node short.
type Result struct {
	Move    board.Move
	HasMove bool
	Score   int16
}

// Searcher runs negamax alpha-beta with a capture-only quiescence search.
// It keeps no state between searches apart from the node counter.
type Searcher struct {
	eval  EvalFunc
	nodes atomic.Uint64
}

// NewSearcher creates a searcher using eval at the leaves. A nil eval
// selects Evaluate.
func NewSearcher(eval EvalFunc) *Searcher {
	if eval == nil {
		eval = Evaluate
	}
	return &Searcher{eval: eval}
}

// Nodes returns the number of nodes visited since the last ResetNodes.
func (s *Searcher) Nodes() uint64 {
	return s.nodes.Load()
}

// ResetNodes zeroes the node counter.
func (s *Searcher) ResetNodes() {
	s.nodes.Store(0)
}

// Search scores b from the side to move's point of view. h holds the
// hashes of the positions leading to b, excluding b itself; it is pushed
// and popped during the search and returned unchanged.
func (s *Searcher) Search(h *game.History, b *board.Board, depth, ply int, alpha, beta int16) Result {
	s.nodes.Add(1)

	switch b.Status() {
	case board.Won:
		return Result{Score: -MateScore + int16(ply)}
	case board.Drawn:
		return Result{}
	}
	// Inside the tree a single earlier occurrence plus this one is
	// treated as a draw.
	if h.Count(b.Hash()) >= 2 {
		return Result{}
	}
	if depth == 0 {
		return Result{Score: s.Quiesce(b, ply+1, -beta, -alpha)}
	}

	return s.SearchMoves(h, b, depth, ply, alpha, beta)
}

// SearchMoves is the move loop of Search without the status and
// repetition checks on b itself. depth must be at least 1.
func (s *Searcher) SearchMoves(h *game.History, b *board.Board, depth, ply int, alpha, beta int16) Result {
	h.Push(b.Hash())
	defer h.Pop()

	best := Result{Score: math.MinInt16}
moves:
	for pm := range b.MoveSets() {
		for mv := range pm.Moves() {
			child := *b
			child.PlayUnchecked(mv)
			score := -s.Search(h, &child, depth-1, ply+1, -beta, -alpha).Score
			if score > best.Score {
				best = Result{Move: mv, HasMove: true, Score: score}
				if score > alpha {
					alpha = score
					if alpha >= beta {
						break moves
					}
				}
			}
		}
	}
	return best
}

// victimOrder lists capture targets from most to least valuable. The king
// is never a victim.
var victimOrder = [5]board.PieceType{board.Queen, board.Rook, board.Bishop, board.Knight, board.Pawn}

// Quiesce resolves captures until the position is quiet, the window
// closes or ply reaches QuiescencePlyLimit.
func (s *Searcher) Quiesce(b *board.Board, ply int, alpha, beta int16) int16 {
	s.nodes.Add(1)

	switch b.Status() {
	case board.Won:
		return -MateScore + int16(ply)
	case board.Drawn:
		return 0
	}

	best := s.eval(b)
	if ply >= QuiescencePlyLimit {
		return best
	}
	alpha = max(alpha, best)
	if alpha >= beta {
		return best
	}

	enemies := b.Colors(b.SideToMove().Other())
	for _, victim := range victimOrder {
		victims := enemies & b.Pieces(victim)
		if victims == 0 {
			continue
		}
		for _, attacker := range board.AllPieceTypes {
			for pm := range b.MoveSetsFor(b.Pieces(attacker)) {
				pm.To &= victims
				for mv := range pm.Moves() {
					child := *b
					child.PlayUnchecked(mv)
					score := -s.Quiesce(&child, ply+1, -beta, -alpha)
					best = max(best, score)
					alpha = max(alpha, best)
					if alpha >= beta {
						return best
					}
				}
			}
		}
	}
	return best
}
