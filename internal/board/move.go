package board

import (
	"errors"
	"fmt"
	"iter"
)

// ErrInvalidMove is returned when move text cannot be parsed.
var ErrInvalidMove = errors.New("invalid move")

// Move is a from/to square pair plus an optional promotion piece.
// Castling is the king's two-square step (e1g1, e8c8). Moves compare
// with ==.
type Move struct {
	From      Square
	To        Square
	Promotion PieceType // NoPieceType unless the move promotes
}

// NoMove is the zero-information move, printed as "0000".
var NoMove = Move{From: NoSquare, To: NoSquare, Promotion: NoPieceType}

// NewMove creates a non-promoting move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to, Promotion: NoPieceType}
}

// NewPromotion creates a promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move{From: from, To: to, Promotion: promo}
}

// IsPromotion returns true if this is a promotion move.
func (m Move) IsPromotion() bool {
	return m.Promotion >= Knight && m.Promotion <= Queen
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += string(m.Promotion.Char(Black))
	}
	return s
}

// ParseMove parses a UCI format move string. It does not check legality.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %v", ErrInvalidMove, s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %v", ErrInvalidMove, s, err)
	}
	if len(s) == 4 {
		return NewMove(from, to), nil
	}
	promo, _, ok := PieceFromChar(s[4])
	if !ok || promo == Pawn || promo == King {
		return NoMove, fmt.Errorf("%w: bad promotion piece in %q", ErrInvalidMove, s)
	}
	return NewPromotion(from, to, promo), nil
}

// promotionOrder is the order in which PieceMoves expands promotions.
var promotionOrder = [4]PieceType{Queen, Knight, Rook, Bishop}

// PieceMoves is the set of legal destinations for one piece. Callers may
// narrow To before expanding the batch.
type PieceMoves struct {
	Piece PieceType
	From  Square
	To    Bitboard
}

func (pm PieceMoves) isPromotion() bool {
	return pm.Piece == Pawn && (pm.From.Rank() == Rank7 || pm.From.Rank() == Rank2) &&
		pm.To&(Rank1.Bitboard()|Rank8.Bitboard()) != 0
}

// Len returns the number of moves in the batch; a promotion counts once
// per promotion piece.
func (pm PieceMoves) Len() int {
	if pm.isPromotion() {
		return 4 * pm.To.PopCount()
	}
	return pm.To.PopCount()
}

// IsEmpty reports whether the batch holds no move.
func (pm PieceMoves) IsEmpty() bool {
	return pm.To == 0
}

// Has reports whether mv belongs to the batch.
func (pm PieceMoves) Has(mv Move) bool {
	if mv.From != pm.From || !pm.To.Has(mv.To) {
		return false
	}
	if pm.isPromotion() {
		return mv.IsPromotion()
	}
	return mv.Promotion == NoPieceType
}

// Moves expands the batch into individual moves, destinations in
// ascending square order.
func (pm PieceMoves) Moves() iter.Seq[Move] {
	return func(yield func(Move) bool) {
		promo := pm.isPromotion()
		for to := range pm.To.Squares() {
			if !promo {
				if !yield(NewMove(pm.From, to)) {
					return
				}
				continue
			}
			for _, p := range promotionOrder {
				if !yield(NewPromotion(pm.From, to, p)) {
					return
				}
			}
		}
	}
}
