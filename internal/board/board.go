package board

import (
	"fmt"
	"strings"
)

// Board is a complete chess position. It holds only fixed-size arrays,
// so a plain assignment (child := *b) is an independent copy.
type Board struct {
	pieces [6]Bitboard // by PieceType, both colors
	colors [2]Bitboard // by Color, all piece types

	sideToMove     Color
	castling       CastlingRights
	enPassant      Square // Target square for en passant, NoSquare if none
	halfmoveClock  int
	fullmoveNumber int

	hash     uint64
	checkers Bitboard // enemy pieces giving check to the side to move
	pinned   Bitboard // side-to-move pieces pinned to their king
}

// NewBoard returns the standard starting position.
func NewBoard() *Board {
	b, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return b
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// Pieces returns all pieces of type pt, both colors.
func (b *Board) Pieces(pt PieceType) Bitboard {
	return b.pieces[pt]
}

// Colors returns all pieces of color c.
func (b *Board) Colors(c Color) Bitboard {
	return b.colors[c]
}

// ColoredPieces returns the pieces of type pt and color c.
func (b *Board) ColoredPieces(c Color, pt PieceType) Bitboard {
	return b.pieces[pt] & b.colors[c]
}

// Occupied returns every occupied square.
func (b *Board) Occupied() Bitboard {
	return b.colors[White] | b.colors[Black]
}

func (b *Board) SideToMove() Color              { return b.sideToMove }
func (b *Board) CastlingRights() CastlingRights { return b.castling }
func (b *Board) EnPassant() Square              { return b.enPassant }
func (b *Board) HalfmoveClock() int             { return b.halfmoveClock }
func (b *Board) FullmoveNumber() int            { return b.fullmoveNumber }
func (b *Board) Hash() uint64                   { return b.hash }
func (b *Board) Checkers() Bitboard             { return b.checkers }
func (b *Board) Pinned() Bitboard               { return b.pinned }

// InCheck returns true if the side to move is in check.
func (b *Board) InCheck() bool {
	return b.checkers != 0
}

// King returns the king square of color c.
func (b *Board) King(c Color) Square {
	return b.ColoredPieces(c, King).LSB()
}

// PieceOn returns the piece type on sq, or NoPieceType if empty.
func (b *Board) PieceOn(sq Square) PieceType {
	bb := sq.Bitboard()
	if b.Occupied()&bb == 0 {
		return NoPieceType
	}
	for pt := Pawn; pt <= King; pt++ {
		if b.pieces[pt]&bb != 0 {
			return pt
		}
	}
	return NoPieceType
}

// ColorOn returns the color of the piece on sq.
func (b *Board) ColorOn(sq Square) (Color, bool) {
	switch {
	case b.colors[White].Has(sq):
		return White, true
	case b.colors[Black].Has(sq):
		return Black, true
	}
	return White, false
}

func (b *Board) put(pt PieceType, c Color, sq Square) {
	bb := sq.Bitboard()
	b.pieces[pt] |= bb
	b.colors[c] |= bb
	b.hash ^= zobristPiece[c][pt][sq]
}

func (b *Board) remove(pt PieceType, c Color, sq Square) {
	bb := sq.Bitboard()
	b.pieces[pt] &^= bb
	b.colors[c] &^= bb
	b.hash ^= zobristPiece[c][pt][sq]
}

// attackersTo returns the pieces of both colors attacking sq, with
// sliders seeing through to the given occupancy.
func (b *Board) attackersTo(sq Square, occ Bitboard) Bitboard {
	return PawnAttacks(sq, White)&b.ColoredPieces(Black, Pawn) |
		PawnAttacks(sq, Black)&b.ColoredPieces(White, Pawn) |
		KnightAttacks(sq)&b.pieces[Knight] |
		KingAttacks(sq)&b.pieces[King] |
		BishopMoves(sq, occ)&(b.pieces[Bishop]|b.pieces[Queen]) |
		RookMoves(sq, occ)&(b.pieces[Rook]|b.pieces[Queen])
}

// IsAttacked reports whether any piece of color by attacks sq.
func (b *Board) IsAttacked(sq Square, by Color) bool {
	return b.attackersTo(sq, b.Occupied())&b.colors[by] != 0
}

// updateCheckersAndPins recomputes checkers and pinned pieces for the
// side to move. Must be called after every change of position.
func (b *Board) updateCheckersAndPins() {
	us := b.sideToMove
	them := us.Other()
	king := b.King(us)
	occ := b.Occupied()

	b.checkers = KnightAttacks(king)&b.ColoredPieces(them, Knight) |
		PawnAttacks(king, us)&b.ColoredPieces(them, Pawn)
	b.pinned = 0

	snipers := (BishopRays(king)&(b.pieces[Bishop]|b.pieces[Queen]) |
		RookRays(king)&(b.pieces[Rook]|b.pieces[Queen])) & b.colors[them]
	for sniper := range snipers.Squares() {
		blockers := Between(sniper, king) & occ
		switch blockers.PopCount() {
		case 0:
			b.checkers |= sniper.Bitboard()
		case 1:
			if blockers&b.colors[us] != 0 {
				b.pinned |= blockers
			}
		}
	}
}

// PlayUnchecked applies mv, which must be legal in this position.
// Playing an illegal move leaves the board in an unspecified state.
func (b *Board) PlayUnchecked(mv Move) {
	us := b.sideToMove
	them := us.Other()
	moved := b.PieceOn(mv.From)
	captured := b.PieceOn(mv.To)

	b.hash ^= zobristCastling[b.castling] ^ b.enPassantKey()
	b.halfmoveClock++

	if captured != NoPieceType {
		b.remove(captured, them, mv.To)
		b.halfmoveClock = 0
	}
	b.remove(moved, us, mv.From)

	switch {
	case moved == Pawn:
		b.halfmoveClock = 0
		if mv.To == b.enPassant {
			b.remove(Pawn, them, NewSquare(mv.To.File(), mv.From.Rank()))
		}
	case moved == King && absInt(int(mv.To.File())-int(mv.From.File())) == 2:
		r := mv.From.Rank()
		if mv.To.File() == FileG {
			b.remove(Rook, us, NewSquare(FileH, r))
			b.put(Rook, us, NewSquare(FileF, r))
		} else {
			b.remove(Rook, us, NewSquare(FileA, r))
			b.put(Rook, us, NewSquare(FileD, r))
		}
	}

	placed := moved
	if mv.IsPromotion() {
		placed = mv.Promotion
	}
	b.put(placed, us, mv.To)

	b.enPassant = NoSquare
	if moved == Pawn && absInt(int(mv.To.Rank())-int(mv.From.Rank())) == 2 {
		b.enPassant = NewSquare(mv.From.File(), (mv.From.Rank()+mv.To.Rank())/2)
	}
	b.castling &^= castlingMask[mv.From] | castlingMask[mv.To]
	if us == Black {
		b.fullmoveNumber++
	}
	b.sideToMove = them

	b.hash ^= zobristSideToMove ^ zobristCastling[b.castling] ^ b.enPassantKey()
	b.updateCheckersAndPins()
}

// IsLegal reports whether mv is a legal move in this position.
func (b *Board) IsLegal(mv Move) bool {
	if !mv.From.IsValid() || !mv.To.IsValid() || !b.colors[b.sideToMove].Has(mv.From) {
		return false
	}
	for pm := range b.MoveSetsFor(mv.From.Bitboard()) {
		return pm.Has(mv)
	}
	return false
}

// TryPlay plays mv if it is legal. The board is unchanged otherwise.
func (b *Board) TryPlay(mv Move) bool {
	if !b.IsLegal(mv) {
		return false
	}
	b.PlayUnchecked(mv)
	return true
}

// Status reports checkmate, stalemate and the fifty-move rule.
// Repetition and material draws are tracked by the game.
func (b *Board) Status() GameStatus {
	if !b.HasLegalMoves() {
		if b.checkers != 0 {
			return Won
		}
		return Drawn
	}
	if b.halfmoveClock >= 100 {
		return Drawn
	}
	return Ongoing
}

// String returns a visual representation of the position.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for r := Rank8; ; r-- {
		fmt.Fprintf(&sb, "%s  ", r)
		for f := FileA; f <= FileH; f++ {
			sq := NewSquare(f, r)
			pt := b.PieceOn(sq)
			if pt == NoPieceType {
				sb.WriteString(". ")
				continue
			}
			c, _ := b.ColorOn(sq)
			sb.WriteByte(pt.Char(c))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
		if r == Rank1 {
			break
		}
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", b.sideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", b.castling)
	fmt.Fprintf(&sb, "En passant: %s\n", b.enPassant)
	fmt.Fprintf(&sb, "Half-move clock: %d\n", b.halfmoveClock)
	fmt.Fprintf(&sb, "Full move: %d\n", b.fullmoveNumber)
	fmt.Fprintf(&sb, "Hash: %016x\n", b.hash)
	return sb.String()
}
