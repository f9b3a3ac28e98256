package board

import "iter"

// MoveSets yields the legal moves of the side to move, batched per piece.
// Only non-empty batches are yielded.
func (b *Board) MoveSets() iter.Seq[PieceMoves] {
	return b.MoveSetsFor(Full)
}

// MoveSetsFor is MoveSets restricted to pieces standing on mask.
func (b *Board) MoveSetsFor(mask Bitboard) iter.Seq[PieceMoves] {
	return func(yield func(PieceMoves) bool) {
		b.generate(mask, yield)
	}
}

// LegalMoves yields every legal move of the side to move.
func (b *Board) LegalMoves() iter.Seq[Move] {
	return func(yield func(Move) bool) {
		for pm := range b.MoveSets() {
			for mv := range pm.Moves() {
				if !yield(mv) {
					return
				}
			}
		}
	}
}

// HasLegalMoves reports whether the side to move can move at all.
func (b *Board) HasLegalMoves() bool {
	for range b.MoveSets() {
		return true
	}
	return false
}

// generate produces legal move batches: pawns, knights, bishops, rooks,
// queens, then the king. It returns false once yield asks to stop.
func (b *Board) generate(mask Bitboard, yield func(PieceMoves) bool) bool {
	us := b.sideToMove
	king := b.King(us)
	occ := b.Occupied()

	var target Bitboard
	switch b.checkers.PopCount() {
	case 0:
		target = ^b.colors[us]
	case 1:
		target = Between(b.checkers.LSB(), king) | b.checkers
	default:
		// Double check: only the king may move.
		if mask.Has(king) {
			return b.kingMoves(king, yield)
		}
		return true
	}

	for _, pt := range [...]PieceType{Pawn, Knight, Bishop, Rook, Queen} {
		for from := range (b.ColoredPieces(us, pt) & mask).Squares() {
			var to Bitboard
			switch pt {
			case Pawn:
				to = PawnAttacks(from, us)&b.colors[us.Other()] | PawnQuiets(from, us, occ)
			case Knight:
				to = KnightAttacks(from)
			case Bishop:
				to = BishopMoves(from, occ)
			case Rook:
				to = RookMoves(from, occ)
			case Queen:
				to = QueenMoves(from, occ)
			}
			to &= target
			if b.pinned.Has(from) {
				to &= Line(king, from)
			}
			if pt == Pawn && b.enPassant != NoSquare &&
				PawnAttacks(from, us).Has(b.enPassant) && b.enPassantLegal(from) {
				to |= b.enPassant.Bitboard()
			}
			if to != 0 && !yield(PieceMoves{Piece: pt, From: from, To: to}) {
				return false
			}
		}
	}

	if mask.Has(king) {
		return b.kingMoves(king, yield)
	}
	return true
}

func (b *Board) kingMoves(king Square, yield func(PieceMoves) bool) bool {
	us := b.sideToMove
	them := b.colors[us.Other()]
	// The king must not hide behind itself from a slider.
	occ := b.Occupied().Without(king)

	var to Bitboard
	for sq := range (KingAttacks(king) &^ b.colors[us]).Squares() {
		if b.attackersTo(sq, occ)&them == 0 {
			to |= sq.Bitboard()
		}
	}
	if b.checkers == 0 {
		to |= b.castlingMoves()
	}
	if to == 0 {
		return true
	}
	return yield(PieceMoves{Piece: King, From: king, To: to})
}

func (b *Board) castlingMoves() Bitboard {
	var to Bitboard
	occ := b.Occupied()
	them := b.sideToMove.Other()
	safe := func(squares ...Square) bool {
		for _, sq := range squares {
			if b.IsAttacked(sq, them) {
				return false
			}
		}
		return true
	}

	if b.sideToMove == White {
		if b.castling&WhiteKingSideCastle != 0 && occ&whiteKingsideGap == 0 && safe(F1, G1) {
			to |= G1.Bitboard()
		}
		if b.castling&WhiteQueenSideCastle != 0 && occ&whiteQueensideGap == 0 && safe(D1, C1) {
			to |= C1.Bitboard()
		}
		return to
	}
	if b.castling&BlackKingSideCastle != 0 && occ&blackKingsideGap == 0 && safe(F8, G8) {
		to |= G8.Bitboard()
	}
	if b.castling&BlackQueenSideCastle != 0 && occ&blackQueensideGap == 0 && safe(D8, C8) {
		to |= C8.Bitboard()
	}
	return to
}

// enPassantLegal plays the capture on a scratch occupancy and checks that
// the king is not left attacked. This covers the rank pin where both
// pawns vanish from the king's rank.
func (b *Board) enPassantLegal(from Square) bool {
	us := b.sideToMove
	captured := NewSquare(b.enPassant.File(), from.Rank())
	occ := b.Occupied().Without(from).Without(captured).With(b.enPassant)
	king := b.King(us)
	enemies := b.colors[us.Other()].Without(captured)

	attackers := KnightAttacks(king)&b.pieces[Knight] |
		PawnAttacks(king, us)&b.pieces[Pawn] |
		BishopMoves(king, occ)&(b.pieces[Bishop]|b.pieces[Queen]) |
		RookMoves(king, occ)&(b.pieces[Rook]|b.pieces[Queen])
	return attackers&enemies == 0
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(b *Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var nodes uint64
	for pm := range b.MoveSets() {
		if depth == 1 {
			nodes += uint64(pm.Len())
			continue
		}
		for mv := range pm.Moves() {
			child := *b
			child.PlayUnchecked(mv)
			nodes += Perft(&child, depth-1)
		}
	}
	return nodes
}
