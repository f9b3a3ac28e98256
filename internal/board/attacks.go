package board

// Pre-computed attack tables, filled once by init and read-only afterwards.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]

	rookRays   [64]Bitboard
	bishopRays [64]Bitboard

	betweenBB [64][64]Bitboard // Squares strictly between two squares
	lineBB    [64][64]Bitboard // Full line through two squares (including endpoints)
)

var (
	knightDeltas = [][2]int{{-1, 2}, {1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}}
	kingDeltas   = [][2]int{{-1, 1}, {0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}}
	pawnDeltas   = [2][][2]int{
		White: {{1, 1}, {-1, 1}},
		Black: {{1, -1}, {-1, -1}},
	}
)

func init() {
	for sq := A1; sq <= H8; sq++ {
		knightAttacks[sq] = leaperAttacks(sq, knightDeltas)
		kingAttacks[sq] = leaperAttacks(sq, kingDeltas)
		pawnAttacks[White][sq] = leaperAttacks(sq, pawnDeltas[White])
		pawnAttacks[Black][sq] = leaperAttacks(sq, pawnDeltas[Black])
		rookRays[sq] = computeRookRays(sq)
		bishopRays[sq] = computeBishopRays(sq)
	}
	for a := A1; a <= H8; a++ {
		for b := A1; b <= H8; b++ {
			betweenBB[a][b] = computeBetween(a, b)
			lineBB[a][b] = computeLine(a, b)
		}
	}
}

func leaperAttacks(sq Square, deltas [][2]int) Bitboard {
	var attacks Bitboard
	for _, d := range deltas {
		if to, ok := sq.TryOffset(d[0], d[1]); ok {
			attacks |= to.Bitboard()
		}
	}
	return attacks
}

func computeRookRays(sq Square) Bitboard {
	return sq.Rank().Bitboard() ^ sq.File().Bitboard()
}

func computeBishopRays(sq Square) Bitboard {
	var rays Bitboard
	for to := A1; to <= H8; to++ {
		df := absInt(int(to.File()) - int(sq.File()))
		dr := absInt(int(to.Rank()) - int(sq.Rank()))
		if df == dr && df != 0 {
			rays |= to.Bitboard()
		}
	}
	return rays
}

// computeBetween casts from both endpoints with only the endpoints as
// blockers; the overlap is what lies strictly between them.
func computeBetween(a, b Square) Bitboard {
	blockers := a.Bitboard() | b.Bitboard()
	if moves := BishopMoves(a, blockers); moves.Has(b) {
		return moves & BishopMoves(b, blockers)
	}
	if moves := RookMoves(a, blockers); moves.Has(b) {
		return moves & RookMoves(b, blockers)
	}
	return Empty
}

func computeLine(a, b Square) Bitboard {
	if bishopRays[a].Has(b) {
		return (bishopRays[a] | a.Bitboard()) & (bishopRays[b] | b.Bitboard())
	}
	if rookRays[a].Has(b) {
		return (rookRays[a] | a.Bitboard()) & (rookRays[b] | b.Bitboard())
	}
	return Empty
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// KnightAttacks returns the knight attack bitboard for a square.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack bitboard for a square.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(sq Square, c Color) Bitboard {
	return pawnAttacks[c][sq]
}

// PawnQuiets returns the non-capturing pushes of a pawn of color c on sq.
// The double push is only available from the pawn's second rank and only
// when the single push square is free.
func PawnQuiets(sq Square, c Color, blockers Bitboard) Bitboard {
	bb := sq.Bitboard()
	var moves Bitboard
	if c == White {
		moves = bb << 8
	} else {
		moves = bb >> 8
	}
	moves &^= blockers
	if moves != 0 && Rank2.RelativeTo(c).Bitboard().Has(sq) {
		if c == White {
			moves |= moves << 8
		} else {
			moves |= moves >> 8
		}
		moves &^= blockers
	}
	return moves
}

// RookRays returns the empty-board rook reach from sq.
func RookRays(sq Square) Bitboard {
	return rookRays[sq]
}

// BishopRays returns the empty-board bishop reach from sq.
func BishopRays(sq Square) Bitboard {
	return bishopRays[sq]
}

// Between returns the squares strictly between a and b, or Empty if they
// are not on a common line.
func Between(a, b Square) Bitboard {
	return betweenBB[a][b]
}

// Line returns the full board line through a and b, endpoints included,
// or Empty if they are not aligned.
func Line(a, b Square) Bitboard {
	return lineBB[a][b]
}

// Aligned reports whether c lies on the line through a and b.
func Aligned(a, b, c Square) bool {
	return lineBB[a][b].Has(c)
}
