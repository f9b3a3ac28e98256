package board

var (
	rookDeltas   = [4][2]int{{1, 0}, {0, -1}, {-1, 0}, {0, 1}}
	bishopDeltas = [4][2]int{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
)

// slidingMoves walks each ray from sq until it leaves the board or
// lands on a blocker. The blocker square itself is included.
func slidingMoves(sq Square, blockers Bitboard, deltas *[4][2]int) Bitboard {
	blockers = blockers.Without(sq)
	var moves Bitboard
	for _, d := range deltas {
		cur := sq
		for !blockers.Has(cur) {
			next, ok := cur.TryOffset(d[0], d[1])
			if !ok {
				break
			}
			cur = next
			moves |= cur.Bitboard()
		}
	}
	return moves
}

// RookMoves returns the squares a rook on sq reaches given blockers.
// Blockers of either color are included; callers mask out their own pieces.
func RookMoves(sq Square, blockers Bitboard) Bitboard {
	return slidingMoves(sq, blockers, &rookDeltas)
}

// BishopMoves returns the squares a bishop on sq reaches given blockers.
func BishopMoves(sq Square, blockers Bitboard) Bitboard {
	return slidingMoves(sq, blockers, &bishopDeltas)
}

// QueenMoves is the union of RookMoves and BishopMoves.
func QueenMoves(sq Square, blockers Bitboard) Bitboard {
	return RookMoves(sq, blockers) | BishopMoves(sq, blockers)
}
