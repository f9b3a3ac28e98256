package board

// Zobrist keys, generated from a fixed seed so hashes are stable across
// runs and match the opening book.
var (
	zobristPiece      [2][6][64]uint64
	zobristEnPassant  [8]uint64
	zobristCastling   [16]uint64
	zobristSideToMove uint64
)

func init() {
	rng := xorshift{state: 0x98F107A2BEEF1234}
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}
	for f := range zobristEnPassant {
		zobristEnPassant[f] = rng.next()
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// xorshift64*
type xorshift struct {
	state uint64
}

func (x *xorshift) next() uint64 {
	x.state ^= x.state >> 12
	x.state ^= x.state << 25
	x.state ^= x.state >> 27
	return x.state * 0x2545F4914F6CDD1D
}

// enPassantKey returns the en-passant contribution to the hash. The file
// key is only mixed in when the side to move has a pawn that can make
// the capture, so unreachable en-passant squares do not split hashes.
func (b *Board) enPassantKey() uint64 {
	if b.enPassant == NoSquare {
		return 0
	}
	them := b.sideToMove.Other()
	if PawnAttacks(b.enPassant, them)&b.ColoredPieces(b.sideToMove, Pawn) == 0 {
		return 0
	}
	return zobristEnPassant[b.enPassant.File()]
}

// computeHash builds the hash from scratch.
func (b *Board) computeHash() uint64 {
	var h uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := range b.ColoredPieces(c, pt).Squares() {
				h ^= zobristPiece[c][pt][sq]
			}
		}
	}
	h ^= zobristCastling[b.castling]
	h ^= b.enPassantKey()
	if b.sideToMove == Black {
		h ^= zobristSideToMove
	}
	return h
}
