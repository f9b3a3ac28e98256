package board

import (
	"iter"
	"math/bits"
	"strings"
)

// Bitboard represents a 64-bit board where each bit corresponds to a square.
// Bit 0 = A1, Bit 7 = H1, Bit 56 = A8, Bit 63 = H8 (Little-Endian Rank-File Mapping).
type Bitboard uint64

const (
	Empty Bitboard = 0
	Full  Bitboard = 0xFFFFFFFFFFFFFFFF

	fileABB Bitboard = 0x0101010101010101
	rank1BB Bitboard = 0x00000000000000FF

	// Squares that must be empty for castling, per side.
	whiteKingsideGap  Bitboard = 1<<F1 | 1<<G1
	whiteQueensideGap Bitboard = 1<<B1 | 1<<C1 | 1<<D1
	blackKingsideGap  Bitboard = 1<<F8 | 1<<G8
	blackQueensideGap Bitboard = 1<<B8 | 1<<C8 | 1<<D8
)

// Has reports whether sq is in the set.
func (b Bitboard) Has(sq Square) bool {
	return b&(1<<sq) != 0
}

// With returns the set with sq added.
func (b Bitboard) With(sq Square) Bitboard {
	return b | 1<<sq
}

// Without returns the set with sq removed.
func (b Bitboard) Without(sq Square) Bitboard {
	return b &^ (1 << sq)
}

// IsEmpty reports whether no square is set.
func (b Bitboard) IsEmpty() bool {
	return b == 0
}

// PopCount returns the number of set bits (population count).
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LSB returns the least significant bit (lowest square index).
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLSB removes and returns the least significant bit.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// Squares yields the set squares in ascending order. The sequence is
// restartable: ranging over it twice yields the same squares twice.
func (b Bitboard) Squares() iter.Seq[Square] {
	return func(yield func(Square) bool) {
		for rest := b; rest != 0; {
			if !yield(rest.PopLSB()) {
				return
			}
		}
	}
}

// String returns a visual representation of the bitboard.
func (b Bitboard) String() string {
	var sb strings.Builder
	for r := Rank8; ; r-- {
		sb.WriteString(r.String())
		sb.WriteByte(' ')
		for f := FileA; f <= FileH; f++ {
			if b.Has(NewSquare(f, r)) {
				sb.WriteString("1 ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
		if r == Rank1 {
			break
		}
	}
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
