// Package board implements the chess rules: bitboards, attack tables,
// legal move generation and positions.
package board

import (
	"errors"
	"fmt"
)

// ErrInvalidSquare is returned when square text cannot be parsed.
var ErrInvalidSquare = errors.New("invalid square")

// File is a board column, a through h.
type File uint8

const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

// TryFile converts a zero-based index to a File.
func TryFile(i int) (File, bool) {
	if i < 0 || i > 7 {
		return 0, false
	}
	return File(i), true
}

// Flip mirrors the file across the board's vertical axis.
func (f File) Flip() File {
	return f ^ 7
}

// Bitboard returns all eight squares of the file.
func (f File) Bitboard() Bitboard {
	return fileABB << f
}

func (f File) String() string {
	return string(rune('a' + f))
}

// Rank is a board row, 1 through 8.
type Rank uint8

const (
	Rank1 Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

// TryRank converts a zero-based index to a Rank.
func TryRank(i int) (Rank, bool) {
	if i < 0 || i > 7 {
		return 0, false
	}
	return Rank(i), true
}

// Flip mirrors the rank across the board's horizontal axis.
func (r Rank) Flip() Rank {
	return r ^ 7
}

// RelativeTo returns the rank as seen from c's side of the board.
// Rank2.RelativeTo(Black) is Rank7.
func (r Rank) RelativeTo(c Color) Rank {
	if c == Black {
		return r.Flip()
	}
	return r
}

// Bitboard returns all eight squares of the rank.
func (r Rank) Bitboard() Bitboard {
	return rank1BB << (8 * r)
}

func (r Rank) String() string {
	return string(rune('1' + r))
}

// Square represents a square on the chess board (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// NewSquare builds the square at the intersection of f and r.
func NewSquare(f File, r Rank) Square {
	return Square(uint8(r)<<3 | uint8(f))
}

// File returns the file (column) of the square.
func (sq Square) File() File {
	return File(sq & 7)
}

// Rank returns the rank (row) of the square.
func (sq Square) Rank() Rank {
	return Rank(sq >> 3)
}

// IsValid reports whether sq is on the board.
func (sq Square) IsValid() bool {
	return sq < 64
}

// Bitboard returns the set containing only sq.
func (sq Square) Bitboard() Bitboard {
	return Bitboard(1) << sq
}

// TryOffset moves the square by df files and dr ranks.
// It reports false instead of wrapping around an edge.
func (sq Square) TryOffset(df, dr int) (Square, bool) {
	f, ok := TryFile(int(sq.File()) + df)
	if !ok {
		return NoSquare, false
	}
	r, ok := TryRank(int(sq.Rank()) + dr)
	if !ok {
		return NoSquare, false
	}
	return NewSquare(f, r), true
}

// Offset is TryOffset for offsets known to stay on the board.
// It panics when the target is off board.
func (sq Square) Offset(df, dr int) Square {
	to, ok := sq.TryOffset(df, dr)
	if !ok {
		panic(fmt.Sprintf("board: offset (%d,%d) from %s leaves the board", df, dr, sq))
	}
	return to
}

// FlipFile mirrors the square horizontally (a1 <-> h1).
func (sq Square) FlipFile() Square {
	return sq ^ 0b000111
}

// FlipRank mirrors the square vertically (a1 <-> a8).
func (sq Square) FlipRank() Square {
	return sq ^ 0b111000
}

// RelativeTo returns the square as seen from c's side of the board.
func (sq Square) RelativeTo(c Color) Square {
	if c == Black {
		return sq.FlipRank()
	}
	return sq
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return sq.File().String() + sq.Rank().String()
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	f, fok := TryFile(int(s[0]) - 'a')
	r, rok := TryRank(int(s[1]) - '1')
	if !fok || !rok {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}
	return NewSquare(f, r), nil
}
