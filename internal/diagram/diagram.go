// Package diagram draws board positions as SVG or PNG images.
package diagram

import (
	"image/color"

	"github.com/hailam/glowfish/internal/board"
)

// DefaultSquareSize is the square edge in pixels when Options leaves it unset.
const DefaultSquareSize = 48

// Options controls how a position is drawn.
type Options struct {
	SquareSize  int
	Flip        bool // black at the bottom
	Coordinates bool
	Highlight   []board.Square
}

func (o Options) squareSize() int {
	if o.SquareSize <= 0 {
		return DefaultSquareSize
	}
	return o.SquareSize
}

// Board colors
var (
	lightSquare     = color.RGBA{0xf0, 0xd9, 0xb5, 0xff}
	darkSquare      = color.RGBA{0xb5, 0x88, 0x63, 0xff}
	lightHighlight  = color.RGBA{0xcd, 0xd2, 0x6a, 0xff}
	darkHighlight   = color.RGBA{0xaa, 0xa2, 0x3a, 0xff}
	whitePiece      = color.RGBA{0xfa, 0xfa, 0xfa, 0xff}
	blackPiece      = color.RGBA{0x22, 0x22, 0x22, 0xff}
	pieceOutline    = color.RGBA{0x11, 0x11, 0x11, 0xff}
	coordinateColor = color.RGBA{0x40, 0x30, 0x20, 0xff}
)

// cell is one square of the drawing with its pixel origin.
type cell struct {
	sq    board.Square
	x, y  int
	light bool
	lit   bool
}

func (c cell) fill() color.RGBA {
	switch {
	case c.light && c.lit:
		return lightHighlight
	case c.lit:
		return darkHighlight
	case c.light:
		return lightSquare
	}
	return darkSquare
}

// cells lays out the 64 squares, rank 8 first when not flipped.
func cells(opts Options) []cell {
	size := opts.squareSize()
	var lit board.Bitboard
	for _, sq := range opts.Highlight {
		if sq.IsValid() {
			lit = lit.With(sq)
		}
	}

	out := make([]cell, 0, 64)
	for sq := board.A1; sq <= board.H8; sq++ {
		col, row := int(sq.File()), 7-int(sq.Rank())
		if opts.Flip {
			col, row = 7-col, 7-row
		}
		out = append(out, cell{
			sq:    sq,
			x:     col * size,
			y:     row * size,
			light: (int(sq.File())+int(sq.Rank()))%2 == 1,
			lit:   lit.Has(sq),
		})
	}
	return out
}

// pieceLetter returns the uppercase letter drawn on a piece disc.
func pieceLetter(pt board.PieceType) string {
	return string(pt.Char(board.White))
}

// fileLabel reports whether sq carries a file letter, and rankLabel
// whether it carries a rank digit, for the current orientation.
func fileLabel(sq board.Square, flip bool) bool {
	if flip {
		return sq.Rank() == board.Rank8
	}
	return sq.Rank() == board.Rank1
}

func rankLabel(sq board.Square, flip bool) bool {
	if flip {
		return sq.File() == board.FileH
	}
	return sq.File() == board.FileA
}

func hex(c color.RGBA) string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+2*i] = digits[v>>4]
		b[2+2*i] = digits[v&0xf]
	}
	return string(b)
}
