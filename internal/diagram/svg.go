package diagram

import (
	"bytes"
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/hailam/glowfish/internal/board"
)

// SVG writes b as a standalone SVG document.
func SVG(w io.Writer, b *board.Board, opts Options) error {
	var buf bytes.Buffer
	writeSVG(&buf, b, opts)
	_, err := w.Write(buf.Bytes())
	return err
}

// writeSVG draws squares, piece discs and letters. The PNG renderer reuses
// the document and ignores the text elements.
func writeSVG(w io.Writer, b *board.Board, opts Options) {
	size := opts.squareSize()
	total := 8 * size

	canvas := svg.New(w)
	canvas.Start(total, total, fmt.Sprintf(`viewBox="0 0 %d %d"`, total, total))
	canvas.Title(b.FEN())

	for _, c := range cells(opts) {
		canvas.Rect(c.x, c.y, size, size, "fill:"+hex(c.fill()))
	}

	radius := size * 2 / 5
	font := fmt.Sprintf("font-family:sans-serif;font-weight:bold;font-size:%dpx;text-anchor:middle;dominant-baseline:central", size/2)
	for _, c := range cells(opts) {
		pt := b.PieceOn(c.sq)
		if pt == board.NoPieceType {
			continue
		}
		color, _ := b.ColorOn(c.sq)
		disc, letter := whitePiece, blackPiece
		if color == board.Black {
			disc, letter = blackPiece, whitePiece
		}
		cx, cy := c.x+size/2, c.y+size/2
		canvas.Circle(cx, cy, radius, fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%d", hex(disc), hex(pieceOutline), max(size/24, 1)))
		canvas.Text(cx, cy, pieceLetter(pt), font+";fill:"+hex(letter))
	}

	if opts.Coordinates {
		small := fmt.Sprintf("font-family:sans-serif;font-size:%dpx;fill:%s", max(size/5, 6), hex(coordinateColor))
		for _, c := range cells(opts) {
			if fileLabel(c.sq, opts.Flip) {
				canvas.Text(c.x+size-size/8, c.y+size-size/12, c.sq.File().String(), small+";text-anchor:end")
			}
			if rankLabel(c.sq, opts.Flip) {
				canvas.Text(c.x+size/12, c.y+size/4, c.sq.Rank().String(), small)
			}
		}
	}
	canvas.End()
}
