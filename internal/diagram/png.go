package diagram

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/glowfish/internal/board"
)

var (
	boldFont    = sync.OnceValues(func() (*opentype.Font, error) { return opentype.Parse(gobold.TTF) })
	regularFont = sync.OnceValues(func() (*opentype.Font, error) { return opentype.Parse(goregular.TTF) })
)

func newFace(load func() (*opentype.Font, error), size float64) (font.Face, error) {
	f, err := load()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Render rasterizes b into an RGBA image.
func Render(b *board.Board, opts Options) (*image.RGBA, error) {
	size := opts.squareSize()
	total := 8 * size

	var doc bytes.Buffer
	writeSVG(&doc, b, opts)
	icon, err := oksvg.ReadIconStream(&doc)
	if err != nil {
		return nil, fmt.Errorf("diagram: parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(total), float64(total))

	rgba := image.NewRGBA(image.Rect(0, 0, total, total))
	scanner := rasterx.NewScannerGV(total, total, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(total, total, scanner)
	icon.Draw(raster, 1.0)

	if err := drawLetters(rgba, b, opts); err != nil {
		return nil, err
	}
	return rgba, nil
}

// PNG writes b as a PNG image.
func PNG(w io.Writer, b *board.Board, opts Options) error {
	img, err := Render(b, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// drawLetters writes piece letters and coordinates, which the SVG
// rasterizer does not handle.
func drawLetters(dst *image.RGBA, b *board.Board, opts Options) error {
	size := opts.squareSize()
	face, err := newFace(boldFont, float64(size)/2)
	if err != nil {
		return fmt.Errorf("diagram: font: %w", err)
	}
	defer face.Close()

	capHeight := face.Metrics().CapHeight
	d := &font.Drawer{Dst: dst, Face: face}
	for _, c := range cells(opts) {
		pt := b.PieceOn(c.sq)
		if pt == board.NoPieceType {
			continue
		}
		d.Src = image.NewUniform(blackPiece)
		if color, _ := b.ColorOn(c.sq); color == board.Black {
			d.Src = image.NewUniform(whitePiece)
		}
		s := pieceLetter(pt)
		width := d.MeasureString(s)
		d.Dot = fixed.Point26_6{
			X: fixed.I(c.x+size/2) - width/2,
			Y: fixed.I(c.y+size/2) + capHeight/2,
		}
		d.DrawString(s)
	}

	if !opts.Coordinates {
		return nil
	}
	small, err := newFace(regularFont, float64(max(size/5, 6)))
	if err != nil {
		return fmt.Errorf("diagram: font: %w", err)
	}
	defer small.Close()

	d = &font.Drawer{Dst: dst, Face: small, Src: image.NewUniform(coordinateColor)}
	for _, c := range cells(opts) {
		if fileLabel(c.sq, opts.Flip) {
			s := c.sq.File().String()
			d.Dot = fixed.Point26_6{
				X: fixed.I(c.x+size-size/8) - d.MeasureString(s),
				Y: fixed.I(c.y + size - size/12),
			}
			d.DrawString(s)
		}
		if rankLabel(c.sq, opts.Flip) {
			d.Dot = fixed.P(c.x+size/12, c.y+size/4)
			d.DrawString(c.sq.Rank().String())
		}
	}
	return nil
}
