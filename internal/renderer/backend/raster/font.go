package raster

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Font is a monospace face with a fixed cell size.
type Font struct {
	face   font.Face
	width  int
	height int
	ascent int
}

// DefaultFont returns the built-in 7×13 bitmap font.
func DefaultFont() *Font {
	return newFont(basicfont.Face7x13)
}

// LoadFont loads a TrueType or OpenType font file at size points.
func LoadFont(path string, size float64) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     96,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return newFont(face), nil
}

func newFont(face font.Face) *Font {
	metrics := face.Metrics()
	advance, ok := face.GlyphAdvance('M')
	if !ok {
		advance = fixed.I(metrics.Height.Ceil() / 2)
	}
	return &Font{
		face:   face,
		width:  advance.Ceil(),
		height: (metrics.Ascent + metrics.Descent).Ceil(),
		ascent: metrics.Ascent.Ceil(),
	}
}

// CellSize returns the advance width of "M" and the line height.
func (f *Font) CellSize() (int, int) {
	return f.width, f.height
}

// advance returns the drawn width of r, at least one cell for runes the
// face does not know.
func (f *Font) advance(r rune) int {
	adv, ok := f.face.GlyphAdvance(r)
	if !ok || adv.Ceil() <= 0 {
		return f.width
	}
	return adv.Ceil()
}
