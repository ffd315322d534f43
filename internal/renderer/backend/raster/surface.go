package raster

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/dshills/nwin/internal/renderer/backend"
	"github.com/dshills/nwin/internal/renderer/core"
)

// Surface is an RGBA pixel surface.
type Surface struct {
	img  *image.RGBA
	font *Font
}

func newSurface(f *Font, width, height int) *Surface {
	return &Surface{
		img:  image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0))),
		font: f,
	}
}

// Image returns the underlying image.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Size returns the surface size in pixels.
func (s *Surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// At returns the color of the pixel at (x, y).
func (s *Surface) At(x, y int) core.Color {
	c := s.img.RGBAAt(x, y)
	return core.ColorFromRGB(c.R, c.G, c.B)
}

func toRect(r core.Rect) image.Rectangle {
	return image.Rect(r.X, r.Y, r.Right(), r.Bottom())
}

// Fill paints rect with c.
func (s *Surface) Fill(rect core.Rect, c core.Color) {
	if rect.Empty() {
		return
	}
	draw.Draw(s.img, toRect(rect), image.NewUniform(c), image.Point{}, draw.Src)
}

// Copy copies srcRect of another raster surface to dst.
func (s *Surface) Copy(src backend.Surface, srcRect core.Rect, dst core.Point) {
	from, ok := src.(*Surface)
	if !ok || srcRect.Empty() {
		return
	}
	r := toRect(srcRect).Intersect(from.img.Bounds())
	if r.Empty() {
		return
	}
	offset := image.Pt(dst.X-srcRect.X, dst.Y-srcRect.Y)
	draw.Draw(s.img, r.Add(offset), from.img, r.Min, draw.Src)
}

// DrawGlyph draws r over a background box one line high.
func (s *Surface) DrawGlyph(x, y int, r rune, fg, bg core.Color) int {
	w := s.font.width
	if r != 0 && r != ' ' {
		w = s.font.advance(r)
	}
	s.Fill(core.NewRect(x, y, w, s.font.height), bg)
	if r != 0 && r != ' ' {
		s.drawRune(x, y, r, fg)
	}
	return w
}

// DrawText draws text left to right starting at (x, y).
func (s *Surface) DrawText(x, y int, text string, fg, bg core.Color, opaque bool) int {
	col := x
	for _, r := range text {
		w := s.font.advance(r)
		if r == ' ' {
			w = s.font.width
		}
		if opaque {
			s.Fill(core.NewRect(col, y, w, s.font.height), bg)
		}
		if r != ' ' {
			s.drawRune(col, y, r, fg)
		}
		col += w
	}
	return col - x
}

func (s *Surface) drawRune(x, y int, r rune, fg core.Color) {
	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(fg),
		Face: s.font.face,
		Dot:  fixed.P(x, y+s.font.ascent),
	}
	d.DrawString(string(r))
}
