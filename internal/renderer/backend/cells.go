package backend

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/nwin/internal/renderer/core"
)

// Cell is one unit of a CellSurface.
type Cell struct {
	Rune  rune
	Width int // 0 for the right half of a wide rune
	Fg    core.Color
	Bg    core.Color
}

// Equals reports whether two cells look the same.
func (c Cell) Equals(o Cell) bool {
	return c == o
}

func blankCell(bg core.Color) Cell {
	return Cell{Rune: ' ', Width: 1, Bg: bg}
}

// CellSurface is a Surface whose unit is a character cell. It keeps the
// state last synchronized to the display so only changed cells need to be
// written out.
type CellSurface struct {
	width, height int
	front         [][]Cell
	back          [][]Cell
	dirty         [][]bool
	fullRedraw    bool
}

// NewCellSurface creates a cell surface of the given size.
func NewCellSurface(width, height int) *CellSurface {
	s := &CellSurface{
		width:      max(width, 0),
		height:     max(height, 0),
		fullRedraw: true,
	}
	s.allocate()
	return s
}

func (s *CellSurface) allocate() {
	s.front = make([][]Cell, s.height)
	s.back = make([][]Cell, s.height)
	s.dirty = make([][]bool, s.height)

	blank := blankCell(core.ColorBlack)
	for y := 0; y < s.height; y++ {
		s.front[y] = make([]Cell, s.width)
		s.back[y] = make([]Cell, s.width)
		s.dirty[y] = make([]bool, s.width)
		for x := 0; x < s.width; x++ {
			s.front[y][x] = blank
			s.back[y][x] = blank
		}
	}
}

// Resize resizes the surface, preserving content where possible.
func (s *CellSurface) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	oldBack := s.back
	copyWidth := min(s.width, width)
	copyHeight := min(s.height, height)

	s.width, s.height = width, height
	s.allocate()
	for y := 0; y < copyHeight; y++ {
		copy(s.back[y][:copyWidth], oldBack[y][:copyWidth])
	}
	s.fullRedraw = true
}

// Size returns the surface dimensions in cells.
func (s *CellSurface) Size() (int, int) {
	return s.width, s.height
}

// At returns the cell at (x, y).
func (s *CellSurface) At(x, y int) Cell {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return blankCell(core.ColorBlack)
	}
	return s.back[y][x]
}

func (s *CellSurface) set(x, y int, c Cell) {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return
	}
	s.back[y][x] = c
	s.dirty[y][x] = true
}

func (s *CellSurface) bounds() core.Rect {
	return core.NewRect(0, 0, s.width, s.height)
}

// Fill paints a rectangle with blank cells of color c.
func (s *CellSurface) Fill(rect core.Rect, c core.Color) {
	r := rect.Intersect(s.bounds())
	blank := blankCell(c)
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			s.back[y][x] = blank
			s.dirty[y][x] = true
		}
	}
}

// Copy copies cells from another CellSurface. Other surface types are ignored.
func (s *CellSurface) Copy(src Surface, srcRect core.Rect, dst core.Point) {
	from, ok := src.(*CellSurface)
	if !ok {
		return
	}
	r := srcRect.Intersect(from.bounds())
	dx, dy := dst.X+(r.X-srcRect.X), dst.Y+(r.Y-srcRect.Y)
	for y := 0; y < r.H; y++ {
		ty := dy + y
		if ty < 0 || ty >= s.height {
			continue
		}
		for x := 0; x < r.W; x++ {
			s.set(dx+x, ty, from.back[r.Y+y][r.X+x])
		}
	}
}

// DrawGlyph writes r at (x, y). Wide runes also claim the next cell.
func (s *CellSurface) DrawGlyph(x, y int, r rune, fg, bg core.Color) int {
	if r == 0 {
		s.set(x, y, blankCell(bg))
		return 1
	}
	w := runewidth.RuneWidth(r)
	if w < 1 {
		w = 1
	}
	s.set(x, y, Cell{Rune: r, Width: w, Fg: fg, Bg: bg})
	if w == 2 {
		s.set(x+1, y, Cell{Width: 0, Fg: fg, Bg: bg})
	}
	return w
}

// DrawText writes text starting at (x, y). Without opaque, each cell keeps
// its current background.
func (s *CellSurface) DrawText(x, y int, text string, fg, bg core.Color, opaque bool) int {
	col := x
	for _, r := range text {
		if col >= s.width {
			break
		}
		cellBg := bg
		if !opaque {
			cellBg = s.At(col, y).Bg
		}
		col += s.DrawGlyph(col, y, r, fg, cellBg)
	}
	return col - x
}

// CellChange is a cell that differs from what was last synchronized.
type CellChange struct {
	X, Y int
	Cell Cell
}

// Changes returns the cells that must be written to the display.
func (s *CellSurface) Changes() []CellChange {
	var changes []CellChange
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			if s.fullRedraw || (s.dirty[y][x] && !s.back[y][x].Equals(s.front[y][x])) {
				changes = append(changes, CellChange{X: x, Y: y, Cell: s.back[y][x]})
			}
		}
	}
	return changes
}

// Sync records the current content as displayed.
func (s *CellSurface) Sync() {
	for y := 0; y < s.height; y++ {
		copy(s.front[y], s.back[y])
		clear(s.dirty[y])
	}
	s.fullRedraw = false
}

// MarkFullRedraw forces every cell into the next Changes.
func (s *CellSurface) MarkFullRedraw() {
	s.fullRedraw = true
}

// CellFont is the one-cell font of cell surfaces.
type CellFont struct{}

// CellSize returns 1×1.
func (CellFont) CellSize() (int, int) { return 1, 1 }
