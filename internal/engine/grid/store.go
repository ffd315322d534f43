package grid

import (
	"fmt"
	"slices"
	"time"

	"github.com/dshills/nwin/internal/engine/highlight"
	"github.com/dshills/nwin/internal/renderer/core"
)

// LineCell is one run of a line instruction. HL is only meaningful when
// HasHL is set; otherwise the previous run's highlight carries forward.
type LineCell struct {
	Char   rune
	HL     int
	HasHL  bool
	Repeat int
}

// Store owns every grid, the highlight table and the overlay state.
// It is mutated only by the frame loop and is not safe for concurrent use.
type Store struct {
	grids map[int]*Grid
	hl    *highlight.Table

	cursorGrid int
	hasCursor  bool

	overlay overlayState
	now     func() time.Time
}

// NewStore creates an empty store backed by hl.
func NewStore(hl *highlight.Table) *Store {
	return &Store{
		grids: make(map[int]*Grid),
		hl:    hl,
		now:   time.Now,
		overlay: overlayState{
			dirty: make(map[int]bool),
		},
	}
}

// SetClock replaces the time source used for message expiry.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Highlights returns the highlight table.
func (s *Store) Highlights() *highlight.Table {
	return s.hl
}

// Grid returns the grid with id.
func (s *Store) Grid(id int) (*Grid, bool) {
	g, ok := s.grids[id]
	return g, ok
}

// IDs returns the ids of all grids in ascending order.
func (s *Store) IDs() []int {
	ids := make([]int, 0, len(s.grids))
	for id := range s.grids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// CursorGrid returns the grid that currently owns the cursor.
func (s *Store) CursorGrid() (int, bool) {
	return s.cursorGrid, s.hasCursor
}

func (s *Store) lookup(op string, id int) (*Grid, error) {
	g, ok := s.grids[id]
	if !ok {
		return nil, fmt.Errorf("%s grid %d: %w", op, id, ErrUnknownGrid)
	}
	return g, nil
}

// Resize creates the grid if needed and resizes it, rows first and then
// columns. Newly exposed rows and columns are damaged.
func (s *Store) Resize(id, width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g, ok := s.grids[id]
	if !ok {
		g = newGrid(id)
		s.grids[id] = g
	}
	g.resize(width, height)
}

// Clear blanks every cell without damaging anything; the editor follows
// a clear with lines covering the whole grid.
func (s *Store) Clear(id int) error {
	g, err := s.lookup("clear", id)
	if err != nil {
		return err
	}
	g.clear()
	return nil
}

// CursorGoto moves the grid's cursor, damaging the cell it leaves, and
// makes the grid the cursor owner.
func (s *Store) CursorGoto(id, row, col int) error {
	g, err := s.lookup("cursor_goto", id)
	if err != nil {
		return err
	}
	oldRow, oldCol := g.Cursor()
	g.push(Cell{Row: oldRow, Col: oldCol, Width: 1, Height: 1})
	g.cursorRow, g.cursorCol = row, col

	if s.hasCursor && s.cursorGrid != id {
		s.overlay.dirty[s.cursorGrid] = true
	}
	s.cursorGrid, s.hasCursor = id, true
	s.overlay.moved = true
	return nil
}

// Line writes cells into row starting at colStart and damages the whole
// written span. Writes past the right edge are dropped.
func (s *Store) Line(id, row, colStart int, cells []LineCell) error {
	g, err := s.lookup("line", id)
	if err != nil {
		return err
	}
	if row < 0 || row >= g.height {
		return fmt.Errorf("line grid %d row %d: %w", id, row, ErrRowOutOfRange)
	}
	chars, hls := g.chars[row], g.hl[row]

	col, hl, written := colStart, 0, 0
	for _, c := range cells {
		if c.HasHL {
			hl = c.HL
		}
		repeat := c.Repeat
		if repeat < 1 {
			repeat = 1
		}
		for i := 0; i < repeat; i++ {
			if col >= 0 && col < g.width {
				chars[col] = c.Char
				hls[col] = hl
			}
			col++
		}
		written += repeat
	}
	g.push(Cell{Row: row, Col: colStart, Width: written, Height: 1})
	return nil
}

// Scroll moves the region [top, bot) × [left, right) by rows. Rows that
// are vacated keep their stale content until the editor rewrites them.
// A non-zero cols panics with ErrColumnScroll.
func (s *Store) Scroll(id, top, bot, left, right, rows, cols int) error {
	if cols != 0 {
		panic(ErrColumnScroll)
	}
	g, err := s.lookup("scroll", id)
	if err != nil {
		return err
	}
	top = max(top, 0)
	bot = min(bot, g.height)
	left = max(left, 0)
	right = min(right, g.width)
	if top >= bot || left >= right {
		return nil
	}

	switch {
	case rows > 0:
		end := min(bot, g.height-rows)
		moved := 0
		for y := top; y < end; y++ {
			g.copyRow(y, y+rows, left, right)
			moved++
		}
		g.push(VerticalScroll{From: top + rows, To: top, Height: moved})
	case rows < 0:
		n := -rows
		moved := 0
		for y := bot - 1; y >= top && y-n >= 0; y-- {
			g.copyRow(y, y-n, left, right)
			moved++
		}
		// Rows copied from above top are not part of the rendered band.
		g.push(VerticalScroll{From: top, To: top + n, Height: max(0, min(moved, bot-top-n))})
	}
	return nil
}

// HlDefine merges attrs into highlight id and returns the keys that were
// not understood.
func (s *Store) HlDefine(id int, attrs map[string]any) []string {
	return s.hl.Define(id, attrs)
}

// DefaultColorsSet updates the default colors and damages every grid's
// full extent once.
func (s *Store) DefaultColorsSet(fg, bg, sp *core.Color) {
	s.hl.SetDefaultColors(fg, bg, sp)
	for _, g := range s.grids {
		g.push(g.fullExtent())
	}
}

// Destroy queues a Destroy record. The grid stays in the store until
// Remove is called after the frame that drains it.
func (s *Store) Destroy(id int) error {
	g, err := s.lookup("destroy", id)
	if err != nil {
		return err
	}
	g.push(Destroy{})
	return nil
}

// Remove deletes the grid from the store.
func (s *Store) Remove(id int) {
	delete(s.grids, id)
	delete(s.overlay.dirty, id)
	if s.hasCursor && s.cursorGrid == id {
		s.hasCursor = false
	}
}

// SetWindow associates an editor window with a grid.
func (s *Store) SetWindow(id, window int) error {
	g, err := s.lookup("win_pos", id)
	if err != nil {
		return err
	}
	g.window = window
	return nil
}

// GridForWindow returns the grid that shows the editor window.
func (s *Store) GridForWindow(window int) (int, bool) {
	for id, g := range s.grids {
		if g.window == window && window != 0 {
			return id, true
		}
	}
	return 0, false
}
