package renderer

import (
	"fmt"
	"strings"

	"github.com/dshills/nwin/internal/engine/grid"
	"github.com/dshills/nwin/internal/renderer/atlas"
	"github.com/dshills/nwin/internal/renderer/backend"
	"github.com/dshills/nwin/internal/renderer/core"
)

// GridResizer receives grid size requests when a window changes size.
type GridResizer interface {
	ResizeGrid(grid, cols, rows int) error
}

// Logger is the logging surface the compositor needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Options configures the compositor.
type Options struct {
	// Title names the OS window of a grid.
	Title func(grid int) string

	// SkipGrids lists grids that never get a window, such as the
	// global grid when windows are external.
	SkipGrids []int

	// AtlasCapacity is the initial atlas strip width in cells.
	AtlasCapacity int
}

// Compositor replays grid damage onto per-grid back-buffers and presents
// them with the cursor, command-line and message overlays.
type Compositor struct {
	backend backend.Backend
	store   *grid.Store
	resizer GridResizer
	log     Logger
	opts    Options

	cellW, cellH int
	surfaces     map[int]*Surface
	skip         map[int]bool
}

// New creates a compositor drawing store's grids through b.
func New(b backend.Backend, store *grid.Store, resizer GridResizer, log Logger, opts Options) *Compositor {
	if opts.Title == nil {
		opts.Title = func(id int) string { return fmt.Sprintf("grid %d", id) }
	}
	cw, ch := b.Font().CellSize()
	c := &Compositor{
		backend:  b,
		store:    store,
		resizer:  resizer,
		log:      log,
		opts:     opts,
		cellW:    cw,
		cellH:    ch,
		surfaces: make(map[int]*Surface),
		skip:     make(map[int]bool),
	}
	for _, id := range opts.SkipGrids {
		c.skip[id] = true
	}
	return c
}

// CellSize returns the size of one grid cell in surface units.
func (c *Compositor) CellSize() (int, int) {
	return c.cellW, c.cellH
}

// Surface returns the rendering state of a grid.
func (c *Compositor) Surface(gridID int) (*Surface, bool) {
	s, ok := c.surfaces[gridID]
	return s, ok
}

// Window returns the OS window of a grid.
func (c *Compositor) Window(gridID int) (backend.Window, bool) {
	s, ok := c.surfaces[gridID]
	if !ok {
		return nil, false
	}
	return s.window, true
}

// GridForWindow returns the grid shown in an OS window.
func (c *Compositor) GridForWindow(id backend.WindowID) (int, bool) {
	for gid, s := range c.surfaces {
		if s.window.ID() == id {
			return gid, true
		}
	}
	return 0, false
}

// Frame composites every grid that needs it and presents it. Damage
// queues are empty afterwards. It returns the grids that were destroyed;
// their windows are already closed.
func (c *Compositor) Frame() (destroyed []int, err error) {
	for _, id := range c.store.IDs() {
		g, _ := c.store.Grid(id)
		gone := g.Destroyed()

		if err := c.composite(g); err != nil {
			return destroyed, err
		}
		g.ClearDamage()

		if gone {
			c.teardown(id)
			destroyed = append(destroyed, id)
		}
	}
	c.store.ClearOverlayDirty()
	return destroyed, nil
}

func (c *Compositor) composite(g *grid.Grid) error {
	id := g.ID()
	if c.skip[id] || g.Destroyed() {
		return nil
	}

	s, ok := c.surfaces[id]
	if !ok {
		if len(g.Damage()) == 0 {
			return nil
		}
		var err error
		if s, err = c.open(g); err != nil {
			return err
		}
	}

	winW, winH := s.window.Size()
	resized := winW != s.winW || winH != s.winH
	gw, gh := g.Size()
	regrid := (gw != s.gridW || gh != s.gridH) && (gw != s.cols || gh != s.rows)
	s.gridW, s.gridH = gw, gh
	if len(g.Damage()) == 0 && !resized && !regrid && !c.store.OverlayDirty(id) {
		return nil
	}

	switch {
	case resized:
		if err := c.reallocate(s, winW, winH); err != nil {
			return err
		}
		c.replay(s, g)
	case regrid:
		// The grid holds the final state of every cell, so queued
		// damage (scrolls included) is superseded by a full redraw.
		if err := c.regrid(s, gw, gh); err != nil {
			return err
		}
		c.redraw(s, g)
	default:
		c.replay(s, g)
	}
	c.blit(s)
	if cur, ok := c.store.CursorGrid(); ok && cur == id {
		c.drawOverlays(s, g)
	}
	if err := s.window.Present(); err != nil {
		return fmt.Errorf("present grid %d: %w", id, err)
	}
	s.frames++
	return nil
}

// open creates the window and buffers of a grid sized to its cells.
func (c *Compositor) open(g *grid.Grid) (*Surface, error) {
	cols, rows := g.Size()
	w, h := max(cols, 1)*c.cellW, max(rows, 1)*c.cellH

	win, err := c.backend.CreateWindow(c.opts.Title(g.ID()), w, h)
	if err != nil {
		return nil, fmt.Errorf("create window for grid %d: %w", g.ID(), err)
	}
	s := &Surface{grid: g.ID(), window: win, gridW: cols, gridH: rows}
	winW, winH := win.Size()
	if err := c.allocate(s, cols, rows, winW, winH); err != nil {
		win.Close()
		return nil, err
	}
	c.surfaces[g.ID()] = s
	c.log.Debug("opened window %q %dx%d for grid %d", win.Title(), winW, winH, g.ID())
	return s, nil
}

// allocate (re)creates the back-buffer, scratch buffer and atlas for a
// cols×rows grid shown in a winW×winH window.
func (c *Compositor) allocate(s *Surface, cols, rows, winW, winH int) error {
	back, err := c.backend.NewSurface(cols*c.cellW, rows*c.cellH)
	if err != nil {
		return fmt.Errorf("back-buffer for grid %d: %w", s.grid, err)
	}
	scratch, err := c.backend.NewSurface(cols*c.cellW, rows*c.cellH)
	if err != nil {
		return fmt.Errorf("scratch buffer for grid %d: %w", s.grid, err)
	}
	gl, err := atlas.New(c.backend, c.store.Highlights(), c.opts.AtlasCapacity)
	if err != nil {
		return fmt.Errorf("atlas for grid %d: %w", s.grid, err)
	}
	back.Fill(core.NewRect(0, 0, cols*c.cellW, rows*c.cellH), c.store.Highlights().DefaultBackground())

	s.back, s.scratch, s.atlas = back, scratch, gl
	s.cols, s.rows = cols, rows
	s.winW, s.winH = winW, winH
	s.offX = max(0, (winW-cols*c.cellW)/2)
	s.offY = max(0, (winH-rows*c.cellH)/2)
	return nil
}

// reallocate follows a window size change: the editor is asked for a grid
// of the new size and the overlapping pixels are carried over.
func (c *Compositor) reallocate(s *Surface, winW, winH int) error {
	cols, rows := max(winW/c.cellW, 1), max(winH/c.cellH, 1)
	if cols != s.cols || rows != s.rows {
		if c.resizer != nil {
			if err := c.resizer.ResizeGrid(s.grid, cols, rows); err != nil {
				return fmt.Errorf("resize grid %d: %w", s.grid, err)
			}
		}
	}

	old := s.back
	oldW, oldH := min(s.cols, cols)*c.cellW, min(s.rows, rows)*c.cellH
	if err := c.allocate(s, cols, rows, winW, winH); err != nil {
		return err
	}
	s.back.Copy(old, core.NewRect(0, 0, oldW, oldH), core.Point{})
	c.log.Debug("grid %d window resized to %dx%d (%dx%d cells)", s.grid, winW, winH, cols, rows)
	return nil
}

// regrid follows an editor-side grid resize that the window did not ask
// for. The back-buffer takes the grid's size; the window keeps its own.
func (c *Compositor) regrid(s *Surface, cols, rows int) error {
	if err := c.allocate(s, cols, rows, s.winW, s.winH); err != nil {
		return err
	}
	c.log.Debug("grid %d resized by the editor to %dx%d cells", s.grid, cols, rows)
	return nil
}

// redraw rasterizes every cell of the grid into the back-buffer.
func (c *Compositor) redraw(s *Surface, g *grid.Grid) {
	gw, gh := g.Size()
	for row := 0; row < min(gh, s.rows); row++ {
		for col := 0; col < min(gw, s.cols); col++ {
			c.drawCell(s, g, row, col)
		}
	}
}

// replay applies the grid's damage queue to the back-buffer in order.
func (c *Compositor) replay(s *Surface, g *grid.Grid) {
	gw, gh := g.Size()
	cols, rows := min(gw, s.cols), min(gh, s.rows)

	for _, d := range g.Damage() {
		switch d := d.(type) {
		case grid.Cell:
			for row := max(d.Row, 0); row < min(d.Row+d.Height, rows); row++ {
				for col := max(d.Col, 0); col < min(d.Col+d.Width, cols); col++ {
					c.drawCell(s, g, row, col)
				}
			}
		case grid.VerticalScroll:
			height := min(d.Height, s.rows-d.From, s.rows-d.To)
			if height <= 0 {
				continue
			}
			w, h := s.cols*c.cellW, s.rows*c.cellH
			s.scratch.Copy(s.back, core.NewRect(0, 0, w, h), core.Point{})
			s.back.Copy(s.scratch,
				core.NewRect(0, d.From*c.cellH, w, height*c.cellH),
				core.Point{X: 0, Y: d.To * c.cellH})
		case grid.Destroy:
			// handled by Frame after compositing
		}
	}
}

func (c *Compositor) drawCell(s *Surface, g *grid.Grid, row, col int) {
	r, hl := g.Cell(row, col)
	e, err := s.atlas.Lookup(hl, r)
	if err != nil {
		c.log.Warn("grid %d: glyph %q: %v", s.grid, r, err)
		return
	}
	s.back.Copy(s.atlas.Strip(), s.atlas.Rect(e), core.Point{X: col * c.cellW, Y: row * c.cellH})
}

// blit copies the back-buffer onto the window at the grid offset and
// paints the margins in the default background.
func (c *Compositor) blit(s *Surface) {
	dst := s.window.Surface()
	bg := c.store.Highlights().DefaultBackground()
	dw, dh := dst.Size()
	bw, bh := s.cols*c.cellW, s.rows*c.cellH

	dst.Fill(core.NewRect(0, 0, dw, s.offY), bg)
	dst.Fill(core.NewRect(0, s.offY+bh, dw, max(0, dh-s.offY-bh)), bg)
	dst.Fill(core.NewRect(0, s.offY, s.offX, bh), bg)
	dst.Fill(core.NewRect(s.offX+bw, s.offY, max(0, dw-s.offX-bw), bh), bg)
	dst.Copy(s.back, core.NewRect(0, 0, bw, bh), core.Point{X: s.offX, Y: s.offY})
}

// drawOverlays draws the command line or the block cursor, then the
// message stack, on the window surface of the cursor grid.
func (c *Compositor) drawOverlays(s *Surface, g *grid.Grid) {
	dst := s.window.Surface()
	hl := c.store.Highlights()
	fg, bg := hl.DefaultForeground(), hl.DefaultBackground()
	width := s.cols * c.cellW

	line := 0
	if cmd, ok := c.store.Cmdline(); ok {
		dst.Fill(core.NewRect(s.offX, s.offY, width, c.cellH), bg)
		dst.DrawText(s.offX, s.offY, cmd.Text(), fg, bg, true)
		line = 1
	} else if c.store.CursorState() == grid.CursorVisible {
		gw, gh := g.Size()
		if gw > 0 && gh > 0 {
			row, col := g.Cursor()
			if row < s.rows && col < s.cols {
				_, cellHL := g.Cell(row, col)
				dst.Fill(core.NewRect(s.offX+col*c.cellW, s.offY+row*c.cellH, c.cellW, c.cellH), hl.Foreground(cellHL))
			}
		}
	}

	// messages sit on the last visible rows, newest at the bottom
	visible := min(s.rows, (s.winH-s.offY)/c.cellH)
	lines := messageLines(c.store.Messages())
	if room := visible - line; len(lines) > room {
		lines = lines[len(lines)-max(room, 0):]
	}
	line = max(line, visible-len(lines))
	for _, segs := range lines {
		x := s.offX
		for _, seg := range segs {
			cfg, cbg := hl.Resolve(seg.hl)
			x += dst.DrawText(x, s.offY+line*c.cellH, seg.text, cfg, cbg, true)
		}
		line++
	}
}

type segment struct {
	hl   int
	text string
}

// messageLines splits the message stack into screen lines. Each message
// starts a new line and newlines inside chunks break lines.
func messageLines(msgs []grid.Message) [][]segment {
	var lines [][]segment
	for _, m := range msgs {
		cur := []segment{}
		for _, chunk := range m.Chunks {
			for i, part := range strings.Split(chunk.Text, "\n") {
				if i > 0 {
					lines = append(lines, cur)
					cur = []segment{}
				}
				cur = append(cur, segment{hl: chunk.HL, text: part})
			}
		}
		lines = append(lines, cur)
	}
	return lines
}

func (c *Compositor) teardown(id int) {
	s, ok := c.surfaces[id]
	if !ok {
		return
	}
	s.window.Close()
	delete(c.surfaces, id)
	c.log.Debug("closed window of grid %d", id)
}

// Close closes every window.
func (c *Compositor) Close() {
	for id := range c.surfaces {
		c.teardown(id)
	}
}
