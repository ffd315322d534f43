package renderer

import (
	"github.com/dshills/nwin/internal/renderer/atlas"
	"github.com/dshills/nwin/internal/renderer/backend"
)

// Surface is the rendering state owned by one grid: its OS window, a
// persistent back-buffer, a scratch buffer for scroll copies and the
// glyph atlas. Buffers are replaced together when the window or the grid
// is resized.
type Surface struct {
	grid   int
	window backend.Window

	back    backend.Surface
	scratch backend.Surface
	atlas   *atlas.Atlas

	winW, winH int
	cols, rows int
	offX, offY int

	// last grid size seen, to tell editor resizes from window resizes
	gridW, gridH int

	frames int
}

// Grid returns the grid id.
func (s *Surface) Grid() int { return s.grid }

// Back returns the back-buffer.
func (s *Surface) Back() backend.Surface { return s.back }

// Atlas returns the glyph cache.
func (s *Surface) Atlas() *atlas.Atlas { return s.atlas }

// Cells returns the back-buffer size in cells.
func (s *Surface) Cells() (cols, rows int) { return s.cols, s.rows }

// Offset returns the position of the grid inside its window.
func (s *Surface) Offset() (x, y int) { return s.offX, s.offY }

// Frames returns the number of frames presented.
func (s *Surface) Frames() int { return s.frames }
