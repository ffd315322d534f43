// Package backend defines the windowing and drawing contracts the
// compositor renders through.
//
// A backend owns OS windows, off-screen surfaces, the font and the input
// event source. Coordinates are in surface units: pixels for the raster
// backend, terminal cells for the terminal backend.
package backend

import (
	"time"

	"github.com/dshills/nwin/internal/input/key"
	"github.com/dshills/nwin/internal/renderer/core"
)

// WindowID identifies an OS window created by a backend.
type WindowID uint32

// EventType identifies the type of backend event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventKeyDown
	EventTextInput
	EventWindowResized
	EventWindowFocus
	EventWindowClose
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventQuit:
		return "quit"
	case EventKeyDown:
		return "keydown"
	case EventTextInput:
		return "textinput"
	case EventWindowResized:
		return "resized"
	case EventWindowFocus:
		return "focus"
	case EventWindowClose:
		return "close"
	default:
		return "none"
	}
}

// Event is an input or window event.
type Event struct {
	Type   EventType
	Window WindowID

	// Key-down fields
	Key key.Key
	Mod key.Mod

	// Composed text
	Text string

	// Resize fields, in surface units
	Width, Height int
}

// Font describes the fixed cell geometry of the backend's font.
type Font interface {
	// CellSize returns the advance width and line height of one cell.
	CellSize() (width, height int)
}

// Surface is a 2-D drawing target.
type Surface interface {
	// Size returns the surface dimensions.
	Size() (width, height int)

	// Fill paints rect with c. The rect is clipped to the surface.
	Fill(rect core.Rect, c core.Color)

	// Copy copies srcRect of src to dst on this surface. src must come
	// from the same backend; it may be the receiver only if the regions
	// do not overlap.
	Copy(src Surface, srcRect core.Rect, dst core.Point)

	// DrawGlyph fills a background box and draws r over it at (x, y).
	// It returns the width drawn; a blank rune draws one empty cell.
	DrawGlyph(x, y int, r rune, fg, bg core.Color) int

	// DrawText draws text starting at (x, y). When opaque is set the
	// background is painted with bg, otherwise it is left as is.
	// It returns the width drawn.
	DrawText(x, y int, text string, fg, bg core.Color, opaque bool) int
}

// Window is an OS window with a visible surface.
type Window interface {
	// ID returns the window id used in events.
	ID() WindowID

	// Title returns the window title.
	Title() string

	// Size returns the current size of the window's drawable area.
	Size() (width, height int)

	// Surface returns the visible surface, sized to the window.
	Surface() Surface

	// Present shows what was drawn on the surface.
	Present() error

	// Close destroys the window.
	Close()
}

// Backend creates windows and surfaces and delivers input.
type Backend interface {
	// CreateWindow opens a window of the given size.
	CreateWindow(title string, width, height int) (Window, error)

	// MultiWindow reports whether more than one window can be shown.
	MultiWindow() bool

	// Font returns the font used for glyphs.
	Font() Font

	// NewSurface creates an off-screen surface.
	NewSurface(width, height int) (Surface, error)

	// WaitEvent waits up to timeout for the next event.
	WaitEvent(timeout time.Duration) (Event, bool)

	// Shutdown releases backend resources.
	Shutdown()
}
