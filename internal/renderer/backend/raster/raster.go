// Package raster implements the backend on in-memory RGBA images.
//
// Windows are not shown on screen. Events are injected with Post and
// Resize, and presented frames are counted and can be written out as PNG
// snapshots, which makes the backend suitable for headless runs and tests.
package raster

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dshills/nwin/internal/renderer/backend"
	"github.com/dshills/nwin/internal/renderer/core"
)

// Raster implements backend.Backend.
type Raster struct {
	font        *Font
	snapshotDir string

	mu      sync.Mutex
	nextID  backend.WindowID
	windows map[backend.WindowID]*Window
	events  chan backend.Event
}

// Option configures a Raster backend.
type Option func(*Raster)

// WithFont sets the glyph font. The default is DefaultFont.
func WithFont(f *Font) Option {
	return func(r *Raster) { r.font = f }
}

// WithSnapshots writes every presented frame to dir as
// <window-id>-<frame>.png.
func WithSnapshots(dir string) Option {
	return func(r *Raster) { r.snapshotDir = dir }
}

// New creates a raster backend.
func New(opts ...Option) *Raster {
	r := &Raster{
		font:    DefaultFont(),
		nextID:  1,
		windows: make(map[backend.WindowID]*Window),
		events:  make(chan backend.Event, 256),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MultiWindow returns true.
func (r *Raster) MultiWindow() bool { return true }

// Font returns the glyph font.
func (r *Raster) Font() backend.Font { return r.font }

// NewSurface creates an off-screen surface.
func (r *Raster) NewSurface(width, height int) (backend.Surface, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("surface size %dx%d: invalid", width, height)
	}
	return newSurface(r.font, width, height), nil
}

// CreateWindow creates an in-memory window.
func (r *Raster) CreateWindow(title string, width, height int) (backend.Window, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("window %q size %dx%d: invalid", title, width, height)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	w := &Window{
		raster:  r,
		id:      r.nextID,
		title:   title,
		surface: newSurface(r.font, width, height),
	}
	r.nextID++
	r.windows[w.id] = w
	return w, nil
}

// Window returns the open window with id.
func (r *Raster) Window(id backend.WindowID) (*Window, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.windows[id]
	return w, ok
}

// WindowByTitle returns the open window with title.
func (r *Raster) WindowByTitle(title string) (*Window, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.windows {
		if w.title == title {
			return w, true
		}
	}
	return nil, false
}

// Windows returns the number of open windows.
func (r *Raster) Windows() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.windows)
}

// Post queues an event. Events are dropped when the queue is full.
func (r *Raster) Post(ev backend.Event) {
	select {
	case r.events <- ev:
	default:
	}
}

// Resize changes a window's size, keeping the overlapping pixels, and
// queues a resize event.
func (r *Raster) Resize(id backend.WindowID, width, height int) {
	w, ok := r.Window(id)
	if !ok {
		return
	}
	w.mu.Lock()
	old := w.surface
	next := newSurface(r.font, width, height)
	ow, oh := old.Size()
	next.Copy(old, core.NewRect(0, 0, ow, oh), core.Point{})
	w.surface = next
	w.mu.Unlock()

	r.Post(backend.Event{Type: backend.EventWindowResized, Window: id, Width: width, Height: height})
}

// WaitEvent waits up to timeout for a posted event.
func (r *Raster) WaitEvent(timeout time.Duration) (backend.Event, bool) {
	select {
	case ev := <-r.events:
		return ev, true
	default:
	}
	timer := time.NewTimer(max(timeout, 0))
	defer timer.Stop()
	select {
	case ev := <-r.events:
		return ev, true
	case <-timer.C:
		return backend.Event{}, false
	}
}

// Shutdown closes every window.
func (r *Raster) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.windows)
}

// Window is an in-memory window.
type Window struct {
	raster *Raster
	id     backend.WindowID
	title  string

	mu      sync.Mutex
	surface *Surface
	frames  int
	closed  bool
}

func (w *Window) ID() backend.WindowID { return w.id }
func (w *Window) Title() string        { return w.title }

// Size returns the window size in pixels.
func (w *Window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.surface.Size()
}

// Surface returns the visible surface.
func (w *Window) Surface() backend.Surface {
	return w.Pixels()
}

// Pixels returns the visible surface as a raster surface.
func (w *Window) Pixels() *Surface {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.surface
}

// Frames returns the number of presented frames.
func (w *Window) Frames() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.frames
}

// Closed reports whether Close was called.
func (w *Window) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.closed
}

// Present counts the frame and writes a snapshot when enabled.
func (w *Window) Present() error {
	w.mu.Lock()
	w.frames++
	frame, img := w.frames, w.surface.img
	w.mu.Unlock()

	dir := w.raster.snapshotDir
	if dir == "" {
		return nil
	}
	path := filepath.Join(dir, fmt.Sprintf("%d-%06d.png", w.id, frame))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("snapshot %s: %w", path, err)
	}
	return f.Close()
}

// Close removes the window from the backend.
func (w *Window) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	w.raster.mu.Lock()
	delete(w.raster.windows, w.id)
	w.raster.mu.Unlock()
}
