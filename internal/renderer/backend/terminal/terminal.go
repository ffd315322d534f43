// Package terminal implements the backend on a terminal screen using
// tcell. The terminal is one window whose surface unit is a cell.
package terminal

import (
	"errors"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/nwin/internal/input/key"
	"github.com/dshills/nwin/internal/renderer/backend"
	"github.com/dshills/nwin/internal/renderer/core"
)

// ErrSingleWindow is returned when a second window is requested.
var ErrSingleWindow = errors.New("terminal backend supports a single window")

const windowID backend.WindowID = 1

// Terminal implements backend.Backend using tcell for terminal output.
type Terminal struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}

	mu      sync.Mutex
	window  *window
	pending []backend.Event
}

// New creates and initializes a terminal backend.
func New() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen)
}

// NewWithScreen initializes a backend on an existing screen, such as a
// tcell simulation screen.
func NewWithScreen(screen tcell.Screen) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableFocus()
	screen.HideCursor()

	t := &Terminal{
		screen: screen,
		events: make(chan tcell.Event, 64),
		quit:   make(chan struct{}),
	}
	go t.pump()
	return t, nil
}

// pump forwards tcell's blocking event source to a channel so WaitEvent
// can honor a timeout.
func (t *Terminal) pump() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		case <-t.quit:
			return
		}
	}
}

// Shutdown restores the terminal.
func (t *Terminal) Shutdown() {
	close(t.quit)
	t.screen.Fini()
}

// ScreenSize returns the terminal size in cells.
func (t *Terminal) ScreenSize() (width, height int) {
	return t.screen.Size()
}

// MultiWindow returns false: the terminal is a single window.
func (t *Terminal) MultiWindow() bool { return false }

// Font returns the 1×1 cell font.
func (t *Terminal) Font() backend.Font { return backend.CellFont{} }

// NewSurface creates an off-screen cell surface.
func (t *Terminal) NewSurface(width, height int) (backend.Surface, error) {
	return backend.NewCellSurface(width, height), nil
}

// CreateWindow returns the terminal window. The requested size is
// ignored: the window always covers the screen.
func (t *Terminal) CreateWindow(title string, _, _ int) (backend.Window, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.window != nil {
		return nil, ErrSingleWindow
	}
	w, h := t.screen.Size()
	t.window = &window{
		term:    t,
		title:   title,
		surface: backend.NewCellSurface(w, h),
	}
	t.screen.SetTitle(title)
	return t.window, nil
}

// WaitEvent waits up to timeout for the next event.
func (t *Terminal) WaitEvent(timeout time.Duration) (backend.Event, bool) {
	if ev, ok := t.popPending(); ok {
		return ev, true
	}

	timer := time.NewTimer(max(timeout, 0))
	defer timer.Stop()
	for {
		select {
		case tev := <-t.events:
			t.convert(tev)
			if ev, ok := t.popPending(); ok {
				return ev, true
			}
		case <-timer.C:
			return backend.Event{}, false
		}
	}
}

func (t *Terminal) popPending() (backend.Event, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.pending) == 0 {
		return backend.Event{}, false
	}
	ev := t.pending[0]
	t.pending = t.pending[1:]
	return ev, true
}

func (t *Terminal) push(evs ...backend.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.pending = append(t.pending, evs...)
}

// convert translates a tcell event into backend events the way a
// desktop toolkit reports them: a key-down, followed by composed text
// for printable keys typed without Ctrl or Alt.
func (t *Terminal) convert(ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		t.push(convertKey(e)...)

	case *tcell.EventResize:
		w, h := e.Size()
		t.mu.Lock()
		win := t.window
		t.mu.Unlock()
		if win == nil {
			return
		}
		win.surface.Resize(w, h)
		t.push(backend.Event{Type: backend.EventWindowResized, Window: windowID, Width: w, Height: h})

	case *tcell.EventFocus:
		if e.Focused {
			t.push(backend.Event{Type: backend.EventWindowFocus, Window: windowID})
		}
	}
}

func convertKey(e *tcell.EventKey) []backend.Event {
	mod := convertMod(e.Modifiers())

	if e.Key() == tcell.KeyRune {
		r := e.Rune()
		k, ok := key.FromRune(r)
		var evs []backend.Event
		if ok {
			m := mod
			if r >= 'A' && r <= 'Z' {
				m = m.With(key.ModLShift)
			}
			evs = append(evs, backend.Event{Type: backend.EventKeyDown, Window: windowID, Key: k, Mod: m})
		}
		if !mod.Ctrl() && !mod.Alt() {
			evs = append(evs, backend.Event{Type: backend.EventTextInput, Window: windowID, Text: string(r)})
		}
		return evs
	}

	if k, ok := specialKeys[e.Key()]; ok {
		return []backend.Event{{Type: backend.EventKeyDown, Window: windowID, Key: k, Mod: mod}}
	}

	switch k := e.Key(); {
	case k == tcell.KeyBacktab:
		return []backend.Event{{Type: backend.EventKeyDown, Window: windowID, Key: key.KeyTab, Mod: mod.With(key.ModLShift)}}
	case k == tcell.KeyCtrlSpace:
		return []backend.Event{{Type: backend.EventKeyDown, Window: windowID, Key: key.KeySpace, Mod: mod.With(key.ModLCtrl)}}
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		letter := key.KeyA + key.Key(k-tcell.KeyCtrlA)
		return []backend.Event{{Type: backend.EventKeyDown, Window: windowID, Key: letter, Mod: mod.With(key.ModLCtrl)}}
	}
	return nil
}

// specialKeys maps tcell's named keys. Tab, Enter, Backspace and Escape
// share codes with Ctrl+I, Ctrl+M, Ctrl+H and Ctrl+[ and win over them.
var specialKeys = map[tcell.Key]key.Key{
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyEnter:      key.KeyReturn,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
	tcell.KeyHelp:       key.KeyHelp,
	tcell.KeyF1:         key.KeyF1,
	tcell.KeyF2:         key.KeyF2,
	tcell.KeyF3:         key.KeyF3,
	tcell.KeyF4:         key.KeyF4,
	tcell.KeyF5:         key.KeyF5,
	tcell.KeyF6:         key.KeyF6,
	tcell.KeyF7:         key.KeyF7,
	tcell.KeyF8:         key.KeyF8,
	tcell.KeyF9:         key.KeyF9,
	tcell.KeyF10:        key.KeyF10,
	tcell.KeyF11:        key.KeyF11,
	tcell.KeyF12:        key.KeyF12,
	tcell.KeyF13:        key.KeyF13,
	tcell.KeyF14:        key.KeyF14,
	tcell.KeyF15:        key.KeyF15,
	tcell.KeyF16:        key.KeyF16,
	tcell.KeyF17:        key.KeyF17,
	tcell.KeyF18:        key.KeyF18,
	tcell.KeyF19:        key.KeyF19,
	tcell.KeyF20:        key.KeyF20,
	tcell.KeyF21:        key.KeyF21,
	tcell.KeyF22:        key.KeyF22,
	tcell.KeyF23:        key.KeyF23,
	tcell.KeyF24:        key.KeyF24,
}

// convertMod converts tcell's modifier mask. Terminals do not tell left
// from right, so every modifier is reported as its left-hand key.
func convertMod(m tcell.ModMask) key.Mod {
	var result key.Mod
	if m&tcell.ModShift != 0 {
		result |= key.ModLShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModLCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModLAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModLGUI
	}
	return result
}

func convertColor(c core.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// window is the terminal's only window.
type window struct {
	term    *Terminal
	title   string
	surface *backend.CellSurface
}

func (w *window) ID() backend.WindowID     { return windowID }
func (w *window) Title() string            { return w.title }
func (w *window) Size() (int, int)         { return w.surface.Size() }
func (w *window) Surface() backend.Surface { return w.surface }

// Present writes the changed cells to the screen.
func (w *window) Present() error {
	screen := w.term.screen
	for _, ch := range w.surface.Changes() {
		if ch.Cell.Width == 0 {
			continue
		}
		// The right half of a wide rune is owned by its left cell.
		if ch.X > 0 && w.surface.At(ch.X-1, ch.Y).Width == 2 {
			continue
		}
		style := tcell.StyleDefault.
			Foreground(convertColor(ch.Cell.Fg)).
			Background(convertColor(ch.Cell.Bg))
		screen.SetContent(ch.X, ch.Y, ch.Cell.Rune, nil, style)
	}
	w.surface.Sync()
	screen.Show()
	return nil
}

// Close clears the screen; the terminal itself is released by Shutdown.
func (w *window) Close() {
	w.term.screen.Clear()
	w.term.mu.Lock()
	w.term.window = nil
	w.term.mu.Unlock()
}
