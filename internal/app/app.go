// Package app wires the editor connection, grid store, compositor and
// window reconciler together and runs the frame loop.
package app

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dshills/nwin/internal/config"
	"github.com/dshills/nwin/internal/config/watcher"
	"github.com/dshills/nwin/internal/engine/grid"
	"github.com/dshills/nwin/internal/engine/highlight"
	"github.com/dshills/nwin/internal/nvim"
	"github.com/dshills/nwin/internal/redraw"
	"github.com/dshills/nwin/internal/renderer"
	"github.com/dshills/nwin/internal/renderer/backend"
	"github.com/dshills/nwin/internal/wm"
)

// Default attach size when the backend cannot report a screen size.
const (
	DefaultCols = 80
	DefaultRows = 24
)

// globalGrid is the grid the editor draws when windows are not external.
const globalGrid = 1

// Editor is the editor connection driven by the frame loop.
type Editor interface {
	Redraw() <-chan [][]any
	Done() <-chan error
	Attach(cols, rows int, caps nvim.Capabilities) error
	ResizeGrid(grid, cols, rows int) error
	Input(keys string) error
	CloseWindow(win int) error
	FocusWindow(win int) error
	QuitNoSave() error
	Close() error
}

// screenSizer is implemented by backends that know their screen size
// in cells.
type screenSizer interface {
	ScreenSize() (cols, rows int)
}

// Options configures the application.
type Options struct {
	// Backend draws windows and delivers input. Required.
	Backend backend.Backend

	// Editor is the editor connection. Required.
	Editor Editor

	// Config supplies the [ui] and [log] settings. Nil uses defaults.
	Config *config.Config

	// ConfigEvents reports changes of the config file. Optional.
	ConfigEvents <-chan watcher.Event

	// Reconciler applies layout changes to a tiling window manager.
	// Nil disables reconciliation.
	Reconciler *wm.Reconciler

	// Logger defaults to NullLogger.
	Logger *Logger

	// Metrics defaults to a fresh tracker.
	Metrics *Metrics

	// Multigrid requests one window per editor window. It only takes
	// effect when the backend supports several windows.
	Multigrid bool

	// Cols and Rows are the attach size. Zero asks the backend.
	Cols, Rows int
}

// Application runs one editor session.
type Application struct {
	backend    backend.Backend
	editor     Editor
	cfg        *config.Config
	reconciler *wm.Reconciler
	log        *Logger
	metrics    *Metrics

	store      *grid.Store
	compositor *renderer.Compositor
	batcher    redraw.Batcher

	configEvents   <-chan watcher.Event
	frameInterval  time.Duration
	messageTimeout time.Duration

	multigrid  bool
	cols, rows int

	// pending accumulates notation until the end of the tick.
	pending strings.Builder

	running atomic.Bool
}

// New creates an application. Nothing is started until Run.
func New(opts Options) (*Application, error) {
	if opts.Backend == nil {
		return nil, newComponentError("app", "new", errors.New("no backend"))
	}
	if opts.Editor == nil {
		return nil, newComponentError("app", "new", errors.New("no editor"))
	}
	if opts.Config == nil {
		opts.Config = config.New()
	}
	if opts.Logger == nil {
		opts.Logger = NullLogger
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.Reconciler == nil {
		opts.Reconciler = wm.New(nil, opts.Logger.WithComponent("wm"))
	}

	ui := opts.Config.UI()
	app := &Application{
		backend:        opts.Backend,
		editor:         opts.Editor,
		cfg:            opts.Config,
		reconciler:     opts.Reconciler,
		log:            opts.Logger,
		metrics:        opts.Metrics,
		configEvents:   opts.ConfigEvents,
		frameInterval:  ui.FrameInterval(),
		messageTimeout: ui.MessageTimeout,
		multigrid:      opts.Multigrid && opts.Backend.MultiWindow(),
	}

	app.store = grid.NewStore(highlight.NewTable(ui.Foreground, ui.Background))

	copts := renderer.Options{Title: wm.GridTitle}
	if app.multigrid {
		copts.SkipGrids = []int{globalGrid}
	}
	app.compositor = renderer.New(opts.Backend, app.store, opts.Editor,
		opts.Logger.WithComponent("compositor"), copts)

	app.cols, app.rows = opts.Cols, opts.Rows
	if app.cols <= 0 || app.rows <= 0 {
		app.cols, app.rows = DefaultCols, DefaultRows
		if s, ok := opts.Backend.(screenSizer); ok {
			cw, ch := opts.Backend.Font().CellSize()
			if w, h := s.ScreenSize(); w > 0 && h > 0 {
				app.cols, app.rows = w/cw, h/ch
			}
		}
	}
	return app, nil
}

// Store returns the grid store.
func (app *Application) Store() *grid.Store { return app.store }

// Compositor returns the compositor.
func (app *Application) Compositor() *renderer.Compositor { return app.compositor }

// Metrics returns the application's metrics.
func (app *Application) Metrics() *Metrics { return app.metrics }

// Multigrid reports whether editor windows are shown as separate windows.
func (app *Application) Multigrid() bool { return app.multigrid }

// Capabilities returns the UI capabilities requested on attach.
func (app *Application) Capabilities() nvim.Capabilities {
	return nvim.Capabilities{
		RGB:       true,
		LineGrid:  true,
		Multigrid: app.multigrid,
		Messages:  true,
		Cmdline:   true,
	}
}

// Run attaches to the editor and runs the frame loop until the user
// quits, the editor exits, or ctx is done. Those endings return nil;
// any other error is fatal.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)
	defer app.compositor.Close()

	caps := app.Capabilities()
	if err := app.editor.Attach(app.cols, app.rows, caps); err != nil {
		return newComponentError("editor", "attach", err)
	}
	app.log.Info("attached %dx%d (multigrid=%t)", app.cols, app.rows, caps.Multigrid)

	for {
		if err := ctx.Err(); err != nil {
			app.quit()
			return nil
		}
		err := app.tick(ctx)
		switch {
		case err == nil:
		case sessionEnded(err):
			app.log.Info("session ended: %v", err)
			return nil
		default:
			return err
		}
	}
}

// IsRunning reports whether Run is in progress.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// quit asks the editor to exit without saving. The editor usually drops
// the connection while answering, so the error is only logged.
func (app *Application) quit() {
	if err := app.editor.QuitNoSave(); err != nil {
		app.log.Debug("quit: %v", err)
	}
}

// Close releases the window manager and editor connections and the
// backend.
func (app *Application) Close() error {
	app.compositor.Close()
	var errs []error
	if err := app.reconciler.Close(); err != nil {
		errs = append(errs, newComponentError("wm", "close", err))
	}
	if err := app.editor.Close(); err != nil {
		errs = append(errs, newComponentError("editor", "close", err))
	}
	app.backend.Shutdown()
	return errors.Join(errs...)
}
