package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/dshills/nwin/internal/config"
	"github.com/dshills/nwin/internal/config/watcher"
	"github.com/dshills/nwin/internal/engine/grid"
	"github.com/dshills/nwin/internal/input/key"
	"github.com/dshills/nwin/internal/nvim"
	"github.com/dshills/nwin/internal/renderer/backend"
	"github.com/dshills/nwin/internal/renderer/backend/raster"
	"github.com/dshills/nwin/internal/renderer/core"
	"github.com/dshills/nwin/internal/wm"
	"github.com/dshills/nwin/internal/wm/i3ipc"
)

type resizeCall struct{ grid, cols, rows int }

// fakeEditor records everything the loop sends. It is used from the
// test goroutine only.
type fakeEditor struct {
	redraw chan [][]any
	done   chan error

	attached   bool
	cols, rows int
	caps       nvim.Capabilities
	inputs     []string
	inputErr   error
	resizes    []resizeCall
	focused    []int
	closedWins []int
	quits      int
	closed     bool
}

func newFakeEditor() *fakeEditor {
	return &fakeEditor{
		redraw: make(chan [][]any, 16),
		done:   make(chan error, 1),
	}
}

func (f *fakeEditor) Redraw() <-chan [][]any { return f.redraw }
func (f *fakeEditor) Done() <-chan error     { return f.done }

func (f *fakeEditor) Attach(cols, rows int, caps nvim.Capabilities) error {
	f.attached, f.cols, f.rows, f.caps = true, cols, rows, caps
	return nil
}

func (f *fakeEditor) ResizeGrid(grid, cols, rows int) error {
	f.resizes = append(f.resizes, resizeCall{grid, cols, rows})
	return nil
}

func (f *fakeEditor) Input(keys string) error {
	f.inputs = append(f.inputs, keys)
	return f.inputErr
}

func (f *fakeEditor) CloseWindow(win int) error {
	f.closedWins = append(f.closedWins, win)
	return nil
}

func (f *fakeEditor) FocusWindow(win int) error {
	f.focused = append(f.focused, win)
	return nil
}

func (f *fakeEditor) QuitNoSave() error {
	f.quits++
	return nil
}

func (f *fakeEditor) Close() error {
	f.closed = true
	return nil
}

// send queues one redraw notification made of the given updates.
func (f *fakeEditor) send(updates ...[]any) {
	f.redraw <- updates
}

// update builds one redraw update: the event name followed by one
// argument tuple per call.
func update(name string, calls ...[]any) []any {
	u := []any{name}
	for _, c := range calls {
		u = append(u, c)
	}
	return u
}

func args(v ...any) []any { return v }

var flush = update("flush", args())

type fakeIPC struct {
	tree     string
	commands []string
}

func (f *fakeIPC) GetTree(context.Context) (*i3ipc.Tree, error) {
	return i3ipc.ParseTree([]byte(f.tree))
}

func (f *fakeIPC) RunCommand(_ context.Context, cmd string) error {
	f.commands = append(f.commands, cmd)
	return nil
}

const gridTwoTree = `{"id":1,"name":"root","layout":"splith","nodes":[
	{"id":5,"name":"ws","layout":"splitv","nodes":[
		{"id":11,"name":"nwin:grid:2","layout":"none"}]}]}`

func newTestApp(t *testing.T, configure func(*Options)) (*Application, *fakeEditor, *raster.Raster) {
	t.Helper()
	ed := newFakeEditor()
	r := raster.New()
	opts := Options{
		Backend:   r,
		Editor:    ed,
		Config:    config.New(config.WithFile(filepath.Join(t.TempDir(), "none.toml"))),
		Multigrid: true,
	}
	if configure != nil {
		configure(&opts)
	}
	app, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	return app, ed, r
}

func tick(t *testing.T, app *Application) {
	t.Helper()
	if err := app.tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
}

// openGrid opens a window for grid 2 shown as editor window 1000.
func openGrid(t *testing.T, app *Application, ed *fakeEditor, r *raster.Raster) *raster.Window {
	t.Helper()
	ed.send(
		update("grid_resize", args(int64(2), int64(4), int64(2))),
		update("win_pos", args(int64(2), int64(1000), int64(0), int64(0), int64(4), int64(2))),
		flush,
	)
	tick(t, app)
	win, ok := r.WindowByTitle("nwin:grid:2")
	if !ok {
		t.Fatal("no window for grid 2")
	}
	return win
}

func TestNewRequiresBackendAndEditor(t *testing.T) {
	if _, err := New(Options{Editor: newFakeEditor()}); err == nil {
		t.Error("expected error without backend")
	}
	if _, err := New(Options{Backend: raster.New()}); err == nil {
		t.Error("expected error without editor")
	}
}

func TestAttachSizeAndCapabilities(t *testing.T) {
	tests := []struct {
		name       string
		multigrid  bool
		cols, rows int
		wantCols   int
		wantRows   int
	}{
		{"defaults", true, 0, 0, DefaultCols, DefaultRows},
		{"explicit", false, 100, 30, 100, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, ed, r := newTestApp(t, func(o *Options) {
				o.Multigrid = tt.multigrid
				o.Cols, o.Rows = tt.cols, tt.rows
			})
			r.Post(backend.Event{Type: backend.EventQuit})
			if err := app.Run(context.Background()); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if !ed.attached || ed.cols != tt.wantCols || ed.rows != tt.wantRows {
				t.Errorf("attach = %v %dx%d, want %dx%d", ed.attached, ed.cols, ed.rows, tt.wantCols, tt.wantRows)
			}
			want := nvim.Capabilities{RGB: true, LineGrid: true, Multigrid: tt.multigrid, Messages: true, Cmdline: true}
			if ed.caps != want {
				t.Errorf("caps = %+v, want %+v", ed.caps, want)
			}
		})
	}
}

func TestRunEndings(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(context.CancelFunc, *fakeEditor, *raster.Raster)
		wantQuits int
	}{
		{"backend quit", func(_ context.CancelFunc, _ *fakeEditor, r *raster.Raster) {
			r.Post(backend.Event{Type: backend.EventQuit})
		}, 1},
		{"editor exit", func(_ context.CancelFunc, ed *fakeEditor, _ *raster.Raster) {
			close(ed.done)
		}, 0},
		{"context canceled", func(cancel context.CancelFunc, _ *fakeEditor, _ *raster.Raster) {
			cancel()
		}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, ed, r := newTestApp(t, nil)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			tt.setup(cancel, ed, r)

			if err := app.Run(ctx); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if ed.quits != tt.wantQuits {
				t.Errorf("quits = %d, want %d", ed.quits, tt.wantQuits)
			}
			if app.IsRunning() {
				t.Error("expected IsRunning false after Run")
			}
		})
	}
}

func TestRunTwice(t *testing.T) {
	app, _, _ := newTestApp(t, nil)
	app.running.Store(true)
	if err := app.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Run error = %v, want ErrAlreadyRunning", err)
	}
}

func TestUpdatesWaitForFlush(t *testing.T) {
	app, ed, r := newTestApp(t, nil)

	ed.send(update("grid_resize", args(int64(2), int64(4), int64(2))))
	tick(t, app)
	if _, ok := app.Store().Grid(2); ok {
		t.Fatal("grid 2 exists before its flush arrived")
	}

	ed.send(flush)
	tick(t, app)
	if _, ok := app.Store().Grid(2); !ok {
		t.Fatal("grid 2 missing after flush")
	}
	if _, ok := r.WindowByTitle("nwin:grid:2"); !ok {
		t.Error("expected a window for grid 2")
	}
}

func TestGlobalGridWindow(t *testing.T) {
	tests := []struct {
		name      string
		multigrid bool
		want      bool
	}{
		{"skipped under multigrid", true, false},
		{"drawn otherwise", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, ed, r := newTestApp(t, func(o *Options) { o.Multigrid = tt.multigrid })
			ed.send(update("grid_resize", args(int64(1), int64(10), int64(3))), flush)
			tick(t, app)
			if _, ok := r.WindowByTitle("nwin:grid:1"); ok != tt.want {
				t.Errorf("window for grid 1 = %t, want %t", ok, tt.want)
			}
		})
	}
}

func TestInputAccumulatedPerTick(t *testing.T) {
	app, ed, r := newTestApp(t, nil)

	r.Post(backend.Event{Type: backend.EventKeyDown, Key: key.KeyEscape, Mod: key.ModLCtrl})
	r.Post(backend.Event{Type: backend.EventKeyDown, Key: key.KeyA})
	r.Post(backend.Event{Type: backend.EventTextInput, Text: "a<b"})
	r.Post(backend.Event{Type: backend.EventKeyDown, Key: key.KeySpace})
	tick(t, app)

	want := []string{"<C-Esc>a<LT>b<Space>"}
	if !reflect.DeepEqual(ed.inputs, want) {
		t.Errorf("inputs = %q, want %q", ed.inputs, want)
	}
	if n := app.Metrics().Snapshot().InputDropped; n != 1 {
		t.Errorf("dropped inputs = %d, want 1", n)
	}

	tick(t, app)
	if len(ed.inputs) != 1 {
		t.Errorf("expected no input call for an idle tick, got %q", ed.inputs)
	}
}

func TestInputErrorIsFatal(t *testing.T) {
	app, ed, r := newTestApp(t, nil)
	ed.inputErr = errors.New("broken pipe")
	r.Post(backend.Event{Type: backend.EventTextInput, Text: "x"})

	err := app.tick(context.Background())
	var ce *ComponentError
	if !errors.As(err, &ce) || ce.Component != "editor" {
		t.Errorf("tick error = %v, want editor ComponentError", err)
	}
}

func TestFocusAndCloseRouteToEditorWindow(t *testing.T) {
	app, ed, r := newTestApp(t, nil)
	win := openGrid(t, app, ed, r)

	r.Post(backend.Event{Type: backend.EventWindowFocus, Window: win.ID()})
	r.Post(backend.Event{Type: backend.EventWindowClose, Window: win.ID()})
	tick(t, app)

	if !reflect.DeepEqual(ed.focused, []int{1000}) {
		t.Errorf("focused = %v, want [1000]", ed.focused)
	}
	if !reflect.DeepEqual(ed.closedWins, []int{1000}) {
		t.Errorf("closed = %v, want [1000]", ed.closedWins)
	}
	if _, ok := r.WindowByTitle("nwin:grid:2"); !ok {
		t.Error("window closed before the editor destroyed the grid")
	}
}

func TestCloseUnmappedWindowQuits(t *testing.T) {
	app, ed, r := newTestApp(t, nil)
	r.Post(backend.Event{Type: backend.EventWindowClose, Window: 99})

	if err := app.tick(context.Background()); !errors.Is(err, ErrQuit) {
		t.Fatalf("tick error = %v, want ErrQuit", err)
	}
	if ed.quits != 1 {
		t.Errorf("quits = %d, want 1", ed.quits)
	}
}

func TestGridDestroyClosesWindow(t *testing.T) {
	app, ed, r := newTestApp(t, nil)
	openGrid(t, app, ed, r)

	ed.send(update("grid_destroy", args(int64(2))), flush)
	tick(t, app)

	if _, ok := app.Store().Grid(2); ok {
		t.Error("grid 2 still in store")
	}
	if r.Windows() != 0 {
		t.Errorf("open windows = %d, want 0", r.Windows())
	}
}

func TestWindowResizeRequestsGridSize(t *testing.T) {
	app, ed, r := newTestApp(t, nil)
	win := openGrid(t, app, ed, r)

	cw, ch := app.Compositor().CellSize()
	r.Resize(win.ID(), 8*cw, 3*ch)
	tick(t, app)

	want := []resizeCall{{2, 8, 3}}
	if !reflect.DeepEqual(ed.resizes, want) {
		t.Errorf("resizes = %v, want %v", ed.resizes, want)
	}

	// the editor answering with the requested size changes nothing more
	ed.send(update("grid_resize", args(int64(2), int64(8), int64(3))), flush)
	tick(t, app)
	if !reflect.DeepEqual(ed.resizes, want) {
		t.Errorf("resizes after confirmation = %v, want %v", ed.resizes, want)
	}
	s, _ := app.Compositor().Surface(2)
	if cols, rows := s.Cells(); cols != 8 || rows != 3 {
		t.Errorf("Cells() = (%d, %d), want (8, 3)", cols, rows)
	}
}

func TestResizeFlushDamage(t *testing.T) {
	app, ed, _ := newTestApp(t, nil)
	steps := []struct {
		name string
		w, h int64
		want []grid.Damage
	}{
		{"new grid", 4, 2, []grid.Damage{grid.Cell{Row: 0, Col: 0, Width: 4, Height: 2}}},
		{"taller", 4, 5, []grid.Damage{grid.Cell{Row: 2, Col: 0, Width: 4, Height: 3}}},
	}
	for _, st := range steps {
		ed.send(update("grid_resize", args(int64(2), st.w, st.h)), flush)
		app.drain()
		if err := app.applyReady(context.Background()); err != nil {
			t.Fatal(err)
		}
		g, ok := app.Store().Grid(2)
		if !ok {
			t.Fatalf("%s: grid 2 missing", st.name)
		}
		if got := g.Damage(); !reflect.DeepEqual(got, st.want) {
			t.Errorf("%s: damage before compositing = %v, want %v", st.name, got, st.want)
		}
		tick(t, app)
		if n := len(g.Damage()); n != 0 {
			t.Errorf("%s: damage after compositing = %d records, want 0", st.name, n)
		}
	}
}

func TestGridGrowsWithoutWindowResize(t *testing.T) {
	app, ed, r := newTestApp(t, nil)
	openGrid(t, app, ed, r)

	red := core.ColorFromInt(0xff0000)
	ed.send(
		update("hl_attr_define", args(int64(3), map[string]any{"background": int64(0xff0000)}, map[string]any{}, []any{})),
		update("grid_resize", args(int64(2), int64(8), int64(3))),
		update("grid_line", args(int64(2), int64(0), int64(0), []any{[]any{" ", int64(3), int64(8)}})),
		flush,
	)
	tick(t, app)

	s, _ := app.Compositor().Surface(2)
	if cols, rows := s.Cells(); cols != 8 || rows != 3 {
		t.Fatalf("Cells() = (%d, %d), want (8, 3)", cols, rows)
	}
	cw, _ := app.Compositor().CellSize()
	back := s.Back().(*raster.Surface)
	if got := back.At(6*cw+1, 1); got != red {
		t.Errorf("back-buffer cell (0,6) = %s, want %s", got, red)
	}
	if len(ed.resizes) != 0 {
		t.Errorf("resizes = %v, want none for an editor-side resize", ed.resizes)
	}
}

func TestSplitRunsWindowManagerCommand(t *testing.T) {
	ipc := &fakeIPC{tree: gridTwoTree}
	app, ed, r := newTestApp(t, func(o *Options) { o.Reconciler = wm.New(ipc, NullLogger) })
	openGrid(t, app, ed, r)

	ed.send(update("win_split", args(int64(1000), int64(2), int64(1001), int64(4), int64(2))), flush)
	tick(t, app)

	want := []string{"[con_id=11] split horizontal"}
	if !reflect.DeepEqual(ipc.commands, want) {
		t.Errorf("commands = %q, want %q", ipc.commands, want)
	}
}

func TestSplitWithoutMatchIsFatal(t *testing.T) {
	ipc := &fakeIPC{tree: `{"id":1,"name":"root","layout":"splith","nodes":[]}`}
	app, ed, r := newTestApp(t, func(o *Options) { o.Reconciler = wm.New(ipc, NullLogger) })
	openGrid(t, app, ed, r)

	ed.send(update("win_hide", args(int64(2))), flush)
	err := app.tick(context.Background())
	if !errors.Is(err, wm.ErrNoMatch) {
		t.Fatalf("tick error = %v, want ErrNoMatch", err)
	}
	if len(ipc.commands) != 0 {
		t.Errorf("unexpected commands %q", ipc.commands)
	}
}

func TestDecodeErrorsAreSkipped(t *testing.T) {
	app, ed, r := newTestApp(t, nil)
	ed.send(
		update("no_such_event", args()),
		update("grid_resize", args("two", int64(1), int64(1))),
		update("grid_line", args(int64(9), int64(0), int64(0), []any{[]any{"x"}})),
		update("grid_resize", args(int64(3), int64(2), int64(2))),
		flush,
	)
	tick(t, app)

	if _, ok := r.WindowByTitle("nwin:grid:3"); !ok {
		t.Error("valid update after bad ones was not applied")
	}
	if n := app.Metrics().Snapshot().UpdateErrors; n != 3 {
		t.Errorf("update errors = %d, want 3", n)
	}
}

func TestMessagesExpire(t *testing.T) {
	app, ed, r := newTestApp(t, nil)
	app.messageTimeout = 0
	openGrid(t, app, ed, r)

	ed.send(
		update("grid_cursor_goto", args(int64(2), int64(0), int64(0))),
		update("msg_show", args("echo", []any{[]any{int64(0), "hi"}}, false)),
		update("grid_cursor_goto", args(int64(2), int64(1), int64(1))),
		flush,
	)
	tick(t, app)

	if n := len(app.Store().Messages()); n != 0 {
		t.Errorf("messages = %d, want 0 once expired", n)
	}
}

func TestConfigReloadAppliesSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"warn\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.New(config.WithFile(path))
	if err := cfg.Reload(); err != nil {
		t.Fatal(err)
	}

	events := make(chan watcher.Event, 1)
	logger := NewLogger(LoggerConfig{Level: ParseLogLevel(cfg.Log().Level), Output: &discard{}})
	app, _, _ := newTestApp(t, func(o *Options) {
		o.Config = cfg
		o.ConfigEvents = events
		o.Logger = logger
	})

	if err := os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n[ui]\nframe_rate = 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	events <- watcher.Event{Path: path, Op: watcher.OpWrite, Time: time.Now()}
	tick(t, app)

	if logger.Level() != LogLevelDebug {
		t.Errorf("log level = %v, want DEBUG", logger.Level())
	}
	if app.frameInterval != time.Second/30 {
		t.Errorf("frame interval = %v, want %v", app.frameInterval, time.Second/30)
	}
}

func TestConfigReloadKeepsSettingsOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\nframe_rate = 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.New(config.WithFile(path))
	if err := cfg.Reload(); err != nil {
		t.Fatal(err)
	}
	events := make(chan watcher.Event, 1)
	app, _, _ := newTestApp(t, func(o *Options) {
		o.Config = cfg
		o.ConfigEvents = events
	})

	if err := os.WriteFile(path, []byte("[ui\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	events <- watcher.Event{Path: path, Op: watcher.OpWrite}
	tick(t, app)

	if app.frameInterval != time.Second/30 {
		t.Errorf("frame interval = %v, want unchanged %v", app.frameInterval, time.Second/30)
	}
}

func TestClose(t *testing.T) {
	app, ed, r := newTestApp(t, nil)
	openGrid(t, app, ed, r)

	if err := app.Close(); err != nil {
		t.Fatal(err)
	}
	if !ed.closed {
		t.Error("editor not closed")
	}
	if r.Windows() != 0 {
		t.Errorf("open windows = %d, want 0", r.Windows())
	}
}

type discard struct{}

func (*discard) Write(p []byte) (int, error) { return len(p), nil }
