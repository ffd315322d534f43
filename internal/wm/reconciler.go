package wm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dshills/nwin/internal/wm/i3ipc"
)

// TitlePrefix starts the title of every grid window.
const TitlePrefix = "nwin:grid:"

// ErrNoMatch indicates that no container in the window manager's tree
// carries the title of a grid.
var ErrNoMatch = errors.New("no window manager container matches grid")

// GridTitle returns the window title of grid id.
func GridTitle(id int) string {
	return TitlePrefix + strconv.Itoa(id)
}

// ParseGridTitle returns the grid id encoded in a window title.
func ParseGridTitle(title string) (int, bool) {
	rest, ok := strings.CutPrefix(title, TitlePrefix)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return id, true
}

// IPC is the window manager connection the reconciler needs.
type IPC interface {
	GetTree(ctx context.Context) (*i3ipc.Tree, error)
	RunCommand(ctx context.Context, cmd string) error
}

// Logger is the logging surface the reconciler needs.
type Logger interface {
	Debug(msg string, args ...any)
}

// Direction is the orientation of an editor window split.
type Direction uint8

const (
	// Horizontal stacks the new window above or below.
	Horizontal Direction = iota
	// Vertical places the new window beside the old one.
	Vertical
)

// String returns the editor's name for the direction.
func (d Direction) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// layout is the container layout that shows a split in direction d.
func (d Direction) layout() i3ipc.Layout {
	if d == Vertical {
		return i3ipc.LayoutSplitH
	}
	return i3ipc.LayoutSplitV
}

// command is the split command that produces d.layout().
func (d Direction) command() string {
	if d == Vertical {
		return "split horizontal"
	}
	return "split vertical"
}

// Reconciler issues layout commands to the window manager. A Reconciler
// without an IPC connection does nothing.
type Reconciler struct {
	ipc IPC
	log Logger

	// containers maps grid ids to the container ids last seen for them.
	containers map[int]int64
}

// New creates a reconciler. ipc may be nil.
func New(ipc IPC, log Logger) *Reconciler {
	return &Reconciler{
		ipc:        ipc,
		log:        log,
		containers: make(map[int]int64),
	}
}

// Enabled reports whether the reconciler talks to a window manager.
func (r *Reconciler) Enabled() bool {
	return r.ipc != nil
}

// Close closes the IPC connection when it can be closed.
func (r *Reconciler) Close() error {
	if c, ok := r.ipc.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Container returns the container id last seen for a grid.
func (r *Reconciler) Container(grid int) (int64, bool) {
	id, ok := r.containers[grid]
	return id, ok
}

// Forget drops the side-table entry of a grid.
func (r *Reconciler) Forget(grid int) {
	delete(r.containers, grid)
}

// locate fetches the tree and finds the container titled for grid and
// its direct parent.
func (r *Reconciler) locate(ctx context.Context, grid int) (parent, leaf i3ipc.Node, err error) {
	tree, err := r.ipc.GetTree(ctx)
	if err != nil {
		return parent, leaf, fmt.Errorf("get tree: %w", err)
	}
	title := GridTitle(grid)
	parent, leaf, ok := tree.FindParent(i3ipc.ByName(title))
	if !ok {
		delete(r.containers, grid)
		return parent, leaf, fmt.Errorf("%w: %q", ErrNoMatch, title)
	}
	r.containers[grid] = leaf.ID()
	return parent, leaf, nil
}

// Split makes the container holding grid's window split in direction,
// unless it already does.
func (r *Reconciler) Split(ctx context.Context, grid int, dir Direction) error {
	if r.ipc == nil {
		return nil
	}
	parent, leaf, err := r.locate(ctx, grid)
	if err != nil {
		return fmt.Errorf("split grid %d: %w", grid, err)
	}
	if parent.Layout() == dir.layout() {
		r.log.Debug("grid %d: parent %d already %s", grid, parent.ID(), parent.Layout())
		return nil
	}
	cmd := fmt.Sprintf("[con_id=%d] %s", leaf.ID(), dir.command())
	r.log.Debug("grid %d: %s", grid, cmd)
	if err := r.ipc.RunCommand(ctx, cmd); err != nil {
		return fmt.Errorf("split grid %d: %w", grid, err)
	}
	return nil
}

// Hide stacks the container holding grid's window into a tabbed parent
// so the hidden window stops taking space.
func (r *Reconciler) Hide(ctx context.Context, grid int) error {
	if r.ipc == nil {
		return nil
	}
	parent, leaf, err := r.locate(ctx, grid)
	if err != nil {
		return fmt.Errorf("hide grid %d: %w", grid, err)
	}
	if parent.Layout() == i3ipc.LayoutTabbed {
		return nil
	}
	cmd := fmt.Sprintf("[con_id=%d] split vertical, layout tabbed", leaf.ID())
	r.log.Debug("grid %d: %s", grid, cmd)
	if err := r.ipc.RunCommand(ctx, cmd); err != nil {
		return fmt.Errorf("hide grid %d: %w", grid, err)
	}
	return nil
}
