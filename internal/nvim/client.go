package nvim

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/neovim/go-client/nvim"
)

// DefaultCommand is the editor binary started when none is configured.
const DefaultCommand = "nvim"

// redrawBuffer is the number of redraw notifications buffered between
// the rpc goroutine and the frame loop.
const redrawBuffer = 256

// ErrClosed indicates the client has been closed.
var ErrClosed = errors.New("editor connection closed")

// Logger is the logging surface the client needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Options configures the child process.
type Options struct {
	// Command is the editor binary. Empty means DefaultCommand.
	Command string

	// Args are passed after --embed.
	Args []string

	// Env replaces the child's environment when non-nil.
	Env []string

	// Dir is the child's working directory.
	Dir string
}

// Capabilities are the UI extensions requested on attach.
type Capabilities struct {
	RGB       bool
	LineGrid  bool
	Multigrid bool
	Messages  bool
	Cmdline   bool
}

// Options returns the attach option map understood by the editor.
func (c Capabilities) Options() map[string]any {
	return map[string]any{
		"rgb":           c.RGB,
		"ext_linegrid":  c.LineGrid || c.Multigrid || c.Messages,
		"ext_multigrid": c.Multigrid,
		"ext_messages":  c.Messages,
		"ext_cmdline":   c.Cmdline,
	}
}

// Client is a connection to an embedded editor.
type Client struct {
	v   *nvim.Nvim
	log Logger

	redraw chan [][]any
	done   chan error
	quit   chan struct{}

	closeOnce sync.Once
}

// Start launches the editor and begins serving its rpc stream.
func Start(ctx context.Context, opts Options, log Logger) (*Client, error) {
	command := opts.Command
	if command == "" {
		command = DefaultCommand
	}
	args := append([]string{"--embed"}, opts.Args...)

	popts := []nvim.ChildProcessOption{
		nvim.ChildProcessCommand(command),
		nvim.ChildProcessArgs(args...),
		nvim.ChildProcessContext(ctx),
		nvim.ChildProcessServe(false),
		nvim.ChildProcessLogf(func(format string, a ...interface{}) {
			log.Debug("rpc: "+format, a...)
		}),
	}
	if opts.Env != nil {
		popts = append(popts, nvim.ChildProcessEnv(opts.Env))
	}
	if opts.Dir != "" {
		popts = append(popts, nvim.ChildProcessDir(opts.Dir))
	}

	v, err := nvim.NewChildProcess(popts...)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", command, err)
	}

	c := newClient(v, log)
	if err := v.RegisterHandler("redraw", c.handleRedraw); err != nil {
		v.Close()
		return nil, fmt.Errorf("register redraw handler: %w", err)
	}
	go c.serve()
	return c, nil
}

func newClient(v *nvim.Nvim, log Logger) *Client {
	return &Client{
		v:      v,
		log:    log,
		redraw: make(chan [][]any, redrawBuffer),
		done:   make(chan error, 1),
		quit:   make(chan struct{}),
	}
}

func (c *Client) serve() {
	err := c.v.Serve()
	c.log.Debug("editor rpc stream ended: %v", err)
	c.done <- err
	close(c.done)
}

// handleRedraw runs on the rpc goroutine. It blocks while the buffer is
// full so notifications are never dropped or reordered.
func (c *Client) handleRedraw(updates ...[]interface{}) {
	batch := make([][]any, len(updates))
	for i, u := range updates {
		batch[i] = u
	}
	select {
	case c.redraw <- batch:
	case <-c.quit:
	}
}

// Redraw delivers redraw notifications in arrival order.
func (c *Client) Redraw() <-chan [][]any {
	return c.redraw
}

// Done receives the rpc stream's final error once the editor exits.
func (c *Client) Done() <-chan error {
	return c.done
}

// Attach attaches a cols×rows UI with the given capabilities.
func (c *Client) Attach(cols, rows int, caps Capabilities) error {
	if err := c.v.AttachUI(cols, rows, caps.Options()); err != nil {
		return fmt.Errorf("attach ui %dx%d: %w", cols, rows, err)
	}
	return nil
}

// ResizeGrid asks the editor to resize a grid.
func (c *Client) ResizeGrid(grid, cols, rows int) error {
	if err := c.v.TryResizeUIGrid(grid, cols, rows); err != nil {
		return fmt.Errorf("resize grid %d to %dx%d: %w", grid, cols, rows, err)
	}
	return nil
}

// Input sends keys in key notation.
func (c *Client) Input(keys string) error {
	if keys == "" {
		return nil
	}
	if _, err := c.v.Input(keys); err != nil {
		return fmt.Errorf("input %q: %w", keys, err)
	}
	return nil
}

// CloseWindow asks the editor to close one of its windows.
func (c *Client) CloseWindow(win int) error {
	if err := c.v.CloseWindow(nvim.Window(win), false); err != nil {
		return fmt.Errorf("close window %d: %w", win, err)
	}
	return nil
}

// FocusWindow makes win the editor's current window.
func (c *Client) FocusWindow(win int) error {
	if err := c.v.SetCurrentWindow(nvim.Window(win)); err != nil {
		return fmt.Errorf("focus window %d: %w", win, err)
	}
	return nil
}

// QuitNoSave quits the editor discarding changes.
func (c *Client) QuitNoSave() error {
	if err := c.v.Command("qa!"); err != nil {
		return fmt.Errorf("quit: %w", err)
	}
	return nil
}

// Close stops delivering notifications and closes the connection.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.quit)
		err = c.v.Close()
	})
	return err
}
