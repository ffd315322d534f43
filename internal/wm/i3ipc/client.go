package i3ipc

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

// Client is a connection to the window manager's IPC socket. Requests
// are serialized; the protocol has no request ids.
type Client struct {
	mu     sync.Mutex
	conn   net.Conn
	path   string
	closed bool
}

// Dial connects to the IPC socket at path.
func Dial(ctx context.Context, path string) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", path, err)
	}
	return &Client{conn: conn, path: path}, nil
}

// Connect resolves the socket path and dials it.
func Connect(ctx context.Context, configured string) (*Client, error) {
	path, err := SocketPath(ctx, configured)
	if err != nil {
		return nil, err
	}
	return Dial(ctx, path)
}

// SocketPath returns configured when set, then $I3SOCK, then $SWAYSOCK,
// and finally asks the i3 binary.
func SocketPath(ctx context.Context, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	for _, env := range []string{"I3SOCK", "SWAYSOCK"} {
		if p := os.Getenv(env); p != "" {
			return p, nil
		}
	}
	out, err := exec.CommandContext(ctx, "i3", "--get-socketpath").Output()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSocket, err)
	}
	p := strings.TrimSpace(string(out))
	if p == "" {
		return "", ErrNoSocket
	}
	return p, nil
}

// Path returns the socket path.
func (c *Client) Path() string { return c.path }

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// roundTrip sends one message and reads its reply. The context deadline,
// if any, bounds the exchange.
func (c *Client) roundTrip(ctx context.Context, typ MessageType, payload []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}
	deadline, _ := ctx.Deadline()
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}
	defer c.conn.SetDeadline(time.Time{})

	if err := writeMessage(c.conn, typ, payload); err != nil {
		return nil, err
	}
	got, reply, err := readMessage(c.conn)
	if err != nil {
		return nil, err
	}
	if got != typ {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrUnexpectedReply, got, typ)
	}
	return reply, nil
}

// GetTree fetches the container tree.
func (c *Client) GetTree(ctx context.Context) (*Tree, error) {
	reply, err := c.roundTrip(ctx, GetTree, nil)
	if err != nil {
		return nil, fmt.Errorf("get_tree: %w", err)
	}
	return ParseTree(reply)
}

// RunCommand runs a command string. It fails if any of the commands in
// the string reports failure.
func (c *Client) RunCommand(ctx context.Context, cmd string) error {
	reply, err := c.roundTrip(ctx, RunCommand, []byte(cmd))
	if err != nil {
		return fmt.Errorf("run_command: %w", err)
	}
	results := gjson.ParseBytes(reply)
	if !results.IsArray() {
		return fmt.Errorf("run_command %q: reply is not an array", cmd)
	}
	var failure error
	results.ForEach(func(_, r gjson.Result) bool {
		if !r.Get("success").Bool() {
			failure = &CommandError{Command: cmd, Message: r.Get("error").String()}
			return false
		}
		return true
	})
	return failure
}
