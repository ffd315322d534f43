package i3ipc

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSocket indicates no IPC socket path could be determined.
	ErrNoSocket = errors.New("i3 ipc socket not found")

	// ErrBadMagic indicates a reply did not start with the i3-ipc magic.
	ErrBadMagic = errors.New("i3 ipc: bad magic")

	// ErrUnexpectedReply indicates a reply of the wrong type arrived.
	ErrUnexpectedReply = errors.New("i3 ipc: unexpected reply type")

	// ErrClosed indicates the client has been closed.
	ErrClosed = errors.New("i3 ipc: client closed")
)

// CommandError is returned when the window manager rejects a command.
type CommandError struct {
	Command string
	Message string
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("i3 command %q failed: %s", e.Command, e.Message)
}
