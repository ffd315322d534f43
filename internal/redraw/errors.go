package redraw

import (
	"errors"
	"fmt"
)

// Errors returned while decoding.
var (
	// ErrUnknownEvent indicates an event name this client does not know.
	ErrUnknownEvent = errors.New("unknown redraw event")

	// ErrShape indicates arguments that do not match the event's layout.
	ErrShape = errors.New("malformed redraw arguments")
)

// DecodeError wraps a decode failure with the event it happened in.
type DecodeError struct {
	Event string
	Arg   int
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Arg < 0 {
		return fmt.Sprintf("%s: %v", e.Event, e.Err)
	}
	return fmt.Sprintf("%s: argument %d: %v", e.Event, e.Arg, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func shapeError(event string, arg int, format string, args ...any) error {
	return &DecodeError{Event: event, Arg: arg, Err: fmt.Errorf("%w: "+format, append([]any{ErrShape}, args...)...)}
}
