package app

import (
	"errors"
	"fmt"
)

var (
	// ErrQuit ends the session at the user's request.
	ErrQuit = errors.New("quit requested")

	// ErrEditorExited ends the session because the editor went away.
	ErrEditorExited = errors.New("editor exited")

	// ErrAlreadyRunning is returned by a second concurrent Run.
	ErrAlreadyRunning = errors.New("application already running")
)

// sessionEnded reports whether err is one of the normal session endings.
func sessionEnded(err error) bool {
	return errors.Is(err, ErrQuit) || errors.Is(err, ErrEditorExited)
}

// GridError is a failed layout operation on one grid.
type GridError struct {
	Op     string // "split", "hide"
	Grid   int
	Detail string // e.g. the split direction
	Err    error
}

func newGridError(op string, grid int, err error) *GridError {
	return &GridError{Op: op, Grid: grid, Err: err}
}

// WithDetail sets Detail and returns e. It is safe on a nil receiver.
func (e *GridError) WithDetail(detail string) *GridError {
	if e != nil {
		e.Detail = detail
	}
	return e
}

func (e *GridError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("%s grid %d", e.Op, e.Grid)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GridError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ComponentError is a failure inside one of the collaborators the loop
// drives: the editor connection, the compositor or the backend.
type ComponentError struct {
	Component string
	Action    string
	Err       error
}

func newComponentError(component, action string, err error) *ComponentError {
	return &ComponentError{Component: component, Action: action, Err: err}
}

func (e *ComponentError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Component
	if e.Action != "" {
		msg += ": " + e.Action
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ComponentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
