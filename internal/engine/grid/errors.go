package grid

import "errors"

// Errors returned by store operations.
var (
	// ErrUnknownGrid indicates an instruction named a grid that was never resized.
	ErrUnknownGrid = errors.New("unknown grid")

	// ErrRowOutOfRange indicates a line instruction targeted a row outside the grid.
	ErrRowOutOfRange = errors.New("row out of range")

	// ErrColumnScroll is the panic value for a scroll with a non-zero column count.
	ErrColumnScroll = errors.New("column scrolling is not supported")
)
