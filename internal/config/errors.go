package config

import (
	"errors"
	"fmt"
)

var (
	// ErrSettingNotFound is returned for a path no layer sets.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrTypeMismatch matches every *TypeError.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInvalidPath is returned for paths with empty segments.
	ErrInvalidPath = errors.New("invalid setting path")

	// ErrValidationFailed matches every *ValidationError.
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError is a setting whose value has the right type but is
// out of range, such as a frame rate of zero.
type ValidationError struct {
	Path    string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s, got %v", e.Path, e.Message, e.Value)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }

// TypeError is a setting whose value cannot be read as the type its
// section expects.
type TypeError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: want %s, have %s", e.Path, e.Expected, e.Actual)
}

func (e *TypeError) Is(target error) bool { return target == ErrTypeMismatch }
