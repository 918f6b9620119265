package ringbuf

import "errors"

var (
	// ErrInvalidConfiguration is returned for a missing or non-positive capacity or window.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrEmptyContainer is returned when removing from a container without elements.
	ErrEmptyContainer = errors.New("empty container")
	// ErrNotSupported is returned for operations a container kind does not allow.
	ErrNotSupported = errors.New("not supported")
	// ErrOutOfRange is returned for indexed access outside of [0, capacity).
	ErrOutOfRange = errors.New("index out of range")
)
