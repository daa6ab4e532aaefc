package phys

import "errors"

var (
	// ErrLayout indicates an inconsistent physical memory layout.
	ErrLayout = errors.New("phys: invalid layout")

	// ErrClosed indicates use of a Memory after Close.
	ErrClosed = errors.New("phys: memory closed")
)
