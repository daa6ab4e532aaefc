// Package mmfile provides platform-specific helpers for mapping the memory
// that backs a simulated physical address space.
package mmfile

import "errors"

// ErrSize indicates a mapping request for zero or negative bytes.
var ErrSize = errors.New("mmfile: size must be positive")
