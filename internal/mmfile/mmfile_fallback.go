//go:build !(linux || darwin || freebsd || netbsd || openbsd) && !windows

package mmfile

import "fmt"

// MapAnon allocates size zeroed bytes on the Go heap when no anonymous
// mapping primitive is available.
func MapAnon(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mmfile: invalid mapping size %d: %w", size, ErrSize)
	}
	return make([]byte, size), func() error { return nil }, nil
}
