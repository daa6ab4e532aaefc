package format

import "errors"

var (
	// ErrUnaligned indicates an address that must sit on a page boundary does not.
	ErrUnaligned = errors.New("format: address not page-aligned")
	// ErrEmptyRange indicates a range that contains no whole page.
	ErrEmptyRange = errors.New("format: range holds no whole page")
)
