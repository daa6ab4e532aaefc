package phys

import (
	"strconv"

	"github.com/joshuapare/pagekit/internal/format"
)

// Addr is a physical address. A page is identified by the address of its
// first byte.
type Addr uintptr

// Aligned reports whether a sits on a page boundary.
func (a Addr) Aligned() bool { return format.PageAligned(uintptr(a)) }

// RoundUp returns a aligned up to the next page boundary.
func (a Addr) RoundUp() Addr { return Addr(format.PageRoundUp(uintptr(a))) }

// RoundDown returns the address of the page containing a.
func (a Addr) RoundDown() Addr { return Addr(format.PageRoundDown(uintptr(a))) }

// String formats the address in hex, the way physical addresses are read.
func (a Addr) String() string {
	return "0x" + strconv.FormatUint(uint64(a), 16)
}
