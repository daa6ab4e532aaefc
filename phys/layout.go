package phys

import (
	"fmt"

	"github.com/joshuapare/pagekit/internal/format"
)

// The kernel expects there to be RAM for use by the kernel and user pages
// from physical address KernBase to KernBase+DefaultMemory.
const (
	KernBase      Addr = 0x80000000
	DefaultMemory      = 128 * format.MiB

	// DefaultKernelImage is the size of kernel text and data in the default
	// layout. The link-time end symbol is rarely page-aligned.
	DefaultKernelImage = 2*format.MiB + 0x123
)

// Layout describes the physical address space handed to the allocator:
//
//	Base      -- kernel is loaded here; page-count table index origin
//	KernelEnd -- first byte after kernel text and data
//	PhysTop   -- end of RAM (exclusive)
//
// Pages in [KernelEnd rounded up, PhysTop) are managed. Pages below KernelEnd
// belong to the kernel image and are never released.
type Layout struct {
	Base      Addr
	KernelEnd Addr
	PhysTop   Addr
}

// DefaultLayout returns the layout of a 128 MiB machine whose RAM starts at
// KernBase.
func DefaultLayout() Layout {
	return NewLayout(DefaultMemory, DefaultKernelImage)
}

// NewLayout returns a layout starting at KernBase with memBytes of RAM, the
// first kernelBytes of which hold the kernel image.
func NewLayout(memBytes, kernelBytes int) Layout {
	return Layout{
		Base:      KernBase,
		KernelEnd: KernBase + Addr(kernelBytes),
		PhysTop:   KernBase + Addr(memBytes),
	}
}

// Validate checks that the layout describes a usable address space.
func (l Layout) Validate() error {
	if !l.Base.Aligned() {
		return fmt.Errorf("%w: base %s: %w", ErrLayout, l.Base, format.ErrUnaligned)
	}
	if !l.PhysTop.Aligned() {
		return fmt.Errorf("%w: phys top %s: %w", ErrLayout, l.PhysTop, format.ErrUnaligned)
	}
	if l.KernelEnd < l.Base {
		return fmt.Errorf("%w: kernel end %s below base %s", ErrLayout, l.KernelEnd, l.Base)
	}
	if l.KernelEnd >= l.PhysTop {
		return fmt.Errorf("%w: kernel end %s at or past phys top %s", ErrLayout, l.KernelEnd, l.PhysTop)
	}
	if l.Pages() == 0 {
		return fmt.Errorf("%w: [%s, %s): %w", ErrLayout, l.KernelEnd, l.PhysTop, format.ErrEmptyRange)
	}
	return nil
}

// Size returns the number of bytes between Base and PhysTop.
func (l Layout) Size() int { return int(l.PhysTop - l.Base) }

// TablePages returns the number of pages in [Base, PhysTop), one
// reference-count slot each.
func (l Layout) TablePages() int { return l.Size() >> format.PageShift }

// Pages returns the number of whole pages available to the allocator.
func (l Layout) Pages() int {
	return format.PageCount(uintptr(l.KernelEnd), uintptr(l.PhysTop))
}

// FreeRange returns the page-aligned bounds of the allocatable range.
func (l Layout) FreeRange() (start, end Addr) {
	return l.KernelEnd.RoundUp(), l.PhysTop
}

// Index returns the table slot of the page containing a. The caller must
// ensure a lies in [Base, PhysTop).
func (l Layout) Index(a Addr) int {
	return int((a - l.Base) >> format.PageShift)
}

// Contains reports whether a lies in [Base, PhysTop).
func (l Layout) Contains(a Addr) bool {
	return a >= l.Base && a < l.PhysTop
}

// String implements fmt.Stringer.
func (l Layout) String() string {
	return fmt.Sprintf("base=%s end=%s phystop=%s", l.Base, l.KernelEnd, l.PhysTop)
}
