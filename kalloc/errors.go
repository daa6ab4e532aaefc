package kalloc

import (
	"errors"
	"fmt"

	"github.com/joshuapare/pagekit/phys"
)

var (
	// ErrNoMemory indicates the free pool is empty. It is the only error an
	// allocation can return; the caller decides whether to fail, reclaim or retry.
	ErrNoMemory = errors.New("kalloc: out of memory")

	// ErrInvariant is wrapped by every InvariantError.
	ErrInvariant = errors.New("kalloc: invariant violated")

	// ErrNilMemory indicates New was called without a Memory.
	ErrNilMemory = errors.New("kalloc: nil memory")

	// ErrTableSize indicates a layout with more pages than the count table can index.
	ErrTableSize = errors.New("kalloc: layout too large for page table")
)

// Operation names reported in an InvariantError.
const (
	OpInit     = "init"
	OpAlloc    = "alloc"
	OpFree     = "free"
	OpAddOwner = "addowner"
)

// InvariantError describes a violated allocator invariant. These are caller
// bugs such as a double free, and the allocator halts on them instead of
// returning them.
type InvariantError struct {
	Op    string    // operation that detected the violation
	Addr  phys.Addr // offending page address
	Check string    // which check failed
	Count int32     // reference count observed by the check, if it read one
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("kalloc: %s %s: %s", e.Op, e.Addr, e.Check)
}

// Unwrap lets errors.Is match ErrInvariant.
func (e *InvariantError) Unwrap() error { return ErrInvariant }
