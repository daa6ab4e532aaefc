package kalloc

import (
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/joshuapare/pagekit/internal/logger"
	"github.com/joshuapare/pagekit/phys"
)

// Allocator hands out the physical pages of one Memory. Construct it once
// at startup, call Init, and share the pointer with every subsystem that
// needs pages. All methods are safe for concurrent use.
type Allocator struct {
	mem    *phys.Memory
	layout phys.Layout

	// Lock order: free.mu before refs.mu, and only in acquire.
	refs *refTable
	free *freeList

	log    *slog.Logger
	trace  bool
	haltFn func(error)

	initialized atomic.Bool
}

// New builds an allocator over mem. opts may be nil. The pool is empty
// until Init runs.
func New(mem *phys.Memory, opts *Options) (*Allocator, error) {
	if mem == nil {
		return nil, ErrNilMemory
	}
	if opts == nil {
		opts = &Options{}
	}
	l := mem.Layout()
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("kalloc: %w", err)
	}
	if l.TablePages() > math.MaxInt32 {
		return nil, fmt.Errorf("%w: %d pages", ErrTableSize, l.TablePages())
	}

	a := &Allocator{
		mem:    mem,
		layout: l,
		log:    opts.Logger,
		trace:  opts.Trace || logAlloc,
		haltFn: opts.Halt,
	}
	if a.log == nil {
		a.log = logger.L
	}
	a.refs = newRefTable(l, a.halt)
	a.free = newFreeList(l.TablePages())
	return a, nil
}

// Init seeds the pool with every whole page between the end of the kernel
// image and the top of physical memory. It must be called exactly once;
// a second call halts.
func (a *Allocator) Init() {
	if !a.initialized.CompareAndSwap(false, true) {
		a.halt(&InvariantError{Op: OpInit, Addr: a.layout.KernelEnd, Check: "allocator already initialized"})
	}
	start, end := a.layout.KernelEnd, a.layout.PhysTop
	n := a.freeRange(start, end)
	a.log.Info("kalloc: pool seeded",
		"start", start.String(),
		"end", end.String(),
		"pages", n,
		"kib", n*(pageBytes/1024))
}

// Alloc returns one page with exactly one owner, the caller. Every byte of
// the page holds format.AllocJunk. When the pool is empty Alloc returns
// ErrNoMemory and changes nothing.
func (a *Allocator) Alloc() (phys.Addr, error) {
	p, ok := a.acquire()
	if !ok {
		if a.trace {
			a.log.Debug("kalloc: alloc failed", "err", ErrNoMemory)
		}
		return 0, ErrNoMemory
	}
	if a.trace {
		a.log.Debug("kalloc: alloc", "addr", p.String())
	}
	return p, nil
}

// Free drops one owner of page p. When the last owner is gone the page is
// filled with format.FreeJunk and returned to the pool.
//
// Free halts if p is not page-aligned, lies inside the kernel image or past
// the top of memory, or has no owner left (a double free).
func (a *Allocator) Free(p phys.Addr) {
	freed := a.release(OpFree, p)
	if a.trace {
		a.log.Debug("kalloc: free", "addr", p.String(), "pooled", freed)
	}
}

// AddOwner registers one more owner of the already allocated page p, for
// example when a fork shares the page copy-on-write. Each owner later calls
// Free once.
//
// AddOwner halts if p lies outside physical memory or has no owner.
func (a *Allocator) AddOwner(p phys.Addr) {
	a.refs.increment(p)
	if a.trace {
		a.log.Debug("kalloc: addowner", "addr", p.String())
	}
}

// Memory returns the RAM the allocator manages, through which owners read
// and write their pages.
func (a *Allocator) Memory() *phys.Memory { return a.mem }

// Layout returns the physical layout the allocator manages.
func (a *Allocator) Layout() phys.Layout { return a.layout }

func (a *Allocator) addr(i int32) phys.Addr {
	return a.layout.Base + phys.Addr(i)*pageBytes
}
