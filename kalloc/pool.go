package kalloc

import (
	"fmt"

	"github.com/joshuapare/pagekit/internal/format"
	"github.com/joshuapare/pagekit/phys"
)

const pageBytes = format.PageSize

// acquire removes the most recently released page from the pool and gives
// it a count of 1. Reading the head, resetting its count and unlinking it
// happen under the pool lock, so no other acquire or release can interleave.
func (a *Allocator) acquire() (phys.Addr, bool) {
	p, ok := a.take()
	if !ok {
		return 0, false
	}
	a.mem.Fill(p, format.AllocJunk)
	return p, true
}

func (a *Allocator) take() (phys.Addr, bool) {
	a.free.mu.Lock()
	if a.free.empty() {
		a.free.mu.Unlock()
		return 0, false
	}
	p := a.addr(a.free.head)
	prev := a.refs.set(p, 1)
	if prev == 0 {
		a.free.pop()
	}
	a.free.mu.Unlock()

	if prev != 0 {
		a.halt(&InvariantError{
			Op:    OpAlloc,
			Addr:  p,
			Check: fmt.Sprintf("pooled page has reference count %d, want 0", prev),
			Count: prev,
		})
	}
	return p, true
}

// release drops one owner of p and, if that was the last one, scrubs the
// page and pushes it onto the pool. The count table and the pool are
// updated in two separate critical sections; the count check in decrement
// catches callers that release the same grant twice.
//
// release reports whether the page went back to the pool.
func (a *Allocator) release(op string, p phys.Addr) bool {
	switch {
	case !p.Aligned():
		a.halt(&InvariantError{Op: op, Addr: p, Check: "address not page-aligned"})
	case p < a.layout.KernelEnd:
		a.halt(&InvariantError{Op: op, Addr: p, Check: fmt.Sprintf("address inside kernel image (end %s)", a.layout.KernelEnd)})
	case p >= a.layout.PhysTop:
		a.halt(&InvariantError{Op: op, Addr: p, Check: fmt.Sprintf("address at or past top of memory %s", a.layout.PhysTop)})
	}

	if a.refs.decrement(op, p) != 0 {
		return false
	}

	a.mem.Fill(p, format.FreeJunk)

	a.free.mu.Lock()
	pushed := a.free.push(int32(a.layout.Index(p)))
	a.free.mu.Unlock()
	if !pushed {
		a.halt(&InvariantError{Op: op, Addr: p, Check: "page already on the free list"})
	}
	return true
}
