package kalloc

import (
	"fmt"

	"github.com/joshuapare/pagekit/internal/spin"
	"github.com/joshuapare/pagekit/phys"
)

// refTable records how many owners each page has. One lock covers the whole
// array; every operation is O(1) index math under it.
//
// A page in the free pool has count 0. An allocated page has count >= 1.
type refTable struct {
	mu     spin.Spinlock
	layout phys.Layout
	counts []int32

	halt func(*InvariantError)
}

func newRefTable(l phys.Layout, halt func(*InvariantError)) *refTable {
	return &refTable{
		layout: l,
		counts: make([]int32, l.TablePages()),
		halt:   halt,
	}
}

// set overwrites the count of page a with n and returns the previous count.
// Used only when a page is first brought under management or handed out.
func (rt *refTable) set(a phys.Addr, n int32) int32 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	i := rt.layout.Index(a)
	prev := rt.counts[i]
	rt.counts[i] = n
	return prev
}

// increment registers one more owner of an already allocated page.
func (rt *refTable) increment(a phys.Addr) {
	if !rt.layout.Contains(a) {
		rt.halt(&InvariantError{
			Op:    OpAddOwner,
			Addr:  a,
			Check: fmt.Sprintf("address outside physical memory [%s, %s)", rt.layout.Base, rt.layout.PhysTop),
		})
	}

	rt.mu.Lock()
	i := rt.layout.Index(a)
	c := rt.counts[i]
	if c >= 1 {
		rt.counts[i] = c + 1
	}
	rt.mu.Unlock()

	if c < 1 {
		rt.halt(&InvariantError{
			Op:    OpAddOwner,
			Addr:  a,
			Check: fmt.Sprintf("reference count %d below 1 on a page nobody owns", c),
			Count: c,
		})
	}
}

// decrement drops one owner of page a and returns the count left. A result
// of 0 means the caller must put the page back in the pool.
//
// Violations halt after the table lock is dropped, never inside it.
func (rt *refTable) decrement(op string, a phys.Addr) int32 {
	rt.mu.Lock()
	i := rt.layout.Index(a)
	c := rt.counts[i]
	if c >= 1 {
		rt.counts[i] = c - 1
	}
	rt.mu.Unlock()

	if c < 1 {
		rt.halt(&InvariantError{
			Op:    op,
			Addr:  a,
			Check: fmt.Sprintf("reference count %d below 1, page already free", c),
			Count: c,
		})
	}
	return c - 1
}

// count returns the current count of page a.
func (rt *refTable) count(a phys.Addr) int32 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.counts[rt.layout.Index(a)]
}
