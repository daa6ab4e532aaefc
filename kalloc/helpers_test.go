package kalloc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/pagekit/internal/format"
	"github.com/joshuapare/pagekit/internal/testutil"
	"github.com/joshuapare/pagekit/phys"
)

// testKernelBytes puts the end of the kernel image partway into the third
// page, the way a link-time end symbol usually lands.
const testKernelBytes = 2*format.PageSize + 0x345

// testKernelPages is the number of pages the kernel image covers.
const testKernelPages = 3

// newTestAllocator builds an allocator over a fresh arena of the given
// number of pages. The pool is empty until Init.
func newTestAllocator(t testing.TB, pages int, opts *Options) *Allocator {
	t.Helper()
	mem := testutil.SetupMemory(t, pages, testKernelBytes)
	a, err := New(mem, opts)
	require.NoError(t, err)
	return a
}

// newSeededAllocator is newTestAllocator followed by Init.
func newSeededAllocator(t testing.TB, pages int) *Allocator {
	t.Helper()
	a := newTestAllocator(t, pages, nil)
	a.Init()
	return a
}

// requireHalt runs fn and returns the InvariantError it halted with.
func requireHalt(t testing.TB, fn func()) *InvariantError {
	t.Helper()
	var got *InvariantError
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected an invariant halt")
			err, ok := r.(*InvariantError)
			require.True(t, ok, "halted with %T (%v), want *InvariantError", r, r)
			got = err
		}()
		fn()
	}()
	return got
}

// drain allocates until the pool is empty and returns every page obtained.
func drain(t testing.TB, a *Allocator) []phys.Addr {
	t.Helper()
	var pages []phys.Addr
	for {
		p, err := a.Alloc()
		if errors.Is(err, ErrNoMemory) {
			return pages
		}
		require.NoError(t, err)
		pages = append(pages, p)
	}
}

// requirePageFilled asserts every byte of page p equals b.
func requirePageFilled(t testing.TB, a *Allocator, p phys.Addr, b byte) {
	t.Helper()
	testutil.RequireFilled(t, a.Memory(), p, b)
}

// requireQuiescentInvariants checks, with no operation in flight, that a
// managed page is on the free list exactly when its count is 0, that no
// count is negative, and that the list is acyclic and its length matches.
func requireQuiescentInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	a.free.mu.Lock()
	defer a.free.mu.Unlock()
	a.refs.mu.Lock()
	defer a.refs.mu.Unlock()

	first := a.layout.Index(a.layout.KernelEnd.RoundUp())
	for i, c := range a.refs.counts {
		require.GreaterOrEqual(t, c, int32(0), "page %s has negative count", a.addr(int32(i)))
		if i < first {
			require.Zero(t, c, "kernel image page %s has a count", a.addr(int32(i)))
			require.False(t, a.free.contains(int32(i)), "kernel image page %s is pooled", a.addr(int32(i)))
			continue
		}
		require.Equal(t, c == 0, a.free.contains(int32(i)),
			"page %s: count %d, pooled %v", a.addr(int32(i)), c, a.free.contains(int32(i)))
	}

	seen := 0
	for i := a.free.head; i != nilPage; i = a.free.next[i] {
		seen++
		require.LessOrEqual(t, seen, a.free.n, "free list longer than its length, cycle?")
	}
	require.Equal(t, a.free.n, seen)
}
