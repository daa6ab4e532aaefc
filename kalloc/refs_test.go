package kalloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/pagekit/internal/format"
	"github.com/joshuapare/pagekit/phys"
)

func newTestRefTable(pages int) *refTable {
	l := phys.NewLayout(pages*format.PageSize, 0)
	return newRefTable(l, func(err *InvariantError) { panic(err) })
}

func TestRefTableSetOverwrites(t *testing.T) {
	rt := newTestRefTable(4)
	p := rt.layout.Base + 2*format.PageSize

	require.Equal(t, int32(0), rt.set(p, 1))
	require.Equal(t, int32(1), rt.count(p))

	rt.counts[rt.layout.Index(p)] = 7
	require.Equal(t, int32(7), rt.set(p, 1), "set returns the overwritten count")
	require.Equal(t, int32(1), rt.count(p))
}

func TestRefTableIncrementDecrement(t *testing.T) {
	rt := newTestRefTable(4)
	p := rt.layout.Base + format.PageSize
	rt.set(p, 1)

	rt.increment(p)
	rt.increment(p)
	require.Equal(t, int32(3), rt.count(p))

	require.Equal(t, int32(2), rt.decrement(OpFree, p))
	require.Equal(t, int32(1), rt.decrement(OpFree, p))
	require.Equal(t, int32(0), rt.decrement(OpFree, p))
}

func TestRefTableIndexUsesWholePage(t *testing.T) {
	rt := newTestRefTable(4)
	p := rt.layout.Base + format.PageSize
	rt.set(p, 1)

	rt.increment(p + 100)
	require.Equal(t, int32(2), rt.count(p))
}

func TestRefTableIncrementHalts(t *testing.T) {
	rt := newTestRefTable(4)

	t.Run("unowned page", func(t *testing.T) {
		p := rt.layout.Base + format.PageSize
		err := requireHalt(t, func() { rt.increment(p) })
		require.Equal(t, OpAddOwner, err.Op)
		require.Equal(t, p, err.Addr)
		require.Equal(t, int32(0), err.Count)
		require.Contains(t, err.Check, "below 1")
		require.False(t, rt.mu.Locked(), "halt must not leave the table locked")
	})

	t.Run("past top of memory", func(t *testing.T) {
		err := requireHalt(t, func() { rt.increment(rt.layout.PhysTop) })
		require.Contains(t, err.Check, "outside physical memory")
	})

	t.Run("below base", func(t *testing.T) {
		err := requireHalt(t, func() { rt.increment(rt.layout.Base - format.PageSize) })
		require.Contains(t, err.Check, "outside physical memory")
	})
}

func TestRefTableHaltsOutsideLock(t *testing.T) {
	l := phys.NewLayout(4*format.PageSize, 0)
	var rt *refTable
	var held []bool
	rt = newRefTable(l, func(err *InvariantError) {
		held = append(held, rt.mu.Locked())
		panic(err)
	})
	p := l.Base + format.PageSize

	requireHalt(t, func() { rt.increment(p) })
	requireHalt(t, func() { rt.decrement(OpFree, p) })
	require.Equal(t, []bool{false, false}, held)
	require.Equal(t, int32(0), rt.count(p))
}

func TestRefTableDecrementHaltsOnFreePage(t *testing.T) {
	rt := newTestRefTable(4)
	p := rt.layout.Base + 3*format.PageSize

	err := requireHalt(t, func() { rt.decrement(OpFree, p) })
	require.Equal(t, OpFree, err.Op)
	require.Contains(t, err.Check, "already free")
	require.Equal(t, int32(0), rt.count(p), "a failed decrement leaves the count alone")
}
