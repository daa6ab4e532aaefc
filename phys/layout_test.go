package phys

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/pagekit/internal/format"
)

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()
	require.NoError(t, l.Validate())
	require.Equal(t, KernBase, l.Base)
	require.Equal(t, KernBase+128*format.MiB, l.PhysTop)
	require.Equal(t, 128*format.MiB/format.PageSize, l.TablePages())

	start, end := l.FreeRange()
	require.True(t, start.Aligned())
	require.GreaterOrEqual(t, start, l.KernelEnd)
	require.Equal(t, l.PhysTop, end)
	require.Equal(t, int(end-start)/format.PageSize, l.Pages())
}

func TestLayoutValidate(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		ok     bool
	}{
		{"default", DefaultLayout(), true},
		{"no kernel image", Layout{Base: KernBase, KernelEnd: KernBase, PhysTop: KernBase + 4*format.PageSize}, true},
		{"unaligned base", Layout{Base: KernBase + 1, KernelEnd: KernBase + 2, PhysTop: KernBase + 4*format.PageSize}, false},
		{"unaligned top", Layout{Base: KernBase, KernelEnd: KernBase, PhysTop: KernBase + 4*format.PageSize + 7}, false},
		{"kernel below base", Layout{Base: KernBase, KernelEnd: KernBase - 1, PhysTop: KernBase + 4*format.PageSize}, false},
		{"kernel fills RAM", Layout{Base: KernBase, KernelEnd: KernBase + 4*format.PageSize, PhysTop: KernBase + 4*format.PageSize}, false},
		{"no whole page left", NewLayout(4*format.PageSize, 3*format.PageSize+1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate()
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrLayout)
		})
	}
}

func TestLayoutIndexAndContains(t *testing.T) {
	l := NewLayout(16*format.PageSize, format.PageSize)
	require.Equal(t, 0, l.Index(l.Base))
	require.Equal(t, 0, l.Index(l.Base+format.PageSize-1))
	require.Equal(t, 1, l.Index(l.Base+format.PageSize))
	require.Equal(t, 15, l.Index(l.PhysTop-1))

	require.True(t, l.Contains(l.Base))
	require.True(t, l.Contains(l.PhysTop-1))
	require.False(t, l.Contains(l.PhysTop))
	require.False(t, l.Contains(l.Base-1))
}

func TestLayoutPagesRoundsKernelEnd(t *testing.T) {
	l := NewLayout(8*format.PageSize, 0x123)
	start, _ := l.FreeRange()
	require.Equal(t, KernBase+format.PageSize, start)
	require.Equal(t, 7, l.Pages())
}

func TestAddrString(t *testing.T) {
	require.Equal(t, "0x80001000", Addr(0x80001000).String())
	require.Equal(t, Addr(0x80002000), Addr(0x80001001).RoundUp())
	require.Equal(t, Addr(0x80001000), Addr(0x80001fff).RoundDown())
}
