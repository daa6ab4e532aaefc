// Package phys simulates the physical address space of a small machine: a
// layout of where RAM and the kernel image live, and a Memory arena that
// backs every physical page with real bytes.
package phys

import (
	"fmt"
	"sync"

	"github.com/joshuapare/pagekit/internal/format"
	"github.com/joshuapare/pagekit/internal/mmfile"
)

// Memory is the RAM of the simulated machine. Byte i of the arena is the
// byte at physical address Base+i.
//
// Memory does no locking of page contents: whoever owns a page (per the
// allocator) owns its bytes.
type Memory struct {
	layout Layout
	data   []byte

	closeOnce sync.Once
	unmap     func() error
	closeErr  error
}

// New maps an arena covering [l.Base, l.PhysTop).
func New(l Layout) (*Memory, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	data, unmap, err := mmfile.MapAnon(l.Size())
	if err != nil {
		return nil, fmt.Errorf("phys: map %d bytes of RAM: %w", l.Size(), err)
	}
	return &Memory{layout: l, data: data, unmap: unmap}, nil
}

// Layout returns the layout the arena was built for.
func (m *Memory) Layout() Layout { return m.layout }

// Page returns the bytes of the page containing a. It panics if a lies
// outside RAM or the arena has been closed.
func (m *Memory) Page(a Addr) []byte {
	if m.data == nil {
		panic(ErrClosed)
	}
	if !m.layout.Contains(a) {
		panic(fmt.Sprintf("phys: address %s outside RAM [%s, %s)", a, m.layout.Base, m.layout.PhysTop))
	}
	off := int(a.RoundDown() - m.layout.Base)
	return m.data[off : off+format.PageSize : off+format.PageSize]
}

// Fill sets every byte of the page containing a to b.
func (m *Memory) Fill(a Addr, b byte) {
	pg := m.Page(a)
	for i := range pg {
		pg[i] = b
	}
}

// Close unmaps the arena. Pages must not be touched afterwards.
func (m *Memory) Close() error {
	m.closeOnce.Do(func() {
		m.data = nil
		m.closeErr = m.unmap()
	})
	return m.closeErr
}
