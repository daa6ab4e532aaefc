package kalloc

import (
	"github.com/joshuapare/pagekit/phys"
)

// freeRange donates every whole page in [start, end) to the pool, in
// ascending address order, and returns how many it donated.
//
// Each page is forced to count 1 and then released through the ordinary
// release path, so there is exactly one way into the pool.
func (a *Allocator) freeRange(start, end phys.Addr) int {
	a.log.Debug("kalloc: freerange", "start", start.String(), "end", end.String())
	n := 0
	for p := start.RoundUp(); p+pageBytes <= end; p += pageBytes {
		a.refs.set(p, 1)
		a.release(OpInit, p)
		n++
	}
	return n
}
