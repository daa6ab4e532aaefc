package kalloc

import (
	"github.com/joshuapare/pagekit/internal/spin"
)

const (
	// nilPage terminates the free list.
	nilPage int32 = -1

	// notFree marks the link slot of a page that is not on the free list,
	// so an allocated page can never be mistaken for a list node.
	notFree int32 = -2
)

// freeList is a LIFO stack of free page indices. Links live in a side array
// indexed like the reference-count table rather than inside the pages
// themselves, so page contents are never reinterpreted.
//
// All methods require the caller to hold mu.
type freeList struct {
	mu   spin.Spinlock
	head int32
	next []int32
	n    int
}

func newFreeList(pages int) *freeList {
	fl := &freeList{head: nilPage, next: make([]int32, pages)}
	for i := range fl.next {
		fl.next[i] = notFree
	}
	return fl
}

// empty reports whether no page is available.
func (fl *freeList) empty() bool { return fl.head == nilPage }

// contains reports whether page i is linked into the list.
func (fl *freeList) contains(i int32) bool { return fl.next[i] != notFree }

// push makes page i the new head. It returns false, changing nothing, if i
// is already on the list.
func (fl *freeList) push(i int32) bool {
	if fl.contains(i) {
		return false
	}
	fl.next[i] = fl.head
	fl.head = i
	fl.n++
	return true
}

// pop unlinks and returns the head. The list must not be empty.
func (fl *freeList) pop() int32 {
	i := fl.head
	fl.head = fl.next[i]
	fl.next[i] = notFree
	fl.n--
	return i
}
