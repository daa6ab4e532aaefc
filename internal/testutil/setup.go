// Package testutil holds helpers shared by tests that need simulated RAM.
package testutil

import (
	"testing"

	"github.com/joshuapare/pagekit/internal/format"
	"github.com/joshuapare/pagekit/phys"
)

// SetupMemory maps an arena of the given number of pages starting at
// phys.KernBase, the first kernelBytes of which belong to the kernel image.
// The arena is unmapped when the test ends.
//
// Example:
//
//	mem := testutil.SetupMemory(t, 64, 2*format.PageSize+0x345)
//	ka, err := kalloc.New(mem, nil)
func SetupMemory(t testing.TB, pages, kernelBytes int) *phys.Memory {
	t.Helper()

	mem, err := phys.New(phys.NewLayout(pages*format.PageSize, kernelBytes))
	if err != nil {
		t.Fatalf("Failed to map memory: %v", err)
	}

	t.Cleanup(func() {
		if err := mem.Close(); err != nil {
			t.Errorf("Failed to unmap memory: %v", err)
		}
	})

	return mem
}

// RequireFilled fails the test unless every byte of the page containing p
// equals b. It reports only the first mismatching byte.
func RequireFilled(t testing.TB, mem *phys.Memory, p phys.Addr, b byte) {
	t.Helper()

	for i, got := range mem.Page(p) {
		if got != b {
			t.Fatalf("page %s byte %d = %#x, want %#x", p, i, got, b)
		}
	}
}
