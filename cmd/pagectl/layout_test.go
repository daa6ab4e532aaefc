package main

import (
	"testing"
)

func TestLayoutCommand(t *testing.T) {
	resetFlags(t)

	output, err := captureOutput(t, runLayout)
	if err != nil {
		t.Fatalf("runLayout() error = %v", err)
	}
	assertContains(t, output, []string{
		"RAM:          [0x80000000, 0x80100000)",
		"Kernel image: [0x80000000, 0x80002345)",
		"Managed:      [0x80003000, 0x800ff000]",
		"Pages:        253 (1012 KB)",
	})
}

func TestLayoutCommandJSON(t *testing.T) {
	resetFlags(t)
	jsonOut = true

	output, err := captureOutput(t, runLayout)
	if err != nil {
		t.Fatalf("runLayout() error = %v", err)
	}

	var info LayoutInfo
	decodeJSON(t, output, &info)
	if info.Pages != 253 || info.TableSlots != 256 {
		t.Errorf("pages = %d, table slots = %d, want 253 and 256", info.Pages, info.TableSlots)
	}
	if info.FirstPage != "0x80003000" {
		t.Errorf("first page = %s, want 0x80003000", info.FirstPage)
	}
}

func TestLayoutCommandRejectsBadFlags(t *testing.T) {
	tests := []struct {
		name   string
		mem    int
		kernel int
	}{
		{"zero memory", 0, testKernelLen},
		{"kernel fills memory", 1, 1 << 20},
		{"negative kernel", 1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			memMiB = tt.mem
			kernelLen = tt.kernel
			if _, err := captureOutput(t, runLayout); err == nil {
				t.Errorf("runLayout() succeeded with --mem %d --kernel %d", tt.mem, tt.kernel)
			}
		})
	}
}
