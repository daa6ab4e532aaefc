package format

// Alignment utilities for physical page addresses.

// PageRoundUp returns n aligned up to the next page boundary.
//
// Example:
//
//	PageRoundUp(1)    = 4096
//	PageRoundUp(4096) = 4096
//	PageRoundUp(4097) = 8192
func PageRoundUp(n uintptr) uintptr {
	return (n + PageMask) &^ PageMask
}

// PageRoundDown returns n aligned down to the previous page boundary.
//
// Example:
//
//	PageRoundDown(4095) = 0
//	PageRoundDown(4096) = 4096
//	PageRoundDown(8191) = 4096
func PageRoundDown(n uintptr) uintptr {
	return n &^ PageMask
}

// PageAligned reports whether n sits on a page boundary.
func PageAligned(n uintptr) bool {
	return n&PageMask == 0
}

// PageCount returns the number of whole pages in [start, end) once start is
// rounded up to a page boundary. It returns 0 for empty or inverted ranges.
func PageCount(start, end uintptr) int {
	first := PageRoundUp(start)
	if first < start || first >= end {
		return 0
	}
	return int((end - first) >> PageShift)
}
