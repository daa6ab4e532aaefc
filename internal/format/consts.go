// Package format holds the page geometry shared by every pagekit package:
// page size, alignment masks and the junk bytes written into pages as they
// change hands. Nothing here allocates or locks.
package format

const (
	// PageShift is log2(PageSize). Shifting a physical address right by
	// PageShift yields its page number.
	PageShift = 12

	// PageSize is the allocator's only granularity, in bytes.
	PageSize = 1 << PageShift

	// PageMask is the bitmask used for aligning to page boundaries (PageSize - 1).
	PageMask = PageSize - 1
)

const (
	// AllocJunk fills every page handed out by the allocator, so a caller
	// reading a page before writing it sees garbage instead of the previous
	// owner's data.
	AllocJunk byte = 0x05

	// FreeJunk fills a page when its last owner releases it. It differs from
	// AllocJunk so a stale read can be told apart from an unwritten one.
	FreeJunk byte = 0x01
)

// KiB and MiB are convenience sizes for layouts and reporting.
const (
	KiB = 1 << 10
	MiB = 1 << 20
)
