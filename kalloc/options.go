package kalloc

import (
	"log/slog"
	"os"
)

// Runtime debug flag for per-operation logging - controlled by PAGEKIT_LOG_ALLOC env var.
var logAlloc = os.Getenv("PAGEKIT_LOG_ALLOC") != ""

// Options configures an Allocator. A nil *Options selects every default.
type Options struct {
	// Logger receives the bootstrap banner, invariant violations and, with
	// Trace, one debug record per operation. Default: logger.L.
	Logger *slog.Logger

	// Trace logs every Alloc, Free and AddOwner at debug level.
	// Also enabled by setting PAGEKIT_LOG_ALLOC.
	Trace bool

	// Halt replaces the routine run after an invariant violation has been
	// logged. It must not return; if it does the allocator panics with the
	// *InvariantError anyway. It runs with no allocator lock held, so other
	// goroutines keep making progress while it does. Default: panic.
	Halt func(error)
}
