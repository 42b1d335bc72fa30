//go:build rtdebug

// Package rtlog's rtdebug build carries an allocation guard used only by
// tests (spec.md §8 S6: "zero allocations detected on the audio thread
// (observed via thread-local allocator guard in tests)"). It is adapted
// from the teacher repository's debug-tag-gated buffer tracker, redone
// here as a runtime.MemStats delta check around a single callback
// invocation rather than a persistent allocation tracker, since the
// property under test is "did this one block allocate," not a running
// report.
package rtlog

import (
	"fmt"
	"runtime"
)

// AssertNoAlloc runs fn and panics if the heap grew during the call. It
// forces a GC before the call so transient allocator bookkeeping from
// unrelated goroutines settles first, then
// compares Mallocs counts rather than HeapAlloc bytes (Mallocs only
// increases, making the comparison robust to concurrent GC activity).
func AssertNoAlloc(label string, fn func()) {
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	fn()

	runtime.ReadMemStats(&after)
	if after.Mallocs > before.Mallocs {
		panic(fmt.Sprintf("rtlog: %s allocated %d times during a guarded call", label, after.Mallocs-before.Mallocs))
	}
}

// GuardEnabled reports whether the allocation guard is compiled in.
func GuardEnabled() bool { return true }
