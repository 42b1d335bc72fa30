// Package rtlog is the only logging surface the audio thread is allowed
// to touch. It never formats strings, allocates, or blocks on the audio
// path (spec.md §5): Trace writes a fixed-size struct into a
// pre-allocated SPSC ring, and a consumer on a non-audio goroutine pops
// entries with DrainInto. No goroutine in this repository drains a Ring
// or forwards its entries to internal/offthread.Logger. This mirrors the
// teacher repository's
// debug.Logger, with the formatting and io.Writer moved off the
// producer side entirely.
package rtlog

import (
	"github.com/gridtone/deckengine/pkg/ringqueue"
)

// Kind distinguishes the handful of audio-thread events worth tracing.
type Kind uint8

const (
	KindClampedIndex Kind = iota
	KindSkippedCommand
	KindCapacityExceeded
	KindInvariantReset
)

// Entry is a fixed-size, allocation-free trace record. Component and
// Detail are small integer codes rather than strings specifically so
// Trace never has to format or allocate on the audio thread.
type Entry struct {
	Kind      Kind
	Component uint16
	Detail    int64
}

// Ring is a pre-allocated trace sink with a single producer (the audio
// thread) and a single consumer. The engine does not create one.
type Ring struct {
	q *ringqueue.SPSC[Entry]
}

// NewRing pre-allocates a trace ring of the given capacity.
func NewRing(capacity int) *Ring {
	return &Ring{q: ringqueue.New[Entry](capacity)}
}

// Trace records an event. Called from the audio thread; never blocks,
// never allocates. If the ring is full the event is silently dropped —
// losing a diagnostic trace is always preferable to stalling the audio
// callback.
func (r *Ring) Trace(kind Kind, component uint16, detail int64) {
	r.q.TryPush(Entry{Kind: kind, Component: component, Detail: detail})
}

// DrainInto pops up to max entries and invokes fn for each, intended to
// be called from a non-audio goroutine that forwards to structured
// logging.
func (r *Ring) DrainInto(max int, fn func(Entry)) int {
	return r.q.DrainUpTo(max, fn)
}
