// Package stem defines the fixed four-stem layout every track is decoded
// into, and the shared-ownership handle that lets the audio thread and a
// UI waveform-recompute thread both hold a reference without either one
// ever freeing memory on the audio thread.
package stem

import (
	"sync/atomic"

	"github.com/gridtone/deckengine/pkg/audio"
)

// Role identifies one of the four fixed stem roles a track is split
// into.
type Role int

const (
	Vocals Role = iota
	Drums
	Bass
	Other
)

// Count is the fixed number of stem roles.
const Count = 4

// String returns a human-readable role name.
func (r Role) String() string {
	switch r {
	case Vocals:
		return "vocals"
	case Drums:
		return "drums"
	case Bass:
		return "bass"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}

// Buffers is the fixed 4-tuple of stem audio, all at the engine sample
// rate and all of identical length (equal to the track's duration in
// samples, zero-padded if a source stem decoded shorter than the others).
type Buffers struct {
	Stems [Count]*audio.Buffer
}

// NewBuffers pre-allocates all four stem buffers at the given capacity.
func NewBuffers(capacitySamples int) *Buffers {
	b := &Buffers{}
	for i := range b.Stems {
		b.Stems[i] = audio.NewBuffer(capacitySamples)
	}
	return b
}

// Get returns the buffer for a stem role.
func (b *Buffers) Get(role Role) *audio.Buffer {
	return b.Stems[role]
}

// Shared is a reference-counted handle to a Buffers value. Multiple
// subsystems — the audio thread's deck, a UI waveform recompute worker —
// can hold a Shared without knowing about each other. The final release
// happens off the audio thread: Release never frees memory itself, it
// only decrements a count and, at zero, hands the Buffers to a collector
// function supplied at construction (see internal/offthread for the
// concrete non-RT collector).
type Shared struct {
	buffers  *Buffers
	refcount *atomic.Int32
	onZero   func(*Buffers)
}

// NewShared wraps buffers in a Shared handle with an initial refcount of
// 1. onZero is invoked (never on the audio thread — callers are expected
// to route Release through a deferred-drop channel) when the last
// reference is released.
func NewShared(buffers *Buffers, onZero func(*Buffers)) Shared {
	count := &atomic.Int32{}
	count.Store(1)
	return Shared{buffers: buffers, refcount: count, onZero: onZero}
}

// Retain increments the refcount and returns a new handle to the same
// underlying Buffers. Uses a relaxed atomic add so it is safe to call
// concurrently from the audio thread and a UI waveform-recompute thread
// without a lock.
func (s Shared) Retain() Shared {
	s.refcount.Add(1)
	return s
}

// Release decrements the refcount. When it reaches zero the onZero
// callback fires. Callers on the audio thread must never call Release
// directly with a callback that frees memory; route it through a
// deferred-drop channel instead so the actual free happens off-thread.
func (s Shared) Release() {
	if s.refcount.Add(-1) <= 0 && s.onZero != nil {
		s.onZero(s.buffers)
	}
}

// Buffers returns the underlying stem buffers for reading.
func (s Shared) Buffers() *Buffers {
	return s.buffers
}

// Valid reports whether this handle wraps a live buffer set.
func (s Shared) Valid() bool {
	return s.buffers != nil
}
