package offthread

import (
	"sync/atomic"

	"github.com/gridtone/deckengine/pkg/ringqueue"
)

// Releasable is anything the audio thread retires but must not free
// itself: a stem.Shared handle, a resolved linked-stem buffer, or an
// effect instance removed from a chain. Release may allocate, lock, or
// block — it must never run on the audio thread.
type Releasable interface {
	Release()
}

// Collector is the non-audio-thread side of spec.md §9's "deferred
// drop": the audio thread pushes retired resources into an SPSC ring
// (allocation-free, since Releasable values are already-boxed
// pointers/interfaces — no new allocation happens at push time); a
// background goroutine drains the ring and calls Release on each one.
type Collector struct {
	ring    *ringqueue.SPSC[Releasable]
	drained atomic.Uint64
	stop    chan struct{}
	done    chan struct{}
}

// NewCollector creates a collector with the given ring capacity (sized
// to absorb the largest plausible burst, e.g. four tracks reloading at
// once plus their effect chains being rebuilt, per spec.md §5).
func NewCollector(capacity int) *Collector {
	return &Collector{
		ring: ringqueue.New[Releasable](capacity),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Retire is called from the audio thread to hand off a resource for
// off-thread release. While the ring has room it neither blocks nor
// allocates. If the ring is full, Retire logs a warning through Logger
// and calls Release on the caller's thread, both of which may allocate
// or block — this only happens under the backpressure conditions
// spec.md §5 calls "abnormal."
func (c *Collector) Retire(r Releasable) {
	if r == nil {
		return
	}
	if !c.ring.TryPush(r) {
		Logger.Warn("deferred-drop ring full, releasing on caller's thread", "cap", c.ring.Cap())
		r.Release()
	}
}

// Run drains the ring until Stop is called. Intended to run in its own
// goroutine, started once at engine construction.
func (c *Collector) Run() {
	defer close(c.done)
	for {
		select {
		case <-c.stop:
			c.drainRemaining()
			return
		default:
			n := c.ring.DrainUpTo(64, func(r Releasable) {
				r.Release()
				c.drained.Add(1)
			})
			if n == 0 {
				// Nothing to do; yield rather than spin a full core for a
				// background cleanup thread.
				sleepBriefly()
			}
		}
	}
}

func (c *Collector) drainRemaining() {
	for {
		n := c.ring.DrainUpTo(64, func(r Releasable) {
			r.Release()
			c.drained.Add(1)
		})
		if n == 0 {
			return
		}
	}
}

// Stop signals Run to exit after draining whatever remains queued, and
// blocks until it has.
func (c *Collector) Stop() {
	close(c.stop)
	<-c.done
}

// Drained returns the number of resources released so far, for tests
// and diagnostics.
func (c *Collector) Drained() uint64 {
	return c.drained.Load()
}
