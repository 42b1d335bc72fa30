package fx

import (
	"testing"

	"github.com/gridtone/deckengine/pkg/audio"
)

func TestChainProcessesInOrder(t *testing.T) {
	c := NewChain(4)
	c.Add(newFakeEffect(1)) // gain 0 -> scale 1, no-op
	e2 := newFakeEffect(1)
	e2.params[0] = 1 // scale by 2
	c.Add(e2)

	buf := audio.NewBuffer(4)
	buf.SetLength(4)
	buf.Set(0, audio.Sample{Left: 1, Right: 1})
	c.Process(buf)

	if buf.At(0).Left != 2 {
		t.Fatalf("expected 2, got %v", buf.At(0).Left)
	}
}

func TestChainSkipsBypassedEffects(t *testing.T) {
	c := NewChain(4)
	e := newFakeEffect(1)
	e.params[0] = 1
	e.SetBypass(true)
	c.Add(e)

	buf := audio.NewBuffer(4)
	buf.SetLength(4)
	buf.Set(0, audio.Sample{Left: 1, Right: 1})
	c.Process(buf)

	if buf.At(0).Left != 1 {
		t.Fatalf("expected bypassed effect to leave signal untouched, got %v", buf.At(0).Left)
	}
}

func TestChainInsertRemoveReorder(t *testing.T) {
	c := NewChain(4)
	a, b, d := newFakeEffect(1), newFakeEffect(1), newFakeEffect(1)
	c.Add(a)
	c.Add(b)
	c.InsertAt(1, d)
	if c.At(0) != Effect(a) || c.At(1) != Effect(d) || c.At(2) != Effect(b) {
		t.Fatal("unexpected order after InsertAt")
	}

	c.Reorder(2, 0)
	if c.At(0) != Effect(b) {
		t.Fatalf("expected b moved to front, got %v at 0", c.At(0))
	}

	removed := c.RemoveAt(0)
	if removed != Effect(b) {
		t.Fatal("expected RemoveAt to return b")
	}
	if c.Count() != 2 {
		t.Fatalf("expected count 2 after removal, got %d", c.Count())
	}
}

func TestChainLatencySumsEffects(t *testing.T) {
	c := NewChain(4)
	c.Add(&latencyEffect{latency: 10})
	c.Add(&latencyEffect{latency: 25})
	if got := c.Latency(); got != 35 {
		t.Fatalf("expected 35, got %d", got)
	}
}

type latencyEffect struct {
	fakeEffect
	latency uint32
}

func (l *latencyEffect) LatencySamples() uint32 { return l.latency }
