package oscillator

import "testing"

func TestSineStartsAtZeroAndWraps(t *testing.T) {
	o := New(48000)
	o.SetFrequency(48000) // one full cycle per sample
	if s := o.Sine(); s > 1e-4 || s < -1e-4 {
		t.Fatalf("expected ~0 at phase 0, got %v", s)
	}
}

func TestSawRampsFromNegativeOneToOne(t *testing.T) {
	o := New(48000)
	o.SetFrequency(480) // 100 samples per cycle
	first := o.Saw()
	for i := 0; i < 98; i++ {
		o.Saw()
	}
	last := o.Saw()
	if first > -0.95 {
		t.Fatalf("expected saw to start near -1, got %v", first)
	}
	if last < 0.9 {
		t.Fatalf("expected saw to approach 1 near cycle end, got %v", last)
	}
}

func TestSquareFlipsAtHalfPhase(t *testing.T) {
	o := New(48000)
	o.SetFrequency(48000 / 4) // 4 samples per cycle
	o.Square()       // phase 0
	s1 := o.Square() // phase 0.25
	s2 := o.Square() // phase 0.5
	if s1 != 1.0 || s2 != -1.0 {
		t.Fatalf("expected square to flip from 1 to -1 across phase 0.5, got %v then %v", s1, s2)
	}
}

func TestPulseWidthControlsDutyCycle(t *testing.T) {
	o := New(48000)
	o.SetFrequency(48000 / 10) // 10 samples per cycle
	var high int
	for i := 0; i < 10; i++ {
		if o.Pulse(0.3) > 0 {
			high++
		}
	}
	if high != 3 {
		t.Fatalf("expected 3 high samples for width 0.3 over 10 samples, got %d", high)
	}
}
