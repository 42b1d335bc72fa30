package atomics

import "testing"

func TestDeckLUFSGainRoundTrips(t *testing.T) {
	d := NewDeck()
	d.StoreLUFSGain(0.707, -3.0)
	linear, db := d.LoadLUFSGain()
	if linear != 0.707 || db != -3.0 {
		t.Fatalf("expected (0.707,-3.0), got (%v,%v)", linear, db)
	}
}

func TestSlicerQueuePackUnpack(t *testing.T) {
	s := NewSlicer()
	want := [8]uint8{7, 6, 5, 4, 3, 2, 1, 0}
	s.StoreQueue(want)
	got := s.LoadQueue()
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestLinkedStemsZeroValue(t *testing.T) {
	l := NewLinkedStems()
	for i := 0; i < 4; i++ {
		if l.HasLinked[i].Load() {
			t.Fatalf("expected HasLinked[%d] false at zero value", i)
		}
	}
}
