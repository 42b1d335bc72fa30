package slicer

import (
	"testing"

	"github.com/gridtone/deckengine/pkg/audio"
)

func makeIndexedSource(n int) *audio.Buffer {
	b := audio.NewBuffer(n)
	b.SetLength(n)
	for i := 0; i < n; i++ {
		b.Set(i, audio.Sample{Left: float32(i), Right: float32(i)})
	}
	return b
}

// TestSlicerReverse is spec.md §8 S2: queue [7,6,5,4,3,2,1,0] over an
// 8000-sample window with 1000-sample slices should read each output
// slice from the mirrored source slice.
func TestSlicerReverse(t *testing.T) {
	const windowSize = 8000
	const samplesPerBeat = windowSize / 4.0 // 1 bar = 4 beats

	s := NewState(48000)
	s.Enabled = true
	s.Queue = [Slots]uint8{7, 6, 5, 4, 3, 2, 1, 0}

	source := makeIndexedSource(windowSize)
	buf := audio.NewBuffer(windowSize)
	buf.SetLength(windowSize)

	s.Process(buf, source, 0, samplesPerBeat, 0, windowSize)

	out := buf.Slice()
	for slot := 0; slot < Slots; slot++ {
		mirrored := Slots - 1 - slot
		for k := 0; k < 1000; k++ {
			idx := slot*1000 + k
			want := float32(mirrored*1000 + k)
			if out[idx].Left != want {
				t.Fatalf("slot %d offset %d: got %v want %v", slot, k, out[idx].Left, want)
			}
		}
	}
}

// TestSlicerDefaultQueueIsPassthrough covers the boundary behavior:
// default queue [0..7] must leave input untouched.
func TestSlicerDefaultQueueIsPassthrough(t *testing.T) {
	const windowSize = 8000
	const samplesPerBeat = windowSize / 4.0

	s := NewState(48000)
	s.Enabled = true

	source := makeIndexedSource(windowSize)
	buf := audio.NewBuffer(windowSize)
	buf.SetLength(windowSize)

	s.Process(buf, source, 0, samplesPerBeat, 0, windowSize)

	out := buf.Slice()
	for i := 0; i < windowSize; i++ {
		if out[i].Left != float32(i) {
			t.Fatalf("expected passthrough at %d, got %v", i, out[i].Left)
		}
	}
}

func TestSlicerInertWhenSamplesPerSliceZero(t *testing.T) {
	s := NewState(48000)
	s.Enabled = true
	buf := audio.NewBuffer(16)
	buf.SetLength(16)
	buf.Set(0, audio.Sample{Left: 0.5})
	source := makeIndexedSource(16)

	// samplesPerBeat of 0 collapses windowSize to 0, which must leave
	// the slicer inert per spec.md §4.3's invariant.
	s.Process(buf, source, 0, 0, 0, 16)
	if buf.At(0).Left != 0.5 {
		t.Fatalf("expected inert slicer to leave buffer untouched, got %v", buf.At(0).Left)
	}
}

func TestQueueSliceFifoRotate(t *testing.T) {
	s := NewState(48000)
	s.QueueSlice(9)
	want := [Slots]uint8{1, 2, 3, 4, 5, 6, 7, 9}
	if s.Queue != want {
		t.Fatalf("expected %v, got %v", want, s.Queue)
	}
}

func TestQueueSliceReplaceCurrent(t *testing.T) {
	s := NewState(48000)
	s.Algorithm = ReplaceCurrent
	s.QueueSlice(9)
	if s.Queue[0] != 9 || s.QueueWriteIdx != 1 {
		t.Fatalf("expected slot 0 replaced and write idx advanced, got %v idx=%d", s.Queue, s.QueueWriteIdx)
	}
}

func TestPendingEnableActivatesOnBeatCrossing(t *testing.T) {
	s := NewState(48000)
	s.Enable()
	source := makeIndexedSource(8000)
	buf := audio.NewBuffer(1024)
	buf.SetLength(1024)

	s.Process(buf, source, 0, 2000, 0, 8000)
	if s.Enabled {
		t.Fatal("should not activate before crossing a beat boundary")
	}

	s.Process(buf, source, 2000, 2000, 0, 8000)
	if !s.Enabled {
		t.Fatal("expected activation after crossing a beat boundary")
	}
}
