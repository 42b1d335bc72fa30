package linkedstem

import (
	"math"
	"testing"

	"github.com/gridtone/deckengine/pkg/audio"
)

func toneBuffer(n int, freq, sampleRate float64) *audio.Buffer {
	b := audio.NewBuffer(n)
	b.SetLength(n)
	for i := 0; i < n; i++ {
		v := float32(math.Sin(2 * math.Pi * freq * float64(i) / sampleRate))
		b.Set(i, audio.Sample{Left: v, Right: v})
	}
	return b
}

// TestLinkedStemAlignment is spec.md §8 S5: a 10s 1kHz tone with
// linked_drop_marker=48000, host_drop_marker=96000. At host position
// 96000 with a 1024-sample block, output must equal linked buffer
// [48000..49024] exactly (gain 1.0 here).
func TestLinkedStemAlignment(t *testing.T) {
	const sampleRate = 48000.0
	buf := toneBuffer(10*int(sampleRate), 1000, sampleRate)
	info := &Info{Buffer: buf, DropMarker: 48000, Gain: 1.0}

	dst := audio.NewBuffer(1024)
	dst.SetLength(1024)
	info.Read(dst, 96000, 96000)

	want := buf.Slice()[48000:49024]
	got := dst.Slice()
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("sample %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestLinkedStemOutOfBufferIsSilent(t *testing.T) {
	buf := toneBuffer(1000, 1000, 48000)
	info := &Info{Buffer: buf, DropMarker: 100, Gain: 1.0}

	dst := audio.NewBuffer(64)
	dst.SetLength(64)
	// host_position < host_drop_marker - linked_drop_marker -> silence
	info.Read(dst, 0, 200)

	for i, s := range dst.Slice() {
		if s != (audio.Sample{}) {
			t.Fatalf("sample %d: expected silence, got %v", i, s)
		}
	}
}

func TestLinkedStemAppliesGain(t *testing.T) {
	buf := audio.NewBuffer(10)
	buf.SetLength(10)
	for i := 0; i < 10; i++ {
		buf.Set(i, audio.Sample{Left: 1, Right: 1})
	}
	info := &Info{Buffer: buf, DropMarker: 0, Gain: 0.5}

	dst := audio.NewBuffer(4)
	dst.SetLength(4)
	info.Read(dst, 0, 0)

	for _, s := range dst.Slice() {
		if s.Left != 0.5 {
			t.Fatalf("expected gain-scaled sample 0.5, got %v", s.Left)
		}
	}
}

func TestNilInfoProducesSilence(t *testing.T) {
	var info *Info
	dst := audio.NewBuffer(4)
	dst.SetLength(4)
	dst.Set(0, audio.Sample{Left: 1})
	info.Read(dst, 0, 0)
	if dst.At(0) != (audio.Sample{}) {
		t.Fatal("expected nil Info to produce silence")
	}
}
