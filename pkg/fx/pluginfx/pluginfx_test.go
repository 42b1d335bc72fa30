package pluginfx

import (
	"testing"

	"github.com/gridtone/deckengine/pkg/audio"
)

// fakeHandle inverts its input, for testing that Adapter's
// deinterleave/reinterleave round-trips correctly.
type fakeHandle struct {
	params []float32
}

func (f *fakeHandle) ProcessStereo(left, right []float32) {
	for i := range left {
		left[i] = -left[i]
		right[i] = -right[i]
	}
}
func (f *fakeHandle) ParamCount() int                    { return len(f.params) }
func (f *fakeHandle) ParamName(i int) string             { return "p" }
func (f *fakeHandle) ParamRange(i int) (float32, float32) { return 0, 1 }
func (f *fakeHandle) GetParam(i int) float32             { return f.params[i] }
func (f *fakeHandle) SetParam(i int, v float32)          { f.params[i] = v }
func (f *fakeHandle) Latency() uint32                    { return 128 }
func (f *fakeHandle) Reset()                             {}

func TestAdapterRoundTripsStereo(t *testing.T) {
	h := &fakeHandle{params: make([]float32, 2)}
	a := NewAdapter("fake", h, 64)

	buf := audio.NewBuffer(64)
	buf.SetLength(64)
	buf.Set(0, audio.Sample{Left: 0.5, Right: -0.25})
	a.Process(buf)

	got := buf.At(0)
	if got.Left != -0.5 || got.Right != 0.25 {
		t.Fatalf("expected inverted stereo frame, got %+v", got)
	}
	if a.LatencySamples() != 128 {
		t.Fatalf("expected latency passthrough, got %d", a.LatencySamples())
	}
}
