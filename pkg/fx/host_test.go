package fx

import (
	"testing"

	"github.com/gridtone/deckengine/pkg/audio"
)

// fakeEffect is a minimal Effect used across fx package tests: it
// multiplies by a gain parameter so pipeline tests can observe effect
// placement, and records set-param calls for macro modulation tests.
type fakeEffect struct {
	params   []float32
	bypassed bool
}

func newFakeEffect(n int) *fakeEffect {
	return &fakeEffect{params: make([]float32, n)}
}

func (f *fakeEffect) Process(buf *audio.Buffer) {
	gain := f.params[0]
	buf.Scale(1 + gain)
}

func (f *fakeEffect) Info() Info {
	return Info{Name: "fake", Category: CategoryNative}
}

func (f *fakeEffect) GetParams() []float32 {
	out := make([]float32, len(f.params))
	copy(out, f.params)
	return out
}

func (f *fakeEffect) SetParam(index int, value float32) {
	if index >= 0 && index < len(f.params) {
		f.params[index] = value
	}
}

func (f *fakeEffect) SetBypass(b bool)   { f.bypassed = b }
func (f *fakeEffect) IsBypassed() bool   { return f.bypassed }
func (f *fakeEffect) LatencySamples() uint32 { return 0 }
func (f *fakeEffect) Reset()             {}

// TestMacroModulation is spec.md §8 S4: mapping macro 0 to param 2
// with range [0.2, 0.8] and setting macro value 0.5 should leave the
// param at exactly 0.5 after one process block.
func TestMacroModulation(t *testing.T) {
	h := NewHost(48000, 512)
	e := newFakeEffect(3)
	h.Band(0).Chain.Add(e)
	h.AddMacroMapping(MacroMapping{Macro: 0, Location: LocationBand, BandIndex: 0, EffectIdx: 0, ParamIdx: 2, Min: 0.2, Max: 0.8})
	h.SetMacro(0, 0.5)

	buf := audio.NewBuffer(512)
	buf.SetLength(512)
	h.Process(buf)

	if got := e.GetParams()[2]; got != 0.5 {
		t.Fatalf("expected param 0.5, got %v", got)
	}
}

func TestMacroModulationFullRangeLeavesExactMacroValue(t *testing.T) {
	h := NewHost(48000, 64)
	e := newFakeEffect(1)
	h.Band(0).Chain.Add(e)
	h.AddMacroMapping(MacroMapping{Macro: 1, Location: LocationBand, BandIndex: 0, EffectIdx: 0, ParamIdx: 0, Min: 0, Max: 1})
	h.SetMacro(1, 0.37)

	buf := audio.NewBuffer(64)
	buf.SetLength(64)
	h.Process(buf)

	if got := e.GetParams()[0]; got != 0.37 {
		t.Fatalf("expected 0.37, got %v", got)
	}
}

func TestSingleBandBypassesCrossover(t *testing.T) {
	h := NewHost(48000, 128)
	if h.crossover.active != 0 {
		t.Fatal("expected an inactive crossover for single-band host")
	}
	buf := audio.NewBuffer(128)
	buf.SetLength(128)
	buf.Set(0, audio.Sample{Left: 1, Right: 1})
	h.Process(buf)
	if buf.At(0) != (audio.Sample{Left: 1, Right: 1}) {
		t.Fatalf("single unity band should pass signal through unchanged, got %v", buf.At(0))
	}
}

func TestSoloSilencesUnsoloedBands(t *testing.T) {
	h := NewHost(48000, 128)
	h.AddBand(1000)
	h.Band(0).Soloed = true

	buf := audio.NewBuffer(128)
	buf.SetLength(128)
	for i := 0; i < 128; i++ {
		buf.Set(i, audio.Sample{Left: 1, Right: 1})
	}
	h.Process(buf)

	// With band 0 soloed, the result should equal band 0's contribution
	// alone; since both bands sum to an allpass-filtered copy of the
	// input when unsoloed (LR24 split sum), the soloed output must differ
	// unless band 0 happens to carry the whole signal at DC, so just
	// assert band 1's removal changed something relative to no-solo.
	h2 := NewHost(48000, 128)
	h2.AddBand(1000)
	buf2 := audio.NewBuffer(128)
	buf2.SetLength(128)
	for i := 0; i < 128; i++ {
		buf2.Set(i, audio.Sample{Left: 1, Right: 1})
	}
	h2.Process(buf2)

	if buf.At(64) == buf2.At(64) {
		t.Fatal("expected soloing band 0 to change the output relative to no solo")
	}
}

func TestRemoveBandReturnsRemovedForDeferredDrop(t *testing.T) {
	h := NewHost(48000, 64)
	h.AddBand(500)
	h.AddBand(4000)
	if h.NumBands() != 3 {
		t.Fatalf("expected 3 bands, got %d", h.NumBands())
	}
	e := newFakeEffect(1)
	h.Band(1).Chain.Add(e)

	removed := h.RemoveBand(1)
	if len(removed) != 1 || removed[0] != Effect(e) {
		t.Fatalf("expected removed band's single effect back for deferred drop, got %v", removed)
	}
	if h.NumBands() != 2 {
		t.Fatalf("expected 2 bands after removal, got %d", h.NumBands())
	}
}

// TestRemoveBandRecyclesBandSlot exercises the pool-recycling path: the
// band slot RemoveBand vacates must come back clean and its chain
// storage must be reusable by a later AddBand without allocating past
// MaxEffectsPerBand capacity.
func TestRemoveBandRecyclesBandSlot(t *testing.T) {
	h := NewHost(48000, 64)
	h.AddBand(500)
	h.Band(1).Gain = 0.25
	h.Band(1).Muted = true
	h.Band(1).Chain.Add(newFakeEffect(1))

	h.RemoveBand(1)
	h.AddBand(800)

	if b := h.Band(1); b.Gain != 1.0 || b.Muted || b.Chain.Count() != 0 {
		t.Fatalf("expected recycled band slot reset to defaults, got %+v", b)
	}
}
