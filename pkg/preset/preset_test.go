package preset

import (
	"path/filepath"
	"testing"

	"github.com/gridtone/deckengine/pkg/audio"
	"github.com/gridtone/deckengine/pkg/fx"
)

// fakeEffect is a minimal fx.Effect for round-trip tests.
type fakeEffect struct {
	name     string
	params   []float32
	bypassed bool
}

func (e *fakeEffect) Process(buf *audio.Buffer) {}
func (e *fakeEffect) Info() fx.Info {
	return fx.Info{Name: e.name, Category: fx.CategoryNative}
}
func (e *fakeEffect) GetParams() []float32                { return e.params }
func (e *fakeEffect) SetParam(index int, normalized float32) {
	if index >= 0 && index < len(e.params) {
		e.params[index] = normalized
	}
}
func (e *fakeEffect) SetBypass(b bool)    { e.bypassed = b }
func (e *fakeEffect) IsBypassed() bool    { return e.bypassed }
func (e *fakeEffect) LatencySamples() uint32 { return 0 }
func (e *fakeEffect) Reset()              {}

type fakeFactory struct{}

func (fakeFactory) CreateEffect(r EffectRecord) (fx.Effect, error) {
	return &fakeEffect{name: r.Name, params: make([]float32, len(r.AllParamValues))}, nil
}

func TestStemPresetRoundTrip(t *testing.T) {
	host := fx.NewHost(48000, 512)
	host.PreFX().Add(&fakeEffect{name: "gain", params: []float32{0.5}})
	host.Band(0).Gain = 0.8
	host.Band(0).Chain.Add(&fakeEffect{name: "comp", params: []float32{0.2, 0.7}})
	host.AddBand(2000)
	host.Band(1).Muted = true

	file := BuildStemPresetFile(host, "My Preset")

	path := filepath.Join(t.TempDir(), "preset.yaml")
	if err := SaveStemPreset(path, file); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadStemPreset(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Name != "My Preset" {
		t.Fatalf("expected name to round-trip, got %q", loaded.Name)
	}
	if len(loaded.PreFX) != 1 || loaded.PreFX[0].Name != "gain" {
		t.Fatalf("expected 1 pre_fx effect named gain, got %+v", loaded.PreFX)
	}
	if len(loaded.Bands) != 2 || loaded.Bands[1].Muted != true {
		t.Fatalf("expected 2 bands with band 1 muted, got %+v", loaded.Bands)
	}
	if len(loaded.CrossoverFreqs) != 1 || loaded.CrossoverFreqs[0] != 2000 {
		t.Fatalf("expected one crossover point at 2000Hz, got %v", loaded.CrossoverFreqs)
	}

	rebuilt := fx.NewHost(48000, 512)
	if err := ApplyStemPreset(rebuilt, loaded, fakeFactory{}); err != nil {
		t.Fatal(err)
	}
	if rebuilt.NumBands() != 2 {
		t.Fatalf("expected rebuilt host to have 2 bands, got %d", rebuilt.NumBands())
	}
	if rebuilt.Band(0).Chain.Count() != 1 {
		t.Fatalf("expected band 0 to have 1 effect restored")
	}
	if !rebuilt.Band(1).Muted {
		t.Fatalf("expected band 1's muted flag to survive the round trip")
	}
}

func TestDeckPresetRoundTrip(t *testing.T) {
	file := DeckPresetFile{
		Name: "My Deck",
		Macros: [4]MacroDef{
			{Name: "Filter", Value: 0.5},
			{Name: "Echo", Value: 0.25},
			{Name: "Drive", Value: 0.0},
			{Name: "Width", Value: 1.0},
		},
		Stems: StemRefs{
			Vocals: "vox.yaml",
			Drums:  "drums.yaml",
			Bass:   "bass.yaml",
			Other:  "other.yaml",
		},
	}

	path := filepath.Join(t.TempDir(), "deck.yaml")
	if err := SaveDeckPreset(path, file); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadDeckPreset(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Stems.Vocals != "vox.yaml" || loaded.Macros[0].Name != "Filter" {
		t.Fatalf("expected deck preset to round-trip, got %+v", loaded)
	}
}
