// Package embedded provides the embedded-DSP-graph-node effect family
// (spec.md §4.2): small, self-contained effects adapted from the
// teacher's pkg/dsp/gain, pkg/dsp/modulation, and pkg/dsp/distortion
// packages into the fx.Effect contract.
package embedded

import (
	"math"

	"github.com/gridtone/deckengine/pkg/audio"
	"github.com/gridtone/deckengine/pkg/fx"
	"github.com/gridtone/deckengine/pkg/param"
)

// minDB mirrors the teacher's gain.MinDB floor for dB<->linear
// round-tripping near silence.
const minDB = -200.0

func linearToDB(v float32) float32 {
	if v <= 0 {
		return minDB
	}
	return 20 * float32(math.Log10(float64(v)))
}

func dbToLinear(db float32) float32 {
	if db <= minDB {
		return 0
	}
	return float32(math.Pow(10, float64(db)/20))
}

// Gain is a plain linear gain stage, adapted from gain.ApplyDb.
type Gain struct {
	db       float32
	bypassed bool
	params   *param.Registry
}

// NewGain creates a unity-gain stage.
func NewGain() *Gain {
	reg := param.NewRegistry()
	reg.Add(param.NewParameter(0, "gain_db", -24, 24, 0))
	return &Gain{params: reg}
}

func (g *Gain) Info() fx.Info {
	return fx.Info{
		Name:     "gain",
		Category: fx.CategoryEmbedded,
		Params:   []fx.ParamInfo{{Name: "gain_db", Min: -24, Max: 24}},
	}
}

func (g *Gain) GetParams() []float32 {
	return g.params.NormalizedValues()
}

func (g *Gain) SetParam(index int, normalized float32) {
	p := g.params.ByIndex(index)
	if p == nil {
		return
	}
	p.SetValue(float64(normalized))
	if index == 0 {
		g.db = float32(p.GetPlainValue())
	}
}

func (g *Gain) SetBypass(b bool)       { g.bypassed = b }
func (g *Gain) IsBypassed() bool       { return g.bypassed }
func (g *Gain) LatencySamples() uint32 { return 0 }
func (g *Gain) Reset()                 {}

func (g *Gain) Process(buf *audio.Buffer) {
	buf.Scale(dbToLinear(g.db))
}
