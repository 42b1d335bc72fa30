package embedded

import (
	"math"

	"github.com/gridtone/deckengine/pkg/audio"
	"github.com/gridtone/deckengine/pkg/fx"
	"github.com/gridtone/deckengine/pkg/param"
)

// sineLFO is a minimal phase-accumulator sine oscillator, trimmed from
// the teacher's modulation.LFO down to the one waveform this engine's
// tremolo effect needs.
type sineLFO struct {
	sampleRate float64
	phase      float64
	phaseInc   float64
}

func newSineLFO(sampleRate float64) *sineLFO {
	return &sineLFO{sampleRate: sampleRate}
}

func (l *sineLFO) setFrequency(hz float64) {
	l.phaseInc = hz / l.sampleRate
}

func (l *sineLFO) next() float64 {
	v := math.Sin(2 * math.Pi * l.phase)
	l.phase += l.phaseInc
	if l.phase >= 1 {
		l.phase -= 1
	}
	return v
}

func (l *sineLFO) reset() {
	l.phase = 0
}

// Tremolo is a stereo amplitude-modulation effect, adapted from the
// teacher's modulation.Tremolo trimmed to its normal (sine) mode —
// this engine's macro-modulation layer is where harmonic/waveform
// variety would be added, not the effect itself.
type Tremolo struct {
	lfoL, lfoR *sineLFO
	rate       float64 // Hz
	depth      float64 // 0-1
	bypassed   bool
	params     *param.Registry
}

// NewTremolo creates a tremolo at 5Hz, 50% depth, matching the
// teacher's defaults.
func NewTremolo(sampleRate float64) *Tremolo {
	reg := param.NewRegistry()
	reg.Add(
		param.NewParameter(0, "rate", 0.01, 20, 5),
		param.NewParameter(1, "depth", 0, 1, 0.5),
	)
	t := &Tremolo{lfoL: newSineLFO(sampleRate), lfoR: newSineLFO(sampleRate), rate: 5, depth: 0.5, params: reg}
	t.lfoL.setFrequency(t.rate)
	t.lfoR.setFrequency(t.rate)
	return t
}

func (t *Tremolo) Info() fx.Info {
	return fx.Info{
		Name:     "tremolo",
		Category: fx.CategoryEmbedded,
		Params: []fx.ParamInfo{
			{Name: "rate", Min: 0.01, Max: 20},
			{Name: "depth", Min: 0, Max: 1},
		},
	}
}

func (t *Tremolo) GetParams() []float32 {
	return t.params.NormalizedValues()
}

func (t *Tremolo) SetParam(index int, normalized float32) {
	p := t.params.ByIndex(index)
	if p == nil {
		return
	}
	p.SetValue(float64(normalized))
	switch index {
	case 0:
		t.rate = p.GetPlainValue()
		t.lfoL.setFrequency(t.rate)
		t.lfoR.setFrequency(t.rate)
	case 1:
		t.depth = p.GetPlainValue()
	}
}

func (t *Tremolo) SetBypass(b bool)       { t.bypassed = b }
func (t *Tremolo) IsBypassed() bool       { return t.bypassed }
func (t *Tremolo) LatencySamples() uint32 { return 0 }
func (t *Tremolo) Reset() {
	t.lfoL.reset()
	t.lfoR.reset()
}

func (t *Tremolo) Process(buf *audio.Buffer) {
	data := buf.Slice()
	for i, s := range data {
		gainL := float32(1 - t.depth*(0.5-0.5*t.lfoL.next()))
		gainR := float32(1 - t.depth*(0.5-0.5*t.lfoR.next()))
		data[i] = audio.Sample{Left: s.Left * gainL, Right: s.Right * gainR}
	}
}
