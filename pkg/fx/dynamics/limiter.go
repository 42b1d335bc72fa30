package dynamics

import (
	"math"

	"github.com/gridtone/deckengine/pkg/audio"
	"github.com/gridtone/deckengine/pkg/fx"
	"github.com/gridtone/deckengine/pkg/param"
)

// Limiter is a brick-wall limiter used both as an insertable effect and
// as the mixer's master soft limiter (spec.md §4.4). Adapted from the
// teacher's dynamics.Limiter, dropping true-peak oversampling and
// lookahead — the master bus limiter runs post-sum where an extra
// lookahead delay would desynchronize MAIN and CUE, and this engine has
// no per-effect latency budget to spend on it.
type Limiter struct {
	det      *detector
	ceiling  float64 // dB
	bypassed bool

	gainReduction float64
	clipped       bool
	params        *param.Registry
}

// NewLimiter creates a limiter with a -0.3 dB ceiling and a fast
// attack / 50ms release envelope, matching the teacher's defaults.
func NewLimiter(sampleRate float64) *Limiter {
	reg := param.NewRegistry()
	reg.Add(param.NewParameter(0, "ceiling", -12, 0, -0.3))
	l := &Limiter{det: newDetector(sampleRate), ceiling: -0.3, params: reg}
	l.det.setAttack(0.0001)
	l.det.setRelease(0.050)
	return l
}

func (l *Limiter) Info() fx.Info {
	return fx.Info{
		Name:     "limiter",
		Category: fx.CategoryNative,
		Params:   []fx.ParamInfo{{Name: "ceiling", Min: -12, Max: 0}},
	}
}

func (l *Limiter) GetParams() []float32 {
	return l.params.NormalizedValues()
}

func (l *Limiter) SetParam(index int, normalized float32) {
	if index != 0 {
		return
	}
	p := l.params.ByIndex(index)
	if p == nil {
		return
	}
	p.SetValue(float64(normalized))
	l.ceiling = math.Min(0, p.GetPlainValue())
}

func (l *Limiter) SetBypass(b bool)       { l.bypassed = b }
func (l *Limiter) IsBypassed() bool       { return l.bypassed }
func (l *Limiter) LatencySamples() uint32 { return 0 }
func (l *Limiter) Reset() {
	l.det.reset()
	l.clipped = false
}

// GainReduction returns the most recently applied reduction in dB.
func (l *Limiter) GainReduction() float64 { return l.gainReduction }

// Clipped reports whether any sample in the most recent block hit the
// limiter's ceiling hard enough to be flagged for the clip-detection
// atomic (spec.md §4.4).
func (l *Limiter) Clipped() bool { return l.clipped }

func (l *Limiter) Process(buf *audio.Buffer) {
	l.clipped = false
	ceilingLin := dbToLinear(l.ceiling)
	data := buf.Slice()
	for i, s := range data {
		peak := math.Max(math.Abs(float64(s.Left)), math.Abs(float64(s.Right)))
		env := l.det.detect(float32(peak))
		envDB := linearToDB(env)
		reduction := envDB - l.ceiling
		if reduction < 0 {
			reduction = 0
		}
		l.gainReduction = reduction
		gain := float32(dbToLinear(-reduction))
		out := s.Scale(gain)
		if math.Abs(float64(out.Left)) >= ceilingLin || math.Abs(float64(out.Right)) >= ceilingLin {
			l.clipped = true
		}
		data[i] = out
	}
}
