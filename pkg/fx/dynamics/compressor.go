package dynamics

import (
	"math"

	"github.com/gridtone/deckengine/pkg/audio"
	"github.com/gridtone/deckengine/pkg/fx"
	"github.com/gridtone/deckengine/pkg/param"
)

// Compressor is a feed-forward compressor with a soft knee, satisfying
// fx.Effect. Adapted from the teacher's dynamics.Compressor, trimmed to
// drop lookahead (this engine has no per-effect delay-compensation
// budget beyond what the host's latency cache already accounts for).
type Compressor struct {
	det *detector

	threshold  float64 // dB
	ratio      float64
	kneeWidth  float64 // dB
	makeupGain float64 // dB
	bypassed   bool

	gainReduction float64
	params        *param.Registry
}

const (
	paramThreshold = iota
	paramRatio
	paramAttack
	paramRelease
	paramKnee
	paramMakeup
	compressorParamCount
)

// NewCompressor creates a compressor at the teacher's defaults: -20 dB
// threshold, 4:1 ratio, 5ms attack, 50ms release, 2dB soft knee.
func NewCompressor(sampleRate float64) *Compressor {
	reg := param.NewRegistry()
	reg.Add(
		param.NewParameter(paramThreshold, "threshold", -60, 0, -20),
		param.NewParameter(paramRatio, "ratio", 1, 20, 4),
		param.NewParameter(paramAttack, "attack", 0.0001, 0.1, 0.005),
		param.NewParameter(paramRelease, "release", 0.001, 1, 0.050),
		param.NewParameter(paramKnee, "knee", 0, 24, 2),
		param.NewParameter(paramMakeup, "makeup", 0, 24, 0),
	)
	return &Compressor{
		det:        newDetector(sampleRate),
		threshold:  -20,
		ratio:      4,
		kneeWidth:  2,
		makeupGain: 0,
		params:     reg,
	}
}

func (c *Compressor) Info() fx.Info {
	return fx.Info{
		Name:     "compressor",
		Category: fx.CategoryNative,
		Params: []fx.ParamInfo{
			{Name: "threshold", Min: -60, Max: 0},
			{Name: "ratio", Min: 1, Max: 20},
			{Name: "attack", Min: 0.0001, Max: 0.1},
			{Name: "release", Min: 0.001, Max: 1},
			{Name: "knee", Min: 0, Max: 24},
			{Name: "makeup", Min: 0, Max: 24},
		},
	}
}

func (c *Compressor) GetParams() []float32 {
	return c.params.NormalizedValues()
}

func (c *Compressor) SetParam(index int, normalized float32) {
	p := c.params.ByIndex(index)
	if p == nil {
		return
	}
	p.SetValue(float64(normalized))
	plain := p.GetPlainValue()
	switch index {
	case paramThreshold:
		c.threshold = plain
	case paramRatio:
		c.ratio = math.Max(1, plain)
	case paramAttack:
		c.det.setAttack(plain)
	case paramRelease:
		c.det.setRelease(plain)
	case paramKnee:
		c.kneeWidth = plain
	case paramMakeup:
		c.makeupGain = plain
	}
}

func (c *Compressor) SetBypass(b bool) { c.bypassed = b }
func (c *Compressor) IsBypassed() bool { return c.bypassed }
func (c *Compressor) LatencySamples() uint32 { return 0 }
func (c *Compressor) Reset()           { c.det.reset() }

// GainReduction returns the most recently computed reduction in dB,
// for UI metering.
func (c *Compressor) GainReduction() float64 { return c.gainReduction }

func (c *Compressor) computeGain(inputDB float64) float64 {
	overshoot := inputDB - c.threshold
	half := c.kneeWidth / 2
	switch {
	case overshoot <= -half:
		return 0
	case overshoot >= half:
		return overshoot - overshoot/c.ratio
	default:
		// Soft-knee quadratic interpolation region.
		x := overshoot + half
		return (1 - 1/c.ratio) * (x * x) / (2 * c.kneeWidth)
	}
}

func (c *Compressor) Process(buf *audio.Buffer) {
	data := buf.Slice()
	for i, s := range data {
		mono := s.Mono()
		env := c.det.detect(mono)
		inputDB := linearToDB(env)
		reductionDB := c.computeGain(inputDB)
		c.gainReduction = reductionDB
		gain := dbToLinear(-reductionDB + c.makeupGain)
		data[i] = s.Scale(float32(gain))
	}
}
