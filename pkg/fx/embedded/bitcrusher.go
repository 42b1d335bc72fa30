package embedded

import (
	"math"

	"github.com/gridtone/deckengine/pkg/audio"
	"github.com/gridtone/deckengine/pkg/fx"
	"github.com/gridtone/deckengine/pkg/param"
)

// BitCrusher reduces bit depth and effective sample rate for lo-fi
// digital distortion, adapted from the teacher's distortion.BitCrusher
// trimmed to drop dithering and the anti-aliasing pre/post filters —
// this engine's multiband host already band-limits material ahead of
// an embedded effect slot, so a crusher-local filter is redundant.
type BitCrusher struct {
	bitDepth        int
	sampleRateRatio float64
	bypassed        bool
	params          *param.Registry

	sampleCounter float64
	heldL, heldR  float32
}

// NewBitCrusher creates a crusher at 16-bit / full rate (effectively
// transparent until parameters are moved).
func NewBitCrusher() *BitCrusher {
	reg := param.NewRegistry()
	reg.Add(
		param.NewParameter(0, "bit_depth", 1, 24, 16),
		param.NewParameter(1, "rate_ratio", 0.01, 1, 1.0),
	)
	return &BitCrusher{bitDepth: 16, sampleRateRatio: 1.0, params: reg}
}

func (b *BitCrusher) Info() fx.Info {
	return fx.Info{
		Name:     "bitcrusher",
		Category: fx.CategoryEmbedded,
		Params: []fx.ParamInfo{
			{Name: "bit_depth", Min: 1, Max: 24},
			{Name: "rate_ratio", Min: 0.01, Max: 1},
		},
	}
}

func (b *BitCrusher) GetParams() []float32 {
	return b.params.NormalizedValues()
}

func (b *BitCrusher) SetParam(index int, normalized float32) {
	p := b.params.ByIndex(index)
	if p == nil {
		return
	}
	p.SetValue(float64(normalized))
	switch index {
	case 0:
		b.bitDepth = int(math.Round(p.GetPlainValue()))
	case 1:
		b.sampleRateRatio = p.GetPlainValue()
	}
}

func (b *BitCrusher) SetBypass(v bool)       { b.bypassed = v }
func (b *BitCrusher) IsBypassed() bool       { return b.bypassed }
func (b *BitCrusher) LatencySamples() uint32 { return 0 }
func (b *BitCrusher) Reset() {
	b.sampleCounter = 0
	b.heldL, b.heldR = 0, 0
}

func (b *BitCrusher) crush(v float32) float32 {
	levels := math.Pow(2, float64(b.bitDepth)) - 1
	return float32(math.Round(float64(v)*levels) / levels)
}

func (b *BitCrusher) Process(buf *audio.Buffer) {
	data := buf.Slice()
	for i, s := range data {
		b.sampleCounter += b.sampleRateRatio
		if b.sampleCounter >= 1.0 {
			b.sampleCounter -= 1.0
			b.heldL = b.crush(s.Left)
			b.heldR = b.crush(s.Right)
		}
		data[i] = audio.Sample{Left: b.heldL, Right: b.heldR}
	}
}
