package dynamics

import (
	"math"

	"github.com/gridtone/deckengine/pkg/audio"
	"github.com/gridtone/deckengine/pkg/fx"
	"github.com/gridtone/deckengine/pkg/param"
)

// gateState mirrors the teacher's gate state machine, trimmed from
// five states to four: this engine doesn't need a separate hold
// state, since stem material rarely needs gate chatter suppression
// beyond hysteresis alone.
type gateState int

const (
	gateClosed gateState = iota
	gateOpening
	gateOpen
	gateClosing
)

// Gate is a noise/transient gate with hysteresis, adapted from the
// teacher's dynamics.Gate.
type Gate struct {
	det        *detector
	threshold  float64 // dB, opens above this
	hysteresis float64 // dB, closes this far below threshold
	rangeDB    float64 // dB attenuation when fully closed
	bypassed   bool

	state       gateState
	currentGain float64
	attackCoeff float64
	closeCoeff  float64
	params      *param.Registry
}

// NewGate creates a gate at -40 dB threshold, 5 dB hysteresis, -80 dB
// range, matching the teacher's defaults.
func NewGate(sampleRate float64) *Gate {
	reg := param.NewRegistry()
	reg.Add(
		param.NewParameter(0, "threshold", -80, 0, -40),
		param.NewParameter(1, "range", -80, 0, -80),
	)
	g := &Gate{
		det:        newDetector(sampleRate),
		threshold:  -40,
		hysteresis: 5,
		rangeDB:    -80,
		params:     reg,
	}
	g.det.setAttack(0.0001)
	g.det.setRelease(0.010)
	g.currentGain = dbToLinear(g.rangeDB)
	g.attackCoeff = 1.0 - math.Exp(-2.2/(0.001*sampleRate))
	g.closeCoeff = 1.0 - math.Exp(-2.2/(0.100*sampleRate))
	return g
}

func (g *Gate) Info() fx.Info {
	return fx.Info{
		Name:     "gate",
		Category: fx.CategoryNative,
		Params: []fx.ParamInfo{
			{Name: "threshold", Min: -80, Max: 0},
			{Name: "range", Min: -80, Max: 0},
		},
	}
}

func (g *Gate) GetParams() []float32 {
	return g.params.NormalizedValues()
}

func (g *Gate) SetParam(index int, normalized float32) {
	p := g.params.ByIndex(index)
	if p == nil {
		return
	}
	p.SetValue(float64(normalized))
	switch index {
	case 0:
		g.threshold = p.GetPlainValue()
	case 1:
		g.rangeDB = p.GetPlainValue()
	}
}

func (g *Gate) SetBypass(b bool)       { g.bypassed = b }
func (g *Gate) IsBypassed() bool       { return g.bypassed }
func (g *Gate) LatencySamples() uint32 { return 0 }
func (g *Gate) Reset() {
	g.det.reset()
	g.state = gateClosed
	g.currentGain = dbToLinear(g.rangeDB)
}

func (g *Gate) Process(buf *audio.Buffer) {
	floor := dbToLinear(g.rangeDB)
	data := buf.Slice()
	for i, s := range data {
		env := g.det.detect(s.Mono())
		levelDB := linearToDB(env)

		switch g.state {
		case gateClosed, gateClosing:
			if levelDB > g.threshold {
				g.state = gateOpening
			}
		case gateOpen, gateOpening:
			if levelDB < g.threshold-g.hysteresis {
				g.state = gateClosing
			}
		}

		target := 1.0
		coeff := g.attackCoeff
		if g.state == gateClosed || g.state == gateClosing {
			target = floor
			coeff = g.closeCoeff
		}
		g.currentGain += (target - g.currentGain) * coeff
		if g.state == gateOpening && math.Abs(g.currentGain-1.0) < 1e-4 {
			g.state = gateOpen
		}
		if g.state == gateClosing && math.Abs(g.currentGain-floor) < 1e-4 {
			g.state = gateClosed
		}

		data[i] = s.Scale(float32(g.currentGain))
	}
}
