// Package mixer implements the per-channel EQ/filter/fader/PFL stage
// and the master MAIN/CUE bus (spec.md §4.4).
package mixer

import (
	"math"

	"github.com/gridtone/deckengine/pkg/audio"
	"github.com/gridtone/deckengine/pkg/fx"
	"github.com/gridtone/deckengine/pkg/fx/filter"
)

// eqLowHz and eqHighHz are the fixed 3-band EQ split points. Built on
// the same Linkwitz-Riley crossover the multiband effect host uses
// (pkg/fx.Crossover), since a 3-band tone EQ is exactly a 3-band
// crossover with a gain trim per band instead of an effect chain.
const (
	eqLowHz  = 300.0
	eqHighHz = 3000.0

	eqRangeDB = 15.0 // bipolar [-1,1] maps to +-15dB per band
)

// Channel is one mixer strip: 3-band EQ, a single-knob filter, a
// volume fader, and a PFL (cue listen) toggle, per spec.md §4.4.
type Channel struct {
	sampleRate float64

	eq          *fx.Crossover
	lowGain     float32 // bipolar [-1,1]
	midGain     float32
	highGain    float32
	eqScratch   []audio.Sample

	filterKnob float32 // bipolar [-1,1], 0 = bypass
	filterLP   bool
	filterSVF  filter.SVF

	Volume float32 // [0,1]
	PFL    bool
}

// NewChannel creates a channel at neutral EQ, bypassed filter, unity
// volume.
func NewChannel(sampleRate float64, maxBlock int) *Channel {
	c := &Channel{
		sampleRate: sampleRate,
		eq:         fx.NewCrossover(sampleRate, []float64{eqLowHz, eqHighHz}),
		Volume:     1.0,
		eqScratch:  make([]audio.Sample, 3),
	}
	return c
}

// SetEQ sets one band's bipolar gain in [-1,1]; band 0=low, 1=mid,
// 2=high. 0 is neutral.
func (c *Channel) SetEQ(band int, value float32) {
	value = clampBipolar(value)
	switch band {
	case 0:
		c.lowGain = value
	case 1:
		c.midGain = value
	case 2:
		c.highGain = value
	}
}

func clampBipolar(v float32) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

func bipolarToLinearGain(v float32) float32 {
	db := v * eqRangeDB
	return float32(math.Pow(10, float64(db)/20))
}

// SetFilter sets the single-knob filter position: negative sweeps
// toward a lowpass with decreasing cutoff, positive toward a highpass
// with increasing cutoff, 0 bypasses it entirely.
func (c *Channel) SetFilter(knob float32) {
	c.filterKnob = clampBipolar(knob)
	if c.filterKnob == 0 {
		return
	}
	const lo, hi = 20.0, 20000.0
	if c.filterKnob < 0 {
		t := float64(-c.filterKnob)
		freq := lo * math.Pow(hi/lo, 1-t) // sweeps down from hi toward lo
		c.filterSVF.SetFrequencyAndQ(c.sampleRate, freq, 0.7071067811865476)
		c.filterLP = true
	} else {
		t := float64(c.filterKnob)
		freq := lo * math.Pow(hi/lo, t) // sweeps up from lo toward hi
		c.filterSVF.SetFrequencyAndQ(c.sampleRate, freq, 0.7071067811865476)
		c.filterLP = false
	}
}

// Reset clears filter memory (e.g. on deck reset).
func (c *Channel) Reset() {
	c.eq.Reset()
	c.filterSVF.Reset()
}

// Process applies EQ then the single-knob filter to buf in place.
func (c *Channel) Process(buf *audio.Buffer) {
	if c.lowGain != 0 || c.midGain != 0 || c.highGain != 0 {
		c.applyEQ(buf)
	}
	if c.filterKnob != 0 {
		c.applyFilter(buf)
	}
}

func (c *Channel) applyEQ(buf *audio.Buffer) {
	n := buf.Len()
	data := buf.Slice()
	lowLin := bipolarToLinearGain(c.lowGain)
	midLin := bipolarToLinearGain(c.midGain)
	highLin := bipolarToLinearGain(c.highGain)
	for i := 0; i < n; i++ {
		c.eq.ProcessSample(data[i], c.eqScratch)
		data[i] = c.eqScratch[0].Scale(lowLin).
			Add(c.eqScratch[1].Scale(midLin)).
			Add(c.eqScratch[2].Scale(highLin))
	}
}

func (c *Channel) applyFilter(buf *audio.Buffer) {
	data := buf.Slice()
	for i, s := range data {
		out := c.filterSVF.ProcessSample(s)
		if c.filterLP {
			data[i] = out.Lowpass
		} else {
			data[i] = out.Highpass
		}
	}
}
