package fx

import (
	"github.com/gridtone/deckengine/pkg/audio"
	"github.com/gridtone/deckengine/pkg/fx/filter"
)

const butterworthQ = 0.7071067811865476

// bandSplit is one Linkwitz-Riley 24 dB/octave split point: two cascaded
// 2nd-order Butterworth sections per side, which is what makes an LR4
// crossover's lowpass and highpass outputs sum to a flat magnitude
// response with no phase inversion needed (unlike a single 2nd-order
// Butterworth split). The sum is the input passed through a 2nd-order
// allpass at the split frequency, so its phase is shifted.
type bandSplit struct {
	lpA, lpB filter.Biquad
	hpA, hpB filter.Biquad
}

func (s *bandSplit) retune(sampleRate, freq float64) {
	s.lpA.SetLowpass(sampleRate, freq, butterworthQ)
	s.lpB.SetLowpass(sampleRate, freq, butterworthQ)
	s.hpA.SetHighpass(sampleRate, freq, butterworthQ)
	s.hpB.SetHighpass(sampleRate, freq, butterworthQ)
}

func (s *bandSplit) reset() {
	s.lpA.Reset()
	s.lpB.Reset()
	s.hpA.Reset()
	s.hpB.Reset()
}

func (s *bandSplit) split(in audio.Sample) (low, high audio.Sample) {
	low = s.lpB.ProcessSample(s.lpA.ProcessSample(in))
	high = s.hpB.ProcessSample(s.hpA.ProcessSample(in))
	return
}

// minCrossoverHz and maxCrossoverHz bound every crossover frequency
// (spec.md §4.2).
const (
	minCrossoverHz = 20.0
	maxCrossoverHz = 20000.0
)

func clampCrossoverHz(hz float64) float64 {
	if hz < minCrossoverHz {
		return minCrossoverHz
	}
	if hz > maxCrossoverHz {
		return maxCrossoverHz
	}
	return hz
}

// Crossover splits a stereo signal into N bands using N-1 Linkwitz-Riley
// 24 dB/octave crossover points, cascaded: each point peels the lowest
// remaining band off the signal still carrying everything above the
// previous split. The host feeds it one sample at a time and scatters
// the result into per-band scratch buffers (spec.md §4.2).
//
// Every point's storage is pre-allocated to MaxBands-1 at construction
// (spec.md §9's pre-allocation mandate) so Host.AddBand/RemoveBand can
// activate or deactivate a point on the audio thread by moving values
// already in hand, never by allocating a new one.
type Crossover struct {
	sampleRate float64
	freqs      []float64   // len MaxBands-1, meaningful prefix [:active]
	splits     []bandSplit // len MaxBands-1, meaningful prefix [:active]
	active     int
}

// NewCrossover builds a crossover for len(freqs)+1 bands. Frequencies
// are clamped into [20, 20000] Hz but not sorted — the crossover treats
// them as N ordered cutoffs regardless of numeric order, per spec.md
// §4.2.
func NewCrossover(sampleRate float64, freqs []float64) *Crossover {
	c := &Crossover{
		sampleRate: sampleRate,
		freqs:      make([]float64, MaxBands-1),
		splits:     make([]bandSplit, MaxBands-1),
	}
	for _, f := range freqs {
		c.Activate(f)
	}
	return c
}

// NumBands returns the number of output bands.
func (c *Crossover) NumBands() int {
	return c.active + 1
}

// Activate appends one more crossover point at hz, tuning and resetting
// that point's already-allocated filter state. A no-op once NumBands()
// would exceed MaxBands — spec.md §9 treats exceeding MAX_BANDS as a
// configuration error detected here, not grown into.
func (c *Crossover) Activate(hz float64) {
	if c.active >= len(c.splits) {
		return
	}
	c.freqs[c.active] = clampCrossoverHz(hz)
	c.splits[c.active].retune(c.sampleRate, c.freqs[c.active])
	c.splits[c.active].reset()
	c.active++
}

// Deactivate removes crossover point i, shifting later points down by
// one and recycling point i's storage at the newly inactive tail
// rather than freeing it — so a later Activate reuses the same memory.
func (c *Crossover) Deactivate(i int) {
	if i < 0 || i >= c.active {
		return
	}
	copy(c.freqs[i:c.active-1], c.freqs[i+1:c.active])
	copy(c.splits[i:c.active-1], c.splits[i+1:c.active])
	c.active--
}

// SetFrequency retunes crossover point i, clamped into range. Retuning
// resets that split's filter memory since changing coefficients
// mid-stream would otherwise ring.
func (c *Crossover) SetFrequency(i int, hz float64) {
	if i < 0 || i >= c.active {
		return
	}
	c.freqs[i] = clampCrossoverHz(hz)
	c.splits[i].retune(c.sampleRate, c.freqs[i])
	c.splits[i].reset()
}

// Frequency returns crossover point i's current cutoff.
func (c *Crossover) Frequency(i int) float64 {
	if i < 0 || i >= c.active {
		return 0
	}
	return c.freqs[i]
}

// Reset clears every active split's filter memory.
func (c *Crossover) Reset() {
	for i := 0; i < c.active; i++ {
		c.splits[i].reset()
	}
}

// ProcessSample splits one stereo frame into NumBands() bands, written
// into out, which must have length NumBands().
func (c *Crossover) ProcessSample(in audio.Sample, out []audio.Sample) {
	remaining := in
	for i := 0; i < c.active; i++ {
		low, high := c.splits[i].split(remaining)
		out[i] = low
		remaining = high
	}
	out[c.active] = remaining
}
