// Package filter provides the stereo IIR building blocks the effect
// host and crossover are built from, adapted from the teacher
// framework's single-channel filter.Biquad to operate a sample at a
// time on stereo pairs (audio.Sample), which is what a per-sample
// Linkwitz-Riley crossover needs.
package filter

import (
	"math"

	"github.com/gridtone/deckengine/pkg/audio"
)

// Biquad is a second-order IIR filter, Direct Form I, with independent
// state per stereo channel. Coefficients are normalized so a0 is
// always 1.
type Biquad struct {
	b0, b1, b2 float32
	a1, a2     float32

	x1L, x2L, y1L, y2L float32
	x1R, x2R, y1R, y2R float32
}

// Reset clears all filter memory without touching coefficients.
func (b *Biquad) Reset() {
	b.x1L, b.x2L, b.y1L, b.y2L = 0, 0, 0, 0
	b.x1R, b.x2R, b.y1R, b.y2R = 0, 0, 0, 0
}

// SetCoefficients installs raw filter coefficients, normalizing by a0.
func (b *Biquad) SetCoefficients(b0, b1, b2, a0, a1, a2 float64) {
	invA0 := 1.0 / a0
	b.b0 = float32(b0 * invA0)
	b.b1 = float32(b1 * invA0)
	b.b2 = float32(b2 * invA0)
	b.a1 = float32(a1 * invA0)
	b.a2 = float32(a2 * invA0)
}

// ProcessSample filters a single stereo frame.
func (b *Biquad) ProcessSample(s audio.Sample) audio.Sample {
	outL := b.b0*s.Left + b.b1*b.x1L + b.b2*b.x2L - b.a1*b.y1L - b.a2*b.y2L
	b.x2L, b.x1L = b.x1L, s.Left
	b.y2L, b.y1L = b.y1L, outL

	outR := b.b0*s.Right + b.b1*b.x1R + b.b2*b.x2R - b.a1*b.y1R - b.a2*b.y2R
	b.x2R, b.x1R = b.x1R, s.Right
	b.y2R, b.y1R = b.y1R, outR

	return audio.Sample{Left: outL, Right: outR}
}

// Process filters an entire buffer in place.
func (b *Biquad) Process(buf *audio.Buffer) {
	data := buf.Slice()
	for i, s := range data {
		data[i] = b.ProcessSample(s)
	}
}

// SetLowpass configures a Butterworth-Q lowpass at frequency Hz.
func (b *Biquad) SetLowpass(sampleRate, frequency, q float64) {
	cosO, alpha := rbjTerms(sampleRate, frequency, q)
	b0 := (1 - cosO) / 2
	b1 := 1 - cosO
	b2 := (1 - cosO) / 2
	a0 := 1 + alpha
	a1 := -2 * cosO
	a2 := 1 - alpha
	b.SetCoefficients(b0, b1, b2, a0, a1, a2)
}

// SetHighpass configures a Butterworth-Q highpass at frequency Hz.
func (b *Biquad) SetHighpass(sampleRate, frequency, q float64) {
	cosO, alpha := rbjTerms(sampleRate, frequency, q)
	b0 := (1 + cosO) / 2
	b1 := -(1 + cosO)
	b2 := (1 + cosO) / 2
	a0 := 1 + alpha
	a1 := -2 * cosO
	a2 := 1 - alpha
	b.SetCoefficients(b0, b1, b2, a0, a1, a2)
}

func rbjTerms(sampleRate, frequency, q float64) (cosO, alpha float64) {
	omega := 2 * math.Pi * frequency / sampleRate
	sinO := math.Sin(omega)
	cosO = math.Cos(omega)
	alpha = sinO / (2 * q)
	return
}
