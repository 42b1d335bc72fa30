package filter

import (
	"math"

	"github.com/gridtone/deckengine/pkg/audio"
)

// SVF is a zero-delay-feedback state variable filter providing
// simultaneous lowpass/highpass/bandpass outputs from one set of state,
// adapted from the teacher framework's per-channel SVF to operate on
// stereo samples directly. Used by the mixer's single-knob filter
// (spec.md §4.4), which needs to morph continuously between lowpass
// and highpass through a bypass point at the center.
type SVF struct {
	g, k float32

	ic1eqL, ic2eqL float32
	ic1eqR, ic2eqR float32
}

// Outputs holds the three simultaneous filter responses for one frame.
type Outputs struct {
	Lowpass, Highpass, Bandpass audio.Sample
}

// Reset clears filter memory.
func (s *SVF) Reset() {
	s.ic1eqL, s.ic2eqL = 0, 0
	s.ic1eqR, s.ic2eqR = 0, 0
}

// SetFrequencyAndQ pre-warps frequency for the bilinear transform and
// sets resonance.
func (s *SVF) SetFrequencyAndQ(sampleRate, frequency, q float64) {
	s.g = float32(math.Tan(math.Pi * frequency / sampleRate))
	s.k = float32(1.0 / q)
}

// ProcessSample returns all three simultaneous outputs for one stereo
// frame.
func (s *SVF) ProcessSample(in audio.Sample) Outputs {
	a1 := 1.0 / (1.0 + s.g*(s.g+s.k))
	a2 := s.g * a1
	a3 := s.g * a2

	v3L := in.Left - s.ic2eqL
	v1L := a1*s.ic1eqL + a2*v3L
	v2L := s.ic2eqL + a2*s.ic1eqL + a3*v3L
	s.ic1eqL = 2*v1L - s.ic1eqL
	s.ic2eqL = 2*v2L - s.ic2eqL

	v3R := in.Right - s.ic2eqR
	v1R := a1*s.ic1eqR + a2*v3R
	v2R := s.ic2eqR + a2*s.ic1eqR + a3*v3R
	s.ic1eqR = 2*v1R - s.ic1eqR
	s.ic2eqR = 2*v2R - s.ic2eqR

	hpL := in.Left - s.k*v1L - v2L
	hpR := in.Right - s.k*v1R - v2R

	return Outputs{
		Lowpass:  audio.Sample{Left: v2L, Right: v2R},
		Highpass: audio.Sample{Left: hpL, Right: hpR},
		Bandpass: audio.Sample{Left: v1L, Right: v1R},
	}
}
