package param

import "math"

// Smoother applies exponential (one-pole) smoothing to a target value to
// avoid zipper noise when a parameter changes abruptly between blocks.
// Adapted from the teacher framework's param.Smoother, trimmed to the
// single smoothing mode this engine's effect and mixer controls actually
// need: everything here is a knob moved by a UI/MIDI control, not a
// frequency sweep that benefits from logarithmic smoothing (crossover
// frequency changes are deliberately instant per spec.md §4.2, since
// they are structural, not continuously performed).
type Smoother struct {
	current float64
	target  float64
	coeff   float64 // one-pole coefficient, closer to 1 = slower
}

// NewSmoother creates a smoother with the given one-pole coefficient in
// [0,1). A coefficient derived from a target time constant via
// CoeffForTime is the usual way to construct one.
func NewSmoother(coeff float64) *Smoother {
	return &Smoother{coeff: coeff}
}

// CoeffForTime returns the one-pole coefficient that reaches
// approximately -60dB of the initial gap after timeMs milliseconds at
// the given sample rate.
func CoeffForTime(sampleRate, timeMs float64) float64 {
	if timeMs <= 0 {
		return 0
	}
	return math.Exp(-6.908 / (sampleRate * timeMs / 1000.0))
}

// SetTarget sets the value the smoother is moving toward.
func (s *Smoother) SetTarget(target float64) {
	s.target = target
}

// Next advances the smoother by one sample and returns the new current
// value.
func (s *Smoother) Next() float64 {
	s.current += (s.target - s.current) * (1.0 - s.coeff)
	return s.current
}

// Reset snaps both current and target to value, clearing any in-flight
// ramp. Used by Reset operations across the engine (§8 invariant 5).
func (s *Smoother) Reset(value float64) {
	s.current = value
	s.target = value
}

// Current returns the smoother's current value without advancing it.
func (s *Smoother) Current() float64 {
	return s.current
}

// SetCoeff updates the smoothing coefficient, e.g. after a sample-rate
// change.
func (s *Smoother) SetCoeff(coeff float64) {
	s.coeff = coeff
}
