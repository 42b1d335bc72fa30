// Package oscillator provides audio oscillators for synthesis
package oscillator

import "math"

// Oscillator generates periodic waveforms
type Oscillator struct {
	sampleRate float64
	frequency  float64
	phase      float64
	phaseInc   float64
}

// New creates a new oscillator
func New(sampleRate float64) *Oscillator {
	return &Oscillator{
		sampleRate: sampleRate,
		frequency:  440.0,
		phase:      0.0,
		phaseInc:   440.0 / sampleRate,
	}
}

// SetFrequency sets the oscillator frequency
func (o *Oscillator) SetFrequency(freq float64) {
	o.frequency = freq
	o.phaseInc = freq / o.sampleRate
}

// updatePhase advances the phase and wraps it
func (o *Oscillator) updatePhase() {
	o.phase += o.phaseInc
	if o.phase >= 1.0 {
		o.phase -= math.Floor(o.phase)
	}
}

// Sine generates a sine wave sample
func (o *Oscillator) Sine() float32 {
	sample := float32(math.Sin(2.0 * math.Pi * o.phase))
	o.updatePhase()
	return sample
}

// Saw generates a sawtooth wave sample
func (o *Oscillator) Saw() float32 {
	sample := float32(2.0*o.phase - 1.0)
	o.updatePhase()
	return sample
}

// Square generates a square wave sample
func (o *Oscillator) Square() float32 {
	var sample float32
	if o.phase < 0.5 {
		sample = 1.0
	} else {
		sample = -1.0
	}
	o.updatePhase()
	return sample
}

// Pulse generates a pulse wave with variable width
func (o *Oscillator) Pulse(width float64) float32 {
	var sample float32
	if o.phase < width {
		sample = 1.0
	} else {
		sample = -1.0
	}
	o.updatePhase()
	return sample
}
