// Package dynamics provides the native-DSP effect family: compressor,
// limiter, and gate, each wrapping a peak envelope detector. Adapted
// from the teacher's pkg/dsp/dynamics and pkg/dsp/envelope packages,
// trimmed to the logarithmic one-pole detector mode the teacher
// recommends for musical response and dropping RMS/peak-hold modes and
// lookahead, none of which this engine's stems need.
package dynamics

import "math"

// detector is a one-pole logarithmic envelope follower tracking the
// peak level of a mono signal, grounded on envelope.Detector's
// TypeLogarithmic coefficients.
type detector struct {
	sampleRate  float64
	attack      float64
	release     float64
	attackCoef  float64
	releaseCoef float64
	envelope    float64
}

func newDetector(sampleRate float64) *detector {
	d := &detector{sampleRate: sampleRate, attack: 0.005, release: 0.050}
	d.updateCoeffs()
	return d
}

func (d *detector) updateCoeffs() {
	d.attackCoef = 1.0 - math.Exp(-2.2/(d.attack*d.sampleRate))
	d.releaseCoef = 1.0 - math.Exp(-2.2/(d.release*d.sampleRate))
}

func (d *detector) setAttack(seconds float64) {
	d.attack = math.Max(0.0001, seconds)
	d.updateCoeffs()
}

func (d *detector) setRelease(seconds float64) {
	d.release = math.Max(0.0001, seconds)
	d.updateCoeffs()
}

func (d *detector) reset() {
	d.envelope = 0
}

func (d *detector) detect(input float32) float64 {
	level := math.Abs(float64(input))
	coef := d.releaseCoef
	if level > d.envelope {
		coef = d.attackCoef
	}
	d.envelope += (level - d.envelope) * coef
	return d.envelope
}

func linearToDB(v float64) float64 {
	if v < 1e-10 {
		v = 1e-10
	}
	return 20 * math.Log10(v)
}

func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}
