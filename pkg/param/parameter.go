// Package param provides the normalized-parameter and smoothing
// primitives every effect, macro mapping, and mixer control in the
// engine is built on. It is adapted from the teacher framework's
// parameter package: the same atomic-float64-via-bits storage so a
// parameter can be read lock-free from the audio thread while a command
// on a different thread writes a new target value.
package param

import (
	"math"
	"sync/atomic"
)

// Parameter is a single normalized [0,1] control value with a plain
// (denormalized) range. Effects declare one Parameter per knob (§4.2);
// mixer controls and macro mappings also sit on top of Parameter.
type Parameter struct {
	ID           uint32
	Name         string
	Min          float64
	Max          float64
	DefaultValue float64

	value atomic.Uint64 // float64 bits, read/written with relaxed atomics
}

// NewParameter creates a parameter at its default value.
func NewParameter(id uint32, name string, min, max, def float64) *Parameter {
	p := &Parameter{ID: id, Name: name, Min: min, Max: max, DefaultValue: def}
	p.SetValue(normalize(def, min, max))
	return p
}

// GetValue returns the current normalized value in [0,1].
func (p *Parameter) GetValue() float64 {
	return float64frombits(p.value.Load())
}

// SetValue sets the normalized value, clamped to [0,1].
func (p *Parameter) SetValue(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	p.value.Store(float64bits(v))
}

// GetPlainValue returns the current value in the parameter's own
// [Min,Max] range.
func (p *Parameter) GetPlainValue() float64 {
	return p.Denormalize(p.GetValue())
}

// SetPlainValue sets the value from a plain (denormalized) number.
func (p *Parameter) SetPlainValue(plain float64) {
	p.SetValue(normalize(plain, p.Min, p.Max))
}

// Normalize converts a plain value into this parameter's [0,1] range.
func (p *Parameter) Normalize(plain float64) float64 {
	return normalize(plain, p.Min, p.Max)
}

// Denormalize converts a normalized [0,1] value into this parameter's
// plain range.
func (p *Parameter) Denormalize(v float64) float64 {
	return p.Min + v*(p.Max-p.Min)
}

// Reset restores the parameter to its declared default.
func (p *Parameter) Reset() {
	p.SetValue(normalize(p.DefaultValue, p.Min, p.Max))
}

func normalize(plain, min, max float64) float64 {
	if max <= min {
		return 0
	}
	v := (plain - min) / (max - min)
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func float64bits(f float64) uint64 {
	return math.Float64bits(f)
}

func float64frombits(b uint64) float64 {
	return math.Float64frombits(b)
}
