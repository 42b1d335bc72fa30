// Package pluginfx adapts an externally hosted plugin-standard effect
// (spec.md §4.2's "external plugin-standard hosts" family) to the
// fx.Effect contract. Plugin-standard hosting internals — loading a
// CLAP or Pd plugin binary, negotiating its ABI — are an external
// collaborator boundary this engine never reaches into (spec.md §1,
// §6); Handle is an opaque interface satisfied by whatever collaborator
// does that loading, and Adapter is the thin seam between it and the
// host's Effect contract.
package pluginfx

import (
	"github.com/gridtone/deckengine/pkg/audio"
	"github.com/gridtone/deckengine/pkg/fx"
)

// Handle is the opaque external collaborator contract: whatever loads
// and runs a plugin-standard effect binary implements this. The engine
// never constructs a Handle itself.
type Handle interface {
	ProcessStereo(left, right []float32)
	ParamCount() int
	ParamName(index int) string
	ParamRange(index int) (min, max float32)
	GetParam(index int) float32
	SetParam(index int, normalized float32)
	Latency() uint32
	Reset()
}

// Adapter wraps a Handle to satisfy fx.Effect, deinterleaving
// audio.Buffer's stereo samples into the separate left/right slices a
// plugin-standard ABI expects and reinterleaving the result.
type Adapter struct {
	handle   Handle
	name     string
	bypassed bool

	scratchL, scratchR []float32
}

// NewAdapter wraps handle, pre-allocating deinterleave scratch at
// maxBlock samples so Process never allocates.
func NewAdapter(name string, handle Handle, maxBlock int) *Adapter {
	return &Adapter{
		handle:   handle,
		name:     name,
		scratchL: make([]float32, maxBlock),
		scratchR: make([]float32, maxBlock),
	}
}

func (a *Adapter) Info() fx.Info {
	params := make([]fx.ParamInfo, a.handle.ParamCount())
	for i := range params {
		min, max := a.handle.ParamRange(i)
		params[i] = fx.ParamInfo{Name: a.handle.ParamName(i), Min: min, Max: max}
	}
	return fx.Info{Name: a.name, Category: fx.CategoryPlugin, Params: params}
}

func (a *Adapter) GetParams() []float32 {
	out := make([]float32, a.handle.ParamCount())
	for i := range out {
		out[i] = a.handle.GetParam(i)
	}
	return out
}

func (a *Adapter) SetParam(index int, normalized float32) {
	a.handle.SetParam(index, normalized)
}

func (a *Adapter) SetBypass(b bool)       { a.bypassed = b }
func (a *Adapter) IsBypassed() bool       { return a.bypassed }
func (a *Adapter) LatencySamples() uint32 { return a.handle.Latency() }
func (a *Adapter) Reset()                 { a.handle.Reset() }

func (a *Adapter) Process(buf *audio.Buffer) {
	n := buf.Len()
	data := buf.Slice()
	left := a.scratchL[:n]
	right := a.scratchR[:n]
	for i, s := range data {
		left[i] = s.Left
		right[i] = s.Right
	}
	a.handle.ProcessStereo(left, right)
	for i := range data {
		data[i] = audio.Sample{Left: left[i], Right: right[i]}
	}
}
