// Package fx implements the multiband effect host (spec.md §4.2): the
// polymorphic effect contract, a serial chain adapted from the teacher
// framework's dsp.Chain, a Linkwitz-Riley crossover, and the host that
// wires pre-fx, per-band chains, and post-fx around it.
package fx

import "github.com/gridtone/deckengine/pkg/audio"

// Category distinguishes the three effect families spec.md §4.2 allows,
// purely for display and preset bookkeeping; the host is polymorphic
// over the Effect contract and does not branch on Category.
type Category int

const (
	CategoryNative Category = iota
	CategoryEmbedded
	CategoryPlugin
)

func (c Category) String() string {
	switch c {
	case CategoryNative:
		return "native"
	case CategoryEmbedded:
		return "embedded"
	case CategoryPlugin:
		return "plugin"
	default:
		return "unknown"
	}
}

// ParamInfo describes one effect parameter for UI display.
type ParamInfo struct {
	Name string
	Min  float32
	Max  float32
}

// Info is the static description an effect reports about itself.
type Info struct {
	Name     string
	Category Category
	Params   []ParamInfo
}

// Effect is the sole polymorphic seam in the engine (spec.md §8 design
// note): embedded DSP graph nodes, external plugin-standard hosts, and
// native DSP all satisfy it identically, so the host, chain, and preset
// layer never need to know which kind of effect they're holding.
type Effect interface {
	Process(buf *audio.Buffer)
	Info() Info
	GetParams() []float32
	SetParam(index int, normalized float32)
	SetBypass(bypass bool)
	IsBypassed() bool
	LatencySamples() uint32
	Reset()
}
