package mixer

import (
	"sync/atomic"

	"github.com/gridtone/deckengine/pkg/audio"
	"github.com/gridtone/deckengine/pkg/fx/dynamics"
)

// Master sums channel outputs into the MAIN and CUE buses and applies
// a soft limiter to MAIN (spec.md §4.4).
type Master struct {
	MasterVolume float32
	CueVolume    float32
	CueMix       float32 // 0 = pure PFL, 1 = master preview

	limiter *dynamics.Limiter
	clipped atomic.Bool

	cueRaw *audio.Buffer // pre-allocated scratch, sized at construction
}

// NewMaster creates a master stage at unity volumes and pure-PFL cue
// mix, with scratch pre-allocated at maxBlock samples.
func NewMaster(sampleRate float64, maxBlock int) *Master {
	return &Master{
		MasterVolume: 1.0,
		CueVolume:    1.0,
		CueMix:       0.0,
		limiter:      dynamics.NewLimiter(sampleRate),
		cueRaw:       audio.NewBuffer(maxBlock),
	}
}

// Clipped reports whether the limiter's most recent block hit its
// ceiling, for the clip-detection atomic UI meters read.
func (m *Master) Clipped() bool {
	return m.clipped.Load()
}

// Mix sums channels (each already EQ/filter/fader-processed in
// channelBufs, in the same order) into mainOut and cueOut.
// channelVolumes and channelPFL must be parallel to channelBufs.
func (m *Master) Mix(channelBufs []*audio.Buffer, channelVolumes []float32, channelPFL []bool, mainOut, cueOut *audio.Buffer) {
	n := mainOut.Len()
	mainOut.FillSilence()
	m.cueRaw.SetLength(n)
	m.cueRaw.FillSilence()

	for i, buf := range channelBufs {
		mainOut.AddScaledFrom(buf, channelVolumes[i])
		if channelPFL[i] {
			m.cueRaw.AddScaledFrom(buf, channelVolumes[i])
		}
	}

	mainOut.Scale(m.MasterVolume)
	m.limiter.Process(mainOut)
	m.clipped.Store(m.limiter.Clipped())

	cueOut.SetLength(n)
	raw := m.cueRaw.Slice()
	main := mainOut.Slice()
	cue := cueOut.Slice()
	for i := 0; i < n; i++ {
		lerped := raw[i].Scale(1 - m.CueMix).Add(main[i].Scale(m.CueMix))
		cue[i] = lerped.Scale(m.CueVolume)
	}
}
