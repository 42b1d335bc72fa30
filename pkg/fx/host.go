package fx

import "github.com/gridtone/deckengine/pkg/audio"

// MaxBands is the upper bound on bands per host (spec.md §4.2).
const MaxBands = 8

// Location identifies where in a host's topology a macro-mapped
// effect lives.
type Location int

const (
	LocationPreFX Location = iota
	LocationBand
	LocationPostFX
)

// MacroMapping binds one macro knob to one effect parameter with an
// output range, per spec.md §4.2. BandIndex is ignored unless Location
// is LocationBand.
type MacroMapping struct {
	Macro     int
	Location  Location
	BandIndex int
	EffectIdx int
	ParamIdx  int
	Min, Max  float32
}

// Band is one crossover band: its serial effect chain plus gain,
// mute, and solo state (spec.md §4.2, §4.4 band controls).
type Band struct {
	Chain  *Chain
	Gain   float32
	Muted  bool
	Soloed bool
}

// NewBand creates a band at unity gain with an empty chain, its dry-wet
// scratch sized for maxBlock-sample processing.
func NewBand(maxBlock int) *Band {
	return &Band{Chain: NewChain(maxBlock), Gain: 1.0}
}

// reset restores a band to its just-constructed state, without
// touching the chain's reserved backing array — called when a band
// slot is recycled back into the pool by RemoveBand.
func (b *Band) reset() {
	b.Gain = 1.0
	b.Muted = false
	b.Soloed = false
}

// Host is the fixed-topology multiband effect host (spec.md §4.2):
// pre-fx chain, an N-1-point Linkwitz-Riley crossover feeding N
// per-band chains, summed and run through a post-fx chain.
//
// Every band, its chain, and the per-band scratch buffers are
// constructed once, up front, to MaxBands — AddBand/RemoveBand run on
// the audio thread (spec.md §5) and toggle numBands rather than
// allocating, recycling an already-built Band back into the pool
// instead of freeing it.
type Host struct {
	sampleRate float64
	maxBlock   int

	preFX  *Chain
	postFX *Chain

	bands    [MaxBands]*Band
	numBands int

	crossover *Crossover // always non-nil; active == 0 when numBands == 1

	macros   [4]float32
	mappings []MacroMapping

	bypassed bool
	latency  uint32

	// GlobalDryWet blends the host's entire output back toward its
	// input, independent of any chain or band's own DryWet (spec.md
	// §6's stem-preset global_dry_wet). 1.0 is fully wet.
	GlobalDryWet float32
	dry          *audio.Buffer

	scratch    [MaxBands]*audio.Buffer
	pointScrat [MaxBands]audio.Sample
}

// NewHost creates a single-band host (crossover inactive) with the
// given sample rate and maximum block size. Every band slot, its
// chain, and its scratch buffer are allocated now so AddBand/RemoveBand
// never allocate later.
func NewHost(sampleRate float64, maxBlock int) *Host {
	h := &Host{
		sampleRate:   sampleRate,
		maxBlock:     maxBlock,
		preFX:        NewChain(maxBlock),
		postFX:       NewChain(maxBlock),
		numBands:     1,
		crossover:    NewCrossover(sampleRate, nil),
		GlobalDryWet: 1.0,
		dry:          audio.NewBuffer(maxBlock),
	}
	for i := range h.bands {
		h.bands[i] = NewBand(maxBlock)
		h.scratch[i] = audio.NewBuffer(maxBlock)
	}
	return h
}

// PreFX returns the pre-crossover serial chain.
func (h *Host) PreFX() *Chain { return h.preFX }

// PostFX returns the post-sum serial chain.
func (h *Host) PostFX() *Chain { return h.postFX }

// Band returns band i, or nil if out of range or inactive.
func (h *Host) Band(i int) *Band {
	if i < 0 || i >= h.numBands {
		return nil
	}
	return h.bands[i]
}

// NumBands returns the current active band count.
func (h *Host) NumBands() int { return h.numBands }

// SetBypass sets whether the entire host passes audio through
// unchanged.
func (h *Host) SetBypass(b bool) { h.bypassed = b }

// IsBypassed reports the host's bypass state.
func (h *Host) IsBypassed() bool { return h.bypassed }

// AddBand activates the next pre-allocated band slot, splitting it
// from the previous top band at crossover frequency hz, up to
// MaxBands. A no-op past the limit — spec.md §9 treats exceeding
// MAX_BANDS as a configuration error caught here, not grown into.
func (h *Host) AddBand(hz float64) {
	if h.numBands >= MaxBands {
		return
	}
	h.crossover.Activate(hz)
	h.numBands++
	h.recomputeLatency()
}

// RemoveBand deactivates band i (i must be > 0; band 0 never has a
// preceding crossover point to remove). The band's slot and chain
// storage are recycled back into the pool for a later AddBand; the
// effects it held are handed back for the caller to retire off the
// audio thread.
func (h *Host) RemoveBand(i int) []Effect {
	if i <= 0 || i >= h.numBands {
		return nil
	}
	removed := h.bands[i]
	removedEffects := removed.Chain.take()
	removed.reset()

	copy(h.bands[i:h.numBands-1], h.bands[i+1:h.numBands])
	h.bands[h.numBands-1] = removed

	h.crossover.Deactivate(i - 1)
	h.numBands--
	h.recomputeLatency()
	return removedEffects
}

// SetCrossoverFrequency retunes crossover point i (0-indexed, N-1
// points for N bands).
func (h *Host) SetCrossoverFrequency(i int, hz float64) {
	h.crossover.SetFrequency(i, hz)
}

// CrossoverFrequency returns crossover point i's frequency, or 0 if i
// is out of range for the current band count.
func (h *Host) CrossoverFrequency(i int) float64 {
	return h.crossover.Frequency(i)
}

// AddMacroMapping registers a macro → (location, band, effect, param)
// mapping.
func (h *Host) AddMacroMapping(m MacroMapping) {
	h.mappings = append(h.mappings, m)
}

// ClearMacroMappings removes every mapping for the given macro index.
func (h *Host) ClearMacroMappings(macro int) {
	kept := h.mappings[:0]
	for _, m := range h.mappings {
		if m.Macro != macro {
			kept = append(kept, m)
		}
	}
	h.mappings = kept
}

// SetMacro sets a macro's current value in [0,1].
func (h *Host) SetMacro(i int, value float32) {
	if i < 0 || i >= len(h.macros) {
		return
	}
	h.macros[i] = value
}

func (h *Host) chainAt(loc Location, bandIdx int) *Chain {
	switch loc {
	case LocationPreFX:
		return h.preFX
	case LocationPostFX:
		return h.postFX
	case LocationBand:
		b := h.Band(bandIdx)
		if b == nil {
			return nil
		}
		return b.Chain
	default:
		return nil
	}
}

func (h *Host) applyMacros() {
	for _, m := range h.mappings {
		chain := h.chainAt(m.Location, m.BandIndex)
		if chain == nil {
			continue
		}
		e := chain.At(m.EffectIdx)
		if e == nil {
			continue
		}
		macroValue := h.macros[m.Macro]
		e.SetParam(m.ParamIdx, lerp(m.Min, m.Max, macroValue))
	}
}

func lerp(min, max, t float32) float32 {
	return min + (max-min)*t
}

// Reset clears every active chain and the crossover's filter memory.
func (h *Host) Reset() {
	h.preFX.Reset()
	h.postFX.Reset()
	for i := 0; i < h.numBands; i++ {
		h.bands[i].Chain.Reset()
	}
	h.crossover.Reset()
}

// recomputeLatency caches total latency per spec.md §4.2: pre-fx +
// the slowest band's chain + post-fx. The crossover is IIR and
// contributes negligible latency.
func (h *Host) recomputeLatency() {
	var maxBand uint32
	for i := 0; i < h.numBands; i++ {
		if l := h.bands[i].Chain.Latency(); l > maxBand {
			maxBand = l
		}
	}
	h.latency = h.preFX.Latency() + maxBand + h.postFX.Latency()
}

// Latency recomputes the total latency, caches it, and returns it, so
// it reflects effects added to or removed from any chain since the last
// structural change. Process does not recompute it per block.
func (h *Host) Latency() uint32 {
	h.recomputeLatency()
	return h.latency
}

// Process runs one block through the host's topology in place,
// following spec.md §4.2's pipeline exactly.
func (h *Host) Process(buf *audio.Buffer) {
	if h.bypassed {
		return
	}
	blendGlobal := h.GlobalDryWet < 1.0
	if blendGlobal {
		h.dry.SetLength(buf.Len())
		h.dry.CopyFrom(buf)
	}

	h.applyMacros()
	h.preFX.Process(buf)

	if h.numBands == 1 {
		h.bands[0].Chain.Process(buf)
		h.postFX.Process(buf)
		if blendGlobal {
			mixDryWet(buf, h.dry, h.GlobalDryWet)
		}
		return
	}

	n := buf.Len()
	anySoloed := false
	for i := 0; i < h.numBands; i++ {
		if h.bands[i].Soloed {
			anySoloed = true
			break
		}
	}

	for i := 0; i < h.numBands; i++ {
		h.scratch[i].SetLength(n)
	}
	in := buf.Slice()
	pointScrat := h.pointScrat[:h.numBands]
	for i := 0; i < n; i++ {
		h.crossover.ProcessSample(in[i], pointScrat)
		for b := 0; b < h.numBands; b++ {
			h.scratch[b].Set(i, pointScrat[b])
		}
	}

	buf.FillSilence()
	out := buf.Slice()
	for bi := 0; bi < h.numBands; bi++ {
		b := h.bands[bi]
		bs := h.scratch[bi]
		b.Chain.Process(bs)
		silent := b.Muted || (anySoloed && !b.Soloed)
		if silent {
			continue
		}
		bsSlice := bs.Slice()
		for i := 0; i < n; i++ {
			out[i] = out[i].Add(bsSlice[i].Scale(b.Gain))
		}
	}

	h.postFX.Process(buf)
	if blendGlobal {
		mixDryWet(buf, h.dry, h.GlobalDryWet)
	}
}
