package fx

import "github.com/gridtone/deckengine/pkg/audio"

// MaxEffectsPerBand bounds how many effects one chain holds (spec.md
// §9's MAX_EFFECTS_PER_BAND). Chain reserves this much backing array up
// front so Add/InsertAt never grow it by reallocating on the audio
// thread.
const MaxEffectsPerBand = 16

// Chain is a serial chain of effects, adapted from the teacher
// framework's dsp.Chain to hold the Effect contract instead of a bare
// Processor: every chain in the engine (pre-fx, a band's chain,
// post-fx) is one of these. DryWet blends the chain's output back
// toward its input — 1.0 is fully wet (the default), 0.0 passes the
// input through unchanged — giving the persisted preset format's
// pre_dry_wet/chain_dry_wet/post_dry_wet fields (spec.md §6) something
// real to apply to, since pre-fx, a band, and post-fx are all just a
// Chain here.
type Chain struct {
	effects []Effect
	DryWet  float32
	dry     *audio.Buffer
}

// NewChain creates an empty chain at full wet, with its dry-blend
// scratch buffer and its effect slots pre-allocated (maxBlock samples,
// MaxEffectsPerBand effects) so Process and Add never allocate on the
// audio thread.
func NewChain(maxBlock int) *Chain {
	return &Chain{
		DryWet:  1.0,
		dry:     audio.NewBuffer(maxBlock),
		effects: make([]Effect, 0, MaxEffectsPerBand),
	}
}

// Process runs every non-bypassed effect serially, in place, then
// blends the result back toward the pre-chain signal by DryWet.
func (c *Chain) Process(buf *audio.Buffer) {
	blend := c.DryWet < 1.0
	if blend {
		c.dry.SetLength(buf.Len())
		c.dry.CopyFrom(buf)
	}

	for _, e := range c.effects {
		if !e.IsBypassed() {
			e.Process(buf)
		}
	}

	if blend {
		mixDryWet(buf, c.dry, c.DryWet)
	}
}

// mixDryWet blends wet (buf's current contents) against dry in place,
// adapted from the teacher's mix.DryWetBuffer to operate on stereo
// audio.Sample buffers instead of a flat []float32.
func mixDryWet(wet, dry *audio.Buffer, amount float32) {
	n := wet.Len()
	if dry.Len() < n {
		n = dry.Len()
	}
	w := wet.Slice()
	d := dry.Slice()
	for i := 0; i < n; i++ {
		w[i] = d[i].Scale(1 - amount).Add(w[i].Scale(amount))
	}
}

// Reset clears every effect's internal state without freeing it.
func (c *Chain) Reset() {
	for _, e := range c.effects {
		e.Reset()
	}
}

// Add appends an effect to the end of the chain. Reports false without
// modifying the chain once MaxEffectsPerBand is reached — spec.md §9
// treats that as a configuration error caught at command-consumption
// time, not a reason to grow past the reserved capacity.
func (c *Chain) Add(e Effect) bool {
	if len(c.effects) >= MaxEffectsPerBand {
		return false
	}
	c.effects = append(c.effects, e)
	return true
}

// InsertAt inserts an effect at index, shifting subsequent effects
// right. An out-of-range index appends. Reports false without
// modifying the chain once MaxEffectsPerBand is reached.
func (c *Chain) InsertAt(index int, e Effect) bool {
	if index < 0 || index > len(c.effects) {
		return c.Add(e)
	}
	if len(c.effects) >= MaxEffectsPerBand {
		return false
	}
	c.effects = append(c.effects, nil)
	copy(c.effects[index+1:], c.effects[index:])
	c.effects[index] = e
	return true
}

// take hands back every effect currently in the chain and empties it,
// reusing the existing backing array rather than allocating a new one.
// Used when a band is deactivated: the caller gets the effects for
// deferred off-thread retirement while the chain's storage goes right
// back into the band pool for the next AddBand.
func (c *Chain) take() []Effect {
	removed := c.effects
	c.effects = c.effects[:0]
	return removed
}

// RemoveAt removes the effect at index and returns it for deferred
// drop, or nil if index is out of range.
func (c *Chain) RemoveAt(index int) Effect {
	if index < 0 || index >= len(c.effects) {
		return nil
	}
	removed := c.effects[index]
	c.effects = append(c.effects[:index], c.effects[index+1:]...)
	return removed
}

// Reorder moves the effect at from to before the effect currently at
// to. Out-of-range indices are ignored.
func (c *Chain) Reorder(from, to int) {
	n := len(c.effects)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return
	}
	e := c.effects[from]
	c.effects = append(c.effects[:from], c.effects[from+1:]...)
	if to > from {
		to--
	}
	c.effects = append(c.effects, nil)
	copy(c.effects[to+1:], c.effects[to:])
	c.effects[to] = e
}

// At returns the effect at index, or nil if out of range.
func (c *Chain) At(index int) Effect {
	if index < 0 || index >= len(c.effects) {
		return nil
	}
	return c.effects[index]
}

// Count returns the number of effects in the chain.
func (c *Chain) Count() int {
	return len(c.effects)
}

// Latency is the sum of every non-bypassed effect's reported latency,
// since a serial chain delays its output by the total of its active
// stages; a bypassed effect passes its input straight through and adds
// no delay.
func (c *Chain) Latency() uint32 {
	var total uint32
	for _, e := range c.effects {
		if !e.IsBypassed() {
			total += e.LatencySamples()
		}
	}
	return total
}
