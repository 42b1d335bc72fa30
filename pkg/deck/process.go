package deck

import (
	"github.com/gridtone/deckengine/pkg/audio"
	"github.com/gridtone/deckengine/pkg/stem"
)

// Process renders one block of N ≤ maxBlock stereo samples into the
// deck's output accumulator, following spec.md §4.1's seven-step
// algorithm. It never allocates.
func (d *Deck) Process(n int) {
	d.out.SetLength(n)
	d.clock += int64(n)

	if d.Track == nil || d.State == Stopped {
		d.out.FillSilence()
		return
	}
	d.out.FillSilence()

	buffers := d.Track.Stems.Buffers()
	duration := d.durationSamples()
	anySoloed := false
	for _, s := range d.Stems {
		if s.Soloed {
			anySoloed = true
			break
		}
	}

	grid := d.grid()
	var samplesPerBeat float64
	var firstBeat int64
	if grid != nil {
		samplesPerBeat = grid.SamplesPerBeat()
		firstBeat = grid.FirstBeatSample
	}

	for i, s := range d.Stems {
		s.scratch.SetLength(n)
		silent := s.Muted || (anySoloed && !s.Soloed)
		if silent {
			s.scratch.FillSilence()
			continue
		}
		d.copyWindow(s.scratch, buffers.Get(stem.Role(i)), n, duration)
	}

	for i, s := range d.Stems {
		s.Slicer.Process(s.scratch, buffers.Get(stem.Role(i)), d.Position, samplesPerBeat, firstBeat, duration)
		if s.UseLinked && s.LinkedInfo != nil && !(s.Muted || (anySoloed && !s.Soloed)) {
			s.LinkedInfo.Read(s.scratch, d.Position, int64(d.LinkedAtoms.HostDropMarker.Load()))
		}
		s.Host.Process(s.scratch)
	}

	for _, s := range d.Stems {
		d.out.AddFrom(s.scratch)
	}

	d.advance(n)
	d.publishSlicers()
	d.publishLinkedStems()
}

// samplePosition maps the i'th sample of the block about to be read
// (i in [0, n)) to an absolute index in the track's stem buffers,
// honoring an active loop's wraparound mid-block so playback stays
// continuous across the loop boundary within a single block (spec.md
// §8's loop-wrap output-composition note).
func (d *Deck) samplePosition(i int) int64 {
	pos := d.Position + int64(i)
	if d.Loop.Active && pos >= d.Loop.End {
		overshoot := pos - d.Loop.End
		span := d.Loop.End - d.Loop.Start
		if span <= 0 {
			span = 1
		}
		pos = d.Loop.Start + overshoot%span
	}
	return pos
}

// copyWindow copies N loop-aware samples from src into dst, zero-filling
// any sample that falls outside [0, duration).
func (d *Deck) copyWindow(dst, src *audio.Buffer, n int, duration int64) {
	dst.FillSilence()
	if src == nil {
		return
	}
	out := dst.Slice()
	in := src.Slice()
	for i := 0; i < n; i++ {
		pos := d.samplePosition(i)
		if pos < 0 || pos >= duration || pos >= int64(len(in)) {
			continue
		}
		out[i] = in[pos]
	}
}

// advance implements step 7: playhead advancement, loop wrap, and
// end-of-track handling.
func (d *Deck) advance(n int) {
	if d.State != Playing && d.State != Cueing {
		return
	}
	duration := d.durationSamples()
	next := d.samplePosition(n)

	if duration > 0 && next >= duration {
		next = duration - 1
		d.State = Stopped
	}
	d.Position = next
	d.publish()
}

func (d *Deck) publish() {
	d.Atoms.Position.Store(uint64(d.Position))
	switch d.State {
	case Stopped:
		d.Atoms.PlayState.Store(uint32(atomicsStopped))
	case Playing:
		d.Atoms.PlayState.Store(uint32(atomicsPlaying))
	case Cueing:
		d.Atoms.PlayState.Store(uint32(atomicsCueing))
	}
	d.Atoms.CuePoint.Store(uint64(d.CuePoint))
	d.Atoms.LoopActive.Store(d.Loop.Active)
	d.Atoms.LoopStart.Store(uint64(d.Loop.Start))
	d.Atoms.LoopEnd.Store(uint64(d.Loop.End))
	d.Atoms.IsMaster.Store(d.IsMaster)
	d.Atoms.Transpose.Store(int32(d.CurrentTranspose))
}

const (
	atomicsStopped = 0
	atomicsPlaying = 1
	atomicsCueing  = 2
)

// publishSlicers mirrors each stem's slicer state into its atomics
// publication set, for a UI thread's lock-free reads.
func (d *Deck) publishSlicers() {
	for i, s := range d.Stems {
		a := d.SlicerAtoms[i]
		a.Active.Store(s.Slicer.Enabled)
		a.BufferStart.Store(uint64(s.Slicer.BufferStart))
		a.BufferEnd.Store(uint64(s.Slicer.BufferEnd))
		a.StoreQueue(s.Slicer.Queue)
		a.CurrentSlice.Store(s.Slicer.CurrentSlice())
	}
}

// publishLinkedStems mirrors each stem's linked-stem configuration into
// the deck's LinkedStems atomics block.
func (d *Deck) publishLinkedStems() {
	for i, s := range d.Stems {
		d.LinkedAtoms.HasLinked[i].Store(s.LinkedInfo != nil)
		d.LinkedAtoms.UseLinked[i].Store(s.UseLinked)
		if s.LinkedInfo != nil {
			d.LinkedAtoms.LinkedDropMarker[i].Store(uint64(s.LinkedInfo.DropMarker))
		}
	}
}
