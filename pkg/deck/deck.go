// Package deck implements a single deck's state machine and per-block
// processing algorithm (spec.md §4.1): reading stem material at the
// current position, applying mute/solo/slicer/linked-stem substitution
// and the multiband effect host per stem, summing into deck output, and
// advancing the playhead.
package deck

import (
	"github.com/gridtone/deckengine/pkg/atomics"
	"github.com/gridtone/deckengine/pkg/audio"
	"github.com/gridtone/deckengine/pkg/beatgrid"
	"github.com/gridtone/deckengine/pkg/fx"
	"github.com/gridtone/deckengine/pkg/linkedstem"
	"github.com/gridtone/deckengine/pkg/slicer"
	"github.com/gridtone/deckengine/pkg/stem"
	"github.com/gridtone/deckengine/pkg/track"
)

// PlayState mirrors spec.md §3's play_state enum.
type PlayState int

const (
	Stopped PlayState = iota
	Playing
	Cueing
)

// LoopLengthsBeats is the fixed set of selectable loop lengths, indexed
// by length_index 0..6 (spec.md §3).
var LoopLengthsBeats = [7]float64{0.25, 0.5, 1, 2, 4, 8, 16}

// Loop is a deck's loop region state.
type Loop struct {
	Active      bool
	Start       int64
	End         int64
	LengthIndex int
}

// Slip tracks divergence during a transient operation (loop/hot-cue/
// cue preview), per spec.md §3. SavedPosition is where playback would
// be if the transient op had never happened; enteredAt is the deck's
// sample clock at the moment the op began, so elapsed_samples (clock
// now - enteredAt) can be added back to SavedPosition on return.
type Slip struct {
	Active        bool
	SavedPosition int64
	enteredAt     int64
}

// StemState is one of a deck's four stem slots (spec.md §3).
type StemState struct {
	Host   *fx.Host
	Muted  bool
	Soloed bool

	Slicer *slicer.State

	Link       *track.StemLink
	LinkedInfo *linkedstem.Info
	UseLinked  bool

	scratch *audio.Buffer
}

// Deck is the sole mutator of its own state, always invoked on the
// audio thread from the command drain (spec.md §4.1, §5).
type Deck struct {
	sampleRate float64
	maxBlock   int

	Track    *track.Prepared
	Position int64
	State    PlayState
	CuePoint int64
	HotCues  [8]*track.HotCue
	Loop     Loop
	Slip     Slip

	BeatJumpSizeBeats int32

	IsMaster        bool
	KeyLockEnabled  bool
	CurrentTranspose int // semitones

	Stems [4]*StemState

	// clock is a monotonic sample counter advanced by every Process
	// call regardless of play_state, giving slip-return its notion of
	// "elapsed real time" independent of playhead jumps.
	clock int64

	out *audio.Buffer

	Atoms        *atomics.Deck
	SlicerAtoms  [4]*atomics.Slicer
	LinkedAtoms  *atomics.LinkedStems
}

// New creates an empty, unloaded deck with all per-stem scratch and
// the output accumulator pre-allocated at maxBlock samples.
func New(sampleRate float64, maxBlock int) *Deck {
	d := &Deck{
		sampleRate:        sampleRate,
		maxBlock:          maxBlock,
		BeatJumpSizeBeats: 4,
		out:               audio.NewBuffer(maxBlock),
		Atoms:             atomics.NewDeck(),
		LinkedAtoms:       atomics.NewLinkedStems(),
	}
	for i := range d.Stems {
		d.Stems[i] = &StemState{
			Host:    fx.NewHost(sampleRate, maxBlock),
			Slicer:  slicer.NewState(sampleRate),
			scratch: audio.NewBuffer(maxBlock),
		}
		d.SlicerAtoms[i] = atomics.NewSlicer()
	}
	return d
}

// Output returns the deck's stereo output accumulator for the most
// recently processed block.
func (d *Deck) Output() *audio.Buffer {
	return d.out
}

func (d *Deck) grid() *beatgrid.Grid {
	if d.Track == nil {
		return nil
	}
	return d.Track.Metadata.BeatGrid
}

func (d *Deck) durationSamples() int64 {
	if d.Track == nil {
		return 0
	}
	return d.Track.Metadata.DurationSamples
}

func clampPosition(pos, duration int64) int64 {
	if duration <= 0 {
		return 0
	}
	if pos < 0 {
		return 0
	}
	if pos >= duration {
		return duration - 1
	}
	return pos
}

// snapToBeat snaps a sample position to the nearest beat on the
// track's grid, per spec.md §3's "cue points and loops are snapped to
// the nearest beat on assignment."
func (d *Deck) snapToBeat(pos int64) int64 {
	g := d.grid()
	if g == nil {
		return pos
	}
	return g.NearestBeat(pos)
}

func stemFromShared(buffers *stem.Buffers, role stem.Role) *audio.Buffer {
	if buffers == nil {
		return nil
	}
	return buffers.Get(role)
}
