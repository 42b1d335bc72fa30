package deck

import "github.com/gridtone/deckengine/pkg/track"

// LoadTrack installs a prepared track, resetting position to the
// track's first beat, setting the cue point there, importing hot cues
// from metadata, and clearing loop/slip and every effect chain and
// slicer, per spec.md §4.1's load_track. The previously loaded track
// (if any) is returned for deferred drop.
func (d *Deck) LoadTrack(prepared *track.Prepared) *track.Prepared {
	previous := d.Track
	d.Track = prepared
	d.State = Stopped
	d.Loop = Loop{}
	d.Slip = Slip{}
	d.clock = 0
	d.CurrentTranspose = 0
	d.HotCues = [8]*track.HotCue{}

	if prepared == nil {
		d.Position = 0
		d.CuePoint = 0
	} else {
		d.Position = prepared.Metadata.FirstBeatSample
		d.CuePoint = prepared.Metadata.FirstBeatSample
		for _, hc := range prepared.Metadata.HotCues {
			if hc.Index >= 0 && hc.Index < len(d.HotCues) {
				cue := hc
				d.HotCues[hc.Index] = &cue
			}
		}
	}

	for _, s := range d.Stems {
		s.Muted = false
		s.Soloed = false
		s.Host.Reset()
		s.Slicer.ResetQueue()
		s.Slicer.Disable()
		s.UseLinked = false
		s.LinkedInfo = nil
		s.Link = nil
	}
	if prepared != nil {
		for i := 0; i < 4; i++ {
			d.Stems[i].Link = prepared.Metadata.StemLinks[i]
		}
	}
	return previous
}

// Play transitions Stopped/Cueing -> Playing.
func (d *Deck) Play() {
	d.State = Playing
}

// Pause transitions Playing -> Stopped, leaving the playhead in place.
func (d *Deck) Pause() {
	d.State = Stopped
}

// TogglePlay flips between Playing and Stopped.
func (d *Deck) TogglePlay() {
	if d.State == Playing {
		d.Pause()
	} else {
		d.Play()
	}
}

// CuePress implements spec.md §4.1's cue_press: while playing, jumps to
// the cue point and stops; while stopped, sets the cue point at the
// current (beat-snapped) position and begins a momentary preview
// (Cueing); while already cueing, it is a no-op.
func (d *Deck) CuePress() {
	switch d.State {
	case Playing:
		d.Position = d.CuePoint
		d.State = Stopped
	case Stopped:
		d.CuePoint = d.snapToBeat(d.Position)
		d.Slip.SavedPosition = d.CuePoint
		d.Slip.enteredAt = d.clock
		d.State = Cueing
	case Cueing:
		// no-op
	}
}

// CueRelease ends a momentary cue preview, returning to the cue point
// and stopping — or, with slip active, to where playback would have
// reached had the preview never diverged it (spec.md §3's
// saved_position + elapsed_samples).
func (d *Deck) CueRelease() {
	if d.State == Cueing {
		d.Position = d.slipReturn(d.CuePoint)
		d.State = Stopped
	}
}

// slipReturn resolves a transient operation's exit position: with slip
// inactive, plain restores to fallback; with slip active, resumes at
// saved_position + elapsed_samples since the operation began.
func (d *Deck) slipReturn(fallback int64) int64 {
	if !d.Slip.Active {
		return fallback
	}
	elapsed := d.clock - d.Slip.enteredAt
	return clampPosition(d.Slip.SavedPosition+elapsed, d.durationSamples())
}

// HotCuePress implements spec.md §4.1's hot_cue_press: an empty slot is
// set at the current (beat-snapped) position. An occupied slot jumps to
// it, continuing playback if already Playing; if Stopped it enters a
// momentary preview, moving the main cue to the hot cue and remembering
// the return position.
func (d *Deck) HotCuePress(slot int) {
	if slot < 0 || slot >= len(d.HotCues) {
		return
	}
	hc := d.HotCues[slot]
	if hc == nil {
		d.SetHotCue(slot)
		return
	}
	if d.State == Stopped {
		d.Slip.SavedPosition = d.Position
		d.Slip.enteredAt = d.clock
		d.CuePoint = hc.Sample
		d.Position = hc.Sample
		d.State = Cueing
		return
	}
	d.Position = hc.Sample
}

// HotCueRelease ends a momentary hot-cue preview entered from Stopped,
// returning to the pre-preview position — or, with slip active, to
// where playback would have reached had the preview never diverged it.
func (d *Deck) HotCueRelease() {
	if d.State == Cueing {
		d.Position = d.slipReturn(d.Slip.SavedPosition)
		d.State = Stopped
	}
}

// SetHotCue records a hot cue at the current (beat-snapped) position.
func (d *Deck) SetHotCue(slot int) {
	if slot < 0 || slot >= len(d.HotCues) {
		return
	}
	d.HotCues[slot] = &track.HotCue{
		Index:  slot,
		Sample: d.snapToBeat(d.Position),
	}
}

// ClearHotCue removes a hot cue.
func (d *Deck) ClearHotCue(slot int) {
	if slot < 0 || slot >= len(d.HotCues) {
		return
	}
	d.HotCues[slot] = nil
}

// ToggleLoop activates a loop of the currently selected length starting
// at the current (beat-snapped) position, or deactivates an active
// one. A loop repeatedly diverges the playhead from the straight-line
// position it would otherwise reach, so with slip active, deactivating
// it resumes at saved_position + elapsed_samples instead of wherever
// the loop happened to be at release (spec.md §3).
func (d *Deck) ToggleLoop() {
	if d.Loop.Active {
		d.Loop.Active = false
		d.Position = d.slipReturn(d.Position)
		return
	}
	start := d.snapToBeat(d.Position)
	d.Loop.Start = start
	d.Loop.End = start + d.loopLengthSamples()
	d.Loop.Active = true
	if d.Slip.Active {
		d.Slip.SavedPosition = start
		d.Slip.enteredAt = d.clock
	}
}

func (d *Deck) loopLengthSamples() int64 {
	g := d.grid()
	beats := LoopLengthsBeats[d.Loop.LengthIndex]
	spb := 44100.0 * 60.0 / 120.0
	if g != nil {
		spb = g.SamplesPerBeat()
	}
	return int64(beats * spb)
}

// AdjustLoopLength moves the loop length selector by direction (+1/-1),
// clamped to the fixed length table, and resizes an active loop to
// match, keeping its start fixed.
func (d *Deck) AdjustLoopLength(direction int) {
	idx := d.Loop.LengthIndex + direction
	if idx < 0 {
		idx = 0
	}
	if idx > len(LoopLengthsBeats)-1 {
		idx = len(LoopLengthsBeats) - 1
	}
	d.Loop.LengthIndex = idx
	if d.Loop.Active {
		d.Loop.End = d.Loop.Start + d.loopLengthSamples()
	}
}

// BeatJumpForward/BeatJumpBackward move the playhead by the currently
// selected beat-jump size, clamped to the track's bounds.
func (d *Deck) BeatJumpForward() {
	d.beatJump(int(d.BeatJumpSizeBeats))
}

func (d *Deck) BeatJumpBackward() {
	d.beatJump(-int(d.BeatJumpSizeBeats))
}

func (d *Deck) beatJump(beats int) {
	g := d.grid()
	if g == nil {
		return
	}
	target := g.BeatAtOffset(d.Position, beats)
	d.Position = clampPosition(target, d.durationSamples())
}

// ToggleSlip flips slip mode: while active, a transient op (loop,
// hot-cue preview, cue preview) diverges the playhead but the deck
// remembers where it would be otherwise, so exiting the op resumes
// there instead of jumping back to the position recorded when it
// started (spec.md §3). Here saved_position/enteredAt are armed
// immediately in case slip is toggled on mid-op; each transient op's
// own entry point (CuePress, HotCuePress, ToggleLoop) re-arms them
// when it actually begins, since that's the position divergence
// should be measured from.
func (d *Deck) ToggleSlip() {
	d.Slip.Active = !d.Slip.Active
	if d.Slip.Active {
		d.Slip.SavedPosition = d.Position
		d.Slip.enteredAt = d.clock
	}
}

// Seek jumps directly to a sample position, clamped to track bounds.
func (d *Deck) Seek(sample int64) {
	d.Position = clampPosition(sample, d.durationSamples())
}

// ToggleStemMute flips a stem's mute flag.
func (d *Deck) ToggleStemMute(stemIdx int) {
	if stemIdx < 0 || stemIdx >= len(d.Stems) {
		return
	}
	s := d.Stems[stemIdx]
	s.Muted = !s.Muted
}

// ToggleStemSolo flips a stem's solo flag.
func (d *Deck) ToggleStemSolo(stemIdx int) {
	if stemIdx < 0 || stemIdx >= len(d.Stems) {
		return
	}
	s := d.Stems[stemIdx]
	s.Soloed = !s.Soloed
}

// SetMaster marks this deck as the tempo/beat master (SPEC_FULL.md §C.3).
func (d *Deck) SetMaster(isMaster bool) {
	d.IsMaster = isMaster
}

// SetKeyLock enables or disables pitch-independent time stretch when
// the deck's playback rate diverges from 1.0 (SPEC_FULL.md §C.3). The
// deck only stores the flag; nothing in this repository reads it.
func (d *Deck) SetKeyLock(enabled bool) {
	d.KeyLockEnabled = enabled
}

// SetTranspose sets a semitone transpose applied independent of tempo
// (SPEC_FULL.md §C.3), clamped to ±24. The value is stored and published
// whether or not key lock is enabled.
func (d *Deck) SetTranspose(semitones int) {
	if semitones < -24 {
		semitones = -24
	} else if semitones > 24 {
		semitones = 24
	}
	d.CurrentTranspose = semitones
}

// SetStemLinked enables or disables linked-stem substitution for a
// stem slot. Disabling leaves the slot's LinkedInfo in place.
func (d *Deck) SetStemLinked(stemIdx int, use bool) {
	if stemIdx < 0 || stemIdx >= len(d.Stems) {
		return
	}
	d.Stems[stemIdx].UseLinked = use
}
