package engine

import (
	"github.com/gridtone/deckengine/pkg/fx"
	"github.com/gridtone/deckengine/pkg/linkedstem"
	"github.com/gridtone/deckengine/pkg/slicer"
	"github.com/gridtone/deckengine/pkg/track"
)

// effectDrop adapts an fx.Effect to offthread.Releasable so a removed
// effect can travel the same deferred-drop path as a PreparedTrack.
// Effects hold no non-GC resources; Release is a deliberate no-op, kept
// only so removal goes through the same discipline as every other
// audio-thread-retired resource (spec.md §4.6).
type effectDrop struct{ fx.Effect }

func (effectDrop) Release() {}

func validDeck(i int) bool { return i >= 0 && i < NumDecks }

// --- Transport ---

// Play enqueues a deck's play transition.
func (e *Engine) Play(deckIdx int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].Play() })
}

// Pause enqueues a deck's pause transition.
func (e *Engine) Pause(deckIdx int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].Pause() })
}

// TogglePlay enqueues a deck's play/pause toggle.
func (e *Engine) TogglePlay(deckIdx int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].TogglePlay() })
}

// Seek enqueues a direct playhead jump.
func (e *Engine) Seek(deckIdx int, sample int64) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].Seek(sample) })
}

// CuePress/CueRelease enqueue the CDJ cue state transitions.
func (e *Engine) CuePress(deckIdx int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].CuePress() })
}

func (e *Engine) CueRelease(deckIdx int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].CueRelease() })
}

// HotCuePress/HotCueRelease enqueue hot-cue pad transitions.
func (e *Engine) HotCuePress(deckIdx, slot int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].HotCuePress(slot) })
}

func (e *Engine) HotCueRelease(deckIdx int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].HotCueRelease() })
}

// SetHotCue/ClearHotCue enqueue direct slot mutation.
func (e *Engine) SetHotCue(deckIdx, slot int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].SetHotCue(slot) })
}

func (e *Engine) ClearHotCue(deckIdx, slot int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].ClearHotCue(slot) })
}

// ToggleLoop/AdjustLoopLength enqueue loop control.
func (e *Engine) ToggleLoop(deckIdx int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].ToggleLoop() })
}

func (e *Engine) AdjustLoopLength(deckIdx, direction int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].AdjustLoopLength(direction) })
}

// BeatJumpForward/BeatJumpBackward enqueue grid-aligned playhead moves.
func (e *Engine) BeatJumpForward(deckIdx int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].BeatJumpForward() })
}

func (e *Engine) BeatJumpBackward(deckIdx int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].BeatJumpBackward() })
}

// ToggleSlip enqueues slip mode toggling.
func (e *Engine) ToggleSlip(deckIdx int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].ToggleSlip() })
}

// ToggleStemMute/ToggleStemSolo enqueue per-stem mute/solo flips.
func (e *Engine) ToggleStemMute(deckIdx, stemIdx int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].ToggleStemMute(stemIdx) })
}

func (e *Engine) ToggleStemSolo(deckIdx, stemIdx int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].ToggleStemSolo(stemIdx) })
}

// SetMaster/SetKeyLock/SetTranspose enqueue the SPEC_FULL.md §C.3
// transport additions.
func (e *Engine) SetMaster(deckIdx int, isMaster bool) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].SetMaster(isMaster) })
}

func (e *Engine) SetKeyLock(deckIdx int, enabled bool) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].SetKeyLock(enabled) })
}

func (e *Engine) SetTranspose(deckIdx, semitones int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].SetTranspose(semitones) })
}

// --- Track loading ---

// LoadTrack enqueues a prepared track onto a deck. The previously
// loaded track, if any, is routed to the deferred-drop collector.
func (e *Engine) LoadTrack(deckIdx int, prepared *track.Prepared) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) {
		previous := en.Decks[deckIdx].LoadTrack(prepared)
		if previous != nil {
			en.retire(previous)
		}
	})
}

// --- Linked stems ---

// LinkStem enqueues resolved linked-stem info for a stem slot and
// enables its substitution. info may be nil to clear it.
func (e *Engine) LinkStem(deckIdx, stemIdx int, info *linkedstem.Info) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) {
		s := en.Decks[deckIdx].Stems[stemIdx]
		s.LinkedInfo = info
		s.UseLinked = info != nil
	})
}

// SetStemLinked enqueues the use_linked toggle independent of swapping
// the underlying info.
func (e *Engine) SetStemLinked(deckIdx, stemIdx int, use bool) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Decks[deckIdx].SetStemLinked(stemIdx, use) })
}

// SetHostDropMarker enqueues the host-side drop marker linked-stem
// position mapping reads against (spec.md §4.5).
func (e *Engine) SetHostDropMarker(deckIdx int, sample int64) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) {
		en.Decks[deckIdx].LinkedAtoms.HostDropMarker.Store(uint64(sample))
	})
}

// --- Slicer ---

// SetSlicerEnabled enqueues enabling (pending, beat-gated) or disabling
// a stem's slicer.
func (e *Engine) SetSlicerEnabled(deckIdx, stemIdx int, enabled bool) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) {
		s := en.Decks[deckIdx].Stems[stemIdx].Slicer
		if enabled {
			s.Enable()
		} else {
			s.Disable()
		}
	})
}

// SetSlicerBars enqueues a stem slicer's window size in bars.
func (e *Engine) SetSlicerBars(deckIdx, stemIdx, bars int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) {
		en.Decks[deckIdx].Stems[stemIdx].Slicer.Bars = bars
	})
}

// SetSlicerAlgorithm enqueues a stem slicer's queue-mutation algorithm.
func (e *Engine) SetSlicerAlgorithm(deckIdx, stemIdx int, alg slicer.Algorithm) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) {
		en.Decks[deckIdx].Stems[stemIdx].Slicer.Algorithm = alg
	})
}

// QueueSlice enqueues a slot enqueue onto a stem's slicer queue.
func (e *Engine) QueueSlice(deckIdx, stemIdx int, slot uint8) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) {
		en.Decks[deckIdx].Stems[stemIdx].Slicer.QueueSlice(slot)
	})
}

// --- Multiband effect host ---

// AddEffect enqueues appending an effect to a chain at the given
// location (pre-fx, a band, or post-fx).
func (e *Engine) AddEffect(deckIdx, stemIdx int, loc fx.Location, bandIdx int, eff fx.Effect) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) {
		host := en.Decks[deckIdx].Stems[stemIdx].Host
		chain := hostChainAt(host, loc, bandIdx)
		if chain != nil {
			chain.Add(eff)
		}
	})
}

// RemoveEffect enqueues removing an effect by index, retiring it for
// deferred drop.
func (e *Engine) RemoveEffect(deckIdx, stemIdx int, loc fx.Location, bandIdx, index int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) {
		host := en.Decks[deckIdx].Stems[stemIdx].Host
		chain := hostChainAt(host, loc, bandIdx)
		if chain == nil {
			return
		}
		removed := chain.RemoveAt(index)
		if removed != nil {
			en.retire(effectDrop{removed})
		}
	})
}

// SetEffectParam enqueues a normalized parameter write on one effect.
func (e *Engine) SetEffectParam(deckIdx, stemIdx int, loc fx.Location, bandIdx, index int, paramIdx int, value float32) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) {
		host := en.Decks[deckIdx].Stems[stemIdx].Host
		chain := hostChainAt(host, loc, bandIdx)
		if chain == nil {
			return
		}
		if eff := chain.At(index); eff != nil {
			eff.SetParam(paramIdx, value)
		}
	})
}

// SetCrossoverFreq enqueues retuning one crossover split point.
func (e *Engine) SetCrossoverFreq(deckIdx, stemIdx, pointIdx int, hz float64) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) {
		en.Decks[deckIdx].Stems[stemIdx].Host.SetCrossoverFrequency(pointIdx, hz)
	})
}

// AddBand enqueues appending a band to a stem's multiband host.
func (e *Engine) AddBand(deckIdx, stemIdx int, hz float64) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) {
		en.Decks[deckIdx].Stems[stemIdx].Host.AddBand(hz)
	})
}

// RemoveBand enqueues removing a band, retiring each effect it held
// for deferred drop. The band and chain storage themselves return to
// the host's pre-allocated pool, not to the collector.
func (e *Engine) RemoveBand(deckIdx, stemIdx, bandIdx int) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) {
		removed := en.Decks[deckIdx].Stems[stemIdx].Host.RemoveBand(bandIdx)
		for _, eff := range removed {
			en.retire(effectDrop{eff})
		}
	})
}

// SetMacro enqueues a macro knob value update.
func (e *Engine) SetMacro(deckIdx, stemIdx, macro int, value float32) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) {
		en.Decks[deckIdx].Stems[stemIdx].Host.SetMacro(macro, value)
	})
}

// AddMacroMapping enqueues a new macro -> parameter binding.
func (e *Engine) AddMacroMapping(deckIdx, stemIdx int, mapping fx.MacroMapping) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) {
		en.Decks[deckIdx].Stems[stemIdx].Host.AddMacroMapping(mapping)
	})
}

func hostChainAt(host *fx.Host, loc fx.Location, bandIdx int) *fx.Chain {
	switch loc {
	case fx.LocationPreFX:
		return host.PreFX()
	case fx.LocationPostFX:
		return host.PostFX()
	case fx.LocationBand:
		b := host.Band(bandIdx)
		if b == nil {
			return nil
		}
		return b.Chain
	default:
		return nil
	}
}

// --- Mixer ---

// SetChannelVolume enqueues a channel fader write.
func (e *Engine) SetChannelVolume(deckIdx int, volume float32) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Channels[deckIdx].Volume = volume })
}

// SetChannelEQ enqueues a bipolar EQ-band gain write.
func (e *Engine) SetChannelEQ(deckIdx, band int, value float32) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Channels[deckIdx].SetEQ(band, value) })
}

// SetChannelFilter enqueues the single-knob filter position.
func (e *Engine) SetChannelFilter(deckIdx int, knob float32) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Channels[deckIdx].SetFilter(knob) })
}

// SetChannelPFL enqueues the cue-listen toggle.
func (e *Engine) SetChannelPFL(deckIdx int, pfl bool) bool {
	if !validDeck(deckIdx) {
		return false
	}
	return e.Enqueue(func(en *Engine) { en.Channels[deckIdx].PFL = pfl })
}

// SetMasterVolume/SetCueVolume/SetCueMix enqueue master-bus controls.
func (e *Engine) SetMasterVolume(volume float32) bool {
	return e.Enqueue(func(en *Engine) { en.Master.MasterVolume = volume })
}

func (e *Engine) SetCueVolume(volume float32) bool {
	return e.Enqueue(func(en *Engine) { en.Master.CueVolume = volume })
}

func (e *Engine) SetCueMix(mix float32) bool {
	return e.Enqueue(func(en *Engine) { en.Master.CueMix = mix })
}
