package engine

import (
	"testing"

	"github.com/gridtone/deckengine/internal/rtlog"
	"github.com/gridtone/deckengine/pkg/fx"
	"github.com/gridtone/deckengine/pkg/fx/embedded"
)

// TestProcessUnderStressNeverAllocates runs a hostile command schedule
// through Process for 60 seconds of 512-sample blocks (commands every
// block, effects added/removed, macros wiggled) and asserts the audio
// callback itself never allocates. Run with -tags rtdebug to enable the
// allocation guard; without it this degrades to a plain functional
// check that Process keeps returning full blocks under load.
func TestProcessUnderStressNeverAllocates(t *testing.T) {
	const sampleRate = 48000.0
	const blockSize = 512
	const seconds = 60
	blocks := int(seconds * sampleRate / blockSize)

	e := New(sampleRate, blockSize)
	defer e.Close()

	// A short looping buffer stands in for a full track: the deck's
	// copyWindow zero-fills past the end, so this just exercises the
	// normal end-of-buffer silence path repeatedly rather than needing
	// a full 60 s allocation per stem.
	const trackSamples = sampleRate * 2
	for i := 0; i < NumDecks; i++ {
		e.LoadTrack(i, constantTrack(trackSamples, 0.2))
		e.Play(i)
	}

	// Warm up: drain the initial load/play commands and let the first
	// few blocks settle before the guard starts watching allocations.
	for i := 0; i < 4; i++ {
		e.Process(blockSize)
	}

	for block := 0; block < blocks; block++ {
		switch block % 4 {
		case 0:
			e.AddEffect(block%NumDecks, 0, fx.LocationPreFX, 0, embedded.NewGain())
		case 1:
			e.SetEffectParam(block%NumDecks, 0, fx.LocationPreFX, 0, 0, 0.5)
		case 2:
			e.SetMacro(block%NumDecks, 0, 0, 0.75)
		case 3:
			e.RemoveEffect(block%NumDecks, 0, fx.LocationPreFX, 0, 0)
		}
		e.SetChannelVolume(block%NumDecks, 0.8)

		if block%188 == 0 {
			// Keep every deck playing instead of idling at end-of-track
			// once the short stand-in buffer runs out.
			for i := 0; i < NumDecks; i++ {
				e.Seek(i, 0)
				e.Play(i)
			}
		}

		rtlog.AssertNoAlloc("engine.Process", func() {
			main, cue := e.Process(blockSize)
			if main.Len() != blockSize || cue.Len() != blockSize {
				t.Fatalf("block %d: expected %d-sample blocks, got main=%d cue=%d", block, blockSize, main.Len(), cue.Len())
			}
		})
	}
}
