// Package engine is the top-level realtime audio engine: four decks, a
// mixer, command intake, and deferred-drop wiring (spec.md §4.6, §5).
// Engine.Process is the sole audio-callback entry point; everything
// else reaches it only through Enqueue.
package engine

import (
	"math"
	"sync/atomic"

	"github.com/gridtone/deckengine/internal/offthread"
	"github.com/gridtone/deckengine/pkg/audio"
	"github.com/gridtone/deckengine/pkg/deck"
	"github.com/gridtone/deckengine/pkg/mixer"
	"github.com/gridtone/deckengine/pkg/ringqueue"
)

// NumDecks is the fixed deck count (spec.md §1, §3).
const NumDecks = 4

// maxCommandsPerBlock bounds how many queued commands a single audio
// callback will drain, so command intake never makes one callback
// unbounded (spec.md §4.6).
const maxCommandsPerBlock = 64

// commandQueueCapacity is sized to absorb loading every deck plus
// rebuilding several effect chains in the same burst (spec.md §5's
// backpressure note).
const commandQueueCapacity = 512

// dropQueueCapacity mirrors commandQueueCapacity for the return path.
const dropQueueCapacity = 512

// Command mutates engine state. It always runs on the audio thread,
// during Process's command drain — never when Enqueue is called.
type Command func(e *Engine)

// Engine owns four decks, a per-channel mixer strip for each, and the
// master MAIN/CUE bus. It is constructed once at startup; every field
// it touches during Process is pre-allocated.
type Engine struct {
	sampleRate float64
	maxBlock   int

	Decks    [NumDecks]*deck.Deck
	Channels [NumDecks]*mixer.Channel
	Master   *mixer.Master

	commands *ringqueue.SPSC[Command]
	drops    *offthread.Collector

	globalBPM atomic.Uint64 // float64 bits; informational only

	channelBufs    [NumDecks]*audio.Buffer
	channelVolumes [NumDecks]float32
	channelPFL     [NumDecks]bool

	mainOut *audio.Buffer
	cueOut  *audio.Buffer
}

// New constructs an engine at sampleRate with every buffer and deck
// pre-allocated at maxBlock samples, and starts the deferred-drop
// collector goroutine.
func New(sampleRate float64, maxBlock int) *Engine {
	e := &Engine{
		sampleRate: sampleRate,
		maxBlock:   maxBlock,
		commands:   ringqueue.New[Command](commandQueueCapacity),
		drops:      offthread.NewCollector(dropQueueCapacity),
		mainOut:    audio.NewBuffer(maxBlock),
		cueOut:     audio.NewBuffer(maxBlock),
	}
	for i := 0; i < NumDecks; i++ {
		e.Decks[i] = deck.New(sampleRate, maxBlock)
		e.Channels[i] = mixer.NewChannel(sampleRate, maxBlock)
		e.channelVolumes[i] = 1.0
	}
	e.Master = mixer.NewMaster(sampleRate, maxBlock)
	go e.drops.Run()
	return e
}

// Close stops the deferred-drop collector, blocking until it has
// drained whatever was queued. Not realtime-safe; call it only at
// shutdown, off the audio thread.
func (e *Engine) Close() {
	e.drops.Stop()
}

// Enqueue hands a command to the audio thread. It never blocks; under
// the abnormal backpressure condition of a full queue it returns false
// and the caller's command is dropped (spec.md §5).
func (e *Engine) Enqueue(cmd Command) bool {
	return e.commands.TryPush(cmd)
}

// retire hands a resource to the deferred-drop collector if it is
// non-nil. Safe to call from inside a Command (i.e. on the audio
// thread): Retire itself never blocks or allocates on the fast path.
func (e *Engine) retire(r offthread.Releasable) {
	if r != nil {
		e.drops.Retire(r)
	}
}

// Process drains up to maxCommandsPerBlock queued commands, renders one
// block of N ≤ maxBlock stereo samples per deck, and mixes them into
// the MAIN and CUE buses. The returned buffers are owned by Engine and
// are only valid until the next Process call.
func (e *Engine) Process(n int) (main, cue *audio.Buffer) {
	e.commands.DrainUpTo(maxCommandsPerBlock, func(c Command) { c(e) })

	for i, d := range e.Decks {
		d.Process(n)
		ch := e.Channels[i]
		ch.Process(d.Output())
		e.channelBufs[i] = d.Output()
		e.channelVolumes[i] = ch.Volume
		e.channelPFL[i] = ch.PFL
	}

	e.mainOut.SetLength(n)
	e.Master.Mix(e.channelBufs[:], e.channelVolumes[:], e.channelPFL[:], e.mainOut, e.cueOut)
	return e.mainOut, e.cueOut
}

// SetGlobalBPM records the session's nominal tempo (SPEC_FULL.md §C,
// informational: beat-jump and loop sizing always read a deck's own
// beat grid, never this value). Exposed so a BPM-sync UI control has
// somewhere to publish to.
func (e *Engine) SetGlobalBPM(bpm float64) {
	e.Enqueue(func(en *Engine) {
		en.globalBPM.Store(math.Float64bits(bpm))
	})
}

// GlobalBPM returns the most recently set global tempo.
func (e *Engine) GlobalBPM() float64 {
	return math.Float64frombits(e.globalBPM.Load())
}
