// Command enginedemo drives a four-deck engine end to end from the
// command line: it synthesizes its own stem audio instead of decoding
// real files or opening a real audio device (both are external
// collaborators, spec.md §1, §6), wires it through Engine.Process the
// same way a real host's audio callback would, and prints a rolling
// level meter. CLI/env parsing sits outside core engine scope but this
// is how a reader sees the whole stack wired together, the same way
// the teacher ships worked examples.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/pflag"

	"github.com/gridtone/deckengine/internal/offthread"
	"github.com/gridtone/deckengine/internal/rtthread"
	"github.com/gridtone/deckengine/pkg/audio"
	"github.com/gridtone/deckengine/pkg/dsp/oscillator"
	"github.com/gridtone/deckengine/pkg/dsp/utility"
	"github.com/gridtone/deckengine/pkg/engine"
	"github.com/gridtone/deckengine/pkg/fx"
	"github.com/gridtone/deckengine/pkg/fx/embedded"
	"github.com/gridtone/deckengine/pkg/preset"
	"github.com/gridtone/deckengine/pkg/stem"
	"github.com/gridtone/deckengine/pkg/track"
)

// deckFrequencies gives each deck's four stems a distinct pitch so a
// level meter or a speaker makes the four decks audibly distinguishable
// instead of every deck summing to the same tone.
var deckFrequencies = [engine.NumDecks][stem.Count]float64{
	{220.00, 110.00, 55.00, 440.00}, // deck 0, A
	{246.94, 123.47, 61.74, 493.88}, // deck 1, B
	{261.63, 130.81, 65.41, 523.25}, // deck 2, C
	{293.66, 146.83, 73.42, 587.33}, // deck 3, D
}

func main() {
	sampleRate := pflag.Float64P("sample-rate", "r", 48000, "Audio sample rate, in Hz.")
	blockSize := pflag.IntP("block-size", "b", 512, "Samples per processed block.")
	durationSec := pflag.Float64P("duration", "d", 10, "How long to run the synthesized session, in seconds.")
	bpm := pflag.Float64P("bpm", "t", 128, "Nominal session tempo, informational only.")
	waveform := pflag.StringP("waveform", "w", "saw", "Synthesized stem waveform: sine, saw, square, pulse, or noise.")
	stemPresetPath := pflag.StringP("stem-preset", "p", "", "Optional stem preset YAML to load onto deck 0's vocal stem.")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "enginedemo - drives a four-deck engine over a synthesized test signal.\n\n")
		fmt.Fprintf(os.Stderr, "Usage: enginedemo [options]\n\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *blockSize <= 0 || *sampleRate <= 0 || *durationSec <= 0 {
		fmt.Fprintln(os.Stderr, "sample-rate, block-size, and duration must all be positive")
		os.Exit(1)
	}

	offthread.Logger.Info("starting enginedemo",
		"sample_rate", *sampleRate, "block_size", *blockSize,
		"duration_s", *durationSec, "waveform", *waveform)

	e := engine.New(*sampleRate, *blockSize)
	defer e.Close()

	for deckIdx := 0; deckIdx < engine.NumDecks; deckIdx++ {
		prepared := synthesizeTrack(*sampleRate, *durationSec, *waveform, deckFrequencies[deckIdx])
		e.LoadTrack(deckIdx, prepared)
		e.SetChannelVolume(deckIdx, 0.8)
	}
	e.SetGlobalBPM(*bpm)
	e.SetMasterVolume(1.0)
	e.SetCueVolume(1.0)

	if *stemPresetPath != "" {
		if err := loadDemoStemPreset(e, *stemPresetPath); err != nil {
			offthread.Logger.Warn("failed to load stem preset, continuing without it", "path", *stemPresetPath, "err", err)
		}
	}

	for deckIdx := 0; deckIdx < engine.NumDecks; deckIdx++ {
		e.Play(deckIdx)
	}

	levels := make(chan float32, 8)
	done := make(chan struct{})
	go runAudioCallback(e, *sampleRate, *blockSize, *durationSec, levels, done)

	printLevels(levels, done)
}

// synthesizeTrack builds a stand-in decoded track: four stem buffers of
// durationSec seconds at sampleRate, each stem a distinct oscillator
// tone (pkg/dsp/oscillator, adapted from the teacher's synthesis
// package). This is preparation work, off the audio thread, so
// allocating here is fine the same way the real loader allocates while
// decoding.
func synthesizeTrack(sampleRate, durationSec float64, waveform string, freqs [stem.Count]float64) *track.Prepared {
	n := int(durationSec * sampleRate)
	buffers := stem.NewBuffers(n)
	for role := stem.Role(0); role < stem.Count; role++ {
		osc := oscillator.New(sampleRate)
		osc.SetFrequency(freqs[role])
		noise := utility.NewWhiteNoise(int64(role) + 1)
		b := buffers.Get(role)
		b.SetLength(n)
		sl := b.Slice()
		for i := range sl {
			sample := synthesizeSample(osc, noise, waveform)
			sl[i] = audio.Sample{Left: sample, Right: sample}
		}
	}
	shared := stem.NewShared(buffers, func(*stem.Buffers) {})
	meta := track.Metadata{
		Path:            fmt.Sprintf("synth://%s", waveform),
		DurationSamples: int64(n),
	}
	return track.NewPrepared(meta, shared)
}

func synthesizeSample(osc *oscillator.Oscillator, noise *utility.WhiteNoise, waveform string) float32 {
	switch waveform {
	case "sine":
		return osc.Sine() * 0.2
	case "square":
		return osc.Square() * 0.15
	case "pulse":
		return osc.Pulse(0.3) * 0.15
	case "noise":
		return noise.Next() * 0.1
	default:
		return osc.Saw() * 0.2
	}
}

// demoEffectFactory satisfies preset.Factory by standing in a gain
// stage for every effect record regardless of its recorded name or
// category: enginedemo has no real plugin host or embedded-effect
// registry to dispatch on, it only needs to prove the persistence path
// round-trips onto a live host.
type demoEffectFactory struct{}

func (demoEffectFactory) CreateEffect(preset.EffectRecord) (fx.Effect, error) {
	return embedded.NewGain(), nil
}

func loadDemoStemPreset(e *engine.Engine, path string) error {
	file, err := preset.LoadStemPreset(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	applied := make(chan error, 1)
	e.Enqueue(func(en *engine.Engine) {
		host := en.Decks[0].Stems[stem.Vocals].Host
		applied <- preset.ApplyStemPreset(host, file, demoEffectFactory{})
	})
	// The command drains on the next Process call; enginedemo runs this
	// before the audio goroutine starts, so give it one block to apply.
	e.Process(1)
	select {
	case err := <-applied:
		return err
	default:
		return nil
	}
}

// runAudioCallback is the one goroutine that ever calls Process,
// standing in for a real host's realtime audio callback thread. It
// pins itself to an OS thread and asks for elevated scheduling
// priority (internal/rtthread) the same way a real realtime audio
// plugin host's callback thread would, then renders blocks back to
// back for the session duration, reporting peak level periodically.
func runAudioCallback(e *engine.Engine, sampleRate float64, blockSize int, durationSec float64, levels chan<- float32, done chan<- struct{}) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := rtthread.Raise(); err != nil {
		offthread.Logger.Debug("could not raise audio thread priority, continuing at normal priority", "err", err)
	}

	totalBlocks := int(durationSec * sampleRate / float64(blockSize))
	reportEvery := int(sampleRate / float64(blockSize)) // roughly once a second
	if reportEvery < 1 {
		reportEvery = 1
	}

	for block := 0; block < totalBlocks; block++ {
		main, _ := e.Process(blockSize)
		if block%reportEvery == 0 {
			levels <- peakLevel(main)
		}
	}
	close(levels)
	close(done)
}

func peakLevel(buf *audio.Buffer) float32 {
	var peak float32
	sl := buf.Slice()
	for _, s := range sl {
		if v := abs32(s.Left); v > peak {
			peak = v
		}
		if v := abs32(s.Right); v > peak {
			peak = v
		}
	}
	return peak
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func printLevels(levels <-chan float32, done <-chan struct{}) {
	start := time.Now()
	for level := range levels {
		fmt.Printf("\r[%6.1fs] main peak: %5.3f %s", time.Since(start).Seconds(), level, meterBar(level))
	}
	<-done
	fmt.Println()
}

func meterBar(level float32) string {
	const width = 30
	filled := int(level * width)
	if filled > width {
		filled = width
	}
	bar := make([]byte, width)
	for i := range bar {
		if i < filled {
			bar[i] = '#'
		} else {
			bar[i] = '.'
		}
	}
	return string(bar)
}
