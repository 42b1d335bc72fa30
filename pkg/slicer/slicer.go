// Package slicer implements the 8-equal-slice playback rearranger
// (spec.md §4.3). It runs before a stem's effect chain and never
// touches the deck playhead — it only remaps which slice of a cached
// window the reader pulls from.
package slicer

import (
	"math"
	"sync/atomic"

	"github.com/gridtone/deckengine/pkg/audio"
)

// Slots is the fixed number of slices a window is divided into.
const Slots = 8

// MinBPM bounds the slowest track this engine expects, used to size
// the slicer's pre-allocated window cache so it never needs to
// reallocate (spec.md §9, pre-allocation design note).
const MinBPM = 60.0

// MaxWindowBars is the largest window the UI can select.
const MaxWindowBars = 16

// MaxBufferSamples returns the largest window, in samples, the slicer
// cache must ever hold: 16 bars of 4/4 at the slowest supported BPM.
func MaxBufferSamples(sampleRate float64) int {
	samplesPerBeat := sampleRate * 60.0 / MinBPM
	samplesPerBar := samplesPerBeat * 4
	return int(samplesPerBar * MaxWindowBars)
}

// Algorithm selects how queue_slice mutates the slot queue.
type Algorithm int

const (
	FifoRotate Algorithm = iota
	ReplaceCurrent
)

// State is one stem's slicer state.
type State struct {
	Enabled       bool
	PendingEnable bool
	Bars          int // 1, 4, 8, or 16
	Algorithm     Algorithm

	BufferStart, BufferEnd int64
	SamplesPerSlice        int64

	Queue         [Slots]uint8
	QueueWriteIdx int

	cache      *audio.Buffer
	cacheValid bool
	lastBeat   int64

	currentSlice atomic.Int32
}

// NewState creates a disabled slicer with the default identity queue
// and a 1-bar window, with its cache pre-allocated at the worst-case
// size for sampleRate.
func NewState(sampleRate float64) *State {
	s := &State{Bars: 1}
	s.ResetQueue()
	s.cache = audio.NewBuffer(MaxBufferSamples(sampleRate))
	return s
}

// ResetQueue restores the identity queue [0..7] and write index 0.
func (s *State) ResetQueue() {
	for i := range s.Queue {
		s.Queue[i] = uint8(i)
	}
	s.QueueWriteIdx = 0
}

// QueueSlice applies idx to the queue per the active algorithm.
func (s *State) QueueSlice(idx uint8) {
	switch s.Algorithm {
	case FifoRotate:
		copy(s.Queue[:Slots-1], s.Queue[1:])
		s.Queue[Slots-1] = idx
	case ReplaceCurrent:
		s.Queue[s.QueueWriteIdx] = idx
		s.QueueWriteIdx = (s.QueueWriteIdx + 1) % Slots
	}
}

// Enable marks the slicer pending; it activates on the next beat-grid
// crossing so slice boundaries land on a beat.
func (s *State) Enable() {
	s.PendingEnable = true
}

// Disable turns the slicer off immediately and invalidates the cache.
func (s *State) Disable() {
	s.Enabled = false
	s.PendingEnable = false
	s.cacheValid = false
}

// CurrentSlice returns the most recently read remapped slice, for UI
// display (published via an atomic so a UI thread can read it
// lock-free).
func (s *State) CurrentSlice() int32 {
	return s.currentSlice.Load()
}

func beatIndex(pos, firstBeat int64, samplesPerBeat float64) int64 {
	if samplesPerBeat <= 0 {
		return 0
	}
	return int64(math.Floor(float64(pos-firstBeat) / samplesPerBeat))
}

func (s *State) refreshCache(source *audio.Buffer) {
	s.cache.FillSilenceFull()
	n := s.BufferEnd - s.BufferStart
	cache := s.cache.Full()
	src := source.Full()
	for i := int64(0); i < n && i < int64(len(cache)); i++ {
		srcIdx := s.BufferStart + i
		if srcIdx >= 0 && srcIdx < int64(len(src)) {
			cache[i] = src[srcIdx]
		}
	}
	s.cache.SetLength(int(n))
	s.cacheValid = true
}

// Process rearranges buf in place (length N, representing the stem
// material already copied for [playhead, playhead+N)) according to the
// current window and queue, following spec.md §4.3's per-block
// algorithm exactly. source is the full, unsliced stem buffer the
// cache is refreshed from.
func (s *State) Process(buf *audio.Buffer, source *audio.Buffer, playhead int64, samplesPerBeat float64, firstBeatSample, durationSamples int64) {
	n := int64(buf.Len())
	currentBeat := beatIndex(playhead, firstBeatSample, samplesPerBeat)

	if s.PendingEnable && currentBeat > s.lastBeat {
		s.Enabled = true
		s.PendingEnable = false
	}
	s.lastBeat = currentBeat

	if !s.Enabled {
		return
	}

	samplesPerBar := samplesPerBeat * 4
	windowSize := int64(samplesPerBar * float64(s.Bars))
	if windowSize <= 0 {
		return
	}

	rel := playhead - firstBeatSample
	if rel < 0 {
		rel = 0
	}
	windowIndex := int64(math.Floor(float64(rel) / float64(windowSize)))
	newStart := firstBeatSample + windowIndex*windowSize
	newEnd := newStart + windowSize
	if newEnd > durationSamples {
		newEnd = durationSamples
	}

	if newStart != s.BufferStart || newEnd != s.BufferEnd {
		s.BufferStart = newStart
		s.BufferEnd = newEnd
		if s.BufferEnd > s.BufferStart {
			s.SamplesPerSlice = (s.BufferEnd - s.BufferStart) / Slots
		} else {
			s.SamplesPerSlice = 0
		}
		s.cacheValid = false
	}

	if s.SamplesPerSlice == 0 {
		return
	}

	if !s.cacheValid {
		s.refreshCache(source)
	}

	if playhead+n <= s.BufferStart || playhead >= s.BufferEnd {
		return
	}

	out := buf.Slice()
	cache := s.cache.Slice()
	var lastRemapped uint8
	for i := int64(0); i < n; i++ {
		pos := playhead + i
		if pos < s.BufferStart || pos >= s.BufferEnd {
			continue
		}
		rel := pos - s.BufferStart
		originalSlice := rel / s.SamplesPerSlice
		if originalSlice > Slots-1 {
			originalSlice = Slots - 1
		}
		offset := rel % s.SamplesPerSlice
		remapped := s.Queue[originalSlice]
		lastRemapped = remapped
		cachePos := int64(remapped)*s.SamplesPerSlice + offset
		if cachePos >= 0 && cachePos < int64(len(cache)) {
			out[i] = cache[cachePos]
		}
	}
	s.currentSlice.Store(int32(lastRemapped))
}
