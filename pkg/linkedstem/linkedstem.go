// Package linkedstem implements the linked-stem position mapping and
// substitution described in spec.md §4.5: playing one track's stem
// aligned to another track's drop marker, pre-stretched and gain
// matched off-thread by the loader.
package linkedstem

import "github.com/gridtone/deckengine/pkg/audio"

// Info is the resolved, engine-ready form of a StemLink: a
// pre-stretched, gain-matched buffer plus the drop-marker alignment
// data needed to read from it in sync with the host track. The loader
// constructs one off-thread and hands it to the engine via the command
// queue (spec.md §4.5, §6).
type Info struct {
	Buffer       *audio.Buffer // pre-stretched, at engine sample rate
	OriginalBPM  float64
	DropMarker   int64   // in stretched-sample units
	Gain         float32 // linear, precomputed from LUFS difference
}

// Read substitutes dst (length N, representing host-deck samples
// [hostPosition, hostPosition+N)) with the linked buffer's samples
// aligned to hostDropMarker, applying the precomputed gain. Positions
// mapping outside the linked buffer's range are left silent.
//
// offset   = host_position - host_drop_marker
// read_pos = linked_drop_marker + offset
func (info *Info) Read(dst *audio.Buffer, hostPosition, hostDropMarker int64) {
	if info == nil || info.Buffer == nil {
		dst.FillSilence()
		return
	}
	n := dst.Len()
	dst.FillSilence()
	out := dst.Slice()
	src := info.Buffer.Slice()
	bufLen := int64(len(src))

	offset := hostPosition - hostDropMarker
	readStart := info.DropMarker + offset

	for i := 0; i < n; i++ {
		readPos := readStart + int64(i)
		if readPos < 0 || readPos >= bufLen {
			continue // outside [0, linked_buffer_len) -> silence
		}
		out[i] = src[readPos].Scale(info.Gain)
	}
}
