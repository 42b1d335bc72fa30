// Package beatgrid locates beats within a track's sample timeline. The
// grid itself is produced by an external analysis pass (out of scope for
// this repository, see spec.md §1) and handed to the engine as an
// immutable, monotonically increasing list of sample positions.
package beatgrid

import "sort"

// Grid is an ordered, monotonically increasing list of sample positions,
// one per beat, plus the sample index of the first beat.
type Grid struct {
	Beats          []int64
	FirstBeatSample int64
}

// New builds a Grid from beat sample positions. The caller is responsible
// for ensuring beats is already sorted ascending; New does not sort in
// place to avoid a hidden allocation/copy on a path that may run on a
// loader thread handling many tracks.
func New(beats []int64) *Grid {
	first := int64(0)
	if len(beats) > 0 {
		first = beats[0]
	}
	return &Grid{Beats: beats, FirstBeatSample: first}
}

// BeatIndexAt returns the index of the beat at or immediately before
// position. Returns -1 if position is before the first beat.
func (g *Grid) BeatIndexAt(position int64) int {
	if len(g.Beats) == 0 {
		return -1
	}
	i := sort.Search(len(g.Beats), func(i int) bool { return g.Beats[i] > position })
	return i - 1
}

// NearestBeat returns the beat sample position closest to target.
func (g *Grid) NearestBeat(target int64) int64 {
	if len(g.Beats) == 0 {
		return target
	}
	idx := sort.Search(len(g.Beats), func(i int) bool { return g.Beats[i] >= target })
	if idx == 0 {
		return g.Beats[0]
	}
	if idx == len(g.Beats) {
		return g.Beats[len(g.Beats)-1]
	}
	before, after := g.Beats[idx-1], g.Beats[idx]
	if target-before <= after-target {
		return before
	}
	return after
}

// SamplesPerBeat returns the average beat period, used by operations
// (loop length, beat-jump, slicer window sizing) that need a single
// constant period even though grids may carry minor tempo drift.
func (g *Grid) SamplesPerBeat() float64 {
	if len(g.Beats) < 2 {
		return 0
	}
	return float64(g.Beats[len(g.Beats)-1]-g.Beats[0]) / float64(len(g.Beats)-1)
}

// BeatAtOffset returns the sample position `offsetBeats` beats away from
// position, found by locating position's nearest beat index and walking
// `offsetBeats` entries in the grid (clamped to the grid's bounds). This
// is the basis of beat-jump (§4.1) which must land exactly on grid beats
// rather than an arithmetic approximation.
func (g *Grid) BeatAtOffset(position int64, offsetBeats int) int64 {
	if len(g.Beats) == 0 {
		return position
	}
	idx := sort.Search(len(g.Beats), func(i int) bool { return g.Beats[i] >= position })
	if idx == len(g.Beats) || (idx > 0 && position-g.Beats[idx-1] <= g.Beats[idx]-position) {
		idx--
	}
	idx += offsetBeats
	if idx < 0 {
		idx = 0
	}
	if idx >= len(g.Beats) {
		idx = len(g.Beats) - 1
	}
	return g.Beats[idx]
}

// CrossedBoundary reports whether a beat boundary lies within the
// half-open sample range [from, to), used by the slicer to detect
// pending-activation boundaries (§4.3).
func (g *Grid) CrossedBoundary(from, to int64) bool {
	if len(g.Beats) == 0 || to <= from {
		return false
	}
	idx := sort.Search(len(g.Beats), func(i int) bool { return g.Beats[i] >= from })
	return idx < len(g.Beats) && g.Beats[idx] < to
}
