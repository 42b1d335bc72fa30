package track

// CuePoint is a named, colorable sample position a track carries into
// the engine (spec.md §3). Cue points and loops are snapped to the
// nearest beat on assignment, never stored off-grid.
type CuePoint struct {
	Index    int
	Sample   int64
	Label    string
	Color    uint32
}

// SavedLoop is a persisted in/out loop region.
type SavedLoop struct {
	Index      int
	StartSample int64
	EndSample   int64
	Label       string
	Color       uint32
}

// HotCue is one of the eight pad-recallable cue points a track can
// carry, indexed 0..7 (spec.md §3).
type HotCue struct {
	Index  int
	Sample int64
	Label  string
	Color  uint32
}

// MaxHotCues is the fixed number of hot-cue pad slots per deck.
const MaxHotCues = 8
