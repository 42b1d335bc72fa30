package track

import "github.com/gridtone/deckengine/pkg/beatgrid"

// StemLink is the unresolved reference a track carries for one stem
// slot, pointing at another track's stem to be played alongside this
// one (spec.md GLOSSARY, §3). The engine only touches the resolved form,
// a linkedstem.Info, per block, never this reference. pkg/loader does
// not resolve StemLinks.
type StemLink struct {
	SourceTrackPath  string
	SourceStemIndex  int
	SourceDropMarker int64
}

// Metadata is the immutable, per-track record the engine consults at
// runtime (spec.md §3). It is populated by the loader from the
// metadata store (an external key-value database the engine never
// reads or writes directly, per spec.md §6) and never mutated after a
// PreparedTrack is built from it.
type Metadata struct {
	Path            string
	BPM             float64
	OriginalBPM     float64
	Key             string
	DurationSamples int64
	FirstBeatSample int64

	// DropMarker is the sample offset of the track's drop, used as the
	// alignment anchor for linked stems. Nil when the track has none.
	DropMarker *int64

	// LUFS is the integrated loudness measurement used to normalize
	// gain across decks and linked stems. Nil when unmeasured.
	LUFS *float64

	CuePoints  []CuePoint
	SavedLoops []SavedLoop
	HotCues    []HotCue // sparse, indexed by HotCue.Index
	StemLinks  [4]*StemLink // indexed by stem slot, nil when unlinked

	BeatGrid *beatgrid.Grid
}

// CamelotKey parses Key into Camelot notation. The second return value
// is false if Key isn't a recognized Camelot designation, in which
// case harmonic-mixing features should treat this track as having no
// known key rather than erroring.
func (m *Metadata) CamelotKey() (CamelotKey, bool) {
	return ParseCamelotKey(m.Key)
}
