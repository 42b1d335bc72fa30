// Package trackselect scores candidate next tracks against the track
// currently loaded on a deck. It runs off the audio thread, reads only
// Track Metadata, and never touches engine or deck state (SPEC_FULL.md
// §C.2, grounded in original_source's mesh-player/src/suggestions.rs).
package trackselect

import "github.com/gridtone/deckengine/pkg/track"

// EnergyDirection biases scoring toward raising, maintaining, or
// dropping energy, mirroring the fader-position concept in
// original_source. 0 means maintain; -1 is a full drop, +1 a full
// raise.
type EnergyDirection float64

const (
	EnergyDrop     EnergyDirection = -1.0
	EnergyMaintain EnergyDirection = 0.0
	EnergyRaise    EnergyDirection = 1.0
)

// Score breaks down how well a candidate track follows the current
// one. Total is ascending: lower means a better match. Components are
// exposed so a caller can explain a suggestion, not just rank it.
type Score struct {
	Total        float64
	KeyScore     float64 // 0 (clash) to 1 (perfect), before inversion into Total
	BPMPenalty   float64 // 0 (identical tempo) to 1 (10+ BPM apart)
	LoudnessBias float64 // negative favors the candidate, positive disfavors it
	HasKey       bool
}

// weights apportion Total among the three components this package can
// actually compute (no audio-similarity index is in scope here, so the
// original's 0.40 hnsw share is redistributed proportionally across
// the remaining three: 0.30/0.15/0.15 -> 0.50/0.25/0.25).
const (
	keyWeight   = 0.50
	bpmWeight   = 0.25
	lufsWeight  = 0.25
	bpmFullDiff = 10.0 // BPM gap at which BPMPenalty saturates to 1.0
)

// ScoreCandidate rates candidate against current under the given energy
// direction. Missing key or BPM metadata on either track degrades that
// component to a neutral penalty rather than erroring, matching
// original_source's treatment of absent fields.
func ScoreCandidate(current, candidate *track.Metadata, direction EnergyDirection) Score {
	bias := float64(direction)

	var s Score
	s.KeyScore = 0.3 // neutral penalty when a key is unknown, per original_source
	currentKey, currentHasKey := current.CamelotKey()
	candidateKey, candidateHasKey := candidate.CamelotKey()
	if currentHasKey && candidateHasKey {
		s.KeyScore = keyTransitionScore(currentKey, candidateKey, bias)
		s.HasKey = true
	}
	keyPenalty := 1.0 - s.KeyScore

	s.BPMPenalty = 0.5
	if current.BPM > 0 && candidate.BPM > 0 {
		diff := candidate.BPM - current.BPM
		if diff < 0 {
			diff = -diff
		}
		s.BPMPenalty = diff / bpmFullDiff
		if s.BPMPenalty > 1.0 {
			s.BPMPenalty = 1.0
		}
	}

	s.LoudnessBias = loudnessBias(current.LUFS, candidate.LUFS, bias)

	s.Total = keyWeight*keyPenalty + bpmWeight*s.BPMPenalty + lufsWeight*s.LoudnessBias
	return s
}

// loudnessBias rewards a candidate louder than the current track when
// raising energy, and one quieter when dropping it. Returns roughly
// [-0.1, 0.1]; negative is a better match.
func loudnessBias(currentLUFS, candidateLUFS *float64, energyBias float64) float64 {
	abs := energyBias
	if abs < 0 {
		abs = -abs
	}
	if abs < 0.05 || currentLUFS == nil || candidateLUFS == nil {
		return 0.0
	}
	diff := *candidateLUFS - *currentLUFS // positive = louder
	alignment := diff * energyBias        // positive when matching desired direction
	scaled := alignment / 60.0
	if scaled > 0.1 {
		scaled = 0.1
	} else if scaled < -0.1 {
		scaled = -0.1
	}
	return -scaled
}

// Rank sorts candidates ascending by Score.Total (best match first). It
// mutates scored in place and also returns it for chaining.
func Rank(scored []ScoredTrack) []ScoredTrack {
	for i := 1; i < len(scored); i++ {
		for j := i; j > 0 && scored[j].Score.Total < scored[j-1].Score.Total; j-- {
			scored[j], scored[j-1] = scored[j-1], scored[j]
		}
	}
	return scored
}

// ScoredTrack pairs a candidate's metadata with its computed Score.
type ScoredTrack struct {
	Metadata *track.Metadata
	Score    Score
}

// RankCandidates scores every candidate against current and returns
// them sorted best-match-first.
func RankCandidates(current *track.Metadata, candidates []*track.Metadata, direction EnergyDirection) []ScoredTrack {
	scored := make([]ScoredTrack, len(candidates))
	for i, c := range candidates {
		scored[i] = ScoredTrack{Metadata: c, Score: ScoreCandidate(current, c, direction)}
	}
	return Rank(scored)
}
