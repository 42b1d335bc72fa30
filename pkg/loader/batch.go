package loader

import (
	"context"
	"fmt"
	"sync"

	"github.com/gridtone/deckengine/internal/offthread"
	"github.com/gridtone/deckengine/pkg/audio"
	"github.com/gridtone/deckengine/pkg/stem"
	"github.com/gridtone/deckengine/pkg/track"
)

// Decoder turns a stem file on disk into an engine-ready buffer. The
// real format-specific decode (resampling, container parsing) is an
// external collaborator out of this repo's scope (spec.md §1); this
// interface is the seam a real decoder plugs into.
type Decoder interface {
	Decode(path string) (*audio.Buffer, error)
}

// TrackImportResult is the outcome of importing one stem group.
type TrackImportResult struct {
	BaseName string
	Prepared *track.Prepared
	Err      error
}

// ProgressKind discriminates which field of ImportProgress is valid.
type ProgressKind int

const (
	Started ProgressKind = iota
	TrackStarted
	TrackCompleted
	AllComplete
)

// ImportProgress is one event on the channel BatchImport returns.
// Exactly one of the trailing fields is meaningful, selected by Kind.
type ImportProgress struct {
	Kind ProgressKind

	Total int // Started

	BaseName string // TrackStarted
	Index    int    // TrackStarted

	Result TrackImportResult // TrackCompleted

	Results []TrackImportResult // AllComplete
}

// MaxParallelism bounds BatchImport's worker count, mirroring
// original_source's 1-16 clamp on its rayon thread pool.
const MaxParallelism = 16

// BatchImport scans dir, decodes every complete stem group through
// decoder, and streams progress on the returned channel. The channel
// is closed after the AllComplete event. Cancelling ctx stops launching
// new groups and marks any group not yet started as cancelled; groups
// already mid-decode still finish, matching original_source's
// per-item (not mid-decode) cancellation check.
func BatchImport(ctx context.Context, dir string, decoder Decoder, parallelism int) (<-chan ImportProgress, error) {
	groups, err := ScanAndGroupStems(dir)
	if err != nil {
		return nil, fmt.Errorf("loader: scanning %s: %w", dir, err)
	}

	complete := make([]StemGroup, 0, len(groups))
	for _, g := range groups {
		if g.IsComplete() {
			complete = append(complete, g)
		}
	}

	if parallelism < 1 {
		parallelism = 1
	}
	if parallelism > MaxParallelism {
		parallelism = MaxParallelism
	}

	out := make(chan ImportProgress, len(complete)+2)
	go runBatchImport(ctx, complete, decoder, parallelism, out)
	return out, nil
}

func runBatchImport(ctx context.Context, groups []StemGroup, decoder Decoder, parallelism int, out chan<- ImportProgress) {
	defer close(out)

	total := len(groups)
	out <- ImportProgress{Kind: Started, Total: total}
	offthread.Logger.Info("batch import starting", "total", total)

	if ctx.Err() != nil {
		offthread.Logger.Info("batch import cancelled before processing")
		results := make([]TrackImportResult, total)
		for i, g := range groups {
			results[i] = TrackImportResult{BaseName: g.BaseName, Err: ctx.Err()}
		}
		out <- ImportProgress{Kind: AllComplete, Results: results}
		return
	}

	results := make([]TrackImportResult, total)
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < parallelism; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				group := groups[index]

				if ctx.Err() != nil {
					results[index] = TrackImportResult{BaseName: group.BaseName, Err: ctx.Err()}
					continue
				}

				out <- ImportProgress{Kind: TrackStarted, BaseName: group.BaseName, Index: index, Total: total}
				result := processGroup(group, decoder)
				results[index] = result
				out <- ImportProgress{Kind: TrackCompleted, Result: result}
			}
		}()
	}

	for i := range groups {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	succeeded := 0
	for _, r := range results {
		if r.Err == nil {
			succeeded++
		}
	}
	offthread.Logger.Info("batch import complete", "succeeded", succeeded, "failed", total-succeeded)
	out <- ImportProgress{Kind: AllComplete, Results: results}
}

// processGroup decodes all four stems of a complete group and builds a
// Prepared track. Metadata beyond duration is left zero-valued: BPM,
// key, and cue detection are analysis steps this package doesn't
// perform (spec.md §1 non-goal; the original ran Essentia in a
// subprocess for exactly this, which has no place inside the realtime
// core).
func processGroup(group StemGroup, decoder Decoder) TrackImportResult {
	buffers := &stem.Buffers{}
	var duration int64

	for role := stem.Role(0); role < stem.Count; role++ {
		buf, err := decoder.Decode(group.Paths[role])
		if err != nil {
			return TrackImportResult{BaseName: group.BaseName, Err: fmt.Errorf("decoding %s stem: %w", role, err)}
		}
		buffers.Stems[role] = buf
		if int64(buf.Len()) > duration {
			duration = int64(buf.Len())
		}
	}

	for role, buf := range buffers.Stems {
		if int64(buf.Len()) < duration {
			padded := audio.NewBuffer(int(duration))
			padded.SetLength(int(duration))
			copy(padded.Slice(), buf.Slice())
			buffers.Stems[role] = padded
		}
	}

	shared := stem.NewShared(buffers, func(*stem.Buffers) {})
	meta := track.Metadata{
		Path:            group.BaseName,
		DurationSamples: duration,
	}
	prepared := track.NewPrepared(meta, shared)

	return TrackImportResult{BaseName: group.BaseName, Prepared: prepared}
}
