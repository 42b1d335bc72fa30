// Package loader is an off-audio-thread external collaborator (spec.md
// §6): it scans a folder of stem files, groups them by track, decodes
// them through a pluggable Decoder, and streams progress back over a
// channel honoring cooperative cancellation (SPEC_FULL.md §C.4,
// grounded in original_source's mesh-cue/src/batch_import.rs).
package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gridtone/deckengine/pkg/stem"
)

// StemGroup collects the stem files found for one candidate track,
// indexed by role (spec.md's four fixed stems). A group need not be
// complete — BatchImport skips any group missing a stem.
type StemGroup struct {
	BaseName string
	Paths    [stem.Count]string // empty string means that stem wasn't found
}

// IsComplete reports whether all four stems were found.
func (g StemGroup) IsComplete() bool {
	for _, p := range g.Paths {
		if p == "" {
			return false
		}
	}
	return true
}

// StemCount returns how many of the four stems were found (0-4).
func (g StemGroup) StemCount() int {
	n := 0
	for _, p := range g.Paths {
		if p != "" {
			n++
		}
	}
	return n
}

// ParseStemFilename extracts a track's base name and stem role from a
// filename following the "BaseName_(RoleName).wav" convention, e.g.
// "Artist - Track_(Vocals).wav". It returns ok=false for any filename
// that doesn't match, including an unrecognized role name.
func ParseStemFilename(filename string) (baseName string, role stem.Role, ok bool) {
	name := filename
	switch {
	case strings.HasSuffix(name, ".wav"):
		name = name[:len(name)-len(".wav")]
	case strings.HasSuffix(name, ".WAV"):
		name = name[:len(name)-len(".WAV")]
	default:
		return "", 0, false
	}

	suffixStart := strings.LastIndex(name, "_(")
	suffixEnd := strings.LastIndex(name, ")")
	if suffixStart == -1 || suffixEnd == -1 || suffixEnd <= suffixStart+2 {
		return "", 0, false
	}

	base := name[:suffixStart]
	suffix := name[suffixStart+2 : suffixEnd]

	r, ok := parseRoleSuffix(suffix)
	if !ok {
		return "", 0, false
	}
	return base, r, true
}

func parseRoleSuffix(suffix string) (stem.Role, bool) {
	switch strings.ToLower(suffix) {
	case "vocals":
		return stem.Vocals, true
	case "drums":
		return stem.Drums, true
	case "bass":
		return stem.Bass, true
	case "other", "instrumental":
		return stem.Other, true
	default:
		return 0, false
	}
}

// ScanAndGroupStems scans dir for .wav files matching the stem naming
// convention and groups them by base name, sorted alphabetically.
// Non-matching files are skipped, not an error.
func ScanAndGroupStems(dir string) ([]StemGroup, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*StemGroup)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".wav") {
			continue
		}
		baseName, role, ok := ParseStemFilename(name)
		if !ok {
			continue
		}
		g, exists := groups[baseName]
		if !exists {
			g = &StemGroup{BaseName: baseName}
			groups[baseName] = g
		}
		g.Paths[role] = filepath.Join(dir, name)
	}

	result := make([]StemGroup, 0, len(groups))
	for _, g := range groups {
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].BaseName < result[j].BaseName })
	return result, nil
}
