package track

import (
	"fmt"
	"strconv"
	"strings"
)

// CamelotKey is a position on the Camelot wheel used for harmonic
// mixing: a number 1-12 and a letter, 'A' for minor or 'B' for major
// (spec.md GLOSSARY). Track Metadata's Key field is free-form per
// spec.md §3; CamelotKey is parsed from it for the harmonic-mixing
// features this expansion adds (SPEC_FULL.md §C.1), grounded in
// original_source's suggestion-scoring logic.
type CamelotKey struct {
	Number int  // 1-12
	Minor  bool // true for 'A' (minor), false for 'B' (major)
}

// ParseCamelotKey parses strings like "8A" or "11B". It returns false if
// the string isn't a valid Camelot designation, e.g. when the upstream
// metadata store only has a musical key name the loader hasn't mapped
// yet — callers should treat that as "harmonic mixing unavailable for
// this track," not an error.
func ParseCamelotKey(s string) (CamelotKey, bool) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if len(s) < 2 {
		return CamelotKey{}, false
	}
	letter := s[len(s)-1]
	if letter != 'A' && letter != 'B' {
		return CamelotKey{}, false
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n < 1 || n > 12 {
		return CamelotKey{}, false
	}
	return CamelotKey{Number: n, Minor: letter == 'A'}, true
}

// String formats the key back to its Camelot notation, e.g. "8A".
func (k CamelotKey) String() string {
	letter := "B"
	if k.Minor {
		letter = "A"
	}
	return fmt.Sprintf("%d%s", k.Number, letter)
}

// Compatible reports whether two keys mix harmonically under the
// standard Camelot adjacency rule: identical keys, keys one step around
// the wheel with the same mode, or the relative major/minor of the same
// number.
func (k CamelotKey) Compatible(o CamelotKey) bool {
	if k == o {
		return true
	}
	if k.Minor == o.Minor {
		diff := (k.Number - o.Number + 12) % 12
		return diff == 1 || diff == 11
	}
	return k.Number == o.Number
}
