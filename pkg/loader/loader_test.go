package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gridtone/deckengine/pkg/audio"
)

func TestParseStemFilename(t *testing.T) {
	cases := []struct {
		filename string
		base     string
		ok       bool
	}{
		{"Artist - Track_(Vocals).wav", "Artist - Track", true},
		{"Test_(Drums).wav", "Test", true},
		{"Test_(Bass).WAV", "Test", true},
		{"Test_(Instrumental).wav", "Test", true},
		{"Test_(VOCALS).wav", "Test", true},
		{"Test.wav", "", false},
		{"Test_(Unknown).wav", "", false},
		{"Test_Vocals.wav", "", false},
		{"Test.mp3", "", false},
	}
	for _, c := range cases {
		base, _, ok := ParseStemFilename(c.filename)
		if ok != c.ok {
			t.Fatalf("%q: expected ok=%v, got %v", c.filename, c.ok, ok)
		}
		if ok && base != c.base {
			t.Fatalf("%q: expected base %q, got %q", c.filename, c.base, base)
		}
	}
}

func TestStemGroupComplete(t *testing.T) {
	var g StemGroup
	g.BaseName = "Test"
	if g.IsComplete() || g.StemCount() != 0 {
		t.Fatalf("empty group should be incomplete with 0 stems")
	}
	g.Paths[0] = "v.wav"
	g.Paths[1] = "d.wav"
	g.Paths[2] = "b.wav"
	if g.IsComplete() || g.StemCount() != 3 {
		t.Fatalf("expected 3/4 stems, incomplete")
	}
	g.Paths[3] = "o.wav"
	if !g.IsComplete() || g.StemCount() != 4 {
		t.Fatalf("expected complete group with 4 stems")
	}
}

func TestScanAndGroupStemsSortsAndSkipsIncomplete(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"B Track_(Vocals).wav",
		"B Track_(Drums).wav",
		"B Track_(Bass).wav",
		"B Track_(Other).wav",
		"A Track_(Vocals).wav",
		"ignored.txt",
	}
	for _, n := range names {
		if err := os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	groups, err := ScanAndGroupStems(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].BaseName != "A Track" || groups[1].BaseName != "B Track" {
		t.Fatalf("expected alphabetical order, got %v, %v", groups[0].BaseName, groups[1].BaseName)
	}
	if groups[1].StemCount() != 4 || !groups[1].IsComplete() {
		t.Fatalf("expected B Track complete")
	}
	if groups[0].StemCount() != 1 || groups[0].IsComplete() {
		t.Fatalf("expected A Track incomplete with 1 stem")
	}
}

type fakeDecoder struct{}

func (fakeDecoder) Decode(path string) (*audio.Buffer, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path")
	}
	b := audio.NewBuffer(100)
	b.SetLength(100)
	return b, nil
}

func TestBatchImportDecodesCompleteGroups(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"Vocals", "Drums", "Bass", "Other"} {
		path := filepath.Join(dir, fmt.Sprintf("Song_(%s).wav", n))
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// incomplete group, should be skipped
	if err := os.WriteFile(filepath.Join(dir, "Partial_(Vocals).wav"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	events, err := BatchImport(context.Background(), dir, fakeDecoder{}, 2)
	if err != nil {
		t.Fatal(err)
	}

	var started bool
	var completed int
	var final []TrackImportResult
	for e := range events {
		switch e.Kind {
		case Started:
			started = true
			if e.Total != 1 {
				t.Fatalf("expected 1 complete group, got Total=%d", e.Total)
			}
		case TrackCompleted:
			completed++
			if e.Result.Err != nil {
				t.Fatalf("unexpected decode error: %v", e.Result.Err)
			}
		case AllComplete:
			final = e.Results
		}
	}
	if !started {
		t.Fatal("expected a Started event")
	}
	if completed != 1 {
		t.Fatalf("expected 1 TrackCompleted event, got %d", completed)
	}
	if len(final) != 1 || final[0].Prepared == nil {
		t.Fatalf("expected one successful prepared track in AllComplete")
	}
}

func TestBatchImportHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 4; i++ {
		base := fmt.Sprintf("Song%d", i)
		for _, n := range []string{"Vocals", "Drums", "Bass", "Other"} {
			path := filepath.Join(dir, fmt.Sprintf("%s_(%s).wav", base, n))
			if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel before any group starts

	events, err := BatchImport(ctx, dir, fakeDecoder{}, 1)
	if err != nil {
		t.Fatal(err)
	}

	var final []TrackImportResult
	for e := range events {
		if e.Kind == AllComplete {
			final = e.Results
		}
	}
	for _, r := range final {
		if r.Err == nil {
			t.Fatalf("expected every group to be cancelled, got a success for %q", r.BaseName)
		}
	}
}
