package beatgrid

import "testing"

func testGrid() *Grid {
	beats := make([]int64, 0, 100)
	for i := int64(0); i < 100; i++ {
		beats = append(beats, i*1000) // 1000 samples per beat
	}
	return New(beats)
}

func TestBeatIndexAt(t *testing.T) {
	g := testGrid()
	if idx := g.BeatIndexAt(0); idx != 0 {
		t.Fatalf("expected 0, got %d", idx)
	}
	if idx := g.BeatIndexAt(1500); idx != 1 {
		t.Fatalf("expected 1, got %d", idx)
	}
	if idx := g.BeatIndexAt(-1); idx != -1 {
		t.Fatalf("expected -1 before first beat, got %d", idx)
	}
}

func TestNearestBeat(t *testing.T) {
	g := testGrid()
	if b := g.NearestBeat(1499); b != 1000 {
		t.Fatalf("expected 1000, got %d", b)
	}
	if b := g.NearestBeat(1501); b != 2000 {
		t.Fatalf("expected 2000, got %d", b)
	}
}

func TestBeatAtOffset(t *testing.T) {
	g := testGrid()
	if b := g.BeatAtOffset(5000, 4); b != 9000 {
		t.Fatalf("expected 9000, got %d", b)
	}
	if b := g.BeatAtOffset(1000, -5); b != 0 {
		t.Fatalf("expected clamp to 0, got %d", b)
	}
}

func TestCrossedBoundary(t *testing.T) {
	g := testGrid()
	if !g.CrossedBoundary(900, 1100) {
		t.Fatal("expected a boundary crossing between 900 and 1100")
	}
	if g.CrossedBoundary(100, 900) {
		t.Fatal("did not expect a boundary crossing between 100 and 900")
	}
}

func TestSamplesPerBeat(t *testing.T) {
	g := testGrid()
	if spb := g.SamplesPerBeat(); spb != 1000 {
		t.Fatalf("expected 1000, got %v", spb)
	}
}
