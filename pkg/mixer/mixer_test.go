package mixer

import (
	"testing"

	"github.com/gridtone/deckengine/pkg/audio"
)

func TestChannelNeutralEQIsPassthrough(t *testing.T) {
	c := NewChannel(48000, 512)
	buf := audio.NewBuffer(512)
	buf.SetLength(512)
	buf.Set(0, audio.Sample{Left: 0.4, Right: -0.4})
	c.Process(buf)
	if buf.At(0).Left != 0.4 {
		t.Fatalf("expected neutral EQ passthrough, got %v", buf.At(0).Left)
	}
}

func TestChannelFilterBypassAtZero(t *testing.T) {
	c := NewChannel(48000, 512)
	c.SetFilter(0)
	buf := audio.NewBuffer(512)
	buf.SetLength(512)
	buf.Set(0, audio.Sample{Left: 0.7})
	c.Process(buf)
	if buf.At(0).Left != 0.7 {
		t.Fatalf("expected filter bypass at knob 0, got %v", buf.At(0).Left)
	}
}

func TestMasterSumsVolumeWeighted(t *testing.T) {
	m := NewMaster(48000, 256)
	a := audio.NewBuffer(256)
	a.SetLength(256)
	b := audio.NewBuffer(256)
	b.SetLength(256)
	for i := 0; i < 256; i++ {
		a.Set(i, audio.Sample{Left: 1, Right: 1})
		b.Set(i, audio.Sample{Left: 1, Right: 1})
	}

	main := audio.NewBuffer(256)
	main.SetLength(256)
	cue := audio.NewBuffer(256)
	cue.SetLength(256)

	m.Mix([]*audio.Buffer{a, b}, []float32{0.5, 0.25}, []bool{false, false}, main, cue)

	if main.At(0).Left <= 0 {
		t.Fatalf("expected nonzero main output, got %v", main.At(0).Left)
	}
}

func TestMasterCuePFLOnly(t *testing.T) {
	m := NewMaster(48000, 256)
	m.CueMix = 0 // pure PFL
	a := audio.NewBuffer(256)
	a.SetLength(256)
	b := audio.NewBuffer(256)
	b.SetLength(256)
	for i := 0; i < 256; i++ {
		a.Set(i, audio.Sample{Left: 1, Right: 1})
		b.Set(i, audio.Sample{Left: 1, Right: 1})
	}

	main := audio.NewBuffer(256)
	main.SetLength(256)
	cue := audio.NewBuffer(256)
	cue.SetLength(256)

	// Only channel b has PFL enabled.
	m.Mix([]*audio.Buffer{a, b}, []float32{1, 1}, []bool{false, true}, main, cue)

	if cue.At(0).Left <= 0 {
		t.Fatalf("expected nonzero cue output from PFL channel, got %v", cue.At(0).Left)
	}
}
