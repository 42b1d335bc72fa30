package embedded

import (
	"math"
	"testing"

	"github.com/gridtone/deckengine/pkg/audio"
)

func TestGainAppliesDb(t *testing.T) {
	g := NewGain()
	g.SetParam(0, (6+24)/48.0) // +6 dB
	buf := audio.NewBuffer(4)
	buf.SetLength(4)
	buf.Set(0, audio.Sample{Left: 1, Right: 1})
	g.Process(buf)
	want := dbToLinear(6)
	if math.Abs(float64(buf.At(0).Left-want)) > 1e-5 {
		t.Fatalf("expected %v, got %v", want, buf.At(0).Left)
	}
}

func TestTremoloModulatesAmplitude(t *testing.T) {
	tr := NewTremolo(48000)
	tr.SetParam(1, 1.0) // full depth
	buf := audio.NewBuffer(48000)
	buf.SetLength(48000)
	for i := range buf.Slice() {
		buf.Set(i, audio.Sample{Left: 1, Right: 1})
	}
	tr.Process(buf)

	var minV, maxV float32 = 1, 0
	for _, s := range buf.Slice() {
		if s.Left < minV {
			minV = s.Left
		}
		if s.Left > maxV {
			maxV = s.Left
		}
	}
	if maxV-minV < 0.5 {
		t.Fatalf("expected substantial amplitude swing at full depth, got range %v", maxV-minV)
	}
}

func TestBitCrusherQuantizes(t *testing.T) {
	b := NewBitCrusher()
	b.SetParam(0, 0) // 1-bit
	buf := audio.NewBuffer(8)
	buf.SetLength(8)
	for i := 0; i < 8; i++ {
		buf.Set(i, audio.Sample{Left: 0.3, Right: -0.3})
	}
	b.Process(buf)
	for _, s := range buf.Slice() {
		if s.Left != 0 && s.Left != 1 && s.Left != -1 {
			t.Fatalf("expected 1-bit quantized output, got %v", s.Left)
		}
	}
}
