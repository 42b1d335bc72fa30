package param

import "testing"

func TestParameterNormalizeDenormalize(t *testing.T) {
	p := NewParameter(1, "freq", 20, 20000, 1000)
	if v := p.GetPlainValue(); v != 1000 {
		t.Fatalf("expected default 1000, got %v", v)
	}
	p.SetPlainValue(20000)
	if v := p.GetValue(); v != 1 {
		t.Fatalf("expected normalized 1 at max, got %v", v)
	}
	p.SetValue(0.5)
	if v := p.GetPlainValue(); v != 10010 {
		t.Fatalf("expected midpoint plain value 10010, got %v", v)
	}
}

func TestParameterClamps(t *testing.T) {
	p := NewParameter(1, "gain", 0, 1, 0)
	p.SetValue(5)
	if v := p.GetValue(); v != 1 {
		t.Fatalf("expected clamp to 1, got %v", v)
	}
	p.SetValue(-5)
	if v := p.GetValue(); v != 0 {
		t.Fatalf("expected clamp to 0, got %v", v)
	}
}

func TestRegistryByIndexOutOfRangeReturnsNil(t *testing.T) {
	r := NewRegistry()
	r.Add(NewParameter(1, "a", 0, 1, 0))
	if r.ByIndex(5) != nil {
		t.Fatal("expected nil for out-of-range index")
	}
	if r.ByIndex(-1) != nil {
		t.Fatal("expected nil for negative index")
	}
}

func TestRegistryNormalizedValuesOrder(t *testing.T) {
	r := NewRegistry()
	r.Add(NewParameter(1, "a", 0, 1, 0.25))
	r.Add(NewParameter(2, "b", 0, 1, 0.75))
	vals := r.NormalizedValues()
	if len(vals) != 2 || vals[0] != 0.25 || vals[1] != 0.75 {
		t.Fatalf("unexpected values: %v", vals)
	}
}

func TestSmootherReachesTargetMonotonically(t *testing.T) {
	s := NewSmoother(CoeffForTime(48000, 10))
	s.Reset(0)
	s.SetTarget(1)
	prev := 0.0
	for i := 0; i < 10000; i++ {
		v := s.Next()
		if v < prev {
			t.Fatalf("smoother regressed: %v < %v at step %d", v, prev, i)
		}
		prev = v
	}
	if prev < 0.99 {
		t.Fatalf("expected smoother to approach target, got %v", prev)
	}
}
