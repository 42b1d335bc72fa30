package stem

import "testing"

func TestBuffersAllSameCapacity(t *testing.T) {
	b := NewBuffers(1000)
	for r := Role(0); r < Count; r++ {
		if b.Get(r).Capacity() != 1000 {
			t.Fatalf("role %v: expected capacity 1000, got %d", r, b.Get(r).Capacity())
		}
	}
}

func TestSharedRetainReleaseFiresOnZero(t *testing.T) {
	b := NewBuffers(10)
	released := false
	s := NewShared(b, func(*Buffers) { released = true })

	other := s.Retain()
	s.Release()
	if released {
		t.Fatal("released fired too early, one reference still live")
	}
	other.Release()
	if !released {
		t.Fatal("expected onZero to fire after last release")
	}
}

func TestRoleString(t *testing.T) {
	cases := map[Role]string{Vocals: "vocals", Drums: "drums", Bass: "bass", Other: "other"}
	for role, want := range cases {
		if got := role.String(); got != want {
			t.Fatalf("role %d: got %q want %q", role, got, want)
		}
	}
}
