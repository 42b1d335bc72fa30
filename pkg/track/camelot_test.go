package track

import "testing"

func TestParseCamelotKey(t *testing.T) {
	cases := map[string]CamelotKey{
		"8A":  {Number: 8, Minor: true},
		"11b": {Number: 11, Minor: false},
		"1A":  {Number: 1, Minor: true},
	}
	for in, want := range cases {
		got, ok := ParseCamelotKey(in)
		if !ok || got != want {
			t.Fatalf("ParseCamelotKey(%q) = %+v, %v; want %+v, true", in, got, ok, want)
		}
	}
}

func TestParseCamelotKeyRejectsInvalid(t *testing.T) {
	for _, in := range []string{"", "X", "13A", "0B", "C#m"} {
		if _, ok := ParseCamelotKey(in); ok {
			t.Fatalf("expected ParseCamelotKey(%q) to fail", in)
		}
	}
}

func TestCompatible(t *testing.T) {
	a := CamelotKey{Number: 8, Minor: true}
	adjacent := CamelotKey{Number: 9, Minor: true}
	relative := CamelotKey{Number: 8, Minor: false}
	wrap := CamelotKey{Number: 1, Minor: true}
	unrelated := CamelotKey{Number: 3, Minor: false}

	if !a.Compatible(a) {
		t.Fatal("a key must be compatible with itself")
	}
	if !a.Compatible(adjacent) {
		t.Fatal("expected adjacent number, same mode, to be compatible")
	}
	if !a.Compatible(relative) {
		t.Fatal("expected same number, opposite mode, to be compatible")
	}
	twelveA := CamelotKey{Number: 12, Minor: true}
	if !twelveA.Compatible(wrap) {
		t.Fatal("expected wheel wraparound (12 <-> 1) to be compatible")
	}
	if a.Compatible(unrelated) {
		t.Fatal("did not expect unrelated key to be compatible")
	}
}
