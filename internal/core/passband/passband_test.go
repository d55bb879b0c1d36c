package passband

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"g", ZTFg, true},
		{"G", ZTFg, true},
		{"r", ZTFr, true},
		{"R", ZTFr, true},
		{"i", ZTFi, true},
		{"I", ZTFi, true},
		{"z", "", false},
		{"", "", false},
		{"gg", "", false},
	}
	for _, c := range cases {
		got, ok := Normalize(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("Normalize(%q) = %q, %v; want %q, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestNonDetection(t *testing.T) {
	if nd, ok := NonDetection(1); !ok || nd {
		t.Fatalf("tag 1 should be a detection, got nd=%v ok=%v", nd, ok)
	}
	if nd, ok := NonDetection(2); !ok || !nd {
		t.Fatalf("tag 2 should be a non detection, got nd=%v ok=%v", nd, ok)
	}
	for _, tag := range []int64{0, 3, -1, 99} {
		if _, ok := NonDetection(tag); ok {
			t.Fatalf("tag %d should be out of vocabulary", tag)
		}
	}
}

func TestKnown(t *testing.T) {
	for _, b := range []string{ZTFg, ZTFr, ZTFi} {
		if !Known(b) {
			t.Fatalf("%q should be known", b)
		}
	}
	if Known("ztfz") {
		t.Fatal("ztfz should not be known")
	}
}
