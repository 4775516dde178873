package pair

import "testing"

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		x, y, a, b uint64
	}{
		{3, 7, 3, 7},
		{7, 3, 3, 7},
		{1, 1, 1, 1},
		{42, 9, 9, 42},
	}
	for _, c := range cases {
		a, b := Canonicalize(c.x, c.y)
		if a != c.a || b != c.b {
			t.Errorf("Canonicalize(%d, %d) = (%d, %d), want (%d, %d)", c.x, c.y, a, b, c.a, c.b)
		}
	}
}

func TestCanonicalizeSymmetric(t *testing.T) {
	a1, b1 := Canonicalize(3, 7)
	a2, b2 := Canonicalize(7, 3)
	if a1 != a2 || b1 != b2 {
		t.Errorf("both argument orders must canonicalize identically, got (%d,%d) vs (%d,%d)", a1, b1, a2, b2)
	}
}

func TestIsA(t *testing.T) {
	if !IsA(3, 3) {
		t.Error("expected user 3 to be the a side")
	}
	if IsA(7, 3) {
		t.Error("user 7 is not the a side")
	}
}
