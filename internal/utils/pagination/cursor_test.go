package pagination

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := Cursor{ID: 42, UnixMs: 1700000000000}
	token, err := Encode(c)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, err := Decode(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != c {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, c)
	}
}

func TestDecodeEmptyToken(t *testing.T) {
	c, err := Decode("")
	if err != nil {
		t.Fatalf("empty token must decode to first page, got: %v", err)
	}
	if c != (Cursor{}) {
		t.Errorf("expected zero cursor, got %+v", c)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode("not-base64!!"); err == nil {
		t.Error("expected error for invalid token")
	}
}
