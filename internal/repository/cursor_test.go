package repository

import (
	"testing"
	"time"
)

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 26, 53, 589000000, time.UTC)
	c := Cursor{At: at, ID: 42}

	decoded, err := DecodeCursor(c.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded == nil {
		t.Fatal("decoded cursor is nil")
	}
	if !decoded.At.Equal(at) {
		t.Errorf("timestamp mismatch: got %v want %v", decoded.At, at)
	}
	if decoded.ID != 42 {
		t.Errorf("id mismatch: got %d want 42", decoded.ID)
	}
}

func TestDecodeCursorEmpty(t *testing.T) {
	c, err := DecodeCursor("")
	if err != nil {
		t.Fatalf("empty cursor should not error: %v", err)
	}
	if c != nil {
		t.Fatal("empty cursor should decode to nil (first page)")
	}
}

func TestDecodeCursorGarbage(t *testing.T) {
	for _, s := range []string{"not-base64!!", "bm9jb2xvbg", "MTIzNA"} {
		if _, err := DecodeCursor(s); err == nil {
			t.Errorf("expected error for cursor %q", s)
		}
	}
}
