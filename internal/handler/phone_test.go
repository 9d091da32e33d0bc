package handler

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"683583297", "237683583297"},
		{"237683583297", "237683583297"},
		{"+237 683 583 297", "237683583297"},
		{"6-83-58-32-97", "237683583297"},
		{"", ""},
		{"12345", ""},
		{"2376835832971", ""},
		{"abc", ""},
	}
	for _, tc := range cases {
		if got := normalizePhone(tc.in); got != tc.want {
			t.Errorf("normalizePhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
