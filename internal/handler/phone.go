package handler

import (
	"regexp"
	"strings"
)

// normalizePhone canonicalizes a Cameroonian MTN/Orange number to
// international form (237XXXXXXXXX). Returns "" when the input cannot be a
// valid number.
func normalizePhone(s string) string {
	s = regexp.MustCompile(`\D`).ReplaceAllString(s, "")
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "237") {
		s = "237" + s
	}
	if len(s) != 12 {
		return ""
	}
	return s
}
