package transfer

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// leadingInt parses the leading decimal digits of s, as "3rd" → 3.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// intOr returns the leading integer of s when it is positive, otherwise fallback.
func intOr(s string, fallback int) int {
	if n, ok := leadingInt(s); ok && n > 0 {
		return n
	}
	return fallback
}

var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseDate accepts MM/DD/YYYY, ISO dates and RFC 3339 timestamps.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
