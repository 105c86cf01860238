package helpers

import (
	"strconv"
	"strings"
)

// NullIfEmpty maps a blank string to SQL NULL when passed as a query argument
func NullIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ParseYear parses a graduation year. Anything that is not a 4 digit year in
// 1900..2100 yields nil rather than an error.
func ParseYear(raw string) *int {
	raw = strings.TrimSpace(raw)
	if len(raw) != 4 {
		return nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 2100 {
		return nil
	}
	return &year
}
