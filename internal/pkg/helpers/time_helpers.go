package helpers

import (
	"fmt"
	"strings"
	"time"
)

// ParseDuration parses a duration string, returns def on error.
func ParseDuration(raw string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateTime accepts RFC3339 or the shorter forms an HTML datetime-local or
// date input produces. Zone-less values are read as UTC.
func ParseDateTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

// ParseOptionalDateTime is ParseDateTime for optional form fields
func ParseOptionalDateTime(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := ParseDateTime(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
