package models

import "time"

// timestampLayouts lists the accepted timestamp formats, most common first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"02/Jan/2006:15:04:05 -0700",
}

// ParseTimestamp parses an ISO-8601-ish timestamp string. It reports false
// for anything it cannot parse instead of substituting the current time, so
// repeated runs over the same log stay reproducible.
func ParseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
