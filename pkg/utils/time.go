package utils

import "time"

// TimestampLayout is how times are stored in snapshot and migration rows.
// Fixed-width UTC keeps lexical order equal to chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Timestamp formats t for storage
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp reads a stored timestamp back; older RFC3339 values are accepted
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Parse(time.RFC3339, s)
	}
	return t, nil
}
