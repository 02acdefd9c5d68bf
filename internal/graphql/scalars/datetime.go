package scalars

import (
	"fmt"
	"time"
)

// FormatDateTime renders a timestamp the way the API exposes createdAt/updatedAt
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseDateTime parses a timestamp produced by FormatDateTime
func ParseDateTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse DateTime %q: %w", v, err)
	}
	return t, nil
}
