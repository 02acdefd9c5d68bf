package scalars

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDateTime_UTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	ts := time.Date(2026, 3, 1, 10, 30, 0, 0, loc)

	assert.Equal(t, "2026-03-01T09:30:00Z", FormatDateTime(ts))
}

func TestParseDateTime(t *testing.T) {
	ts := time.Date(2026, 3, 1, 9, 30, 0, 123000000, time.UTC)

	parsed, err := ParseDateTime(FormatDateTime(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed))

	_, err = ParseDateTime("yesterday")
	assert.Error(t, err)
}
