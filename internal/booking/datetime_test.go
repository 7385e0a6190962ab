package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateTimeEquivalentFormats(t *testing.T) {
	// The same instant written both ways the clients send it.
	a, err := ParseDateTimeIn("10-01-2025", "1:30 PM", time.UTC)
	require.NoError(t, err)
	b, err := ParseDateTimeIn("2025-01-10", "13:30:00", time.UTC)
	require.NoError(t, err)
	assert.True(t, a.Equal(b), "expected %v == %v", a, b)
}

func TestParseDateTimeTwelveHourRules(t *testing.T) {
	cases := []struct {
		in   string
		hour int
		min  int
	}{
		{"12:00 PM", 12, 0},
		{"12:15 AM", 0, 15},
		{"1:30 pm", 13, 30},
		{"11:59 PM", 23, 59},
		{"9:05AM", 9, 5},
		{"1 PM", 13, 0}, // missing minutes default to zero
	}
	for _, tc := range cases {
		got, err := ParseDateTimeIn("01-06-2025", tc.in, time.UTC)
		require.NoError(t, err, "time %q", tc.in)
		assert.Equal(t, tc.hour, got.Hour(), "hour of %q", tc.in)
		assert.Equal(t, tc.min, got.Minute(), "minute of %q", tc.in)
	}
}

func TestParseDateTimeTwentyFourHour(t *testing.T) {
	got, err := ParseDateTimeIn("2025-06-01", "08:45:30", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 8, 45, 30, 0, time.UTC), got)

	// Seconds are optional.
	got, err = ParseDateTimeIn("2025-06-01", "08:45", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 8, 45, 0, 0, time.UTC), got)
}

func TestParseDateTimeMissingTimeCountsFromMidnight(t *testing.T) {
	got, err := ParseDateTimeIn("05-03-2025", "", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDateTimeErrors(t *testing.T) {
	cases := []struct {
		date string
		time string
	}{
		{"", "10:00"},
		{"10/01/2025", "10:00"},
		{"aa-bb-cccc", "10:00"},
		{"10-01", "10:00"},
		{"10-01-2025", "noon"},
	}
	for _, tc := range cases {
		_, err := ParseDateTimeIn(tc.date, tc.time, time.UTC)
		require.Error(t, err, "date %q time %q", tc.date, tc.time)
		var pe *ParseError
		assert.ErrorAs(t, err, &pe, "date %q time %q", tc.date, tc.time)
	}
}
