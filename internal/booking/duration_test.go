package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestElapsedClampsToZero(t *testing.T) {
	start := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Duration(0), Elapsed(start, start))
	assert.Equal(t, time.Duration(0), Elapsed(start, start.Add(-time.Minute)))
}

func TestElapsedMonotonic(t *testing.T) {
	start := time.Date(2025, 1, 10, 10, 0, 0, 0, time.UTC)
	prev := time.Duration(0)
	for i := 0; i < 10; i++ {
		now := start.Add(time.Duration(i) * 17 * time.Second)
		d := Elapsed(start, now)
		assert.GreaterOrEqual(t, d, prev)
		prev = d
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{1500 * time.Millisecond, "00:00:01"},
		{3*time.Hour + 30*time.Minute + 5*time.Second, "03:30:05"},
		{26*time.Hour + 59*time.Second, "26:00:59"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDuration(tc.d))
	}
}

func TestTickerStartStop(t *testing.T) {
	ticks := make(chan time.Time, 16)
	tk := NewTicker(5 * time.Millisecond)
	tk.Start(func(now time.Time) bool {
		ticks <- now
		return true
	})

	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("ticker never fired")
	}

	tk.Stop()
	tk.Stop() // idempotent
}

func TestTickerStopsWhenCallbackReturnsFalse(t *testing.T) {
	fired := make(chan struct{}, 1)
	tk := NewTicker(5 * time.Millisecond)
	tk.Start(func(now time.Time) bool {
		select {
		case fired <- struct{}{}:
		default:
		}
		return false
	})
	defer tk.Stop()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("ticker never fired")
	}
}
