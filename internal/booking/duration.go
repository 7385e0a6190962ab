package booking

import (
	"fmt"
	"sync"
	"time"
)

// Elapsed returns how long a vehicle has been parked. A start instant in the
// future (clock skew between the vendor's devices) yields zero, never a
// negative duration.
func Elapsed(start, now time.Time) time.Duration {
	if now.Before(start) {
		return 0
	}
	return now.Sub(start)
}

// FormatDuration renders a duration as zero-padded HH:MM:SS.
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Ticker invokes a callback on a fixed interval until Stop is called or the
// callback returns false. Owners start and stop it explicitly rather than
// tying it to any view lifecycle.
type Ticker struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

func NewTicker(interval time.Duration) *Ticker {
	return &Ticker{interval: interval}
}

// Start begins ticking in a background goroutine. Start on a running ticker
// is a no-op.
func (t *Ticker) Start(fn func(now time.Time) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop != nil {
		return
	}
	stop := make(chan struct{})
	t.stop = stop

	go func() {
		tick := time.NewTicker(t.interval)
		defer tick.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-tick.C:
				if !fn(now) {
					return
				}
			}
		}
	}()
}

// Stop halts the ticker. Safe to call repeatedly.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stop == nil {
		return
	}
	close(t.stop)
	t.stop = nil
}
