package service

import (
	"log"
	"sync"
	"time"

	"parkvendor/internal/booking"
	"parkvendor/internal/db"
)

type parkedLister interface {
	ListParked() ([]db.Booking, error)
}

// DurationWatcher keeps a live formatted elapsed duration for every parked
// booking so the dashboard can poll cheaply. It owns its ticker and is
// started and stopped explicitly from main.
type DurationWatcher struct {
	store  parkedLister
	ticker *booking.Ticker

	mu        sync.RWMutex
	durations map[int]string
}

func NewDurationWatcher(store parkedLister, interval time.Duration) *DurationWatcher {
	return &DurationWatcher{
		store:     store,
		ticker:    booking.NewTicker(interval),
		durations: make(map[int]string),
	}
}

func (w *DurationWatcher) Start() {
	w.ticker.Start(func(now time.Time) bool {
		w.refresh(now)
		return true
	})
}

func (w *DurationWatcher) Stop() {
	w.ticker.Stop()
}

// Duration returns the last computed readout for a parked booking. The
// second return is false when the booking is not currently tracked.
func (w *DurationWatcher) Duration(bookingID int) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	d, ok := w.durations[bookingID]
	return d, ok
}

func (w *DurationWatcher) refresh(now time.Time) {
	parked, err := w.store.ListParked()
	if err != nil {
		log.Printf("Duration watcher: failed to list parked bookings: %v", err)
		return
	}
	next := make(map[int]string, len(parked))
	for _, b := range parked {
		start, err := booking.ParseDateTime(b.ParkedDate.String, b.ParkedTime.String)
		if err != nil {
			// Unparseable entry stamp: leave the booking out so it reads as
			// unavailable instead of zero.
			continue
		}
		next[b.ID] = booking.FormatDuration(booking.Elapsed(start, now))
	}
	w.mu.Lock()
	w.durations = next
	w.mu.Unlock()
}
