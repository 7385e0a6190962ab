package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkvendor/internal/booking"
	"parkvendor/internal/db"
)

type stubSweepStore struct {
	open    []db.Booking
	subs    []db.Booking
	updated []int
	status  string
}

func (s *stubSweepStore) ListOpenForTimeout() ([]db.Booking, error)      { return s.open, nil }
func (s *stubSweepStore) ListActiveSubscriptions() ([]db.Booking, error) { return s.subs, nil }

func (s *stubSweepStore) UpdateStatuses(ids []int, newStatus string) error {
	s.updated = append(s.updated, ids...)
	s.status = newStatus
	return nil
}

func TestCancelTimedOutBookings(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.Local)
	store := &stubSweepStore{
		open: []db.Booking{
			{ID: 1, BookingDate: "10-01-2025", BookingTime: "11:49 AM"}, // 11m stale
			{ID: 2, BookingDate: "10-01-2025", BookingTime: "11:55 AM"}, // inside grace
			{ID: 3, BookingDate: "not-a-date", BookingTime: "11:00 AM"}, // unreadable, skipped
		},
	}
	svc := NewJobService(store)
	svc.now = func() time.Time { return now }

	require.NoError(t, svc.CancelTimedOutBookings())
	assert.Equal(t, []int{1}, store.updated)
	assert.Equal(t, string(booking.StatusCancelled), store.status)
}

func TestCancelTimedOutBookingsNoneStale(t *testing.T) {
	store := &stubSweepStore{
		open: []db.Booking{{ID: 1, BookingDate: "10-01-2025", BookingTime: "11:55 AM"}},
	}
	svc := NewJobService(store)
	svc.now = func() time.Time { return time.Date(2025, 1, 10, 12, 0, 0, 0, time.Local) }

	require.NoError(t, svc.CancelTimedOutBookings())
	assert.Empty(t, store.updated)
}

func TestExpireSubscriptions(t *testing.T) {
	now := time.Date(2025, 2, 15, 12, 0, 0, 0, time.Local)
	store := &stubSweepStore{
		subs: []db.Booking{
			{ID: 1, BookingDate: "10-01-2025", BookingTime: "10:00 AM",
				SubscriptionType: nullString(string(booking.SubMonthly))}, // expired Feb 9
			{ID: 2, BookingDate: "01-02-2025", BookingTime: "10:00 AM",
				SubscriptionType: nullString(string(booking.SubMonthly))}, // still running
		},
	}
	svc := NewJobService(store)
	svc.now = func() time.Time { return now }

	require.NoError(t, svc.ExpireSubscriptions())
	assert.Equal(t, []int{1}, store.updated)
	assert.Equal(t, string(booking.StatusCompleted), store.status)
}

func TestExpireSubscriptionsUsesParkedStamp(t *testing.T) {
	now := time.Date(2025, 2, 5, 12, 0, 0, 0, time.Local)
	store := &stubSweepStore{
		subs: []db.Booking{
			// Booked a month before entering: the clock starts at entry.
			{ID: 1, BookingDate: "01-01-2025", BookingTime: "10:00 AM",
				ParkedDate: nullString("01-02-2025"), ParkedTime: nullString("10:00 AM"),
				SubscriptionType: nullString(string(booking.SubMonthly))},
		},
	}
	svc := NewJobService(store)
	svc.now = func() time.Time { return now }

	require.NoError(t, svc.ExpireSubscriptions())
	assert.Empty(t, store.updated)
}
