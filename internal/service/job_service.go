package service

import (
	"fmt"
	"log"
	"time"

	"parkvendor/internal/booking"
	"parkvendor/internal/db"
)

// SweepStore is the slice of the booking repository the sweeps use.
type SweepStore interface {
	ListOpenForTimeout() ([]db.Booking, error)
	ListActiveSubscriptions() ([]db.Booking, error)
	UpdateStatuses(ids []int, newStatus string) error
}

type JobService struct {
	store SweepStore
	now   func() time.Time
}

func NewJobService(store SweepStore) *JobService {
	return &JobService{store: store, now: time.Now}
}

// CancelTimedOutBookings cancels PENDING and APPROVED bookings that sat
// unactioned past the grace window. Runs on a schedule so stale bookings are
// cleared even when nobody has the dashboard open.
func (s *JobService) CancelTimedOutBookings() error {
	open, err := s.store.ListOpenForTimeout()
	if err != nil {
		return fmt.Errorf("timeout sweep: failed to list open bookings: %w", err)
	}

	now := s.now()
	var ids []int
	for _, b := range open {
		bookedAt, err := booking.ParseDateTime(b.BookingDate, b.BookingTime)
		if err != nil {
			// An unreadable booking stamp must not cancel the booking.
			log.Printf("Timeout sweep: skipping booking %d: %v", b.ID, err)
			continue
		}
		if booking.TimedOut(bookedAt, now) {
			ids = append(ids, b.ID)
		}
	}

	if len(ids) == 0 {
		return nil
	}
	log.Printf("Timeout sweep: cancelling %d stale bookings. IDs: %v", len(ids), ids)
	if err := s.store.UpdateStatuses(ids, string(booking.StatusCancelled)); err != nil {
		return fmt.Errorf("timeout sweep: failed to cancel bookings: %w", err)
	}
	return nil
}

// ExpireSubscriptions completes parked subscription bookings whose period has
// run out.
func (s *JobService) ExpireSubscriptions() error {
	subs, err := s.store.ListActiveSubscriptions()
	if err != nil {
		return fmt.Errorf("subscription sweep: failed to list subscriptions: %w", err)
	}

	now := s.now()
	var ids []int
	for _, b := range subs {
		startDate, startTime := b.BookingDate, b.BookingTime
		if b.ParkedDate.Valid {
			startDate, startTime = b.ParkedDate.String, b.ParkedTime.String
		}
		start, err := booking.ParseDateTime(startDate, startTime)
		if err != nil {
			log.Printf("Subscription sweep: skipping booking %d: %v", b.ID, err)
			continue
		}
		st := booking.SubscriptionDaysLeft(start, booking.SubscriptionType(b.SubscriptionType.String), now)
		if st != nil && st.Expired {
			ids = append(ids, b.ID)
		}
	}

	if len(ids) == 0 {
		return nil
	}
	log.Printf("Subscription sweep: completing %d expired subscriptions. IDs: %v", len(ids), ids)
	if err := s.store.UpdateStatuses(ids, string(booking.StatusCompleted)); err != nil {
		return fmt.Errorf("subscription sweep: failed to complete subscriptions: %w", err)
	}
	return nil
}
