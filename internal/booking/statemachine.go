package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusParked    Status = "PARKED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus normalizes the mixed-case status strings older records carry.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PENDING":
		return StatusPending, true
	case "APPROVED":
		return StatusApproved, true
	case "PARKED":
		return StatusParked, true
	case "COMPLETED":
		return StatusCompleted, true
	case "CANCELLED", "CANCELED":
		return StatusCancelled, true
	}
	return "", false
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Event string

const (
	EventApprove      Event = "approve"
	EventCancel       Event = "cancel"
	EventTimeout      Event = "timeout"
	EventAllowParking Event = "allow-parking"
	EventExit         Event = "exit"
)

// PendingTimeout is how long a booking may sit PENDING or APPROVED before the
// sweep cancels it.
const PendingTimeout = 10 * time.Minute

var ErrOtpMismatch = errors.New("otp does not match")

// InvalidTransitionError reports a transition attempt that failed its guard.
// The booking is left untouched.
type InvalidTransitionError struct {
	From   Status
	Event  Event
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s booking in state %s: %s", e.Event, e.From, e.Reason)
}

// TransitionView is the slice of a booking the state machine inspects.
type TransitionView struct {
	Status   Status
	BookedAt time.Time // instant the booking was placed

	// ParkingDay is the day the vehicle is expected; zero means unscheduled.
	ParkingDay time.Time

	// CustomerBooking marks a booking placed through the customer app, which
	// gates entry behind the issued OTP.
	CustomerBooking bool
	OTP             string
}

// TransitionInput carries vendor-entered data for guarded events.
type TransitionInput struct {
	OTP string
}

// Apply evaluates one event against a booking and returns the next status.
// A failed guard returns a typed error and no state change.
func Apply(v TransitionView, ev Event, now time.Time, in TransitionInput) (Status, error) {
	if v.Status.Terminal() {
		return "", &InvalidTransitionError{From: v.Status, Event: ev, Reason: "booking already closed"}
	}

	switch ev {
	case EventApprove:
		if v.Status != StatusPending {
			return "", &InvalidTransitionError{From: v.Status, Event: ev, Reason: "only pending bookings can be approved"}
		}
		return StatusApproved, nil

	case EventCancel:
		if v.Status != StatusPending && v.Status != StatusApproved {
			return "", &InvalidTransitionError{From: v.Status, Event: ev, Reason: "only open bookings can be cancelled"}
		}
		return StatusCancelled, nil

	case EventTimeout:
		if v.Status != StatusPending && v.Status != StatusApproved {
			return "", &InvalidTransitionError{From: v.Status, Event: ev, Reason: "timeout applies to open bookings only"}
		}
		if !TimedOut(v.BookedAt, now) {
			return "", &InvalidTransitionError{From: v.Status, Event: ev, Reason: "booking is inside its grace window"}
		}
		return StatusCancelled, nil

	case EventAllowParking:
		if v.Status != StatusPending && v.Status != StatusApproved {
			return "", &InvalidTransitionError{From: v.Status, Event: ev, Reason: "vehicle can only enter from an open booking"}
		}
		if !v.ParkingDay.IsZero() && !sameDay(v.ParkingDay, now) {
			return "", &InvalidTransitionError{From: v.Status, Event: ev, Reason: "booking is not for today"}
		}
		if v.CustomerBooking && !VerifyOTP(v.OTP, in.OTP) {
			return "", ErrOtpMismatch
		}
		return StatusParked, nil

	case EventExit:
		if v.Status != StatusParked {
			return "", &InvalidTransitionError{From: v.Status, Event: ev, Reason: "vehicle is not parked"}
		}
		return StatusCompleted, nil
	}

	return "", &InvalidTransitionError{From: v.Status, Event: ev, Reason: "unknown event"}
}

// TimedOut reports whether an open booking has outlived its grace window.
func TimedOut(bookedAt, now time.Time) bool {
	if bookedAt.IsZero() {
		return false
	}
	return now.Sub(bookedAt) > PendingTimeout
}

// VerifyOTP compares the full issued code against the vendor-entered one.
// The dashboard this replaces also matched on a 3-digit prefix in one spot;
// a prefix of a 6-digit code is trivially guessable, so full equality is the
// single rule here.
func VerifyOTP(issued, entered string) bool {
	issued = strings.TrimSpace(issued)
	entered = strings.TrimSpace(entered)
	return issued != "" && issued == entered
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
