package booking

import "time"

// Subscription period lengths in days.
const (
	weeklyDays  = 7
	monthlyDays = 30
	yearlyDays  = 365
)

// SubscriptionStatus is the remaining validity of a subscription booking.
type SubscriptionStatus struct {
	Expired  bool `json:"expired"`
	DaysLeft int  `json:"days_left"`
}

// PeriodDays returns the length of one subscription period.
func PeriodDays(sub SubscriptionType) int {
	switch sub {
	case SubWeekly:
		return weeklyDays
	case SubYearly:
		return yearlyDays
	default:
		return monthlyDays
	}
}

// SubscriptionDaysLeft reports remaining whole days for a subscription that
// began at start. Returns nil when sub is empty, meaning the booking is not a
// subscription and the question does not apply.
func SubscriptionDaysLeft(start time.Time, sub SubscriptionType, now time.Time) *SubscriptionStatus {
	if sub == "" {
		return nil
	}
	end := start.AddDate(0, 0, PeriodDays(sub))
	if !now.Before(end) {
		return &SubscriptionStatus{Expired: true, DaysLeft: 0}
	}
	return &SubscriptionStatus{DaysLeft: int(end.Sub(now) / (24 * time.Hour))}
}
