package booking

import (
	"fmt"
	"strings"
	"time"
)

type VehicleCategory string

const (
	CategoryCar    VehicleCategory = "Car"
	CategoryBike   VehicleCategory = "Bike"
	CategoryOthers VehicleCategory = "Others"
)

// NormalizeCategory maps free-form vehicle category input onto the schedule
// rows. Anything unrecognized charges at the Others rate.
func NormalizeCategory(s string) VehicleCategory {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "car":
		return CategoryCar
	case "bike", "motorcycle", "scooter":
		return CategoryBike
	default:
		return CategoryOthers
	}
}

type TierKind string

const (
	TierMinimum        TierKind = "MinimumCharges"
	TierAdditionalHour TierKind = "AdditionalHour"
	TierFullDay        TierKind = "FullDay"
	TierWeekly         TierKind = "Weekly"
	TierMonthly        TierKind = "Monthly"
	TierYearly         TierKind = "Yearly"
)

// ParseTierKind validates a tier kind received over the API.
func ParseTierKind(s string) (TierKind, bool) {
	switch TierKind(strings.TrimSpace(s)) {
	case TierMinimum, TierAdditionalHour, TierFullDay, TierWeekly, TierMonthly, TierYearly:
		return TierKind(strings.TrimSpace(s)), true
	}
	return "", false
}

type ServiceType string

const (
	ServiceInstant      ServiceType = "Instant"
	ServiceScheduled    ServiceType = "Scheduled"
	ServiceSubscription ServiceType = "Subscription"
)

type BookType string

const (
	BookHourly  BookType = "Hourly"
	BookFullDay BookType = "24 Hours"
)

type SubscriptionType string

const (
	SubWeekly  SubscriptionType = "Weekly"
	SubMonthly SubscriptionType = "Monthly"
	SubYearly  SubscriptionType = "Yearly"
)

// Charge is one active rate tier for a vendor: Amount covers CoveredHours of
// parking for one vehicle category.
type Charge struct {
	Category     VehicleCategory
	Kind         TierKind
	Amount       float64
	CoveredHours int
}

// RateSchedule holds a vendor's active charges, at most one per
// (category, tier kind) pair.
type RateSchedule struct {
	tiers map[VehicleCategory]map[TierKind]Charge
}

func NewRateSchedule(charges []Charge) *RateSchedule {
	s := &RateSchedule{tiers: make(map[VehicleCategory]map[TierKind]Charge)}
	for _, c := range charges {
		if c.CoveredHours <= 0 {
			if c.Kind == TierFullDay {
				c.CoveredHours = hoursPerDay
			} else {
				c.CoveredHours = 1
			}
		}
		if s.tiers[c.Category] == nil {
			s.tiers[c.Category] = make(map[TierKind]Charge)
		}
		s.tiers[c.Category][c.Kind] = c
	}
	return s
}

// Tier returns the active charge for a category and tier kind.
func (s *RateSchedule) Tier(cat VehicleCategory, kind TierKind) (Charge, bool) {
	c, ok := s.tiers[cat][kind]
	return c, ok
}

// RateNotConfiguredError means no charge tier matched. Exit is blocked until
// the vendor configures the missing rate; defaulting to zero would
// under-charge.
type RateNotConfiguredError struct {
	Category VehicleCategory
	Kind     TierKind
}

func (e *RateNotConfiguredError) Error() string {
	return fmt.Sprintf("no %s rate configured for %s", e.Kind, e.Category)
}

const (
	hoursPerDay = 24

	// Beyond this much parked time the cheaper of accumulated-hourly and
	// day-split pricing applies.
	daySplitThreshold = 12 * time.Hour
)

// ComputeBaseAmount derives the payable base amount for a parking session
// from the elapsed time and the vendor's schedule.
func ComputeBaseAmount(cat VehicleCategory, bookType BookType, elapsed time.Duration, s *RateSchedule) (float64, error) {
	if bookType == BookFullDay {
		return fullDayAmount(cat, elapsed, s)
	}
	return hourlyAmount(cat, elapsed, s)
}

// ComputeSubscriptionAmount returns the flat rate for a subscription period.
func ComputeSubscriptionAmount(cat VehicleCategory, sub SubscriptionType, s *RateSchedule) (float64, error) {
	kind := TierKind(sub)
	c, ok := s.Tier(cat, kind)
	if !ok {
		return 0, &RateNotConfiguredError{Category: cat, Kind: kind}
	}
	return c.Amount, nil
}

func hourlyAmount(cat VehicleCategory, elapsed time.Duration, s *RateSchedule) (float64, error) {
	base, err := hourlyFor(cat, billableHours(elapsed), s)
	if err != nil {
		return 0, err
	}
	if elapsed <= daySplitThreshold {
		return base, nil
	}
	// Long stays: whole days at the flat day rate plus an hourly remainder
	// can come out cheaper than hours accumulated across day boundaries.
	if split, ok := daySplitAmount(cat, elapsed, s); ok && split < base {
		return split, nil
	}
	return base, nil
}

func fullDayAmount(cat VehicleCategory, elapsed time.Duration, s *RateSchedule) (float64, error) {
	rate, err := dayRate(cat, s)
	if err != nil {
		return 0, err
	}
	return rate * float64(billableDays(elapsed)), nil
}

// hourlyFor prices a whole number of hours: the minimum tier covers the first
// CoveredHours, every hour past that is charged at the additional tier's
// per-hour rate.
func hourlyFor(cat VehicleCategory, hours int, s *RateSchedule) (float64, error) {
	min, ok := s.Tier(cat, TierMinimum)
	if !ok {
		return 0, &RateNotConfiguredError{Category: cat, Kind: TierMinimum}
	}
	if hours <= min.CoveredHours {
		return min.Amount, nil
	}
	add, ok := s.Tier(cat, TierAdditionalHour)
	if !ok {
		return 0, &RateNotConfiguredError{Category: cat, Kind: TierAdditionalHour}
	}
	perHour := add.Amount / float64(add.CoveredHours)
	return min.Amount + float64(hours-min.CoveredHours)*perHour, nil
}

// dayRate is the flat charge for one full day, extrapolated from the hourly
// tiers when the vendor configured no FullDay charge.
func dayRate(cat VehicleCategory, s *RateSchedule) (float64, error) {
	if fd, ok := s.Tier(cat, TierFullDay); ok {
		return fd.Amount, nil
	}
	return hourlyFor(cat, hoursPerDay, s)
}

func daySplitAmount(cat VehicleCategory, elapsed time.Duration, s *RateSchedule) (float64, bool) {
	fd, ok := s.Tier(cat, TierFullDay)
	if !ok {
		return 0, false
	}
	fullDays := int(elapsed / (hoursPerDay * time.Hour))
	remainder := elapsed - time.Duration(fullDays)*hoursPerDay*time.Hour

	amount := float64(fullDays) * fd.Amount
	if remainder > 0 {
		partial, err := hourlyFor(cat, billableHours(remainder), s)
		if err != nil {
			return 0, false
		}
		// A partial day never costs more than the flat day rate.
		if partial > fd.Amount {
			partial = fd.Amount
		}
		amount += partial
	}
	return amount, true
}

func billableHours(elapsed time.Duration) int {
	hours := int((elapsed + time.Hour - 1) / time.Hour)
	if hours < 1 {
		hours = 1
	}
	return hours
}

func billableDays(elapsed time.Duration) int {
	day := hoursPerDay * time.Hour
	days := int((elapsed + day - 1) / day)
	if days < 1 {
		days = 1
	}
	return days
}
