package db

import (
	"database/sql"
	"time"
)

type Vendor struct {
	ID           int
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
}

type Booking struct {
	ID       int
	VendorID int

	// UserID is set when the booking came through the customer app; such
	// bookings are OTP-gated and carry platform fees.
	UserID        sql.NullInt64
	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	ServiceType      string // Instant | Scheduled | Subscription
	BookType         string // Hourly | 24 Hours
	SubscriptionType sql.NullString
	VehicleCategory  string
	VehicleNumber    string

	// Date and time fields are kept as the strings the clients sent
	// (DD-MM-YYYY / YYYY-MM-DD, 12h or 24h clock) and parsed on use.
	BookingDate string
	BookingTime string
	ParkedDate  sql.NullString
	ParkedTime  sql.NullString
	ExitDate    sql.NullString
	ExitTime    sql.NullString

	Status string
	OTP    sql.NullString

	Amount        sql.NullInt64
	GST           sql.NullInt64
	HandlingFee   sql.NullInt64
	Total         sql.NullInt64
	DurationLabel sql.NullString

	PaymentStatus   sql.NullString
	StripeSessionID sql.NullString

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Charge struct {
	ID           int
	VendorID     int
	Category     string
	TierKind     string
	Amount       float64
	CoveredHours int
}

type FeeConfig struct {
	GSTPercent  float64
	HandlingFee float64
}
