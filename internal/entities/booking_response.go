package entities

import (
	"time"

	"parkvendor/internal/booking"
)

type BookingResponse struct {
	ID               int    `json:"id"`
	Status           string `json:"status"`
	CustomerName     string `json:"customer_name,omitempty"`
	CustomerPhone    string `json:"customer_phone,omitempty"`
	CustomerEmail    string `json:"customer_email,omitempty"`
	CustomerBooking  bool   `json:"customer_booking"`
	ServiceType      string `json:"service_type"`
	BookType         string `json:"book_type,omitempty"`
	SubscriptionType string `json:"subscription_type,omitempty"`
	VehicleCategory  string `json:"vehicle_category"`
	VehicleNumber    string `json:"vehicle_number"`

	BookingDate string `json:"booking_date"`
	BookingTime string `json:"booking_time"`
	ParkedDate  string `json:"parked_date,omitempty"`
	ParkedTime  string `json:"parked_time,omitempty"`
	ExitDate    string `json:"exit_date,omitempty"`
	ExitTime    string `json:"exit_time,omitempty"`

	// Duration is the live HH:MM:SS readout while parked, or "N/A" when the
	// parked timestamp cannot be parsed.
	Duration      string `json:"duration,omitempty"`
	DurationLabel string `json:"duration_label,omitempty"`

	Amount      *int `json:"amount,omitempty"`
	GST         *int `json:"gst,omitempty"`
	HandlingFee *int `json:"handling_fee,omitempty"`
	Total       *int `json:"total,omitempty"`

	PaymentStatus string                      `json:"payment_status,omitempty"`
	Subscription  *booking.SubscriptionStatus `json:"subscription,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ExitQuote is the itemized charge for an exit, either previewed or committed.
type ExitQuote struct {
	BookingID   int    `json:"booking_id"`
	Duration    string `json:"duration"`
	Base        int    `json:"base"`
	GST         int    `json:"gst"`
	HandlingFee int    `json:"handling_fee"`
	Total       int    `json:"total"`

	// PaymentURL is set when the vendor requested online payment on exit.
	PaymentURL string `json:"payment_url,omitempty"`
}
