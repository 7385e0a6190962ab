package entities

type CreateBookingRequest struct {
	CustomerName     string `json:"customer_name"`
	CustomerPhone    string `json:"customer_phone"`
	CustomerEmail    string `json:"customer_email,omitempty"`
	ServiceType      string `json:"service_type"`
	BookType         string `json:"book_type"`
	SubscriptionType string `json:"subscription_type,omitempty"`
	VehicleCategory  string `json:"vehicle_category"`
	VehicleNumber    string `json:"vehicle_number"`
	BookingDate      string `json:"booking_date"`
	BookingTime      string `json:"booking_time"`
}

type AllowParkingRequest struct {
	OTP string `json:"otp"`
}

type ExitRequest struct {
	// Exit date/time override; empty means "now".
	ExitDate string `json:"exit_date,omitempty"`
	ExitTime string `json:"exit_time,omitempty"`

	// OnlinePayment requests a hosted checkout link for the total.
	OnlinePayment bool `json:"online_payment,omitempty"`
}
