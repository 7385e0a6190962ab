package service

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"log"
	"math/big"
	"time"

	"parkvendor/internal/booking"
	"parkvendor/internal/db"
	"parkvendor/internal/entities"
	"parkvendor/internal/repository"
)

const (
	dateLayout = "02-01-2006"
	timeLayout = "3:04 PM"

	paymentPending = "pending"
	paymentPaid    = "paid"
)

// BookingStore is the slice of the booking repository this service uses.
type BookingStore interface {
	Create(b *db.Booking) error
	GetByID(id, vendorID int) (*db.Booking, error)
	ListByVendor(vendorID int) ([]db.Booking, error)
	UpdateStatus(id int, from, to string) error
	SetOTP(id int, otp string) error
	MarkParked(id int, from, parkedDate, parkedTime string) error
	Complete(id int, rec repository.ExitRecord) error
	MarkPaymentStatusBySession(sessionID, paymentStatus string) error
}

type RateStore interface {
	GetSchedule(vendorID int) (*booking.RateSchedule, error)
}

type FeeStore interface {
	GetFeeConfig() (booking.FeeConfig, error)
}

type Notifier interface {
	SendSMS(to, body string) error
	SendEmail(toEmail, toName, subject, plainBody, htmlBody string) error
}

type PaymentGateway interface {
	CreateExitCheckoutSession(amount int, description, customerEmail string) (url, sessionID string, err error)
	RefundBySessionID(sessionID string) error
}

type BookingService struct {
	store    BookingStore
	rates    RateStore
	fees     FeeStore
	notifier Notifier
	payments PaymentGateway
	now      func() time.Time
}

func NewBookingService(store BookingStore, rates RateStore, fees FeeStore, notifier Notifier, payments PaymentGateway) *BookingService {
	return &BookingService{
		store:    store,
		rates:    rates,
		fees:     fees,
		notifier: notifier,
		payments: payments,
		now:      time.Now,
	}
}

// Create records a booking entered on the vendor dashboard. Instant walk-ins
// go straight to PARKED with the entry stamped; scheduled and subscription
// bookings wait for approval.
func (s *BookingService) Create(vendorID int, req entities.CreateBookingRequest) (*entities.BookingResponse, error) {
	serviceType := booking.ServiceType(req.ServiceType)
	switch serviceType {
	case booking.ServiceInstant, booking.ServiceScheduled, booking.ServiceSubscription:
	default:
		return nil, fmt.Errorf("unknown service type %q", req.ServiceType)
	}
	if serviceType == booking.ServiceSubscription {
		switch booking.SubscriptionType(req.SubscriptionType) {
		case booking.SubWeekly, booking.SubMonthly, booking.SubYearly:
		default:
			return nil, fmt.Errorf("unknown subscription type %q", req.SubscriptionType)
		}
	}

	now := s.now()
	b := &db.Booking{
		VendorID:        vendorID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		ServiceType:     string(serviceType),
		BookType:        string(normalizeBookType(req.BookType)),
		VehicleCategory: string(booking.NormalizeCategory(req.VehicleCategory)),
		VehicleNumber:   req.VehicleNumber,
		BookingDate:     req.BookingDate,
		BookingTime:     req.BookingTime,
		Status:          string(booking.StatusPending),
	}
	if b.BookingDate == "" {
		b.BookingDate = now.Format(dateLayout)
		b.BookingTime = now.Format(timeLayout)
	}
	if serviceType == booking.ServiceSubscription {
		b.SubscriptionType = nullString(req.SubscriptionType)
	}
	if serviceType == booking.ServiceInstant {
		b.Status = string(booking.StatusParked)
		b.ParkedDate = nullString(now.Format(dateLayout))
		b.ParkedTime = nullString(now.Format(timeLayout))
	}

	if err := s.store.Create(b); err != nil {
		log.Printf("Error creating booking: %v", err)
		return nil, err
	}
	resp := s.toResponse(*b, s.now())
	return &resp, nil
}

// Approve moves a pending booking to APPROVED. Customer bookings get a
// 6-digit entry code issued and sent by SMS.
func (s *BookingService) Approve(vendorID, id int) error {
	b, err := s.store.GetByID(id, vendorID)
	if err != nil {
		return err
	}
	next, err := s.apply(b, booking.EventApprove, booking.TransitionInput{})
	if err != nil {
		return err
	}
	if err := s.store.UpdateStatus(id, b.Status, string(next)); err != nil {
		return err
	}

	if b.UserID.Valid {
		otp, err := generateOTP()
		if err != nil {
			return fmt.Errorf("could not issue entry code: %w", err)
		}
		if err := s.store.SetOTP(id, otp); err != nil {
			return err
		}
		go func(phone, code string) {
			msg := fmt.Sprintf("Your parking entry code is %s. Show it at the gate.", code)
			if err := s.notifier.SendSMS(phone, msg); err != nil {
				log.Printf("Booking %d approved, but OTP SMS failed: %v", id, err)
			}
		}(b.CustomerPhone, otp)
	}
	return nil
}

// Cancel closes an open booking and refunds any captured online payment.
func (s *BookingService) Cancel(vendorID, id int) error {
	b, err := s.store.GetByID(id, vendorID)
	if err != nil {
		return err
	}
	next, err := s.apply(b, booking.EventCancel, booking.TransitionInput{})
	if err != nil {
		return err
	}
	if err := s.store.UpdateStatus(id, b.Status, string(next)); err != nil {
		return err
	}

	if b.StripeSessionID.Valid && b.PaymentStatus.Valid && b.PaymentStatus.String == paymentPaid {
		if err := s.payments.RefundBySessionID(b.StripeSessionID.String); err != nil {
			log.Printf("Booking %d cancelled, but refund failed: %v", id, err)
		}
	}
	if b.CustomerPhone != "" {
		go func(phone string) {
			if err := s.notifier.SendSMS(phone, fmt.Sprintf("Your parking booking #%d has been cancelled.", id)); err != nil {
				log.Printf("Booking %d cancel SMS failed: %v", id, err)
			}
		}(b.CustomerPhone)
	}
	return nil
}

// AllowParking commits vehicle entry after the state machine's guards pass,
// stamping the physical entry time.
func (s *BookingService) AllowParking(vendorID, id int, otp string) error {
	b, err := s.store.GetByID(id, vendorID)
	if err != nil {
		return err
	}
	if _, err := s.apply(b, booking.EventAllowParking, booking.TransitionInput{OTP: otp}); err != nil {
		return err
	}
	now := s.now()
	return s.store.MarkParked(id, b.Status, now.Format(dateLayout), now.Format(timeLayout))
}

// Quote previews the exit charge without changing anything.
func (s *BookingService) Quote(vendorID, id int) (*entities.ExitQuote, error) {
	b, err := s.store.GetByID(id, vendorID)
	if err != nil {
		return nil, err
	}
	if booking.Status(b.Status) != booking.StatusParked {
		return nil, &booking.InvalidTransitionError{
			From: booking.Status(b.Status), Event: booking.EventExit, Reason: "vehicle is not parked",
		}
	}
	charge, label, err := s.computeExitCharge(b, s.now())
	if err != nil {
		return nil, err
	}
	return &entities.ExitQuote{
		BookingID:   b.ID,
		Duration:    label,
		Base:        charge.Base,
		GST:         charge.GST,
		HandlingFee: charge.HandlingFee,
		Total:       charge.Total,
	}, nil
}

// Exit computes the final charge, persists it exactly once with the
// PARKED -> COMPLETED transition, and notifies the customer.
func (s *BookingService) Exit(vendorID, id int, req entities.ExitRequest) (*entities.ExitQuote, error) {
	b, err := s.store.GetByID(id, vendorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.apply(b, booking.EventExit, booking.TransitionInput{}); err != nil {
		return nil, err
	}

	now := s.now()
	exitAt := now
	if req.ExitDate != "" {
		exitAt, err = booking.ParseDateTime(req.ExitDate, req.ExitTime)
		if err != nil {
			return nil, err
		}
	}

	charge, label, err := s.computeExitCharge(b, exitAt)
	if err != nil {
		return nil, err
	}

	rec := repository.ExitRecord{
		ExitDate:      exitAt.Format(dateLayout),
		ExitTime:      exitAt.Format(timeLayout),
		DurationLabel: label,
		Amount:        charge.Base,
		GST:           charge.GST,
		HandlingFee:   charge.HandlingFee,
		Total:         charge.Total,
		PaymentStatus: paymentPending,
	}

	quote := &entities.ExitQuote{
		BookingID:   b.ID,
		Duration:    label,
		Base:        charge.Base,
		GST:         charge.GST,
		HandlingFee: charge.HandlingFee,
		Total:       charge.Total,
	}

	if req.OnlinePayment {
		desc := fmt.Sprintf("Parking charges for %s (booking #%d)", b.VehicleNumber, b.ID)
		url, sessionID, err := s.payments.CreateExitCheckoutSession(charge.Total, desc, b.CustomerEmail)
		if err != nil {
			return nil, fmt.Errorf("could not create checkout session: %w", err)
		}
		rec.StripeSessionID = sessionID
		quote.PaymentURL = url
	}

	if err := s.store.Complete(id, rec); err != nil {
		return nil, err
	}

	if b.CustomerPhone != "" || b.CustomerEmail != "" {
		go s.sendReceipt(*b, *quote)
	}
	return quote, nil
}

// List returns the vendor's bookings with live durations and subscription
// status filled in.
func (s *BookingService) List(vendorID int) ([]entities.BookingResponse, error) {
	records, err := s.store.ListByVendor(vendorID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	responses := make([]entities.BookingResponse, 0, len(records))
	for _, b := range records {
		responses = append(responses, s.toResponse(b, now))
	}
	return responses, nil
}

// SubscriptionStatus reports days remaining for a subscription booking.
// A nil status means the booking is not subscription-based.
func (s *BookingService) SubscriptionStatus(vendorID, id int) (*booking.SubscriptionStatus, error) {
	b, err := s.store.GetByID(id, vendorID)
	if err != nil {
		return nil, err
	}
	return s.subscriptionStatus(b, s.now())
}

// MarkPaymentPaid records a successful checkout reported by the webhook.
func (s *BookingService) MarkPaymentPaid(sessionID string) error {
	return s.store.MarkPaymentStatusBySession(sessionID, paymentPaid)
}

func (s *BookingService) apply(b *db.Booking, ev booking.Event, in booking.TransitionInput) (booking.Status, error) {
	status, ok := booking.ParseStatus(b.Status)
	if !ok {
		return "", fmt.Errorf("booking %d has unknown status %q", b.ID, b.Status)
	}
	view := booking.TransitionView{
		Status:          status,
		CustomerBooking: b.UserID.Valid,
	}
	if b.OTP.Valid {
		view.OTP = b.OTP.String
	}
	if bookedAt, err := booking.ParseDateTime(b.BookingDate, b.BookingTime); err == nil {
		view.BookedAt = bookedAt
		view.ParkingDay = bookedAt
	}
	return booking.Apply(view, ev, s.now(), in)
}

// computeExitCharge derives the payable total for a parked booking as of the
// given exit instant. The fee configuration is fetched fresh on every call.
func (s *BookingService) computeExitCharge(b *db.Booking, exitAt time.Time) (booking.ExitCharge, string, error) {
	schedule, err := s.rates.GetSchedule(b.VendorID)
	if err != nil {
		return booking.ExitCharge{}, "", err
	}
	category := booking.VehicleCategory(b.VehicleCategory)

	var base float64
	var label string
	if booking.ServiceType(b.ServiceType) == booking.ServiceSubscription {
		sub := booking.SubscriptionType(b.SubscriptionType.String)
		base, err = booking.ComputeSubscriptionAmount(category, sub, schedule)
		if err != nil {
			return booking.ExitCharge{}, "", err
		}
		label = string(sub)
	} else {
		start, err := booking.ParseDateTime(b.ParkedDate.String, b.ParkedTime.String)
		if err != nil {
			return booking.ExitCharge{}, "", err
		}
		elapsed := booking.Elapsed(start, exitAt)
		base, err = booking.ComputeBaseAmount(category, booking.BookType(b.BookType), elapsed, schedule)
		if err != nil {
			return booking.ExitCharge{}, "", err
		}
		label = booking.FormatDuration(elapsed)
	}

	feeCfg, err := s.fees.GetFeeConfig()
	if err != nil {
		return booking.ExitCharge{}, "", err
	}
	return booking.AssessFees(base, feeCfg, b.UserID.Valid), label, nil
}

func (s *BookingService) subscriptionStatus(b *db.Booking, now time.Time) (*booking.SubscriptionStatus, error) {
	if booking.ServiceType(b.ServiceType) != booking.ServiceSubscription || !b.SubscriptionType.Valid {
		return nil, nil
	}
	startDate, startTime := b.BookingDate, b.BookingTime
	if b.ParkedDate.Valid {
		startDate, startTime = b.ParkedDate.String, b.ParkedTime.String
	}
	start, err := booking.ParseDateTime(startDate, startTime)
	if err != nil {
		return nil, err
	}
	return booking.SubscriptionDaysLeft(start, booking.SubscriptionType(b.SubscriptionType.String), now), nil
}

func (s *BookingService) toResponse(b db.Booking, now time.Time) entities.BookingResponse {
	resp := entities.BookingResponse{
		ID:              b.ID,
		Status:          b.Status,
		CustomerName:    b.CustomerName,
		CustomerPhone:   b.CustomerPhone,
		CustomerEmail:   b.CustomerEmail,
		CustomerBooking: b.UserID.Valid,
		ServiceType:     b.ServiceType,
		BookType:        b.BookType,
		VehicleCategory: b.VehicleCategory,
		VehicleNumber:   b.VehicleNumber,
		BookingDate:     b.BookingDate,
		BookingTime:     b.BookingTime,
		ParkedDate:      b.ParkedDate.String,
		ParkedTime:      b.ParkedTime.String,
		ExitDate:        b.ExitDate.String,
		ExitTime:        b.ExitTime.String,
		DurationLabel:   b.DurationLabel.String,
		PaymentStatus:   b.PaymentStatus.String,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.SubscriptionType.Valid {
		resp.SubscriptionType = b.SubscriptionType.String
	}
	if b.Amount.Valid {
		resp.Amount = intPtr(int(b.Amount.Int64))
		resp.GST = intPtr(int(b.GST.Int64))
		resp.HandlingFee = intPtr(int(b.HandlingFee.Int64))
		resp.Total = intPtr(int(b.Total.Int64))
	}

	if booking.Status(b.Status) == booking.StatusParked {
		start, err := booking.ParseDateTime(b.ParkedDate.String, b.ParkedTime.String)
		if err != nil {
			// Unparseable entry stamp: duration is unavailable, never zero.
			resp.Duration = "N/A"
		} else {
			resp.Duration = booking.FormatDuration(booking.Elapsed(start, now))
		}
	}
	if st, err := s.subscriptionStatus(&b, now); err == nil && st != nil {
		resp.Subscription = st
	}
	return resp
}

func (s *BookingService) sendReceipt(b db.Booking, quote entities.ExitQuote) {
	subject := fmt.Sprintf("Parking receipt for %s", b.VehicleNumber)
	plain := fmt.Sprintf(
		"Hello %s,\n\nYour vehicle %s has exited.\n\n"+
			"Duration: %s\nBase: Rs %d\nGST: Rs %d\nHandling fee: Rs %d\nTotal: Rs %d\n\n"+
			"Thank you for parking with us.",
		b.CustomerName, b.VehicleNumber,
		quote.Duration, quote.Base, quote.GST, quote.HandlingFee, quote.Total,
	)
	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your vehicle <b>%s</b> has exited.</p>"+
			"<p>Duration: %s<br>Base: Rs %d<br>GST: Rs %d<br>Handling fee: Rs %d<br><b>Total: Rs %d</b></p>",
		b.CustomerName, b.VehicleNumber,
		quote.Duration, quote.Base, quote.GST, quote.HandlingFee, quote.Total,
	)
	msg := fmt.Sprintf("Vehicle %s exited. Duration %s, total Rs %d.", b.VehicleNumber, quote.Duration, quote.Total)

	if b.CustomerPhone != "" {
		if err := s.notifier.SendSMS(b.CustomerPhone, msg); err != nil {
			log.Printf("Booking %d exit SMS failed: %v", b.ID, err)
		}
	}
	if b.CustomerEmail != "" {
		if err := s.notifier.SendEmail(b.CustomerEmail, b.CustomerName, subject, plain, html); err != nil {
			log.Printf("Booking %d receipt email failed: %v", b.ID, err)
		}
	}
}

func normalizeBookType(s string) booking.BookType {
	if booking.BookType(s) == booking.BookFullDay {
		return booking.BookFullDay
	}
	return booking.BookHourly
}

// generateOTP issues a cryptographically random 6-digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func intPtr(v int) *int { return &v }
