package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"

	"parkvendor/internal/db"
)

var (
	ErrBookingNotFound = errors.New("booking not found")

	// ErrStaleWrite means the booking left the expected state between read
	// and write; the caller should refresh and retry.
	ErrStaleWrite = errors.New("booking no longer in expected state")
)

const bookingColumns = `
	id, vendor_id, user_id, customer_name, customer_phone, customer_email,
	service_type, book_type, subscription_type, vehicle_category, vehicle_number,
	booking_date, booking_time, parked_date, parked_time, exit_date, exit_time,
	status, otp, amount, gst, handling_fee, total, duration_label,
	payment_status, stripe_session_id, created_at, updated_at`

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{DB: db}
}

func scanBooking(row interface{ Scan(...any) error }) (*db.Booking, error) {
	var b db.Booking
	err := row.Scan(
		&b.ID, &b.VendorID, &b.UserID, &b.CustomerName, &b.CustomerPhone, &b.CustomerEmail,
		&b.ServiceType, &b.BookType, &b.SubscriptionType, &b.VehicleCategory, &b.VehicleNumber,
		&b.BookingDate, &b.BookingTime, &b.ParkedDate, &b.ParkedTime, &b.ExitDate, &b.ExitTime,
		&b.Status, &b.OTP, &b.Amount, &b.GST, &b.HandlingFee, &b.Total, &b.DurationLabel,
		&b.PaymentStatus, &b.StripeSessionID, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) Create(b *db.Booking) error {
	query := `
		INSERT INTO bookings
		(vendor_id, user_id, customer_name, customer_phone, customer_email, service_type, book_type,
		 subscription_type, vehicle_category, vehicle_number, booking_date, booking_time,
		 parked_date, parked_time, status, otp, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	return r.DB.QueryRow(query,
		b.VendorID,
		b.UserID,
		b.CustomerName,
		b.CustomerPhone,
		b.CustomerEmail,
		b.ServiceType,
		b.BookType,
		b.SubscriptionType,
		b.VehicleCategory,
		b.VehicleNumber,
		b.BookingDate,
		b.BookingTime,
		b.ParkedDate,
		b.ParkedTime,
		b.Status,
		b.OTP,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *BookingRepository) GetByID(id, vendorID int) (*db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 AND vendor_id = $2`
	b, err := scanBooking(r.DB.QueryRow(query, id, vendorID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("error querying booking %d: %w", id, err)
	}
	return b, nil
}

func (r *BookingRepository) ListByVendor(vendorID int) ([]db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE vendor_id = $1 ORDER BY created_at DESC`
	return r.queryBookings(query, vendorID)
}

// ListOpenForTimeout returns every PENDING or APPROVED booking across vendors
// for the timeout sweep.
func (r *BookingRepository) ListOpenForTimeout() ([]db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status IN ('PENDING', 'APPROVED')`
	return r.queryBookings(query)
}

// ListParked returns every currently parked booking across vendors.
func (r *BookingRepository) ListParked() ([]db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = 'PARKED'`
	return r.queryBookings(query)
}

// ListActiveSubscriptions returns parked subscription bookings for the
// expiry sweep.
func (r *BookingRepository) ListActiveSubscriptions() ([]db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE status = 'PARKED' AND service_type = 'Subscription'`
	return r.queryBookings(query)
}

func (r *BookingRepository) queryBookings(query string, args ...any) ([]db.Booking, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating bookings: %w", err)
	}
	return bookings, nil
}

// UpdateStatus moves a booking from one status to another. The previous
// status is part of the predicate so a concurrent update from another device
// surfaces as ErrStaleWrite instead of silently winning.
func (r *BookingRepository) UpdateStatus(id int, from, to string) error {
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`
	result, err := r.DB.Exec(query, to, id, from)
	if err != nil {
		return fmt.Errorf("error updating booking %d status: %w", id, err)
	}
	return r.checkGuarded(result, id)
}

// SetOTP stores the issued entry code on an approved booking.
func (r *BookingRepository) SetOTP(id int, otp string) error {
	query := `UPDATE bookings SET otp = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.DB.Exec(query, otp, id)
	if err != nil {
		return fmt.Errorf("error storing otp for booking %d: %w", id, err)
	}
	return nil
}

// MarkParked commits the allow-parking transition together with the physical
// entry timestamp.
func (r *BookingRepository) MarkParked(id int, from, parkedDate, parkedTime string) error {
	query := `
		UPDATE bookings
		SET status = 'PARKED', parked_date = $1, parked_time = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4`
	result, err := r.DB.Exec(query, parkedDate, parkedTime, id, from)
	if err != nil {
		return fmt.Errorf("error marking booking %d parked: %w", id, err)
	}
	return r.checkGuarded(result, id)
}

// ExitRecord is everything written exactly once at the PARKED -> COMPLETED
// transition.
type ExitRecord struct {
	ExitDate        string
	ExitTime        string
	DurationLabel   string
	Amount          int
	GST             int
	HandlingFee     int
	Total           int
	PaymentStatus   string
	StripeSessionID string
}

func (r *BookingRepository) Complete(id int, rec ExitRecord) error {
	query := `
		UPDATE bookings
		SET status = 'COMPLETED', exit_date = $1, exit_time = $2, duration_label = $3,
		    amount = $4, gst = $5, handling_fee = $6, total = $7,
		    payment_status = $8, stripe_session_id = NULLIF($9, ''), updated_at = NOW()
		WHERE id = $10 AND status = 'PARKED'`
	result, err := r.DB.Exec(query,
		rec.ExitDate, rec.ExitTime, rec.DurationLabel,
		rec.Amount, rec.GST, rec.HandlingFee, rec.Total,
		rec.PaymentStatus, rec.StripeSessionID, id,
	)
	if err != nil {
		return fmt.Errorf("error completing booking %d: %w", id, err)
	}
	return r.checkGuarded(result, id)
}

// UpdateStatuses moves a batch of bookings to one status, used by the sweeps.
func (r *BookingRepository) UpdateStatuses(ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	result, err := r.DB.Exec(query, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating booking statuses: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil {
		log.Printf("Updated status for %d bookings to '%s'", affected, newStatus)
	}
	return nil
}

// MarkPaymentStatusBySession records the outcome reported by the payment
// provider's webhook.
func (r *BookingRepository) MarkPaymentStatusBySession(sessionID, paymentStatus string) error {
	query := `UPDATE bookings SET payment_status = $1, updated_at = NOW() WHERE stripe_session_id = $2`
	result, err := r.DB.Exec(query, paymentStatus, sessionID)
	if err != nil {
		return fmt.Errorf("error updating payment status for session %s: %w", sessionID, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) checkGuarded(result sql.Result, id int) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading rows affected for booking %d: %w", id, err)
	}
	if affected == 0 {
		return ErrStaleWrite
	}
	return nil
}
