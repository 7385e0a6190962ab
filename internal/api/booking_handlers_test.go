package api

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkvendor/internal/auth"
	"parkvendor/internal/booking"
	"parkvendor/internal/db"
	"parkvendor/internal/repository"
	"parkvendor/internal/service"
)

const testSecret = "test-secret"

func nullStr(s string) sql.NullString { return sql.NullString{String: s, Valid: true} }
func nullInt(v int64) sql.NullInt64   { return sql.NullInt64{Int64: v, Valid: true} }

type fakeStore struct {
	booking *db.Booking
	parked  bool
}

func (f *fakeStore) Create(b *db.Booking) error { b.ID = 1; return nil }

func (f *fakeStore) GetByID(id, vendorID int) (*db.Booking, error) {
	if f.booking == nil {
		return nil, repository.ErrBookingNotFound
	}
	b := *f.booking
	return &b, nil
}

func (f *fakeStore) ListByVendor(vendorID int) ([]db.Booking, error) {
	if f.booking == nil {
		return nil, nil
	}
	return []db.Booking{*f.booking}, nil
}

func (f *fakeStore) UpdateStatus(id int, from, to string) error { return nil }
func (f *fakeStore) SetOTP(id int, otp string) error            { return nil }

func (f *fakeStore) MarkParked(id int, from, parkedDate, parkedTime string) error {
	f.parked = true
	return nil
}

func (f *fakeStore) Complete(id int, rec repository.ExitRecord) error      { return nil }
func (f *fakeStore) MarkPaymentStatusBySession(sessionID, st string) error { return nil }
func (f *fakeStore) ListParked() ([]db.Booking, error)                     { return nil, nil }

type fakeRates struct{}

func (fakeRates) GetSchedule(vendorID int) (*booking.RateSchedule, error) {
	return booking.NewRateSchedule([]booking.Charge{
		{Category: booking.CategoryCar, Kind: booking.TierMinimum, Amount: 50, CoveredHours: 1},
		{Category: booking.CategoryCar, Kind: booking.TierAdditionalHour, Amount: 20, CoveredHours: 1},
	}), nil
}

type fakeFees struct{}

func (fakeFees) GetFeeConfig() (booking.FeeConfig, error) {
	return booking.FeeConfig{GSTPercent: 18, HandlingFee: 5}, nil
}

type noopNotifier struct{}

func (noopNotifier) SendSMS(to, body string) error { return nil }
func (noopNotifier) SendEmail(toEmail, toName, subject, plain, html string) error {
	return nil
}

type noopPayments struct{}

func (noopPayments) CreateExitCheckoutSession(amount int, desc, email string) (string, string, error) {
	return "", "", nil
}
func (noopPayments) RefundBySessionID(sessionID string) error { return nil }

func testToken(t *testing.T, vendorID int) string {
	t.Helper()
	claims := jwt.MapClaims{
		"vendor_id": vendorID,
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func testRouter(store *fakeStore) *mux.Router {
	svc := service.NewBookingService(store, fakeRates{}, fakeFees{}, noopNotifier{}, noopPayments{})
	watcher := service.NewDurationWatcher(store, time.Second)
	h := NewBookingHandler(svc, watcher)

	r := mux.NewRouter()
	vendor := r.PathPrefix("/api/vendor").Subrouter()
	vendor.Use(auth.VendorAuthMiddleware(testSecret))
	vendor.HandleFunc("/bookings", h.List).Methods("GET")
	vendor.HandleFunc("/bookings/{id}/park", h.AllowParking).Methods("POST")
	vendor.HandleFunc("/bookings/{id}/quote", h.Quote).Methods("GET")
	return r
}

func TestListRequiresToken(t *testing.T) {
	router := testRouter(&fakeStore{})

	req := httptest.NewRequest("GET", "/api/vendor/bookings", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest("GET", "/api/vendor/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, 7))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestQuoteReturnsCharge(t *testing.T) {
	store := &fakeStore{booking: &db.Booking{
		ID:              1,
		VendorID:        7,
		ServiceType:     string(booking.ServiceInstant),
		BookType:        string(booking.BookHourly),
		VehicleCategory: string(booking.CategoryCar),
		VehicleNumber:   "KA01AB1234",
		BookingDate:     time.Now().Format("02-01-2006"),
		BookingTime:     time.Now().Add(-30 * time.Minute).Format("3:04 PM"),
		ParkedDate:      nullStr(time.Now().Format("02-01-2006")),
		ParkedTime:      nullStr(time.Now().Add(-30 * time.Minute).Format("3:04 PM")),
		Status:          string(booking.StatusParked),
	}}
	router := testRouter(store)

	req := httptest.NewRequest("GET", "/api/vendor/bookings/1/quote", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, 7))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"base":50`)
	assert.Contains(t, body, `"total":50`)
}

func TestAllowParkingOtpMismatchReturns403(t *testing.T) {
	store := &fakeStore{booking: &db.Booking{
		ID:              1,
		VendorID:        7,
		UserID:          nullInt(42),
		ServiceType:     string(booking.ServiceScheduled),
		BookType:        string(booking.BookHourly),
		VehicleCategory: string(booking.CategoryCar),
		BookingDate:     time.Now().Format("02-01-2006"),
		BookingTime:     time.Now().Format("3:04 PM"),
		Status:          string(booking.StatusApproved),
		OTP:             nullStr("123456"),
	}}
	router := testRouter(store)

	req := httptest.NewRequest("POST", "/api/vendor/bookings/1/park", strings.NewReader(`{"otp":"999999"}`))
	req.Header.Set("Authorization", "Bearer "+testToken(t, 7))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, store.parked)
}

func TestQuoteUnknownBookingReturns404(t *testing.T) {
	router := testRouter(&fakeStore{})

	req := httptest.NewRequest("GET", "/api/vendor/bookings/99/quote", nil)
	req.Header.Set("Authorization", "Bearer "+testToken(t, 7))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
