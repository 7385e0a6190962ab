package repository

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingRepo(t *testing.T) (*BookingRepository, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewBookingRepository(conn), mock
}

func TestUpdateStatusGuarded(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectExec(`UPDATE bookings SET status = \$1, updated_at = NOW\(\) WHERE id = \$2 AND status = \$3`).
		WithArgs("APPROVED", 7, "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(7, "PENDING", "APPROVED"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusStaleWrite(t *testing.T) {
	repo, mock := newBookingRepo(t)

	// Another device already moved the booking on; zero rows match.
	mock.ExpectExec(`UPDATE bookings SET status`).
		WithArgs("APPROVED", 7, "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(7, "PENDING", "APPROVED")
	assert.ErrorIs(t, err, ErrStaleWrite)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkParkedStaleWrite(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectExec(`SET status = 'PARKED', parked_date`).
		WithArgs("10-01-2025", "10:00 AM", 3, "APPROVED").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkParked(3, "APPROVED", "10-01-2025", "10:00 AM")
	assert.ErrorIs(t, err, ErrStaleWrite)
}

func TestCompleteWritesExitRecordOnce(t *testing.T) {
	repo, mock := newBookingRepo(t)

	rec := ExitRecord{
		ExitDate:      "10-01-2025",
		ExitTime:      "1:30 PM",
		DurationLabel: "03:30:00",
		Amount:        110,
		GST:           20,
		HandlingFee:   6,
		Total:         136,
		PaymentStatus: "pending",
	}
	mock.ExpectExec(`SET status = 'COMPLETED', exit_date`).
		WithArgs(rec.ExitDate, rec.ExitTime, rec.DurationLabel, rec.Amount, rec.GST,
			rec.HandlingFee, rec.Total, rec.PaymentStatus, rec.StripeSessionID, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Complete(9, rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusesBatch(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectExec(`UPDATE bookings SET status = \$1, updated_at = NOW\(\) WHERE id = ANY\(\$2\)`).
		WithArgs("CANCELLED", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.UpdateStatuses([]int{4, 5}, "CANCELLED"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusesEmptyIsNoop(t *testing.T) {
	repo, mock := newBookingRepo(t)
	require.NoError(t, repo.UpdateStatuses(nil, "CANCELLED"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectQuery(`SELECT .* FROM bookings WHERE id = \$1 AND vendor_id = \$2`).
		WithArgs(42, 1).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(42, 1)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestMarkPaymentStatusUnknownSession(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectExec(`UPDATE bookings SET payment_status`).
		WithArgs("paid", "cs_123").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkPaymentStatusBySession("cs_123", "paid")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
