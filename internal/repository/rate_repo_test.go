package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkvendor/internal/booking"
	"parkvendor/internal/db"
)

func newRateRepo(t *testing.T) (*RateRepository, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewRateRepository(conn), mock
}

func TestGetScheduleLoadsTiers(t *testing.T) {
	repo, mock := newRateRepo(t)

	rows := sqlmock.NewRows([]string{"id", "vendor_id", "category", "tier_kind", "amount", "covered_hours"}).
		AddRow(1, 7, "Car", "MinimumCharges", 50.0, 1).
		AddRow(2, 7, "Car", "AdditionalHour", 20.0, 1)
	mock.ExpectQuery(`SELECT id, vendor_id, category, tier_kind, amount, covered_hours`).
		WithArgs(7).
		WillReturnRows(rows)

	schedule, err := repo.GetSchedule(7)
	require.NoError(t, err)

	min, ok := schedule.Tier(booking.CategoryCar, booking.TierMinimum)
	require.True(t, ok)
	assert.Equal(t, 50.0, min.Amount)
	_, ok = schedule.Tier(booking.CategoryBike, booking.TierMinimum)
	assert.False(t, ok)
}

func TestUpsertChargeReturnsID(t *testing.T) {
	repo, mock := newRateRepo(t)

	mock.ExpectQuery(`INSERT INTO charges`).
		WithArgs(7, "Car", "FullDay", 400.0, 24).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	c := &db.Charge{VendorID: 7, Category: "Car", TierKind: "FullDay", Amount: 400, CoveredHours: 24}
	require.NoError(t, repo.UpsertCharge(c))
	assert.Equal(t, 11, c.ID)
}

func TestFeeConfigRoundTrip(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	repo := NewFeeRepository(conn)

	mock.ExpectQuery(`SELECT gst_percent, handling_fee FROM fee_config`).
		WillReturnRows(sqlmock.NewRows([]string{"gst_percent", "handling_fee"}).AddRow(18.0, 5.0))

	cfg, err := repo.GetFeeConfig()
	require.NoError(t, err)
	assert.Equal(t, booking.FeeConfig{GSTPercent: 18, HandlingFee: 5}, cfg)

	mock.ExpectExec(`UPDATE fee_config SET gst_percent = \$1, handling_fee = \$2`).
		WithArgs(10.0, 0.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateFeeConfig(booking.FeeConfig{GSTPercent: 10}))
	require.NoError(t, mock.ExpectationsWereMet())
}
