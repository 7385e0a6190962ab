package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"parkvendor/internal/booking"
)

type FeeRepository struct {
	DB *sql.DB
}

func NewFeeRepository(db *sql.DB) *FeeRepository {
	return &FeeRepository{DB: db}
}

// GetFeeConfig reads the platform fee row. Callers fetch it for every exit
// computation rather than caching, so changes apply immediately.
func (r *FeeRepository) GetFeeConfig() (booking.FeeConfig, error) {
	var cfg booking.FeeConfig
	query := `SELECT gst_percent, handling_fee FROM fee_config ORDER BY id LIMIT 1`
	err := r.DB.QueryRow(query).Scan(&cfg.GSTPercent, &cfg.HandlingFee)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return booking.FeeConfig{}, fmt.Errorf("fee configuration missing: %w", err)
		}
		return booking.FeeConfig{}, fmt.Errorf("error querying fee config: %w", err)
	}
	return cfg, nil
}

// UpdateFeeConfig replaces the platform fee row.
func (r *FeeRepository) UpdateFeeConfig(cfg booking.FeeConfig) error {
	query := `UPDATE fee_config SET gst_percent = $1, handling_fee = $2 WHERE id = (SELECT id FROM fee_config ORDER BY id LIMIT 1)`
	_, err := r.DB.Exec(query, cfg.GSTPercent, cfg.HandlingFee)
	if err != nil {
		return fmt.Errorf("error updating fee config: %w", err)
	}
	return nil
}
