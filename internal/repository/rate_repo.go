package repository

import (
	"database/sql"
	"fmt"

	"parkvendor/internal/booking"
	"parkvendor/internal/db"
)

type RateRepository struct {
	DB *sql.DB
}

func NewRateRepository(db *sql.DB) *RateRepository {
	return &RateRepository{DB: db}
}

// GetSchedule loads a vendor's active charges into the rate schedule the
// calculator consults.
func (r *RateRepository) GetSchedule(vendorID int) (*booking.RateSchedule, error) {
	charges, err := r.ListCharges(vendorID)
	if err != nil {
		return nil, err
	}
	tiers := make([]booking.Charge, 0, len(charges))
	for _, c := range charges {
		tiers = append(tiers, booking.Charge{
			Category:     booking.VehicleCategory(c.Category),
			Kind:         booking.TierKind(c.TierKind),
			Amount:       c.Amount,
			CoveredHours: c.CoveredHours,
		})
	}
	return booking.NewRateSchedule(tiers), nil
}

func (r *RateRepository) ListCharges(vendorID int) ([]db.Charge, error) {
	query := `
		SELECT id, vendor_id, category, tier_kind, amount, covered_hours
		FROM charges WHERE vendor_id = $1
		ORDER BY category, tier_kind`
	rows, err := r.DB.Query(query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("error querying charges: %w", err)
	}
	defer rows.Close()

	var charges []db.Charge
	for rows.Next() {
		var c db.Charge
		if err := rows.Scan(&c.ID, &c.VendorID, &c.Category, &c.TierKind, &c.Amount, &c.CoveredHours); err != nil {
			return nil, fmt.Errorf("error scanning charge: %w", err)
		}
		charges = append(charges, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating charges: %w", err)
	}
	return charges, nil
}

// UpsertCharge creates or replaces the single active charge for a
// (category, tier kind) pair.
func (r *RateRepository) UpsertCharge(c *db.Charge) error {
	query := `
		INSERT INTO charges (vendor_id, category, tier_kind, amount, covered_hours)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (vendor_id, category, tier_kind)
		DO UPDATE SET amount = EXCLUDED.amount, covered_hours = EXCLUDED.covered_hours
		RETURNING id`
	err := r.DB.QueryRow(query, c.VendorID, c.Category, c.TierKind, c.Amount, c.CoveredHours).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("error upserting charge: %w", err)
	}
	return nil
}

func (r *RateRepository) DeleteCharge(vendorID int, category, tierKind string) error {
	query := `DELETE FROM charges WHERE vendor_id = $1 AND category = $2 AND tier_kind = $3`
	result, err := r.DB.Exec(query, vendorID, category, tierKind)
	if err != nil {
		return fmt.Errorf("error deleting charge: %w", err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
