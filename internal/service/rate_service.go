package service

import (
	"fmt"

	"parkvendor/internal/booking"
	"parkvendor/internal/db"
	"parkvendor/internal/entities"
	"parkvendor/internal/repository"
)

// RateService manages a vendor's charge tiers and exposes the platform fee
// configuration. Charges are read-only to the exit flow; only this service
// writes them.
type RateService struct {
	rates *repository.RateRepository
	fees  *repository.FeeRepository
}

func NewRateService(rates *repository.RateRepository, fees *repository.FeeRepository) *RateService {
	return &RateService{rates: rates, fees: fees}
}

func (s *RateService) ListCharges(vendorID int) ([]entities.ChargeResponse, error) {
	charges, err := s.rates.ListCharges(vendorID)
	if err != nil {
		return nil, err
	}
	out := make([]entities.ChargeResponse, 0, len(charges))
	for _, c := range charges {
		out = append(out, entities.ChargeResponse{
			ID:           c.ID,
			Category:     c.Category,
			TierKind:     c.TierKind,
			Amount:       c.Amount,
			CoveredHours: c.CoveredHours,
		})
	}
	return out, nil
}

func (s *RateService) PutCharge(vendorID int, req entities.ChargeRequest) (*entities.ChargeResponse, error) {
	kind, ok := booking.ParseTierKind(req.TierKind)
	if !ok {
		return nil, fmt.Errorf("unknown tier kind %q", req.TierKind)
	}
	if req.Amount < 0 {
		return nil, fmt.Errorf("charge amount cannot be negative")
	}

	c := &db.Charge{
		VendorID:     vendorID,
		Category:     string(booking.NormalizeCategory(req.Category)),
		TierKind:     string(kind),
		Amount:       req.Amount,
		CoveredHours: req.CoveredHours,
	}
	if err := s.rates.UpsertCharge(c); err != nil {
		return nil, err
	}
	return &entities.ChargeResponse{
		ID:           c.ID,
		Category:     c.Category,
		TierKind:     c.TierKind,
		Amount:       c.Amount,
		CoveredHours: c.CoveredHours,
	}, nil
}

func (s *RateService) DeleteCharge(vendorID int, category, tierKind string) error {
	kind, ok := booking.ParseTierKind(tierKind)
	if !ok {
		return fmt.Errorf("unknown tier kind %q", tierKind)
	}
	return s.rates.DeleteCharge(vendorID, string(booking.NormalizeCategory(category)), string(kind))
}

func (s *RateService) GetFeeConfig() (entities.FeeConfigResponse, error) {
	cfg, err := s.fees.GetFeeConfig()
	if err != nil {
		return entities.FeeConfigResponse{}, err
	}
	return entities.FeeConfigResponse{GSTPercent: cfg.GSTPercent, HandlingFee: cfg.HandlingFee}, nil
}
