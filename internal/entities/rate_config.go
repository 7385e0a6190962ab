package entities

type ChargeRequest struct {
	Category     string  `json:"category"`
	TierKind     string  `json:"tier_kind"`
	Amount       float64 `json:"amount"`
	CoveredHours int     `json:"covered_hours"`
}

type ChargeResponse struct {
	ID           int     `json:"id"`
	Category     string  `json:"category"`
	TierKind     string  `json:"tier_kind"`
	Amount       float64 `json:"amount"`
	CoveredHours int     `json:"covered_hours"`
}

type FeeConfigResponse struct {
	GSTPercent  float64 `json:"gst_percent"`
	HandlingFee float64 `json:"handling_fee"`
}
