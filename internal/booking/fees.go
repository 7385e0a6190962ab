package booking

import "math"

// FeeConfig is the platform-wide fee configuration. It is fetched fresh for
// every exit computation so a fee change applies immediately.
type FeeConfig struct {
	GSTPercent  float64
	HandlingFee float64
}

// ExitCharge is the itemized payable total for a completed session, in whole
// rupees.
type ExitCharge struct {
	Base        int
	HandlingFee int
	GST         int
	Total       int
}

// AssessFees applies the platform handling fee and GST on top of the base
// amount. Each component is rounded up on its own before summation; stored
// receipts depend on this exact arithmetic. Walk-ins entered directly by the
// vendor carry no platform fees.
func AssessFees(base float64, cfg FeeConfig, customerBooking bool) ExitCharge {
	c := ExitCharge{Base: ceilRupees(base)}
	if customerBooking {
		c.GST = ceilRupees(base * cfg.GSTPercent / 100)
		c.HandlingFee = ceilRupees(cfg.HandlingFee)
	}
	c.Total = c.Base + c.GST + c.HandlingFee
	return c
}

func ceilRupees(v float64) int {
	return int(math.Ceil(v))
}
