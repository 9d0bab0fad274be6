package gst

import "github.com/shopspring/decimal"

// DefaultEWayBillThreshold is the consignment value above which an
// E-Way Bill must be generated.
var DefaultEWayBillThreshold = decimal.NewFromInt(50000)

// EWayBillEligible reports whether total exceeds the default threshold.
// A total exactly at the threshold is not eligible.
func EWayBillEligible(total decimal.Decimal) bool {
	return EWayBillEligibleAt(total, DefaultEWayBillThreshold)
}

// EWayBillEligibleAt is EWayBillEligible with a configured threshold.
func EWayBillEligibleAt(total, threshold decimal.Decimal) bool {
	return total.GreaterThan(threshold)
}
