// Package export renders assembled returns and vouchers into the
// government JSON schemas and the CSV/XLSX files offered for download.
package export

import (
	"github.com/shopspring/decimal"
)

// Amount is a money value emitted as a bare JSON number rounded to two
// decimals, e.g. 2000.00. Portal schemas reject quoted numbers.
type Amount decimal.Decimal

func amt(d decimal.Decimal) Amount { return Amount(d) }

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(a).StringFixed(2)), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	*a = Amount(d)
	return nil
}

// Decimal returns the underlying value.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.Decimal(a)
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}
