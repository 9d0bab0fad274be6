package gst

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

// intraLine is an 18% intrastate B2B sale in Maharashtra.
func intraLine(taxable string) domain.TaxLine {
	tv := dec(taxable)
	half := tv.Mul(dec("0.09"))
	return domain.TaxLine{
		VoucherID:     uuid.New(),
		VoucherNumber: "INV-1",
		VoucherType:   domain.VoucherTypeSales,
		Direction:     domain.DirectionOutward,
		LineNo:        1,
		VoucherDate:   time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC),
		VoucherTotal:  tv.Add(half).Add(half),
		Description:   "Steel rods",
		HSNCode:       "7214",
		Quantity:      dec("10"),
		UQC:           "KGS",
		TaxableValue:  tv,
		CGSTRate:      dec("9"),
		SGSTRate:      dec("9"),
		CGSTAmount:    half,
		SGSTAmount:    half,
		PartyName:     "Acme Traders",
		PartyGSTIN:    strPtr("27ABCDE1234F1Z5"),
		PartyState:    "Maharashtra",
		SupplierState: "Maharashtra",
	}
}

// interLine is an 18% interstate sale from Maharashtra to Karnataka.
func interLine(taxable string) domain.TaxLine {
	tv := dec(taxable)
	l := intraLine(taxable)
	l.CGSTRate, l.SGSTRate = decimal.Zero, decimal.Zero
	l.CGSTAmount, l.SGSTAmount = decimal.Zero, decimal.Zero
	l.IGSTRate = dec("18")
	l.IGSTAmount = tv.Mul(dec("0.18"))
	l.VoucherTotal = tv.Add(l.IGSTAmount)
	l.PartyState = "29-Karnataka"
	l.PartyGSTIN = strPtr("29ABCDE1234F1Z5")
	return l
}
