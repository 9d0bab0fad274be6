// Package voucher maps upstream voucher rows onto the canonical TaxLine.
package voucher

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
)

// RawLine is a tax row as read from the voucher tables. Upstream sources
// disagree on field names, so the alternatives are carried side by side and
// resolved once by Normalize. A nil LineNo marks a voucher that only exposes
// voucher-level totals.
type RawLine struct {
	VoucherID     uuid.UUID       `db:"voucher_id" json:"voucher_id"`
	VoucherNumber string          `db:"voucher_number" json:"voucher_number"`
	VoucherType   string          `db:"voucher_type" json:"voucher_type"`
	VoucherDate   time.Time       `db:"voucher_date" json:"voucher_date"`
	VoucherTotal  decimal.Decimal `db:"voucher_total" json:"voucher_total"`
	ReverseCharge bool            `db:"reverse_charge" json:"reverse_charge"`
	ExportOrSEZ   bool            `db:"export_or_sez" json:"export_or_sez"`
	SupplierState string          `db:"supplier_state" json:"supplier_state"`
	PlaceOfSupply *string         `db:"place_of_supply" json:"place_of_supply"`

	PartyName    *string `db:"party_name" json:"party_name"`
	CustomerName *string `db:"customer_name" json:"customer_name"`
	GSTIN        *string `db:"gstin" json:"gstin"`
	PartyGSTIN   *string `db:"party_gstin" json:"party_gstin"`
	State        *string `db:"state" json:"state"`
	PartyState   *string `db:"party_state" json:"party_state"`

	LineNo       *int                `db:"line_no" json:"line_no"`
	HSN          *string             `db:"hsn" json:"hsn"`
	HSNCode      *string             `db:"hsn_code" json:"hsn_code"`
	Description  *string             `db:"description" json:"description"`
	Quantity     decimal.NullDecimal `db:"quantity" json:"quantity"`
	UQC          *string             `db:"uqc" json:"uqc"`
	TaxType      *string             `db:"tax_type" json:"tax_type"`
	TaxableValue decimal.NullDecimal `db:"taxable_value" json:"taxable_value"`
	CGSTRate     decimal.NullDecimal `db:"cgst_rate" json:"cgst_rate"`
	SGSTRate     decimal.NullDecimal `db:"sgst_rate" json:"sgst_rate"`
	IGSTRate     decimal.NullDecimal `db:"igst_rate" json:"igst_rate"`
	CGSTAmount   decimal.NullDecimal `db:"cgst_amount" json:"cgst_amount"`
	SGSTAmount   decimal.NullDecimal `db:"sgst_amount" json:"sgst_amount"`
	IGSTAmount   decimal.NullDecimal `db:"igst_amount" json:"igst_amount"`
	CessAmount   decimal.NullDecimal `db:"cess_amount" json:"cess_amount"`
}

var hundred = decimal.NewFromInt(100)

// Normalize converts raw rows to TaxLines. Credit note amounts are made
// negative so they net off in every aggregate. Rows that carry only voucher
// totals become a single synthetic line with rates derived from the amounts
// and a VOUCHER_LEVEL_ONLY warning.
func Normalize(rows []RawLine) ([]domain.TaxLine, []domain.Warning) {
	lines := make([]domain.TaxLine, 0, len(rows))
	var warnings []domain.Warning
	for i := range rows {
		line, ws := normalizeRow(&rows[i])
		lines = append(lines, line)
		warnings = append(warnings, ws...)
	}
	return lines, warnings
}

func normalizeRow(r *RawLine) (domain.TaxLine, []domain.Warning) {
	var warnings []domain.Warning
	vt, known := ParseVoucherType(r.VoucherType)

	line := domain.TaxLine{
		VoucherID:     r.VoucherID,
		VoucherNumber: strings.TrimSpace(r.VoucherNumber),
		VoucherType:   vt,
		Direction:     domain.DirectionOutward,
		VoucherDate:   r.VoucherDate,
		VoucherTotal:  r.VoucherTotal,
		Description:   first(r.Description),
		HSNCode:       first(r.HSNCode, r.HSN),
		Quantity:      value(r.Quantity),
		UQC:           strings.ToUpper(first(r.UQC)),
		TaxableValue:  value(r.TaxableValue),
		CGSTRate:      value(r.CGSTRate),
		SGSTRate:      value(r.SGSTRate),
		IGSTRate:      value(r.IGSTRate),
		CGSTAmount:    value(r.CGSTAmount),
		SGSTAmount:    value(r.SGSTAmount),
		IGSTAmount:    value(r.IGSTAmount),
		CessAmount:    value(r.CessAmount),
		TaxType:       first(r.TaxType),
		ExportOrSEZ:   r.ExportOrSEZ,
		ReverseCharge: r.ReverseCharge,
		PartyName:     first(r.PartyName, r.CustomerName),
		PartyState:    first(r.PartyState, r.State),
		SupplierState: strings.TrimSpace(r.SupplierState),
		PlaceOfSupply: first(r.PlaceOfSupply),
	}
	if gstin := first(r.PartyGSTIN, r.GSTIN); gstin != "" {
		line.PartyGSTIN = &gstin
	}
	if vt == domain.VoucherTypePurchase {
		line.Direction = domain.DirectionInward
	}
	if !known {
		warnings = append(warnings, domain.NewLineWarning(domain.WarnUnknownVoucherType, &line, "voucher_type",
			fmt.Sprintf("voucher type %q not recognised; treated as sales", r.VoucherType)))
	}

	if r.LineNo == nil {
		deriveRates(&line)
		warnings = append(warnings, domain.NewLineWarning(domain.WarnVoucherLevelOnly, &line, "line_no",
			"source exposes voucher totals only; rate and HSN breakdown unavailable"))
	} else {
		line.LineNo = *r.LineNo
	}

	if vt == domain.VoucherTypeCreditNote {
		negate(&line)
	}
	return line, warnings
}

// ParseVoucherType maps upstream voucher type spellings. Unknown types fall
// back to sales with ok=false.
func ParseVoucherType(s string) (domain.VoucherType, bool) {
	key := strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "sales", "sale", "salesinvoice", "invoice", "taxinvoice":
		return domain.VoucherTypeSales, true
	case "creditnote", "cn", "salesreturn":
		return domain.VoucherTypeCreditNote, true
	case "debitnote", "dn":
		return domain.VoucherTypeDebitNote, true
	case "purchase", "purchases", "purchaseinvoice", "bill":
		return domain.VoucherTypePurchase, true
	}
	return domain.VoucherTypeSales, false
}

// deriveRates fills rates from amounts for voucher-level rows, where only
// totals are known.
func deriveRates(line *domain.TaxLine) {
	if !line.TaxableValue.IsPositive() {
		return
	}
	rate := func(amount decimal.Decimal) decimal.Decimal {
		return amount.Mul(hundred).Div(line.TaxableValue).Round(2)
	}
	if line.IGSTRate.IsZero() && !line.IGSTAmount.IsZero() {
		line.IGSTRate = rate(line.IGSTAmount)
	}
	if line.CGSTRate.IsZero() && !line.CGSTAmount.IsZero() {
		line.CGSTRate = rate(line.CGSTAmount)
	}
	if line.SGSTRate.IsZero() && !line.SGSTAmount.IsZero() {
		line.SGSTRate = rate(line.SGSTAmount)
	}
}

func negate(line *domain.TaxLine) {
	neg := func(d decimal.Decimal) decimal.Decimal { return d.Abs().Neg() }
	line.VoucherTotal = neg(line.VoucherTotal)
	line.Quantity = neg(line.Quantity)
	line.TaxableValue = neg(line.TaxableValue)
	line.CGSTAmount = neg(line.CGSTAmount)
	line.SGSTAmount = neg(line.SGSTAmount)
	line.IGSTAmount = neg(line.IGSTAmount)
	line.CessAmount = neg(line.CessAmount)
}

func first(candidates ...*string) string {
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if s := strings.TrimSpace(*c); s != "" {
			return s
		}
	}
	return ""
}

func value(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
