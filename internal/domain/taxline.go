package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VoucherType is the accounting voucher a tax line was read from.
type VoucherType string

const (
	VoucherTypeSales      VoucherType = "sales"
	VoucherTypeCreditNote VoucherType = "credit_note"
	VoucherTypeDebitNote  VoucherType = "debit_note"
	VoucherTypePurchase   VoucherType = "purchase"
)

// IsNote reports whether the voucher is a credit or debit note.
func (v VoucherType) IsNote() bool {
	return v == VoucherTypeCreditNote || v == VoucherTypeDebitNote
}

// Direction separates supplies made (outward) from supplies received (inward).
type Direction string

const (
	DirectionOutward Direction = "outward"
	DirectionInward  Direction = "inward"
)

// Explicit tax types a voucher line may carry.
const (
	TaxTypeTaxable  = "Taxable"
	TaxTypeExempt   = "Exempt"
	TaxTypeNilRated = "Nil-rated"
)

// TaxLine is one taxable voucher line as read from the voucher source.
// It is never mutated by the engine; all derived data lives in new structures.
type TaxLine struct {
	VoucherID     uuid.UUID       `json:"voucher_id"`
	VoucherNumber string          `json:"voucher_number"`
	VoucherType   VoucherType     `json:"voucher_type"`
	Direction     Direction       `json:"direction"`
	LineNo        int             `json:"line_no"`
	VoucherDate   time.Time       `json:"voucher_date"`
	VoucherTotal  decimal.Decimal `json:"voucher_total"`

	Description  string          `json:"description"`
	HSNCode      string          `json:"hsn_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	UQC          string          `json:"uqc"`
	TaxableValue decimal.Decimal `json:"taxable_value"`

	CGSTRate   decimal.Decimal `json:"cgst_rate"`
	SGSTRate   decimal.Decimal `json:"sgst_rate"`
	IGSTRate   decimal.Decimal `json:"igst_rate"`
	CGSTAmount decimal.Decimal `json:"cgst_amount"`
	SGSTAmount decimal.Decimal `json:"sgst_amount"`
	IGSTAmount decimal.Decimal `json:"igst_amount"`
	CessAmount decimal.Decimal `json:"cess_amount"`

	TaxType       string `json:"tax_type"`
	ExportOrSEZ   bool   `json:"export_or_sez"`
	ReverseCharge bool   `json:"reverse_charge"`

	PartyName     string  `json:"party_name"`
	PartyGSTIN    *string `json:"party_gstin"`
	PartyState    string  `json:"party_state"`
	SupplierState string  `json:"supplier_state"`
	PlaceOfSupply string  `json:"place_of_supply"`
}

// GSTIN returns the party GSTIN or an empty string when absent.
func (l *TaxLine) GSTIN() string {
	if l.PartyGSTIN == nil {
		return ""
	}
	return *l.PartyGSTIN
}

// GSTRate is the combined rate: IGST when levied, otherwise CGST+SGST.
func (l *TaxLine) GSTRate() decimal.Decimal {
	if l.IGSTRate.IsPositive() {
		return l.IGSTRate
	}
	return l.CGSTRate.Add(l.SGSTRate)
}

// Figures returns the line amounts as additive TaxFigures.
func (l *TaxLine) Figures() TaxFigures {
	return TaxFigures{
		TaxableValue: l.TaxableValue,
		IGST:         l.IGSTAmount,
		CGST:         l.CGSTAmount,
		SGST:         l.SGSTAmount,
		Cess:         l.CessAmount,
	}
}

// TaxFigures is the additive set of amounts every GST section is built from.
type TaxFigures struct {
	TaxableValue decimal.Decimal `json:"taxable_value"`
	IGST         decimal.Decimal `json:"igst"`
	CGST         decimal.Decimal `json:"cgst"`
	SGST         decimal.Decimal `json:"sgst"`
	Cess         decimal.Decimal `json:"cess"`
}

// Add returns the element-wise sum.
func (f TaxFigures) Add(o TaxFigures) TaxFigures {
	return TaxFigures{
		TaxableValue: f.TaxableValue.Add(o.TaxableValue),
		IGST:         f.IGST.Add(o.IGST),
		CGST:         f.CGST.Add(o.CGST),
		SGST:         f.SGST.Add(o.SGST),
		Cess:         f.Cess.Add(o.Cess),
	}
}

// Sub returns the element-wise difference.
func (f TaxFigures) Sub(o TaxFigures) TaxFigures {
	return TaxFigures{
		TaxableValue: f.TaxableValue.Sub(o.TaxableValue),
		IGST:         f.IGST.Sub(o.IGST),
		CGST:         f.CGST.Sub(o.CGST),
		SGST:         f.SGST.Sub(o.SGST),
		Cess:         f.Cess.Sub(o.Cess),
	}
}

// Tax is IGST+CGST+SGST+Cess.
func (f TaxFigures) Tax() decimal.Decimal {
	return f.IGST.Add(f.CGST).Add(f.SGST).Add(f.Cess)
}

// IsZero reports whether every component is zero.
func (f TaxFigures) IsZero() bool {
	return f.TaxableValue.IsZero() && f.Tax().IsZero() &&
		f.IGST.IsZero() && f.CGST.IsZero() && f.SGST.IsZero() && f.Cess.IsZero()
}

// Round returns the figures rounded to places decimals, for presentation only.
func (f TaxFigures) Round(places int32) TaxFigures {
	return TaxFigures{
		TaxableValue: f.TaxableValue.Round(places),
		IGST:         f.IGST.Round(places),
		CGST:         f.CGST.Round(places),
		SGST:         f.SGST.Round(places),
		Cess:         f.Cess.Round(places),
	}
}
