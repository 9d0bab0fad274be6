package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnStatus is the lifecycle state of a return: draft -> previewed -> submitted.
type ReturnStatus string

const (
	ReturnStatusDraft     ReturnStatus = "draft"
	ReturnStatusPreviewed ReturnStatus = "previewed"
	ReturnStatusSubmitted ReturnStatus = "submitted"
)

// RateBucket accumulates lines sharing (gst rate, classification group).
type RateBucket struct {
	Rate           decimal.Decimal `json:"rate"`
	Group          string          `json:"group"`
	Classification Classification  `json:"classification"`
	TaxFigures
	LineCount int `json:"line_count"`
}

// HSNSummaryRow accumulates lines sharing an HSN/SAC code.
type HSNSummaryRow struct {
	HSNCode       string          `json:"hsn_code"`
	Description   string          `json:"description"`
	UQC           string          `json:"uqc"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalValue    decimal.Decimal `json:"total_value"`
	TaxFigures
	LineCount int `json:"line_count"`
}

// NilExempt is GSTR-3B 3.1(c): nil rated and exempted supplies.
type NilExempt struct {
	Nil    decimal.Decimal `json:"nil"`
	Exempt decimal.Decimal `json:"exempt"`
}

// OutwardSupplies is GSTR-3B table 3.1. Rows a, b, c are disjoint and
// exhaustive over outward lines; row d (inward reverse charge) is supplied
// by inward data and never derived from outward lines.
type OutwardSupplies struct {
	Taxable       TaxFigures `json:"a"`
	ZeroRated     TaxFigures `json:"b"`
	NilExempt     NilExempt  `json:"c"`
	ReverseCharge TaxFigures `json:"d"`
}

// RateItem is one rate line inside a GSTR-1 invoice.
type RateItem struct {
	Rate decimal.Decimal `json:"rate"`
	TaxFigures
}

// GSTR1Invoice is an invoice or note row in a GSTR-1 table.
type GSTR1Invoice struct {
	VoucherID     uuid.UUID       `json:"voucher_id"`
	Number        string          `json:"number"`
	Date          time.Time       `json:"date"`
	Value         decimal.Decimal `json:"value"`
	PlaceOfSupply string          `json:"place_of_supply"`
	ReverseCharge bool            `json:"reverse_charge"`
	InvoiceType   string          `json:"invoice_type"`
	NoteType      string          `json:"note_type,omitempty"`
	ExportType    string          `json:"export_type,omitempty"`
	Items         []RateItem      `json:"items"`
}

// B2BEntry groups a registered counterparty's invoices.
type B2BEntry struct {
	CounterpartyGSTIN string         `json:"ctin"`
	Invoices          []GSTR1Invoice `json:"invoices"`
}

// B2CLEntry groups large interstate B2C invoices by place of supply.
type B2CLEntry struct {
	PlaceOfSupply string         `json:"pos"`
	Invoices      []GSTR1Invoice `json:"invoices"`
}

// B2CSEntry is a consolidated small B2C row.
type B2CSEntry struct {
	SupplyType    string          `json:"supply_type"`
	PlaceOfSupply string          `json:"pos"`
	Rate          decimal.Decimal `json:"rate"`
	TaxFigures
}

// NilEntry is a GSTR-1 nil/exempt row keyed by supply type (INTRB2B etc.).
type NilEntry struct {
	SupplyType string          `json:"supply_type"`
	NilRated   decimal.Decimal `json:"nil_rated"`
	Exempt     decimal.Decimal `json:"exempt"`
}

// GSTR1Tables holds the outward-supply detail tables.
type GSTR1Tables struct {
	B2B   []B2BEntry     `json:"b2b"`
	B2CL  []B2CLEntry    `json:"b2cl"`
	B2CS  []B2CSEntry    `json:"b2cs"`
	CDNR  []B2BEntry     `json:"cdnr"`
	CDNUR []GSTR1Invoice `json:"cdnur"`
	EXP   []GSTR1Invoice `json:"exp"`
	Nil   []NilEntry     `json:"nil"`
}

// ITCSection is GSTR-3B table 4.
type ITCSection struct {
	Computed   TaxFigures `json:"computed"`
	Available  TaxFigures `json:"available"`
	Reversed   TaxFigures `json:"reversed"`
	Ineligible TaxFigures `json:"ineligible"`
	Net        TaxFigures `json:"net"`
}

// InterestAndFees is GSTR-3B table 5.1.
type InterestAndFees struct {
	Interest TaxFigures `json:"interest"`
	LateFee  TaxFigures `json:"late_fee"`
}

// Total is interest plus late fee across all heads.
func (i InterestAndFees) Total() decimal.Decimal {
	return i.Interest.Tax().Add(i.LateFee.Tax())
}

// PaymentEntry is a manually entered payment-of-tax row.
type PaymentEntry struct {
	Head   string          `json:"head"`
	Mode   string          `json:"mode"`
	Amount decimal.Decimal `json:"amount"`
}

// ManualSections are caller-entered figures merged additively with computed ones.
// A nil *ManualSections is treated as all zeros.
type ManualSections struct {
	ReverseChargeInward TaxFigures     `json:"reverse_charge_inward"`
	ITCAvailable        TaxFigures     `json:"itc_available"`
	ITCReversed         TaxFigures     `json:"itc_reversed"`
	ITCIneligible       TaxFigures     `json:"itc_ineligible"`
	Interest            TaxFigures     `json:"interest"`
	LateFee             TaxFigures     `json:"late_fee"`
	Payments            []PaymentEntry `json:"payments"`
}

// AmendmentRecord corrects outward supplies of an earlier, submitted period.
// It is reported additively in a later period's return.
type AmendmentRecord struct {
	ID             uuid.UUID    `json:"id"`
	CompanyID      uuid.UUID    `json:"company_id"`
	OriginalPeriod ReturnPeriod `json:"original_period"`
	ReportedIn     ReturnPeriod `json:"reported_in"`
	Reason         string       `json:"reason"`
	Delta          TaxFigures   `json:"delta"`
	CreatedAt      time.Time    `json:"created_at"`
}

// LiabilitySummary is the Tax Liability Summary shown to users:
// NetLiability = OutwardTax - EligibleITC + ITCReversed + InterestAndFees.
type LiabilitySummary struct {
	OutwardTax      decimal.Decimal `json:"outward_tax"`
	EligibleITC     decimal.Decimal `json:"eligible_itc"`
	ITCReversed     decimal.Decimal `json:"itc_reversed"`
	InterestAndFees decimal.Decimal `json:"interest_and_fees"`
	NetLiability    decimal.Decimal `json:"net_liability"`
	ByHead          TaxFigures      `json:"by_head"`
	PaidTotal       decimal.Decimal `json:"paid_total"`
	Balance         decimal.Decimal `json:"balance"`
}

// BasicInfo is copied read-only from the company master.
type BasicInfo struct {
	GSTIN     string `json:"gstin"`
	LegalName string `json:"legal_name"`
	TradeName string `json:"trade_name"`
	State     string `json:"state"`
}

// AssembledReturn is the complete return document for one period.
type AssembledReturn struct {
	ID              uuid.UUID         `json:"id"`
	Period          ReturnPeriod      `json:"period"`
	Status          ReturnStatus      `json:"status"`
	BasicInfo       BasicInfo         `json:"basic_info"`
	Outward         OutwardSupplies   `json:"outward"`
	RateBuckets     []RateBucket      `json:"rate_buckets"`
	HSNSummary      []HSNSummaryRow   `json:"hsn_summary"`
	Totals          TaxFigures        `json:"totals"`
	GSTR1           GSTR1Tables       `json:"gstr1"`
	ITC             ITCSection        `json:"itc"`
	InterestAndFees InterestAndFees   `json:"interest_and_fees"`
	Amendments      []AmendmentRecord `json:"amendments"`
	AmendmentTotal  TaxFigures        `json:"amendment_total"`
	Payments        []PaymentEntry    `json:"payments"`
	Liability       LiabilitySummary  `json:"liability"`
	Warnings        []Warning         `json:"warnings"`
	LineCount       int               `json:"line_count"`
	ARN             string            `json:"arn,omitempty"`
	ComputedAt      time.Time         `json:"computed_at"`
	SubmittedAt     *time.Time        `json:"submitted_at,omitempty"`
}

// IsEmpty reports whether no voucher lines fell in the period.
func (r *AssembledReturn) IsEmpty() bool {
	return r.LineCount == 0
}

// Draft is a named, persisted working copy of a return.
type Draft struct {
	Name    string          `json:"name"`
	Period  ReturnPeriod    `json:"period"`
	Manual  *ManualSections `json:"manual"`
	Return  AssembledReturn `json:"return"`
	SavedAt time.Time       `json:"saved_at"`
}

// Submission is the immutable snapshot stored when a return is filed.
type Submission struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	CompanyID    uuid.UUID       `db:"company_id" json:"company_id"`
	Year         int             `db:"year" json:"year"`
	Month        int             `db:"month" json:"month"`
	ReturnType   ReturnType      `db:"return_type" json:"return_type"`
	ARN          string          `db:"arn" json:"arn"`
	Snapshot     []byte          `db:"snapshot" json:"-"`
	ArchiveKey   string          `db:"archive_key" json:"archive_key"`
	SubmittedBy  uuid.UUID       `db:"submitted_by" json:"submitted_by"`
	NetLiability decimal.Decimal `db:"net_liability" json:"net_liability"`
	SubmittedAt  time.Time       `db:"submitted_at" json:"submitted_at"`
}

// Period rebuilds the ReturnPeriod of a submission.
func (s *Submission) Period() ReturnPeriod {
	return ReturnPeriod{CompanyID: s.CompanyID, Month: s.Month, Year: s.Year, ReturnType: s.ReturnType}
}
