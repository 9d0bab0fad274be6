package domain

import "github.com/google/uuid"

// WarningCode identifies a non-fatal data-quality problem.
type WarningCode string

const (
	WarnMissingPartyState    WarningCode = "MISSING_PARTY_STATE"
	WarnMissingSupplierState WarningCode = "MISSING_SUPPLIER_STATE"
	WarnMissingGSTIN         WarningCode = "MISSING_GSTIN"
	WarnInvalidGSTIN         WarningCode = "INVALID_GSTIN"
	WarnMissingHSN           WarningCode = "MISSING_HSN"
	WarnUnknownTaxType       WarningCode = "UNKNOWN_TAX_TYPE"
	WarnUnknownState         WarningCode = "UNKNOWN_STATE"
	WarnZeroRateUnflagged    WarningCode = "ZERO_RATE_UNFLAGGED"
	WarnHSNRateMismatch      WarningCode = "HSN_RATE_MISMATCH"
	WarnVoucherLevelOnly     WarningCode = "VOUCHER_LEVEL_ONLY"
	WarnUnknownVoucherType   WarningCode = "UNKNOWN_VOUCHER_TYPE"
)

// Warning is a DataQualityWarning. The affected line is still aggregated using
// safe defaults; warnings are collected and returned alongside results.
type Warning struct {
	Code          WarningCode `json:"code"`
	VoucherID     uuid.UUID   `json:"voucher_id"`
	VoucherNumber string      `json:"voucher_number"`
	LineNo        int         `json:"line_no"`
	Field         string      `json:"field"`
	Message       string      `json:"message"`
}

// NewLineWarning builds a warning pointing at a specific tax line.
func NewLineWarning(code WarningCode, line *TaxLine, field, msg string) Warning {
	return Warning{
		Code:          code,
		VoucherID:     line.VoucherID,
		VoucherNumber: line.VoucherNumber,
		LineNo:        line.LineNo,
		Field:         field,
		Message:       msg,
	}
}
