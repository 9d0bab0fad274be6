package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound                 = errors.New("resource not found")
	ErrInvalidTenant            = errors.New("invalid tenant context")
	ErrInvalidPeriod            = errors.New("invalid return period")
	ErrSubmittedReturnImmutable = errors.New("return has been submitted and cannot be recomputed")
	ErrReturnNotSubmitted       = errors.New("return has not been submitted")
	ErrInvalidAmendment         = errors.New("invalid amendment")
	ErrDraftNotFound            = errors.New("draft not found")
	ErrExportSchemaViolation    = errors.New("export schema violation")
	ErrVoucherNotFound          = errors.New("voucher not found")
	ErrCompanyNotFound          = errors.New("company not found")
)

// PeriodError describes why a ReturnPeriod was rejected.
type PeriodError struct {
	Field  string
	Reason string
}

func (e *PeriodError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidPeriod.Error(), e.Field, e.Reason)
}

func (e *PeriodError) Unwrap() error {
	return ErrInvalidPeriod
}

// SchemaViolationError reports a required government-schema field that could not be populated.
type SchemaViolationError struct {
	Document string
	Field    string
	Reason   string
}

func (e *SchemaViolationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s.%s: %s", ErrExportSchemaViolation.Error(), e.Document, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s.%s is required", ErrExportSchemaViolation.Error(), e.Document, e.Field)
}

func (e *SchemaViolationError) Unwrap() error {
	return ErrExportSchemaViolation
}
