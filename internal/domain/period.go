package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReturnType is the statutory return form.
type ReturnType string

const (
	ReturnTypeGSTR1  ReturnType = "GSTR1"
	ReturnTypeGSTR3B ReturnType = "GSTR3B"
)

// ParseReturnType accepts the canonical form and common lowercase/dashed spellings.
func ParseReturnType(s string) (ReturnType, bool) {
	switch s {
	case "GSTR1", "gstr1", "GSTR-1", "gstr-1":
		return ReturnTypeGSTR1, true
	case "GSTR3B", "gstr3b", "GSTR-3B", "gstr-3b":
		return ReturnTypeGSTR3B, true
	}
	return "", false
}

// firstGSTYear is the year GST came into force (July 2017).
const firstGSTYear = 2017

// ReturnPeriod identifies the scope of one assembled return. It is a value:
// changing month or year means building a new period.
type ReturnPeriod struct {
	CompanyID  uuid.UUID  `json:"company_id"`
	Month      int        `json:"month"`
	Year       int        `json:"year"`
	ReturnType ReturnType `json:"return_type"`
}

// Validate rejects periods before any voucher data is read.
func (p ReturnPeriod) Validate() error {
	if p.Year == 0 {
		return &PeriodError{Field: "year", Reason: "is required"}
	}
	if p.Year < firstGSTYear || p.Year > 9999 {
		return &PeriodError{Field: "year", Reason: fmt.Sprintf("%d is outside the GST era", p.Year)}
	}
	if p.Month < 1 || p.Month > 12 {
		return &PeriodError{Field: "month", Reason: fmt.Sprintf("%d is outside 1-12", p.Month)}
	}
	switch p.ReturnType {
	case ReturnTypeGSTR1, ReturnTypeGSTR3B:
	default:
		return &PeriodError{Field: "return_type", Reason: fmt.Sprintf("%q is not supported", p.ReturnType)}
	}
	return nil
}

// Bounds returns the first and last calendar day of the period (UTC dates).
func (p ReturnPeriod) Bounds() (start, end time.Time) {
	start = time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, -1)
	return start, end
}

// Contains reports whether t falls in the period's calendar month.
// The date is read in its own location so a voucher dated the last day of
// a month never slides into the next one.
func (p ReturnPeriod) Contains(t time.Time) bool {
	return t.Year() == p.Year && int(t.Month()) == p.Month
}

// FilingPeriod is the MMYYYY form used by the GST portal ("fp").
func (p ReturnPeriod) FilingPeriod() string {
	return fmt.Sprintf("%02d%04d", p.Month, p.Year)
}

// Before reports whether p is an earlier tax period than o.
func (p ReturnPeriod) Before(o ReturnPeriod) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// Key is the persistence key (companyId, period, returnType).
func (p ReturnPeriod) Key() string {
	return fmt.Sprintf("%s:%04d-%02d:%s", p.CompanyID, p.Year, p.Month, p.ReturnType)
}

func (p ReturnPeriod) String() string {
	return fmt.Sprintf("%s %04d-%02d", p.ReturnType, p.Year, p.Month)
}
