package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"gstledger/internal/domain"
	"gstledger/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid period", &domain.PeriodError{Field: "month", Reason: "13 is outside 1-12"}, http.StatusBadRequest, "INVALID_PERIOD"},
		{"invalid tenant", fmt.Errorf("%w: owner_id is required", domain.ErrInvalidTenant), http.StatusBadRequest, "INVALID_TENANT"},
		{"invalid amendment", fmt.Errorf("%w: delta is zero", domain.ErrInvalidAmendment), http.StatusBadRequest, "INVALID_AMENDMENT"},
		{"submitted", domain.ErrSubmittedReturnImmutable, http.StatusConflict, "RETURN_SUBMITTED"},
		{"not submitted", fmt.Errorf("amending: %w", domain.ErrReturnNotSubmitted), http.StatusConflict, "RETURN_NOT_SUBMITTED"},
		{"schema violation", &domain.SchemaViolationError{Document: "gstr1", Field: "gstin"}, http.StatusUnprocessableEntity, "EXPORT_SCHEMA_VIOLATION"},
		{"draft", domain.ErrDraftNotFound, http.StatusNotFound, "DRAFT_NOT_FOUND"},
		{"voucher", domain.ErrVoucherNotFound, http.StatusNotFound, "VOUCHER_NOT_FOUND"},
		{"company", domain.ErrCompanyNotFound, http.StatusNotFound, "COMPANY_NOT_FOUND"},
		{"generic not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, msg := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestMapDomainError_SchemaViolationNamesField(t *testing.T) {
	_, _, msg := handler.MapDomainError(&domain.SchemaViolationError{Document: "einvoice", Field: "BuyerDtls.Gstin"})
	assert.Contains(t, msg, "BuyerDtls.Gstin")
}
