package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gstledger/internal/domain"
)

// MockVoucherSource is a mock implementation of port.VoucherSource.
type MockVoucherSource struct {
	mock.Mock
}

func (m *MockVoucherSource) GetTaxLines(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod) ([]domain.TaxLine, []domain.Warning, error) {
	args := m.Called(ctx, tenant, period)
	var lines []domain.TaxLine
	if v := args.Get(0); v != nil {
		lines = v.([]domain.TaxLine)
	}
	var warnings []domain.Warning
	if v := args.Get(1); v != nil {
		warnings = v.([]domain.Warning)
	}
	return lines, warnings, args.Error(2)
}

func (m *MockVoucherSource) GetVoucher(ctx context.Context, tenant domain.TenantContext, voucherID uuid.UUID) (*domain.Voucher, error) {
	args := m.Called(ctx, tenant, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}
