package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"gstledger/internal/domain"
	"gstledger/internal/export"
	"gstledger/internal/service"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) EInvoice(ctx context.Context, input *service.EInvoiceInput) (*export.EInvoiceDocument, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.EInvoiceDocument), args.Error(1)
}

func (m *MockInvoiceService) EWayEligibility(ctx context.Context, tenant domain.TenantContext, voucherID uuid.UUID) (*service.EWayEligibility, error) {
	args := m.Called(ctx, tenant, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EWayEligibility), args.Error(1)
}
