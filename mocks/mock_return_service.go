package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"gstledger/internal/domain"
	"gstledger/internal/service"
)

// MockReturnService is a mock implementation of service.ReturnService.
type MockReturnService struct {
	mock.Mock
}

func (m *MockReturnService) Preview(ctx context.Context, input *service.PreviewInput) (*domain.AssembledReturn, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssembledReturn), args.Error(1)
}

func (m *MockReturnService) SaveDraft(ctx context.Context, input *service.SaveDraftInput) (*domain.Draft, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *MockReturnService) LoadDraft(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod, name string) (*domain.Draft, error) {
	args := m.Called(ctx, tenant, period, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *MockReturnService) ListDrafts(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod) ([]string, error) {
	args := m.Called(ctx, tenant, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockReturnService) Submit(ctx context.Context, input *service.SubmitInput) (*domain.AssembledReturn, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssembledReturn), args.Error(1)
}

func (m *MockReturnService) GetSubmitted(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod) (*domain.AssembledReturn, error) {
	args := m.Called(ctx, tenant, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssembledReturn), args.Error(1)
}

func (m *MockReturnService) ListSubmitted(ctx context.Context, tenant domain.TenantContext, offset, limit int) ([]domain.Submission, int, error) {
	args := m.Called(ctx, tenant, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Submission), args.Int(1), args.Error(2)
}

func (m *MockReturnService) ArchiveURL(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod) (string, error) {
	args := m.Called(ctx, tenant, period)
	return args.String(0), args.Error(1)
}

func (m *MockReturnService) Amend(ctx context.Context, input *service.AmendInput) (*domain.AmendmentRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AmendmentRecord), args.Error(1)
}

func (m *MockReturnService) ExportJSON(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod) (any, error) {
	args := m.Called(ctx, tenant, period)
	return args.Get(0), args.Error(1)
}

func (m *MockReturnService) ExportWorkbook(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod, w io.Writer) error {
	args := m.Called(ctx, tenant, period, w)
	return args.Error(0)
}

func (m *MockReturnService) ExportHSNCSV(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod, w io.Writer) error {
	args := m.Called(ctx, tenant, period, w)
	return args.Error(0)
}
