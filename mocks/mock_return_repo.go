package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstledger/internal/domain"
)

// MockReturnRepo is a mock implementation of port.ReturnRepository.
type MockReturnRepo struct {
	mock.Mock
}

func (m *MockReturnRepo) CreateSubmission(ctx context.Context, sub *domain.Submission) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockReturnRepo) GetSubmission(ctx context.Context, period domain.ReturnPeriod) (*domain.Submission, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockReturnRepo) ListSubmissions(ctx context.Context, tenant domain.TenantContext, offset, limit int) ([]domain.Submission, int, error) {
	args := m.Called(ctx, tenant, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Submission), args.Int(1), args.Error(2)
}

func (m *MockReturnRepo) CreateAmendment(ctx context.Context, am *domain.AmendmentRecord) error {
	args := m.Called(ctx, am)
	return args.Error(0)
}

func (m *MockReturnRepo) ListAmendments(ctx context.Context, reportedIn domain.ReturnPeriod) ([]domain.AmendmentRecord, error) {
	args := m.Called(ctx, reportedIn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AmendmentRecord), args.Error(1)
}
