package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"gstledger/internal/domain"
)

// MockDraftStore is a mock implementation of port.DraftStore.
type MockDraftStore struct {
	mock.Mock
}

func (m *MockDraftStore) Save(ctx context.Context, draft *domain.Draft, ttl time.Duration) error {
	args := m.Called(ctx, draft, ttl)
	return args.Error(0)
}

func (m *MockDraftStore) Load(ctx context.Context, period domain.ReturnPeriod, name string) (*domain.Draft, error) {
	args := m.Called(ctx, period, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *MockDraftStore) List(ctx context.Context, period domain.ReturnPeriod) ([]string, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDraftStore) Delete(ctx context.Context, period domain.ReturnPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}
