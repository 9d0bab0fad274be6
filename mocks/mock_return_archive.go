package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"gstledger/internal/domain"
)

// MockReturnArchive is a mock implementation of port.ReturnArchive.
type MockReturnArchive struct {
	mock.Mock
}

func (m *MockReturnArchive) Put(ctx context.Context, period domain.ReturnPeriod, arn string, snapshot []byte) (string, error) {
	args := m.Called(ctx, period, arn, snapshot)
	return args.String(0), args.Error(1)
}

func (m *MockReturnArchive) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockReturnArchive) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockReturnArchive) URL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}
