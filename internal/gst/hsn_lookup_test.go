package gst_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gstledger/internal/gst"
	"gstledger/internal/port"
	"gstledger/mocks"
)

func TestLoadHSNLookup(t *testing.T) {
	repo := new(mocks.MockHSNRepo)
	repo.On("LoadAll", mock.Anything).Return([]port.HSNEntry{
		{Code: "7214", Description: "Bars and rods of iron", GSTRate: decimal.NewFromInt(18)},
		{Code: "996311", Description: "Room accommodation", GSTRate: decimal.NewFromInt(12)},
		{Code: "996311", GSTRate: decimal.NewFromInt(18)},
	}, nil)

	h, err := gst.LoadHSNLookup(context.Background(), repo)

	require.NoError(t, err)
	assert.Equal(t, 2, h.Len())
	assert.True(t, h.Exists("72142010"))
	assert.Equal(t, "Room accommodation", h.Description("996311"))
	assert.Len(t, h.Rates("996311"), 2)
	repo.AssertExpectations(t)
}

func TestLoadHSNLookup_RepoError(t *testing.T) {
	repo := new(mocks.MockHSNRepo)
	repo.On("LoadAll", mock.Anything).Return(nil, errors.New("connection refused"))

	h, err := gst.LoadHSNLookup(context.Background(), repo)

	assert.Nil(t, h)
	assert.ErrorContains(t, err, "connection refused")
}

func TestHSNLookup_NilLen(t *testing.T) {
	var h *gst.HSNLookup
	assert.Equal(t, 0, h.Len())
	assert.False(t, h.Exists("7214"))
}
