package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gstledger/internal/domain"
	"gstledger/internal/service"
	"gstledger/mocks"
)

func newInvoiceService() (service.InvoiceService, *mocks.MockVoucherSource, *mocks.MockCompanyRepo) {
	vouchers := new(mocks.MockVoucherSource)
	companies := new(mocks.MockCompanyRepo)
	gstCfg := testGSTConfig()
	return service.NewInvoiceService(vouchers, companies, &gstCfg, nil), vouchers, companies
}

func testVoucher(total string) *domain.Voucher {
	return &domain.Voucher{
		ID:     uuid.New(),
		Number: "INV-0042",
		Date:   time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC),
		Type:   domain.VoucherTypeSales,
		Buyer: domain.Party{
			Name:     "Acme Traders",
			GSTIN:    "27ABCDE1234F1Z5",
			Address1: "12 MG Road",
			Location: "Pune",
			Pin:      "411001",
			State:    "Maharashtra",
		},
		Items: []domain.VoucherItem{{
			Description: "Steel rods",
			HSNCode:     "7214",
			Quantity:    decimal.NewFromInt(10),
			Unit:        "KGS",
			UnitPrice:   decimal.NewFromInt(100),
			GSTRate:     decimal.NewFromInt(18),
		}},
		Total: decimal.RequireFromString(total),
	}
}

func TestInvoiceService_EWayEligibility(t *testing.T) {
	tests := []struct {
		total    string
		eligible bool
	}{
		{"49999.99", false},
		{"50000", false},
		{"50000.01", true},
		{"125000", true},
	}
	for _, tt := range tests {
		t.Run(tt.total, func(t *testing.T) {
			svc, vouchers, _ := newInvoiceService()
			tenant := testTenant()
			v := testVoucher(tt.total)
			vouchers.On("GetVoucher", mock.Anything, tenant, v.ID).Return(v, nil)

			got, err := svc.EWayEligibility(context.Background(), tenant, v.ID)

			require.NoError(t, err)
			assert.Equal(t, tt.eligible, got.Eligible)
			assert.True(t, got.Threshold.Equal(decimal.NewFromInt(50000)))
			assert.Equal(t, "INV-0042", got.Number)
		})
	}
}

func TestInvoiceService_EInvoice_Success(t *testing.T) {
	svc, vouchers, companies := newInvoiceService()
	tenant := testTenant()
	v := testVoucher("1180")
	vouchers.On("GetVoucher", mock.Anything, tenant, v.ID).Return(v, nil)
	companies.On("Get", mock.Anything, tenant).Return(&domain.Company{
		ID:        tenant.CompanyID,
		GSTIN:     "27AAACR5055K1Z5",
		LegalName: "Rudra Steels Pvt Ltd",
		Address1:  "Plot 7, MIDC",
		Location:  "Pune",
		Pin:       "411019",
		State:     "Maharashtra",
	}, nil)

	doc, err := svc.EInvoice(context.Background(), &service.EInvoiceInput{Tenant: tenant, VoucherID: v.ID})

	require.NoError(t, err)
	assert.Equal(t, "1.1", doc.Version)
	assert.Equal(t, "INV-0042", doc.DocDtls.No)
	assert.Nil(t, doc.EwbDtls)
	require.Len(t, doc.ItemList, 1)
	assert.True(t, doc.ValDtls.AssVal.Decimal().Equal(decimal.NewFromInt(1000)))
}

func TestInvoiceService_EInvoice_VoucherNotFound(t *testing.T) {
	svc, vouchers, companies := newInvoiceService()
	tenant := testTenant()
	id := uuid.New()
	vouchers.On("GetVoucher", mock.Anything, tenant, id).Return(nil, domain.ErrVoucherNotFound)

	_, err := svc.EInvoice(context.Background(), &service.EInvoiceInput{Tenant: tenant, VoucherID: id})

	assert.True(t, errors.Is(err, domain.ErrVoucherNotFound))
	companies.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestInvoiceService_EInvoice_MissingSellerGSTIN(t *testing.T) {
	svc, vouchers, companies := newInvoiceService()
	tenant := testTenant()
	v := testVoucher("1180")
	vouchers.On("GetVoucher", mock.Anything, tenant, v.ID).Return(v, nil)
	companies.On("Get", mock.Anything, tenant).Return(&domain.Company{ID: tenant.CompanyID, State: "Maharashtra"}, nil)

	_, err := svc.EInvoice(context.Background(), &service.EInvoiceInput{Tenant: tenant, VoucherID: v.ID})

	assert.True(t, errors.Is(err, domain.ErrExportSchemaViolation))
}
