package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gstledger/internal/config"
	"gstledger/internal/domain"
	"gstledger/internal/export"
	"gstledger/internal/gst"
	"gstledger/internal/logger"
	"gstledger/internal/port"
)

// EInvoiceInput is the DTO for rendering one voucher as an e-invoice.
type EInvoiceInput struct {
	Tenant      domain.TenantContext
	VoucherID   uuid.UUID
	GenerateEWB bool
	Transport   *domain.TransportDetails
}

// EWayEligibility reports whether a voucher needs an E-Way Bill.
type EWayEligibility struct {
	VoucherID uuid.UUID       `json:"voucher_id"`
	Number    string          `json:"voucher_number"`
	Total     decimal.Decimal `json:"total"`
	Threshold decimal.Decimal `json:"threshold"`
	Eligible  bool            `json:"eligible"`
}

// InvoiceService renders per-voucher documents.
type InvoiceService interface {
	EInvoice(ctx context.Context, input *EInvoiceInput) (*export.EInvoiceDocument, error)
	EWayEligibility(ctx context.Context, tenant domain.TenantContext, voucherID uuid.UUID) (*EWayEligibility, error)
}

type invoiceService struct {
	vouchers  port.VoucherSource
	companies port.CompanyRepository
	gstCfg    *config.GSTConfig
	log       *zap.Logger
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(vouchers port.VoucherSource, companies port.CompanyRepository, gstCfg *config.GSTConfig, log *zap.Logger) InvoiceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &invoiceService{vouchers: vouchers, companies: companies, gstCfg: gstCfg, log: log}
}

func (s *invoiceService) EInvoice(ctx context.Context, input *EInvoiceInput) (*export.EInvoiceDocument, error) {
	if err := input.Tenant.Validate(); err != nil {
		return nil, err
	}
	v, err := s.vouchers.GetVoucher(ctx, input.Tenant, input.VoucherID)
	if err != nil {
		return nil, err
	}
	company, err := s.companies.Get(ctx, input.Tenant)
	if err != nil {
		return nil, err
	}

	doc, err := export.EInvoice(v, company, export.EInvoiceOptions{
		Version:     s.gstCfg.EInvoiceVersion,
		GenerateEWB: input.GenerateEWB,
		Transport:   input.Transport,
	})
	if err != nil {
		logger.FromContext(ctx, s.log).Warn("e-invoice rejected",
			zap.String("voucher", v.Number), zap.Error(err))
		return nil, err
	}
	return doc, nil
}

func (s *invoiceService) EWayEligibility(ctx context.Context, tenant domain.TenantContext, voucherID uuid.UUID) (*EWayEligibility, error) {
	if err := tenant.Validate(); err != nil {
		return nil, err
	}
	v, err := s.vouchers.GetVoucher(ctx, tenant, voucherID)
	if err != nil {
		return nil, err
	}
	return &EWayEligibility{
		VoucherID: v.ID,
		Number:    v.Number,
		Total:     v.Total,
		Threshold: s.gstCfg.EWayBillThreshold,
		Eligible:  gst.EWayBillEligibleAt(v.Total, s.gstCfg.EWayBillThreshold),
	}, nil
}
