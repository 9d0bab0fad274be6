package port

import (
	"context"

	"github.com/google/uuid"

	"gstledger/internal/domain"
)

// VoucherSource reads tax lines from the voucher tables. Every call is scoped
// by an explicit tenant; implementations must not fall back to any default.
type VoucherSource interface {
	// GetTaxLines returns the normalized lines dated within the period, with
	// warnings raised while mapping upstream rows.
	GetTaxLines(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod) ([]domain.TaxLine, []domain.Warning, error)
	// GetVoucher returns one voucher with its item rows, or domain.ErrVoucherNotFound.
	GetVoucher(ctx context.Context, tenant domain.TenantContext, voucherID uuid.UUID) (*domain.Voucher, error)
}
