package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gstledger/internal/domain"
	"gstledger/internal/port"
)

type companyRepo struct {
	db *sqlx.DB
}

// NewCompanyRepo creates a new PostgreSQL-backed CompanyRepository.
func NewCompanyRepo(db *sqlx.DB) port.CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) Get(ctx context.Context, tenant domain.TenantContext) (*domain.Company, error) {
	var company domain.Company
	err := r.db.GetContext(ctx, &company,
		`SELECT id, gstin, legal_name, trade_name, address1, address2, location, pin, state, phone, email
		 FROM companies
		 WHERE id = $1 AND owner_type = $2 AND owner_id = $3`,
		tenant.CompanyID, string(tenant.OwnerType), tenant.OwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("companyRepo.Get: %w", err)
	}
	return &company, nil
}
