package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// OwnerType identifies who owns the books being filed for a company.
type OwnerType string

const (
	OwnerTypeUser         OwnerType = "user"
	OwnerTypeOrganization OwnerType = "organization"
	OwnerTypeAccountant   OwnerType = "accountant"
)

// TenantContext scopes every return computation to one company and owner.
// It is always passed explicitly; nothing in the service reads it from global state.
type TenantContext struct {
	CompanyID uuid.UUID `json:"company_id"`
	OwnerType OwnerType `json:"owner_type"`
	OwnerID   uuid.UUID `json:"owner_id"`
}

// Validate checks that the tenant context identifies a company and an owner.
func (t TenantContext) Validate() error {
	if t.CompanyID == uuid.Nil {
		return fmt.Errorf("%w: company_id is required", ErrInvalidTenant)
	}
	switch t.OwnerType {
	case OwnerTypeUser, OwnerTypeOrganization, OwnerTypeAccountant:
	default:
		return fmt.Errorf("%w: unknown owner_type %q", ErrInvalidTenant, t.OwnerType)
	}
	if t.OwnerID == uuid.Nil {
		return fmt.Errorf("%w: owner_id is required", ErrInvalidTenant)
	}
	return nil
}
