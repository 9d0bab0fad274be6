package port

import (
	"context"
	"time"

	"gstledger/internal/domain"
)

// CompanyRepository defines the contract for the company master.
type CompanyRepository interface {
	// Get returns the company owned by the tenant, or domain.ErrCompanyNotFound.
	Get(ctx context.Context, tenant domain.TenantContext) (*domain.Company, error)
}

// ReturnRepository persists submitted returns and amendments.
// All query methods include the company id for tenant isolation.
type ReturnRepository interface {
	// CreateSubmission stores the snapshot. A second submission for the same
	// (company, period, return type) fails with domain.ErrSubmittedReturnImmutable.
	CreateSubmission(ctx context.Context, sub *domain.Submission) error
	// GetSubmission returns domain.ErrReturnNotSubmitted when nothing was filed.
	GetSubmission(ctx context.Context, period domain.ReturnPeriod) (*domain.Submission, error)
	ListSubmissions(ctx context.Context, tenant domain.TenantContext, offset, limit int) ([]domain.Submission, int, error)
	CreateAmendment(ctx context.Context, am *domain.AmendmentRecord) error
	// ListAmendments returns amendments reported in the given period.
	ListAmendments(ctx context.Context, reportedIn domain.ReturnPeriod) ([]domain.AmendmentRecord, error)
}

// DraftStore keeps named working copies of returns. Drafts expire after ttl.
type DraftStore interface {
	Save(ctx context.Context, draft *domain.Draft, ttl time.Duration) error
	// Load returns domain.ErrDraftNotFound for a missing or expired draft.
	Load(ctx context.Context, period domain.ReturnPeriod, name string) (*domain.Draft, error)
	List(ctx context.Context, period domain.ReturnPeriod) ([]string, error)
	Delete(ctx context.Context, period domain.ReturnPeriod) error
}
