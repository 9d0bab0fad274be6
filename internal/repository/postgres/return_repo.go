package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"gstledger/internal/domain"
	"gstledger/internal/port"
)

type returnRepo struct {
	db *sqlx.DB
}

// NewReturnRepo creates a new PostgreSQL-backed ReturnRepository.
func NewReturnRepo(db *sqlx.DB) port.ReturnRepository {
	return &returnRepo{db: db}
}

const submissionColumns = `id, company_id, year, month, return_type, arn, snapshot, archive_key,
	submitted_by, net_liability, submitted_at`

func (r *returnRepo) CreateSubmission(ctx context.Context, sub *domain.Submission) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}

	query := `INSERT INTO return_submissions (` + submissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.CompanyID, sub.Year, sub.Month, string(sub.ReturnType), sub.ARN, string(sub.Snapshot),
		sub.ArchiveKey, sub.SubmittedBy, sub.NetLiability, sub.SubmittedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "uq_return_submissions_period") {
			return domain.ErrSubmittedReturnImmutable
		}
		return fmt.Errorf("returnRepo.CreateSubmission: %w", err)
	}
	return nil
}

func (r *returnRepo) GetSubmission(ctx context.Context, period domain.ReturnPeriod) (*domain.Submission, error) {
	var sub domain.Submission
	err := r.db.GetContext(ctx, &sub,
		`SELECT `+submissionColumns+` FROM return_submissions
		 WHERE company_id = $1 AND year = $2 AND month = $3 AND return_type = $4`,
		period.CompanyID, period.Year, period.Month, string(period.ReturnType))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReturnNotSubmitted
		}
		return nil, fmt.Errorf("returnRepo.GetSubmission: %w", err)
	}
	return &sub, nil
}

func (r *returnRepo) ListSubmissions(ctx context.Context, tenant domain.TenantContext, offset, limit int) ([]domain.Submission, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM return_submissions WHERE company_id = $1", tenant.CompanyID)
	if err != nil {
		return nil, 0, fmt.Errorf("returnRepo.ListSubmissions count: %w", err)
	}

	var subs []domain.Submission
	err = r.db.SelectContext(ctx, &subs,
		`SELECT `+submissionColumns+` FROM return_submissions
		 WHERE company_id = $1
		 ORDER BY year DESC, month DESC, return_type LIMIT $2 OFFSET $3`,
		tenant.CompanyID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("returnRepo.ListSubmissions: %w", err)
	}
	return subs, total, nil
}

type amendmentRow struct {
	ID            uuid.UUID       `db:"id"`
	CompanyID     uuid.UUID       `db:"company_id"`
	ReturnType    string          `db:"return_type"`
	OriginalYear  int             `db:"original_year"`
	OriginalMonth int             `db:"original_month"`
	ReportedYear  int             `db:"reported_year"`
	ReportedMonth int             `db:"reported_month"`
	Reason        string          `db:"reason"`
	TaxableValue  decimal.Decimal `db:"taxable_value"`
	IGST          decimal.Decimal `db:"igst"`
	CGST          decimal.Decimal `db:"cgst"`
	SGST          decimal.Decimal `db:"sgst"`
	Cess          decimal.Decimal `db:"cess"`
	CreatedAt     time.Time       `db:"created_at"`
}

func (a *amendmentRow) record() domain.AmendmentRecord {
	rt := domain.ReturnType(a.ReturnType)
	return domain.AmendmentRecord{
		ID:             a.ID,
		CompanyID:      a.CompanyID,
		OriginalPeriod: domain.ReturnPeriod{CompanyID: a.CompanyID, Year: a.OriginalYear, Month: a.OriginalMonth, ReturnType: rt},
		ReportedIn:     domain.ReturnPeriod{CompanyID: a.CompanyID, Year: a.ReportedYear, Month: a.ReportedMonth, ReturnType: rt},
		Reason:         a.Reason,
		Delta: domain.TaxFigures{
			TaxableValue: a.TaxableValue,
			IGST:         a.IGST,
			CGST:         a.CGST,
			SGST:         a.SGST,
			Cess:         a.Cess,
		},
		CreatedAt: a.CreatedAt,
	}
}

func (r *returnRepo) CreateAmendment(ctx context.Context, am *domain.AmendmentRecord) error {
	if am.ID == uuid.Nil {
		am.ID = uuid.New()
	}
	am.CreatedAt = time.Now().UTC()

	query := `INSERT INTO return_amendments (id, company_id, return_type, original_year, original_month,
			reported_year, reported_month, reason, taxable_value, igst, cgst, sgst, cess, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		am.ID, am.CompanyID, string(am.OriginalPeriod.ReturnType),
		am.OriginalPeriod.Year, am.OriginalPeriod.Month, am.ReportedIn.Year, am.ReportedIn.Month,
		am.Reason, am.Delta.TaxableValue, am.Delta.IGST, am.Delta.CGST, am.Delta.SGST, am.Delta.Cess,
		am.CreatedAt)
	if err != nil {
		return fmt.Errorf("returnRepo.CreateAmendment: %w", err)
	}
	return nil
}

func (r *returnRepo) ListAmendments(ctx context.Context, reportedIn domain.ReturnPeriod) ([]domain.AmendmentRecord, error) {
	var rows []amendmentRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, company_id, return_type, original_year, original_month, reported_year, reported_month,
			reason, taxable_value, igst, cgst, sgst, cess, created_at
		 FROM return_amendments
		 WHERE company_id = $1 AND return_type = $2 AND reported_year = $3 AND reported_month = $4
		 ORDER BY created_at`,
		reportedIn.CompanyID, string(reportedIn.ReturnType), reportedIn.Year, reportedIn.Month)
	if err != nil {
		return nil, fmt.Errorf("returnRepo.ListAmendments: %w", err)
	}
	records := make([]domain.AmendmentRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].record())
	}
	return records, nil
}
