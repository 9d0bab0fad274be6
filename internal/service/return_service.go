package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"gstledger/internal/config"
	"gstledger/internal/domain"
	"gstledger/internal/export"
	"gstledger/internal/gst"
	"gstledger/internal/logger"
	"gstledger/internal/port"
)

// DefaultDraftName is used when a draft is saved without a name.
const DefaultDraftName = "default"

// PreviewInput is the DTO for computing a return without persisting it.
type PreviewInput struct {
	Tenant domain.TenantContext
	Period domain.ReturnPeriod
	Manual *domain.ManualSections
}

// SaveDraftInput is the DTO for saving a named working copy.
type SaveDraftInput struct {
	Tenant domain.TenantContext
	Period domain.ReturnPeriod
	Name   string
	Manual *domain.ManualSections
}

// SubmitInput is the DTO for filing a return. When Manual is nil and
// DraftName is set, the manual sections of that draft are used.
type SubmitInput struct {
	Tenant    domain.TenantContext
	Period    domain.ReturnPeriod
	Manual    *domain.ManualSections
	DraftName string
}

// AmendInput is the DTO for recording a correction to a filed period.
type AmendInput struct {
	Tenant         domain.TenantContext
	OriginalPeriod domain.ReturnPeriod
	ReportedIn     domain.ReturnPeriod
	Reason         string
	Delta          domain.TaxFigures
}

// ReturnService drives the return lifecycle: draft, preview, submit, amend.
type ReturnService interface {
	Preview(ctx context.Context, input *PreviewInput) (*domain.AssembledReturn, error)
	SaveDraft(ctx context.Context, input *SaveDraftInput) (*domain.Draft, error)
	LoadDraft(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod, name string) (*domain.Draft, error)
	ListDrafts(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod) ([]string, error)
	Submit(ctx context.Context, input *SubmitInput) (*domain.AssembledReturn, error)
	GetSubmitted(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod) (*domain.AssembledReturn, error)
	ListSubmitted(ctx context.Context, tenant domain.TenantContext, offset, limit int) ([]domain.Submission, int, error)
	ArchiveURL(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod) (string, error)
	Amend(ctx context.Context, input *AmendInput) (*domain.AmendmentRecord, error)
	ExportJSON(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod) (any, error)
	ExportWorkbook(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod, w io.Writer) error
	ExportHSNCSV(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod, w io.Writer) error
}

type returnService struct {
	vouchers  port.VoucherSource
	companies port.CompanyRepository
	returns   port.ReturnRepository
	drafts    port.DraftStore
	archive   port.ReturnArchive
	assembler *gst.Assembler
	draftTTL  time.Duration
	log       *zap.Logger
	now       func() time.Time
}

// NewReturnService creates a new ReturnService implementation.
func NewReturnService(
	vouchers port.VoucherSource,
	companies port.CompanyRepository,
	returns port.ReturnRepository,
	drafts port.DraftStore,
	archive port.ReturnArchive,
	assembler *gst.Assembler,
	gstCfg *config.GSTConfig,
	log *zap.Logger,
) ReturnService {
	if log == nil {
		log = zap.NewNop()
	}
	return &returnService{
		vouchers:  vouchers,
		companies: companies,
		returns:   returns,
		drafts:    drafts,
		archive:   archive,
		assembler: assembler,
		draftTTL:  gstCfg.DraftTTL,
		log:       log,
		now:       time.Now,
	}
}

// scope validates tenant and period and binds the period to the tenant's company.
func scope(tenant domain.TenantContext, period domain.ReturnPeriod) (domain.ReturnPeriod, error) {
	if err := tenant.Validate(); err != nil {
		return period, err
	}
	period.CompanyID = tenant.CompanyID
	if err := period.Validate(); err != nil {
		return period, err
	}
	return period, nil
}

// ensureOpen fails with ErrSubmittedReturnImmutable when the period was filed.
func (s *returnService) ensureOpen(ctx context.Context, period domain.ReturnPeriod) error {
	_, err := s.returns.GetSubmission(ctx, period)
	if err == nil {
		return domain.ErrSubmittedReturnImmutable
	}
	if errors.Is(err, domain.ErrReturnNotSubmitted) {
		return nil
	}
	return fmt.Errorf("checking submission for %s: %w", period, err)
}

func (s *returnService) assemble(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod, manual *domain.ManualSections) (*domain.AssembledReturn, error) {
	company, err := s.companies.Get(ctx, tenant)
	if err != nil {
		return nil, err
	}
	lines, sourceWarnings, err := s.vouchers.GetTaxLines(ctx, tenant, period)
	if err != nil {
		return nil, fmt.Errorf("loading tax lines for %s: %w", period, err)
	}
	amendments, err := s.returns.ListAmendments(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("loading amendments for %s: %w", period, err)
	}

	ret, err := s.assembler.Assemble(gst.AssembleInput{
		Period:         period,
		Company:        *company,
		Lines:          lines,
		Manual:         manual,
		Amendments:     amendments,
		SourceWarnings: sourceWarnings,
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.log).Debug("return assembled",
		zap.String("period", period.String()),
		zap.String("company_id", period.CompanyID.String()),
		zap.Int("lines", ret.LineCount),
		zap.Int("warnings", len(ret.Warnings)),
	)
	return ret, nil
}

func (s *returnService) Preview(ctx context.Context, input *PreviewInput) (*domain.AssembledReturn, error) {
	period, err := scope(input.Tenant, input.Period)
	if err != nil {
		return nil, err
	}
	if err := s.ensureOpen(ctx, period); err != nil {
		return nil, err
	}
	ret, err := s.assemble(ctx, input.Tenant, period, input.Manual)
	if err != nil {
		return nil, err
	}
	ret.Status = domain.ReturnStatusPreviewed
	return ret, nil
}

func (s *returnService) SaveDraft(ctx context.Context, input *SaveDraftInput) (*domain.Draft, error) {
	period, err := scope(input.Tenant, input.Period)
	if err != nil {
		return nil, err
	}
	if err := s.ensureOpen(ctx, period); err != nil {
		return nil, err
	}
	ret, err := s.assemble(ctx, input.Tenant, period, input.Manual)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = DefaultDraftName
	}
	draft := &domain.Draft{
		Name:    name,
		Period:  period,
		Manual:  input.Manual,
		Return:  *ret,
		SavedAt: s.now().UTC(),
	}
	if err := s.drafts.Save(ctx, draft, s.draftTTL); err != nil {
		return nil, fmt.Errorf("saving draft %q: %w", name, err)
	}

	logger.FromContext(ctx, s.log).Info("draft saved",
		zap.String("period", period.String()),
		zap.String("draft", name),
		zap.Int("warnings", len(ret.Warnings)),
	)
	return draft, nil
}

func (s *returnService) LoadDraft(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod, name string) (*domain.Draft, error) {
	period, err := scope(tenant, period)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = DefaultDraftName
	}
	return s.drafts.Load(ctx, period, name)
}

func (s *returnService) ListDrafts(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod) ([]string, error) {
	period, err := scope(tenant, period)
	if err != nil {
		return nil, err
	}
	return s.drafts.List(ctx, period)
}

func (s *returnService) Submit(ctx context.Context, input *SubmitInput) (*domain.AssembledReturn, error) {
	period, err := scope(input.Tenant, input.Period)
	if err != nil {
		return nil, err
	}
	if err := s.ensureOpen(ctx, period); err != nil {
		return nil, err
	}

	manual := input.Manual
	if manual == nil && input.DraftName != "" {
		draft, err := s.drafts.Load(ctx, period, input.DraftName)
		if err != nil {
			return nil, err
		}
		manual = draft.Manual
	}

	ret, err := s.assemble(ctx, input.Tenant, period, manual)
	if err != nil {
		return nil, err
	}

	filedAt := s.now().UTC()
	ret.Status = domain.ReturnStatusSubmitted
	ret.SubmittedAt = &filedAt
	ret.ARN = gst.GenerateARN(ret.BasicInfo.State, filedAt)

	snapshot, err := json.Marshal(ret)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	key, err := s.archive.Put(ctx, period, ret.ARN, snapshot)
	if err != nil {
		return nil, err
	}

	sub := &domain.Submission{
		CompanyID:    period.CompanyID,
		Year:         period.Year,
		Month:        period.Month,
		ReturnType:   period.ReturnType,
		ARN:          ret.ARN,
		Snapshot:     snapshot,
		ArchiveKey:   key,
		SubmittedBy:  input.Tenant.OwnerID,
		NetLiability: ret.Liability.NetLiability,
		SubmittedAt:  filedAt,
	}
	log := logger.FromContext(ctx, s.log)
	if err := s.returns.CreateSubmission(ctx, sub); err != nil {
		if delErr := s.archive.Remove(ctx, key); delErr != nil {
			log.Warn("failed to remove orphaned archive", zap.String("key", key), zap.Error(delErr))
		}
		if errors.Is(err, domain.ErrSubmittedReturnImmutable) {
			return nil, err
		}
		return nil, fmt.Errorf("storing submission: %w", err)
	}

	if err := s.drafts.Delete(ctx, period); err != nil {
		log.Warn("failed to drop drafts after submission", zap.String("period", period.String()), zap.Error(err))
	}

	log.Info("return submitted",
		zap.String("period", period.String()),
		zap.String("arn", ret.ARN),
		zap.String("net_liability", ret.Liability.NetLiability.StringFixed(2)),
		zap.Int("warnings", len(ret.Warnings)),
	)
	return ret, nil
}

func (s *returnService) GetSubmitted(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod) (*domain.AssembledReturn, error) {
	period, err := scope(tenant, period)
	if err != nil {
		return nil, err
	}
	sub, err := s.returns.GetSubmission(ctx, period)
	if err != nil {
		return nil, err
	}
	snapshot := sub.Snapshot
	if len(snapshot) == 0 && sub.ArchiveKey != "" {
		// Rows restored without the snapshot column fall back to the archive copy.
		snapshot, err = s.archive.Get(ctx, sub.ArchiveKey)
		if err != nil {
			return nil, err
		}
	}
	var ret domain.AssembledReturn
	if err := json.Unmarshal(snapshot, &ret); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", sub.ARN, err)
	}
	return &ret, nil
}

func (s *returnService) ListSubmitted(ctx context.Context, tenant domain.TenantContext, offset, limit int) ([]domain.Submission, int, error) {
	if err := tenant.Validate(); err != nil {
		return nil, 0, err
	}
	return s.returns.ListSubmissions(ctx, tenant, offset, limit)
}

func (s *returnService) ArchiveURL(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod) (string, error) {
	period, err := scope(tenant, period)
	if err != nil {
		return "", err
	}
	sub, err := s.returns.GetSubmission(ctx, period)
	if err != nil {
		return "", err
	}
	return s.archive.URL(ctx, sub.ArchiveKey)
}

func (s *returnService) Amend(ctx context.Context, input *AmendInput) (*domain.AmendmentRecord, error) {
	original, err := scope(input.Tenant, input.OriginalPeriod)
	if err != nil {
		return nil, err
	}
	reportedIn := input.ReportedIn
	reportedIn.ReturnType = original.ReturnType
	reportedIn, err = scope(input.Tenant, reportedIn)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Reason) == "" {
		return nil, fmt.Errorf("%w: reason is required", domain.ErrInvalidAmendment)
	}
	if input.Delta.IsZero() {
		return nil, fmt.Errorf("%w: delta is zero", domain.ErrInvalidAmendment)
	}
	if !original.Before(reportedIn) {
		return nil, fmt.Errorf("%w: %s must be reported in a later period than %s", domain.ErrInvalidAmendment, original, reportedIn)
	}

	if _, err := s.returns.GetSubmission(ctx, original); err != nil {
		if errors.Is(err, domain.ErrReturnNotSubmitted) {
			return nil, fmt.Errorf("amending %s: %w", original, err)
		}
		return nil, fmt.Errorf("checking submission for %s: %w", original, err)
	}
	if err := s.ensureOpen(ctx, reportedIn); err != nil {
		return nil, err
	}

	am := &domain.AmendmentRecord{
		CompanyID:      input.Tenant.CompanyID,
		OriginalPeriod: original,
		ReportedIn:     reportedIn,
		Reason:         strings.TrimSpace(input.Reason),
		Delta:          input.Delta,
	}
	if err := s.returns.CreateAmendment(ctx, am); err != nil {
		return nil, fmt.Errorf("storing amendment: %w", err)
	}

	logger.FromContext(ctx, s.log).Info("amendment recorded",
		zap.String("original", original.String()),
		zap.String("reported_in", reportedIn.String()),
		zap.String("taxable_delta", am.Delta.TaxableValue.StringFixed(2)),
	)
	return am, nil
}

// current returns the filed snapshot for a submitted period, or a freshly
// assembled draft otherwise.
func (s *returnService) current(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod) (*domain.AssembledReturn, error) {
	period, err := scope(tenant, period)
	if err != nil {
		return nil, err
	}
	ret, err := s.GetSubmitted(ctx, tenant, period)
	if err == nil {
		return ret, nil
	}
	if !errors.Is(err, domain.ErrReturnNotSubmitted) {
		return nil, err
	}
	return s.assemble(ctx, tenant, period, nil)
}

func (s *returnService) ExportJSON(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod) (any, error) {
	ret, err := s.current(ctx, tenant, period)
	if err != nil {
		return nil, err
	}
	return export.ReturnJSON(ret)
}

func (s *returnService) ExportWorkbook(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod, w io.Writer) error {
	ret, err := s.current(ctx, tenant, period)
	if err != nil {
		return err
	}
	return export.WriteGSTR1Workbook(w, ret)
}

func (s *returnService) ExportHSNCSV(ctx context.Context, tenant domain.TenantContext, period domain.ReturnPeriod, w io.Writer) error {
	ret, err := s.current(ctx, tenant, period)
	if err != nil {
		return err
	}
	return export.WriteHSNCSV(w, ret.HSNSummary)
}
