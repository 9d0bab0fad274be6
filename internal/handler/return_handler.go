package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gstledger/internal/domain"
	"gstledger/internal/service"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ReturnHandler handles return lifecycle and export endpoints.
type ReturnHandler struct {
	returnService service.ReturnService
}

// NewReturnHandler creates a new ReturnHandler.
func NewReturnHandler(returnService service.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// parsePeriod reads :type, :year and :month. Range checks are left to the
// service so every caller gets the same INVALID_PERIOD detail.
func parsePeriod(c *gin.Context) (domain.ReturnPeriod, bool) {
	rt, ok := domain.ParseReturnType(c.Param("type"))
	if !ok {
		RespondError(c, http.StatusBadRequest, "INVALID_PERIOD", fmt.Sprintf("unsupported return type %q", c.Param("type")))
		return domain.ReturnPeriod{}, false
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PERIOD", "year must be a number")
		return domain.ReturnPeriod{}, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_PERIOD", "month must be a number")
		return domain.ReturnPeriod{}, false
	}
	return domain.ReturnPeriod{Year: year, Month: month, ReturnType: rt}, true
}

func scopeRequest(c *gin.Context) (domain.TenantContext, domain.ReturnPeriod, bool) {
	tenant, ok := extractTenant(c)
	if !ok {
		return tenant, domain.ReturnPeriod{}, false
	}
	period, ok := parsePeriod(c)
	return tenant, period, ok
}

// bindOptionalJSON binds the body when one was sent.
func bindOptionalJSON(c *gin.Context, dst interface{}) bool {
	if c.Request.Body == nil || c.Request.Body == http.NoBody || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body: "+err.Error())
		return false
	}
	return true
}

func exportFilename(period domain.ReturnPeriod, suffix string) string {
	return fmt.Sprintf("%s_%s%s", period.ReturnType, period.FilingPeriod(), suffix)
}

func attachment(c *gin.Context, contentType, filename string, body []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, body)
}

// Preview handles GET|POST /api/v1/returns/:type/:year/:month/preview
func (h *ReturnHandler) Preview(c *gin.Context) {
	tenant, period, ok := scopeRequest(c)
	if !ok {
		return
	}
	var manual *domain.ManualSections
	if !bindOptionalJSON(c, &manual) {
		return
	}

	ret, err := h.returnService.Preview(c.Request.Context(), &service.PreviewInput{
		Tenant: tenant,
		Period: period,
		Manual: manual,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondWithWarnings(c, http.StatusOK, ret, ret.Warnings)
}

type saveDraftRequest struct {
	Name   string                 `json:"name"`
	Manual *domain.ManualSections `json:"manual"`
}

// SaveDraft handles POST /api/v1/returns/:type/:year/:month/draft
func (h *ReturnHandler) SaveDraft(c *gin.Context) {
	tenant, period, ok := scopeRequest(c)
	if !ok {
		return
	}
	var req saveDraftRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	draft, err := h.returnService.SaveDraft(c.Request.Context(), &service.SaveDraftInput{
		Tenant: tenant,
		Period: period,
		Name:   req.Name,
		Manual: req.Manual,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondWithWarnings(c, http.StatusCreated, draft, draft.Return.Warnings)
}

// LoadDraft handles GET /api/v1/returns/:type/:year/:month/draft?name=
func (h *ReturnHandler) LoadDraft(c *gin.Context) {
	tenant, period, ok := scopeRequest(c)
	if !ok {
		return
	}
	draft, err := h.returnService.LoadDraft(c.Request.Context(), tenant, period, c.Query("name"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, draft)
}

// ListDrafts handles GET /api/v1/returns/:type/:year/:month/drafts
func (h *ReturnHandler) ListDrafts(c *gin.Context) {
	tenant, period, ok := scopeRequest(c)
	if !ok {
		return
	}
	names, err := h.returnService.ListDrafts(c.Request.Context(), tenant, period)
	if err != nil {
		HandleError(c, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	RespondOK(c, names)
}

type submitRequest struct {
	DraftName string                 `json:"draft_name"`
	Manual    *domain.ManualSections `json:"manual"`
}

// Submit handles POST /api/v1/returns/:type/:year/:month/submit
func (h *ReturnHandler) Submit(c *gin.Context) {
	tenant, period, ok := scopeRequest(c)
	if !ok {
		return
	}
	var req submitRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	ret, err := h.returnService.Submit(c.Request.Context(), &service.SubmitInput{
		Tenant:    tenant,
		Period:    period,
		Manual:    req.Manual,
		DraftName: req.DraftName,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondWithWarnings(c, http.StatusCreated, ret, ret.Warnings)
}

// GetSubmitted handles GET /api/v1/returns/:type/:year/:month
func (h *ReturnHandler) GetSubmitted(c *gin.Context) {
	tenant, period, ok := scopeRequest(c)
	if !ok {
		return
	}
	ret, err := h.returnService.GetSubmitted(c.Request.Context(), tenant, period)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, ret)
}

// ListSubmitted handles GET /api/v1/returns
func (h *ReturnHandler) ListSubmitted(c *gin.Context) {
	tenant, ok := extractTenant(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	subs, total, err := h.returnService.ListSubmitted(c.Request.Context(), tenant, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	if subs == nil {
		subs = []domain.Submission{}
	}
	RespondPaginated(c, subs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ArchiveURL handles GET /api/v1/returns/:type/:year/:month/archive
func (h *ReturnHandler) ArchiveURL(c *gin.Context) {
	tenant, period, ok := scopeRequest(c)
	if !ok {
		return
	}
	url, err := h.returnService.ArchiveURL(c.Request.Context(), tenant, period)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

type amendRequest struct {
	ReportedYear  int               `json:"reported_year" binding:"required"`
	ReportedMonth int               `json:"reported_month" binding:"required"`
	Reason        string            `json:"reason" binding:"required"`
	Delta         domain.TaxFigures `json:"delta"`
}

// Amend handles POST /api/v1/returns/:type/:year/:month/amendments.
// The path names the filed period being corrected.
func (h *ReturnHandler) Amend(c *gin.Context) {
	tenant, original, ok := scopeRequest(c)
	if !ok {
		return
	}
	var req amendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "reported_year, reported_month and reason are required")
		return
	}

	am, err := h.returnService.Amend(c.Request.Context(), &service.AmendInput{
		Tenant:         tenant,
		OriginalPeriod: original,
		ReportedIn:     domain.ReturnPeriod{Year: req.ReportedYear, Month: req.ReportedMonth, ReturnType: original.ReturnType},
		Reason:         req.Reason,
		Delta:          req.Delta,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, am)
}

// ExportJSON handles GET /api/v1/returns/:type/:year/:month/export
func (h *ReturnHandler) ExportJSON(c *gin.Context) {
	tenant, period, ok := scopeRequest(c)
	if !ok {
		return
	}
	doc, err := h.returnService.ExportJSON(c.Request.Context(), tenant, period)
	if err != nil {
		HandleError(c, err)
		return
	}
	body, err := json.Marshal(doc)
	if err != nil {
		HandleError(c, err)
		return
	}
	attachment(c, contentTypeJSON, exportFilename(period, ".json"), body)
}

// ExportWorkbook handles GET /api/v1/returns/:type/:year/:month/export.xlsx
func (h *ReturnHandler) ExportWorkbook(c *gin.Context) {
	tenant, period, ok := scopeRequest(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.returnService.ExportWorkbook(c.Request.Context(), tenant, period, &buf); err != nil {
		HandleError(c, err)
		return
	}
	attachment(c, contentTypeXLSX, exportFilename(period, ".xlsx"), buf.Bytes())
}

// ExportHSNCSV handles GET /api/v1/returns/:type/:year/:month/hsn.csv
func (h *ReturnHandler) ExportHSNCSV(c *gin.Context) {
	tenant, period, ok := scopeRequest(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.returnService.ExportHSNCSV(c.Request.Context(), tenant, period, &buf); err != nil {
		HandleError(c, err)
		return
	}
	attachment(c, contentTypeCSV, exportFilename(period, "_hsn.csv"), buf.Bytes())
}
