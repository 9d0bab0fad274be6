package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gstledger/internal/domain"
	"gstledger/internal/logger"
	"gstledger/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success  bool             `json:"success"`
	Data     interface{}      `json:"data,omitempty"`
	Warnings []domain.Warning `json:"warnings,omitempty"`
	Error    *APIError        `json:"error,omitempty"`
	Meta     *PagMeta         `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondWithWarnings sends a success response carrying data-quality warnings.
func RespondWithWarnings(c *gin.Context, status int, data interface{}, warnings []domain.Warning) {
	c.JSON(status, APIResponse{Success: true, Data: data, Warnings: warnings})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidPeriod):
		return http.StatusBadRequest, "INVALID_PERIOD", err.Error()
	case errors.Is(err, domain.ErrInvalidTenant):
		return http.StatusBadRequest, "INVALID_TENANT", err.Error()
	case errors.Is(err, domain.ErrInvalidAmendment):
		return http.StatusBadRequest, "INVALID_AMENDMENT", err.Error()
	case errors.Is(err, domain.ErrSubmittedReturnImmutable):
		return http.StatusConflict, "RETURN_SUBMITTED", "return has been submitted and cannot be changed"
	case errors.Is(err, domain.ErrReturnNotSubmitted):
		return http.StatusConflict, "RETURN_NOT_SUBMITTED", "return has not been submitted"
	case errors.Is(err, domain.ErrExportSchemaViolation):
		return http.StatusUnprocessableEntity, "EXPORT_SCHEMA_VIOLATION", err.Error()
	case errors.Is(err, domain.ErrDraftNotFound):
		return http.StatusNotFound, "DRAFT_NOT_FOUND", "draft not found"
	case errors.Is(err, domain.ErrVoucherNotFound):
		return http.StatusNotFound, "VOUCHER_NOT_FOUND", "voucher not found"
	case errors.Is(err, domain.ErrCompanyNotFound):
		return http.StatusNotFound, "COMPANY_NOT_FOUND", "company not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		logger.FromContext(c.Request.Context(), nil).Error("internal error", zap.Error(err))
		_ = c.Error(err)
	}
	RespondError(c, status, code, msg)
}

// extractTenant returns the tenant set by the tenant middleware.
// Returns false if it is missing (error response already written).
func extractTenant(c *gin.Context) (domain.TenantContext, bool) {
	tenant, ok := middleware.TenantFromContext(c)
	if !ok {
		RespondError(c, http.StatusBadRequest, "INVALID_TENANT", "missing tenant context")
		return domain.TenantContext{}, false
	}
	return tenant, true
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
