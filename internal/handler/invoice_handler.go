package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gstledger/internal/domain"
	"gstledger/internal/service"
)

// InvoiceHandler handles per-voucher document endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

type eInvoiceRequest struct {
	GenerateEWB bool                     `json:"generate_ewb"`
	Transport   *domain.TransportDetails `json:"transport"`
}

// EInvoice handles POST /api/v1/vouchers/:id/einvoice
func (h *InvoiceHandler) EInvoice(c *gin.Context) {
	tenant, ok := extractTenant(c)
	if !ok {
		return
	}
	voucherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid voucher ID")
		return
	}
	var req eInvoiceRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	doc, err := h.invoiceService.EInvoice(c.Request.Context(), &service.EInvoiceInput{
		Tenant:      tenant,
		VoucherID:   voucherID,
		GenerateEWB: req.GenerateEWB,
		Transport:   req.Transport,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// EWayEligibility handles GET /api/v1/vouchers/:id/eway-eligibility
func (h *InvoiceHandler) EWayEligibility(c *gin.Context) {
	tenant, ok := extractTenant(c)
	if !ok {
		return
	}
	voucherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid voucher ID")
		return
	}

	result, err := h.invoiceService.EWayEligibility(c.Request.Context(), tenant, voucherID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}
