package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gstledger/internal/handler"
	"gstledger/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	log *zap.Logger,
	allowedOrigins []string,
	returnH *handler.ReturnHandler,
	invoiceH *handler.InvoiceHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.Tenant())

	// Returns
	returns := v1.Group("/returns")
	returns.GET("", returnH.ListSubmitted)

	period := returns.Group("/:type/:year/:month")
	period.GET("", returnH.GetSubmitted)
	period.GET("/preview", returnH.Preview)
	period.POST("/preview", returnH.Preview)
	period.POST("/draft", returnH.SaveDraft)
	period.GET("/draft", returnH.LoadDraft)
	period.GET("/drafts", returnH.ListDrafts)
	period.POST("/submit", returnH.Submit)
	period.GET("/archive", returnH.ArchiveURL)
	period.POST("/amendments", returnH.Amend)
	period.GET("/export", returnH.ExportJSON)
	period.GET("/export.xlsx", returnH.ExportWorkbook)
	period.GET("/hsn.csv", returnH.ExportHSNCSV)

	// Vouchers
	vouchers := v1.Group("/vouchers")
	vouchers.POST("/:id/einvoice", invoiceH.EInvoice)
	vouchers.GET("/:id/eway-eligibility", invoiceH.EWayEligibility)

	return r
}
