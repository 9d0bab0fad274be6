package handler_test

import (
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gstledger/internal/domain"
	"gstledger/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testTenant() domain.TenantContext {
	return domain.TenantContext{
		CompanyID: uuid.New(),
		OwnerType: domain.OwnerTypeOrganization,
		OwnerID:   uuid.New(),
	}
}

// newTestContext builds a gin context with the tenant already resolved.
func newTestContext(method, target string, body io.Reader, tenant domain.TenantContext, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if body == nil {
		body = http.NoBody
	}
	c.Request, _ = http.NewRequest(method, target, body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = params
	c.Set(middleware.ContextKeyTenant, tenant)
	return c, w
}

func periodParams(rt, year, month string) gin.Params {
	return gin.Params{
		{Key: "type", Value: rt},
		{Key: "year", Value: year},
		{Key: "month", Value: month},
	}
}
