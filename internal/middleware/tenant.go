package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gstledger/internal/domain"
)

const (
	ContextKeyTenant = "tenant"

	HeaderCompanyID = "X-Company-ID"
	HeaderOwnerType = "X-Owner-Type"
	HeaderOwnerID   = "X-Owner-ID"
)

// Tenant builds the TenantContext from request headers. Requests without a
// complete, valid tenant are rejected before reaching a handler.
func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, err := parseTenant(c)
		if err == nil {
			err = tenant.Validate()
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   gin.H{"code": "INVALID_TENANT", "message": err.Error()},
			})
			return
		}
		c.Set(ContextKeyTenant, tenant)
		c.Next()
	}
}

func parseTenant(c *gin.Context) (domain.TenantContext, error) {
	var t domain.TenantContext
	var err error
	if t.CompanyID, err = parseHeaderUUID(c, HeaderCompanyID); err != nil {
		return t, err
	}
	if t.OwnerID, err = parseHeaderUUID(c, HeaderOwnerID); err != nil {
		return t, err
	}
	t.OwnerType = domain.OwnerType(strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderOwnerType))))
	return t, nil
}

func parseHeaderUUID(c *gin.Context, header string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.GetHeader(header))
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &headerError{header: header}
	}
	return id, nil
}

type headerError struct {
	header string
}

func (e *headerError) Error() string {
	return domain.ErrInvalidTenant.Error() + ": " + e.header + " must be a UUID"
}

func (e *headerError) Unwrap() error {
	return domain.ErrInvalidTenant
}

// TenantFromContext returns the tenant set by Tenant.
func TenantFromContext(c *gin.Context) (domain.TenantContext, bool) {
	v, ok := c.Get(ContextKeyTenant)
	if !ok {
		return domain.TenantContext{}, false
	}
	t, ok := v.(domain.TenantContext)
	return t, ok
}
