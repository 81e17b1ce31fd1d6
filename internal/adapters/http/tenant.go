package http

import (
	"github.com/labstack/echo/v4"
)

const tenantContextKey = "tenant_id"

// TenantMiddleware resolves the tenant partition for every request from the
// configured header, falling back to the default tenant for untenanted
// callers. Resolution is explicit: no guessing from paths or payloads.
func TenantMiddleware(headerName, defaultTenant string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenant := c.Request().Header.Get(headerName)
			if tenant == "" {
				tenant = defaultTenant
			}
			c.Set(tenantContextKey, tenant)
			return next(c)
		}
	}
}

// tenantID returns the tenant resolved by TenantMiddleware.
func tenantID(c echo.Context) string {
	tenant, _ := c.Get(tenantContextKey).(string)
	return tenant
}
