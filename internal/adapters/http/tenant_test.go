package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(TenantMiddleware("X-Tenant-ID", "legacy"))
	e.GET("/whoami", func(c echo.Context) error {
		return c.String(http.StatusOK, tenantID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-Tenant-ID", "hamilton-bees")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hamilton-bees", rec.Body.String())
}

func TestTenantMiddlewareDefaultsWhenHeaderMissing(t *testing.T) {
	e := echo.New()
	e.Use(TenantMiddleware("X-Tenant-ID", "legacy"))
	e.GET("/whoami", func(c echo.Context) error {
		return c.String(http.StatusOK, tenantID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "legacy", rec.Body.String())
}
