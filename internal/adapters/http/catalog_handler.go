package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

// CatalogHandler handles HTTP requests for the task catalog
type CatalogHandler struct {
	catalogService ports.CatalogService
	logger         *logger.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService ports.CatalogService, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, logger: logger}
}

// RegisterRoutes registers catalog routes on the given group
func (h *CatalogHandler) RegisterRoutes(g *echo.Group) {
	catalog := g.Group("/catalog")
	catalog.GET("", h.ListEntries)
	catalog.POST("", h.CreateEntry)
	catalog.GET("/:id", h.GetEntry)
	catalog.PUT("/:id", h.RenameEntry)
	catalog.DELETE("/:id", h.DeleteEntry)
}

func (h *CatalogHandler) ListEntries(c echo.Context) error {
	entries, err := h.catalogService.ListEntries(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *CatalogHandler) GetEntry(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid catalog entry id")
	}

	entry, err := h.catalogService.GetEntry(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *CatalogHandler) CreateEntry(c echo.Context) error {
	var req ports.CreateCatalogEntryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	entry, err := h.catalogService.CreateEntry(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, entry)
}

func (h *CatalogHandler) RenameEntry(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid catalog entry id")
	}

	var req struct {
		Name string `json:"name" validate:"required,max=200"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	entry, err := h.catalogService.RenameEntry(c.Request().Context(), id, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *CatalogHandler) DeleteEntry(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid catalog entry id")
	}

	var req struct {
		DeletedBy string `json:"deleted_by" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.catalogService.DeleteEntry(c.Request().Context(), tenantID(c), id, req.DeletedBy)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
