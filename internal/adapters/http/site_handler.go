package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

// SiteHandler handles HTTP requests for apiary sites
type SiteHandler struct {
	siteService ports.SiteService
	logger      *logger.Logger
}

// NewSiteHandler creates a new site handler
func NewSiteHandler(siteService ports.SiteService, logger *logger.Logger) *SiteHandler {
	return &SiteHandler{siteService: siteService, logger: logger}
}

// RegisterRoutes registers site routes on the given group
func (h *SiteHandler) RegisterRoutes(g *echo.Group) {
	sites := g.Group("/sites")
	sites.POST("", h.CreateSite)
	sites.GET("", h.ListSites)
	sites.GET("/stats", h.GetStats)
	sites.GET("/:id", h.GetSite)
	sites.PUT("/:id", h.UpdateSite)
	sites.DELETE("/:id", h.DeleteSite)
	sites.POST("/:id/archive", h.ArchiveSite)
	sites.POST("/:id/unarchive", h.UnarchiveSite)
	sites.POST("/:id/harvests", h.AddHarvestRecord)
	sites.DELETE("/:id/harvests/:index", h.RemoveHarvestRecord)
}

func (h *SiteHandler) CreateSite(c echo.Context) error {
	var req ports.CreateSiteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	site, err := h.siteService.CreateSite(c.Request().Context(), tenantID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, site)
}

func (h *SiteHandler) GetSite(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid site id")
	}

	site, err := h.siteService.GetSite(c.Request().Context(), tenantID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, site)
}

func (h *SiteHandler) UpdateSite(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid site id")
	}

	var req ports.UpdateSiteRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	site, err := h.siteService.UpdateSite(c.Request().Context(), tenantID(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, site)
}

func (h *SiteHandler) ListSites(c echo.Context) error {
	filter := ports.SiteFilter{
		IncludeArchived: c.QueryParam("include_archived") == "true",
		ArchivedOnly:    c.QueryParam("archived_only") == "true",
	}
	if fc := c.QueryParam("functional"); fc != "" {
		f := entities.FunctionalClassification(fc)
		if !f.IsValid() {
			return badRequest(c, "invalid functional classification")
		}
		filter.Functional = &f
	}
	if search := c.QueryParam("search"); search != "" {
		filter.Search = &search
	}

	sites, err := h.siteService.ListSites(c.Request().Context(), tenantID(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, sites)
}

func (h *SiteHandler) ArchiveSite(c echo.Context) error {
	return h.setArchived(c, true)
}

func (h *SiteHandler) UnarchiveSite(c echo.Context) error {
	return h.setArchived(c, false)
}

func (h *SiteHandler) setArchived(c echo.Context, archived bool) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid site id")
	}

	var req struct {
		By string `json:"by" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	var site *entities.Site
	if archived {
		site, err = h.siteService.ArchiveSite(c.Request().Context(), tenantID(c), id, req.By)
	} else {
		site, err = h.siteService.UnarchiveSite(c.Request().Context(), tenantID(c), id, req.By)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, site)
}

func (h *SiteHandler) DeleteSite(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid site id")
	}

	if err := h.siteService.DeleteSite(c.Request().Context(), tenantID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "site deleted"})
}

func (h *SiteHandler) AddHarvestRecord(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid site id")
	}

	var req ports.HarvestRecordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	site, err := h.siteService.AddHarvestRecord(c.Request().Context(), tenantID(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, site)
}

func (h *SiteHandler) RemoveHarvestRecord(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid site id")
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return badRequest(c, "invalid harvest record index")
	}

	site, err := h.siteService.RemoveHarvestRecord(c.Request().Context(), tenantID(c), id, index)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, site)
}

func (h *SiteHandler) GetStats(c echo.Context) error {
	stats, err := h.siteService.GetStats(c.Request().Context(), tenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
