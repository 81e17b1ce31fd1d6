package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

// ComplianceHandler handles HTTP requests for NZ regulatory compliance
type ComplianceHandler struct {
	complianceService ports.ComplianceService
	logger            *logger.Logger
}

// NewComplianceHandler creates a new compliance handler
func NewComplianceHandler(complianceService ports.ComplianceService, logger *logger.Logger) *ComplianceHandler {
	return &ComplianceHandler{complianceService: complianceService, logger: logger}
}

// RegisterRoutes registers compliance routes on the given group
func (h *ComplianceHandler) RegisterRoutes(g *echo.Group) {
	compliance := g.Group("/compliance")
	compliance.GET("/deadlines", h.UpcomingDeadlines)
	compliance.GET("/status", h.Status)
	compliance.POST("/status/:year/:obligation", h.MarkCompleted)
	compliance.GET("/profile", h.GetProfile)
	compliance.PUT("/profile", h.UpdateProfile)
}

func (h *ComplianceHandler) UpcomingDeadlines(c echo.Context) error {
	days := 30
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "invalid days parameter")
		}
		days = parsed
	}

	deadlines, err := h.complianceService.UpcomingDeadlines(c.Request().Context(), tenantID(c), time.Now(), days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, deadlines)
}

func (h *ComplianceHandler) Status(c echo.Context) error {
	year := time.Now().Year()
	if raw := c.QueryParam("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "invalid year parameter")
		}
		year = parsed
	}

	status, err := h.complianceService.Status(c.Request().Context(), tenantID(c), year)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, status)
}

func (h *ComplianceHandler) MarkCompleted(c echo.Context) error {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return badRequest(c, "invalid year")
	}
	obligation := entities.ComplianceObligation(c.Param("obligation"))

	var req struct {
		CompletedBy string `json:"completed_by" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	status, err := h.complianceService.MarkObligationCompleted(c.Request().Context(), tenantID(c), year, obligation, req.CompletedBy)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, status)
}

func (h *ComplianceHandler) GetProfile(c echo.Context) error {
	profile, err := h.complianceService.GetProfile(c.Request().Context(), tenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *ComplianceHandler) UpdateProfile(c echo.Context) error {
	var req ports.UpdateComplianceProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	profile, err := h.complianceService.UpdateProfile(c.Request().Context(), tenantID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}
