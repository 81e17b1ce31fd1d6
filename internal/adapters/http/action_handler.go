package http

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

// ActionHandler handles HTTP requests for the action log
type ActionHandler struct {
	actionService ports.ActionService
	logger        *logger.Logger
}

// NewActionHandler creates a new action handler
func NewActionHandler(actionService ports.ActionService, logger *logger.Logger) *ActionHandler {
	return &ActionHandler{actionService: actionService, logger: logger}
}

// RegisterRoutes registers action log routes on the given group
func (h *ActionHandler) RegisterRoutes(g *echo.Group) {
	actions := g.Group("/actions")
	actions.POST("", h.LogVisit)
	actions.GET("", h.ListActions)
	actions.DELETE("", h.DeleteActions)
	actions.GET("/:id", h.GetAction)
	actions.PUT("/:id/flag", h.SetFlag)
	actions.DELETE("/:id/flag", h.ClearFlag)
	actions.DELETE("/:id", h.DeleteAction)
}

func actionUUID(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	return id, err == nil
}

func (h *ActionHandler) LogVisit(c echo.Context) error {
	var req ports.LogActionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	actions, err := h.actionService.LogVisit(c.Request().Context(), tenantID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, actions)
}

func (h *ActionHandler) GetAction(c echo.Context) error {
	id, ok := actionUUID(c)
	if !ok {
		return badRequest(c, "invalid action id")
	}

	action, err := h.actionService.GetAction(c.Request().Context(), tenantID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, action)
}

func (h *ActionHandler) ListActions(c echo.Context) error {
	filter := ports.ActionFilter{
		FlaggedOnly: c.QueryParam("flagged") == "true",
	}
	if raw := c.QueryParam("site_id"); raw != "" {
		siteID, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "invalid site id")
		}
		filter.SiteID = &siteID
	}
	if category := c.QueryParam("category"); category != "" {
		filter.Category = &category
	}
	if loggedBy := c.QueryParam("logged_by"); loggedBy != "" {
		filter.LoggedBy = &loggedBy
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return badRequest(c, "invalid limit")
		}
		filter.Limit = limit
	}

	actions, err := h.actionService.ListActions(c.Request().Context(), tenantID(c), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, actions)
}

func (h *ActionHandler) SetFlag(c echo.Context) error {
	id, ok := actionUUID(c)
	if !ok {
		return badRequest(c, "invalid action id")
	}

	var req struct {
		Flag string `json:"flag" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	action, err := h.actionService.SetFlag(c.Request().Context(), tenantID(c), id, entities.ActionFlag(req.Flag))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, action)
}

func (h *ActionHandler) ClearFlag(c echo.Context) error {
	id, ok := actionUUID(c)
	if !ok {
		return badRequest(c, "invalid action id")
	}

	action, err := h.actionService.ClearFlag(c.Request().Context(), tenantID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, action)
}

func (h *ActionHandler) DeleteAction(c echo.Context) error {
	id, ok := actionUUID(c)
	if !ok {
		return badRequest(c, "invalid action id")
	}

	if err := h.actionService.DeleteAction(c.Request().Context(), tenantID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "action deleted"})
}

func (h *ActionHandler) DeleteActions(c echo.Context) error {
	var req struct {
		IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.actionService.DeleteActions(c.Request().Context(), tenantID(c), req.IDs); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "actions deleted"})
}
