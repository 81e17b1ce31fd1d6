package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

// SchedulingHandler handles HTTP requests for scheduled tasks
type SchedulingHandler struct {
	schedulingService ports.SchedulingService
	logger            *logger.Logger
}

// NewSchedulingHandler creates a new scheduling handler
func NewSchedulingHandler(schedulingService ports.SchedulingService, logger *logger.Logger) *SchedulingHandler {
	return &SchedulingHandler{schedulingService: schedulingService, logger: logger}
}

// RegisterRoutes registers scheduling routes on the given group
func (h *SchedulingHandler) RegisterRoutes(g *echo.Group) {
	schedule := g.Group("/schedule")
	schedule.POST("/tasks", h.ScheduleTask)
	schedule.POST("/visits", h.ScheduleVisit)
	schedule.GET("/tasks", h.ListPending)
	schedule.GET("/tasks/completed", h.ListCompleted)
	schedule.GET("/timeline", h.Timeline)
	schedule.GET("/tasks/:id", h.GetTask)
	schedule.PUT("/tasks/:id", h.UpdateTask)
	schedule.DELETE("/tasks/:id", h.CancelTask)
	schedule.POST("/tasks/:id/complete", h.CompleteTask)
	schedule.POST("/tasks/:id/reschedule", h.RescheduleTask)
	schedule.POST("/promote-overdue", h.PromoteOverdue)
}

func taskUUID(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	return id, err == nil
}

func (h *SchedulingHandler) ScheduleTask(c echo.Context) error {
	var req ports.ScheduleTaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	task, err := h.schedulingService.Schedule(c.Request().Context(), tenantID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *SchedulingHandler) ScheduleVisit(c echo.Context) error {
	var req ports.ScheduleVisitRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	tasks, err := h.schedulingService.ScheduleVisit(c.Request().Context(), tenantID(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, tasks)
}

func (h *SchedulingHandler) GetTask(c echo.Context) error {
	id, ok := taskUUID(c)
	if !ok {
		return badRequest(c, "invalid task id")
	}

	task, err := h.schedulingService.GetTask(c.Request().Context(), tenantID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *SchedulingHandler) UpdateTask(c echo.Context) error {
	id, ok := taskUUID(c)
	if !ok {
		return badRequest(c, "invalid task id")
	}

	var req ports.UpdateScheduledTaskRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	task, err := h.schedulingService.UpdateTask(c.Request().Context(), tenantID(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *SchedulingHandler) CompleteTask(c echo.Context) error {
	id, ok := taskUUID(c)
	if !ok {
		return badRequest(c, "invalid task id")
	}

	var req struct {
		CompletedBy string `json:"completed_by" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	action, err := h.schedulingService.Complete(c.Request().Context(), tenantID(c), id, req.CompletedBy)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, action)
}

func (h *SchedulingHandler) RescheduleTask(c echo.Context) error {
	id, ok := taskUUID(c)
	if !ok {
		return badRequest(c, "invalid task id")
	}

	var req ports.RescheduleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	task, err := h.schedulingService.Reschedule(c.Request().Context(), tenantID(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *SchedulingHandler) CancelTask(c echo.Context) error {
	id, ok := taskUUID(c)
	if !ok {
		return badRequest(c, "invalid task id")
	}

	if err := h.schedulingService.Cancel(c.Request().Context(), tenantID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "scheduled task cancelled"})
}

func (h *SchedulingHandler) ListPending(c echo.Context) error {
	tasks, err := h.schedulingService.ListPending(c.Request().Context(), tenantID(c), time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *SchedulingHandler) ListCompleted(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return badRequest(c, "invalid limit")
		}
		limit = parsed
	}

	tasks, err := h.schedulingService.ListCompleted(c.Request().Context(), tenantID(c), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *SchedulingHandler) Timeline(c echo.Context) error {
	groups, err := h.schedulingService.Timeline(c.Request().Context(), tenantID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, groups)
}

func (h *SchedulingHandler) PromoteOverdue(c echo.Context) error {
	asOf := time.Now()
	promoted, err := h.schedulingService.PromoteOverdueTasks(c.Request().Context(), tenantID(c), asOf)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ports.PromoteOverdueResponse{Promoted: promoted, AsOf: asOf})
}
