package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/beemarshall/core/internal/infrastructure/logger"
	"github.com/beemarshall/core/internal/ports"
)

// PlanningHandler serves seasonal suggestions and the iCalendar export.
type PlanningHandler struct {
	suggestionService ports.SuggestionService
	calendarService   ports.CalendarService
	logger            *logger.Logger
}

// NewPlanningHandler creates a new planning handler
func NewPlanningHandler(
	suggestionService ports.SuggestionService,
	calendarService ports.CalendarService,
	logger *logger.Logger,
) *PlanningHandler {
	return &PlanningHandler{
		suggestionService: suggestionService,
		calendarService:   calendarService,
		logger:            logger,
	}
}

// RegisterRoutes registers planning routes on the given group
func (h *PlanningHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/suggestions", h.GetSuggestions)
	g.GET("/calendar.ics", h.ExportCalendar)
}

func (h *PlanningHandler) GetSuggestions(c echo.Context) error {
	month := time.Now().Month()
	if raw := c.QueryParam("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			return badRequest(c, "month must be between 1 and 12")
		}
		month = time.Month(parsed)
	}

	suggestions, err := h.suggestionService.Suggest(c.Request().Context(), tenantID(c), month)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, suggestions)
}

func (h *PlanningHandler) ExportCalendar(c echo.Context) error {
	ics, err := h.calendarService.ExportPending(c.Request().Context(), tenantID(c), time.Now())
	if err != nil {
		return respondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="apiary-schedule.ics"`)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}
