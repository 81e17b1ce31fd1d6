package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/beemarshall/core/internal/domain/entities"
	"github.com/beemarshall/core/internal/ports"
)

// respondError maps domain errors onto HTTP status codes.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, entities.ErrSiteNotFound),
		errors.Is(err, entities.ErrTaskNotFound),
		errors.Is(err, entities.ErrActionNotFound),
		errors.Is(err, entities.ErrCatalogEntryNotFound):
		return c.JSON(http.StatusNotFound, ports.ErrorResponse{Message: err.Error()})
	case errors.Is(err, entities.ErrTaskAlreadyCompleted),
		errors.Is(err, entities.ErrSiteNotArchived):
		return c.JSON(http.StatusConflict, ports.ErrorResponse{Message: err.Error()})
	case errors.Is(err, entities.ErrValidation):
		return c.JSON(http.StatusBadRequest, ports.ErrorResponse{Message: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ports.ErrorResponse{Message: "internal server error"})
	}
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ports.ErrorResponse{Message: message})
}
