package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nyasatech/expense_request_app/internal/apperrors"
	"github.com/nyasatech/expense_request_app/internal/middleware"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondServiceError maps a service-layer error onto its HTTP status, using
// the error's client-facing message where one exists and the fallback for
// everything unexpected.
func respondServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrInvalidState),
		errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}
