package handlers

import (
	"errors"
	"net/http"
	"time"

	"dashboard-api/internal/domain"
	"dashboard-api/internal/http/middleware"
	"dashboard-api/internal/http/response"
	"dashboard-api/internal/logger"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string, fields []domain.FieldError) {
	c.AbortWithStatusJSON(status, response.ErrorResponse{
		Success:   false,
		Message:   message,
		Error:     code,
		Fields:    fields,
		Path:      c.Request.URL.Path,
		Timestamp: response.Timestamp(time.Now()),
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Store and internal
// failures are logged and reported without detail.
func RespondDomainError(c *gin.Context, err error) {
	var verr domain.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(c, http.StatusBadRequest, "validation_error", verr.Error(), verr.Fields)
	case domain.IsForbidden(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		_ = c.Error(err)
		logger.From(c.Request.Context(), nil).Error("request failed", logger.Err(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}
