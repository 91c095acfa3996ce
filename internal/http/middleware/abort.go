package middleware

import (
	"time"

	"dashboard-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, response.ErrorResponse{
		Success:   false,
		Message:   message,
		Error:     code,
		Path:      c.Request.URL.Path,
		Timestamp: response.Timestamp(time.Now()),
		RequestID: GetRequestID(c),
	})
}
