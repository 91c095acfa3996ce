package middleware

import (
	"net/http"

	"dashboard-api/internal/domain"

	"github.com/gin-gonic/gin"
)

// RequireRoles lets the request through only for the given roles. It must run
// after Auth.
func RequireRoles(allowedRoles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized", "no authenticated user")
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			abort(c, http.StatusForbidden, "forbidden", "role not allowed")
			return
		}
		c.Next()
	}
}
