package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dashboard-api/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userKey = "user"

// Claims is the token payload the API trusts. organization_id absent means the
// caller is not tied to an organization; department_ids absent means no
// department restriction.
type Claims struct {
	Username       string  `json:"username"`
	Role           string  `json:"role"`
	OrganizationID *int64  `json:"organization_id,omitempty"`
	DepartmentIDs  []int64 `json:"department_ids,omitempty"`
	jwt.RegisteredClaims
}

// UserContext converts verified claims into the per-request caller.
func (c Claims) UserContext() (domain.UserContext, error) {
	role := domain.Role(strings.ToLower(strings.TrimSpace(c.Role)))
	if !role.Valid() {
		return domain.UserContext{}, fmt.Errorf("unknown role %q", c.Role)
	}
	if c.Subject == "" {
		return domain.UserContext{}, errors.New("missing subject")
	}
	return domain.UserContext{
		DataScope: domain.DataScope{
			OrganizationID: c.OrganizationID,
			DepartmentIDs:  c.DepartmentIDs,
		},
		Subject:  c.Subject,
		Username: c.Username,
		Role:     role,
	}, nil
}

// Auth verifies an HS256 bearer token and stores the resulting UserContext.
func Auth(secret []byte) gin.HandlerFunc {
	keyFunc := func(*jwt.Token) (any, error) { return secret, nil }
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		var claims Claims
		_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &claims, keyFunc,
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(30*time.Second),
		)
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}
		user, err := claims.UserContext()
		if err != nil {
			abort(c, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}

		SetUser(c, user)
		c.Next()
	}
}

// SetUser stores the caller for downstream handlers.
func SetUser(c *gin.Context, user domain.UserContext) {
	c.Set(userKey, user)
}

// GetUser returns the caller stored by Auth.
func GetUser(c *gin.Context) (domain.UserContext, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return domain.UserContext{}, false
	}
	u, ok := v.(domain.UserContext)
	return u, ok
}

// SignToken issues an HS256 token for user valid for ttl.
func SignToken(secret []byte, user domain.UserContext, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Username:       user.Username,
		Role:           string(user.Role),
		OrganizationID: user.OrganizationID,
		DepartmentIDs:  user.DepartmentIDs,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
