package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"dashboard-api/internal/domain"
	"dashboard-api/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// reserved query keys are paging and sorting, everything else is a filter.
var reserved = map[string]bool{"page": true, "limit": true, "sort": true, "order": true, "search": true}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondDomainError(c, domain.ValidationError{Msg: "request body is required"})
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondDomainError(c, domain.ValidationError{Msg: "request body is not valid JSON", Err: err})
		return false
	}
	return true
}

func parseID(c *gin.Context) (domain.ID, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondDomainError(c, domain.ValidationError{Field: "id", Msg: "must be a positive integer"})
		return 0, false
	}
	return domain.ID(id), true
}

func intParam(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ValidationError{Field: key, Msg: "must be an integer"}
	}
	return n, nil
}

// parseQuery reads paging, sorting, search and free-form filter keys.
func parseQuery(c *gin.Context) (domain.Query, error) {
	page, err := intParam(c, "page")
	if err != nil {
		return domain.Query{}, err
	}
	limit, err := intParam(c, "limit")
	if err != nil {
		return domain.Query{}, err
	}
	q := domain.Query{
		Page:   page,
		Limit:  limit,
		Sort:   strings.TrimSpace(c.Query("sort")),
		Order:  strings.TrimSpace(c.Query("order")),
		Search: strings.TrimSpace(c.Query("search")),
	}
	for key, vals := range c.Request.URL.Query() {
		if reserved[key] || len(vals) == 0 {
			continue
		}
		if q.Filters == nil {
			q.Filters = map[string]string{}
		}
		q.Filters[key] = vals[0]
	}
	return q, nil
}

func currentUser(c *gin.Context) (domain.UserContext, bool) {
	user, ok := middleware.GetUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "no authenticated user", nil)
	}
	return user, ok
}
