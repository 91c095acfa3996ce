package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dashboard-api/internal/config"
	"dashboard-api/internal/domain"
	"dashboard-api/internal/http/middleware"
	"dashboard-api/internal/repositories"
	"dashboard-api/internal/services"
	"dashboard-api/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "router-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type app struct {
	t *testing.T
	r *gin.Engine
}

func newApp(t *testing.T) *app {
	t.Helper()
	v := validation.New()
	orgs, err := services.NewOrganizationService(services.EntityDeps{
		Repository: repositories.NewMemoryRepository(repositories.OrganizationsTable()),
		Validator:  v,
	})
	require.NoError(t, err)
	visitors, err := services.NewVisitorService(services.EntityDeps{
		Repository: repositories.NewMemoryRepository(repositories.VisitorsTable()),
		Validator:  v,
	})
	require.NoError(t, err)

	r, err := NewRouter(Deps{
		Env:           config.Env{JWTSecret: secret},
		Organizations: orgs,
		Visitors:      visitors,
		Badges:        services.BadgeService{Visitors: visitors},
		Registry:      prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	return &app{t: t, r: r}
}

func token(t *testing.T, user domain.UserContext) string {
	t.Helper()
	tok, err := middleware.SignToken([]byte(secret), user, time.Hour)
	require.NoError(t, err)
	return tok
}

func admin(t *testing.T, org int64) string {
	return token(t, domain.UserContext{
		DataScope: domain.OrgScope(org),
		Subject:   fmt.Sprintf("admin-%d", org),
		Role:      domain.RoleAdmin,
	})
}

func (a *app) call(method, path, tok string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success    bool                   `json:"success"`
	Message    string                 `json:"message"`
	Data       json.RawMessage        `json:"data"`
	Pagination *domain.PaginationInfo `json:"pagination"`
	Error      string                 `json:"error"`
}

func (a *app) decode(w *httptest.ResponseRecorder) envelope {
	a.t.Helper()
	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestRouter_RequiresToken(t *testing.T) {
	a := newApp(t)
	assert.Equal(t, http.StatusUnauthorized, a.call(http.MethodGet, "/api/visitors", "", nil).Code)
	assert.Equal(t, http.StatusOK, a.call(http.MethodGet, "/api/health", "", nil).Code)
}

func TestRouter_TenantIsolation(t *testing.T) {
	a := newApp(t)
	one, two := admin(t, 1), admin(t, 2)

	for i := 0; i < 3; i++ {
		w := a.call(http.MethodPost, "/api/visitors", one, map[string]any{
			"fullName": fmt.Sprintf("Guest %d", i), "idNumber": "ID", "purpose": "meeting", "departmentId": 11,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	env := a.decode(a.call(http.MethodGet, "/api/visitors", two, nil))
	assert.JSONEq(t, `[]`, string(env.Data))
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 0, env.Pagination.TotalItems)

	env = a.decode(a.call(http.MethodGet, "/api/visitors?limit=2&page=2", one, nil))
	assert.Equal(t, domain.PaginationInfo{Page: 2, Limit: 2, TotalItems: 3, TotalPages: 2, HasNextPage: false, HasPrevPage: true}, *env.Pagination)

	assert.Equal(t, http.StatusNotFound, a.call(http.MethodGet, "/api/visitors/1", two, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.call(http.MethodGet, "/api/visitors/1/badge", two, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.call(http.MethodDelete, "/api/visitors/1", two, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.call(http.MethodPut, "/api/visitors/1", two, map[string]any{"purpose": "x"}).Code)

	w := a.call(http.MethodGet, "/api/visitors/1", one, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(a.decode(w).Data), `"fullName":"Guest 0"`)
}

func TestRouter_VisitorLifecycle(t *testing.T) {
	a := newApp(t)
	tok := admin(t, 1)

	w := a.call(http.MethodPost, "/api/visitors", tok, map[string]any{"fullName": "Ana"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"idNumber"`)

	w = a.call(http.MethodPost, "/api/visitors", tok, map[string]any{
		"fullName": "Ana", "idNumber": "123", "purpose": "interview", "departmentId": 11,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = a.call(http.MethodGet, "/api/visitors/1/badge", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))

	assert.Equal(t, http.StatusConflict, a.call(http.MethodDelete, "/api/visitors/1", tok, nil).Code)

	out := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	w = a.call(http.MethodPut, "/api/visitors/1", tok, map[string]any{"checkedOutAt": out})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, string(a.decode(w).Data), `"checkedIn":false`)

	w = a.call(http.MethodDelete, "/api/visitors/1", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Entity deleted successfully", a.decode(w).Message)
}

func TestRouter_OrganizationsRequireSuperadmin(t *testing.T) {
	a := newApp(t)
	root := token(t, domain.UserContext{Subject: "root", Role: domain.RoleSuperAdmin})

	body := map[string]any{"name": "Acme", "code": "ACME"}
	assert.Equal(t, http.StatusForbidden, a.call(http.MethodPost, "/api/organizations", admin(t, 1), body).Code)
	require.Equal(t, http.StatusCreated, a.call(http.MethodPost, "/api/organizations", root, body).Code)
	assert.Equal(t, http.StatusConflict, a.call(http.MethodPost, "/api/organizations", root, body).Code)

	env := a.decode(a.call(http.MethodGet, "/api/organizations/1", admin(t, 1), nil))
	assert.Contains(t, string(env.Data), `"code":"ACME"`)
	assert.Equal(t, http.StatusNotFound, a.call(http.MethodGet, "/api/organizations/1", admin(t, 2), nil).Code)
}

func TestRouter_OpsEndpoints(t *testing.T) {
	a := newApp(t)
	a.call(http.MethodGet, "/api/health", "", nil)

	w := a.call(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/api/health",status="200"} 1`)

	assert.Equal(t, http.StatusForbidden, a.call(http.MethodGet, "/api/routes", admin(t, 1), nil).Code)
	root := token(t, domain.UserContext{Subject: "root", Role: domain.RoleSuperAdmin})
	w = a.call(http.MethodGet, "/api/routes", root, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/api/visitors/:id/badge"`)

	w = a.call(http.MethodGet, "/api/db-check", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.call(http.MethodGet, "/nope", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", a.decode(w).Error)
}

func TestNewRouter_RequiresServices(t *testing.T) {
	_, err := NewRouter(Deps{})
	assert.Error(t, err)
}
