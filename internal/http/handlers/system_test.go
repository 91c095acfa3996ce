package handlers

import (
	"net/http"
	"testing"

	"dashboard-api/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func systemEngine(s *System) *gin.Engine {
	r := gin.New()
	r.GET("/api/health", s.Health)
	r.GET("/api/db-check", s.DBCheck)
	r.GET("/api/routes", s.ListRoutes)
	return r
}

func tableRow(name string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"table_name"}).AddRow(name)
}

func TestSystem_Health(t *testing.T) {
	w := do(systemEngine(&System{}), http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestSystem_DBCheckMemoryDriver(t *testing.T) {
	w := do(systemEngine(&System{}), http.MethodGet, "/api/db-check", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"storage":"memory"`)
}

func TestSystem_DBCheckReportsMissingScopeColumn(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(`information_schema.tables`).WithArgs("organizations").WillReturnRows(tableRow("organizations"))
	mock.ExpectQuery(`information_schema.tables`).WithArgs("visitors").WillReturnRows(tableRow("visitors"))
	mock.ExpectQuery(`information_schema.columns`).WithArgs("visitors", "organization_id").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).AddRow("organization_id"))
	mock.ExpectQuery(`information_schema.columns`).WithArgs("visitors", "department_id").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))

	s := &System{DB: conn, Tables: []*repositories.Table{repositories.OrganizationsTable(), repositories.VisitorsTable()}}
	w := do(systemEngine(s), http.MethodGet, "/api/db-check", "")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"missing":["visitors.department_id"]`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSystem_DBCheckOK(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(`information_schema.tables`).WithArgs("organizations").WillReturnRows(tableRow("organizations"))

	s := &System{DB: conn, Tables: []*repositories.Table{repositories.OrganizationsTable()}}
	w := do(systemEngine(s), http.MethodGet, "/api/db-check", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"storage":"mysql"`)
}

func TestSystem_ListRoutes(t *testing.T) {
	s := &System{}
	r := systemEngine(s)
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodGet, "/api/routes", "").Code)

	s.Routes = r.Routes
	w := do(r, http.MethodGet, "/api/routes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"path":"/api/db-check"`)
}
