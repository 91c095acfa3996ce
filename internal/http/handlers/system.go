package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	intdb "dashboard-api/internal/db"
	"dashboard-api/internal/repositories"

	"github.com/gin-gonic/gin"
)

// System serves the operational endpoints.
type System struct {
	// DB is nil when the memory storage driver is in use.
	DB     *sql.DB
	Tables []*repositories.Table
	// Routes lists the mounted routes; set once the engine is built.
	Routes func() gin.RoutesInfo
}

func (s *System) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "dashboard-api is running"})
}

// DBCheck pings the database and verifies every table and scope column the
// repositories rely on.
func (s *System) DBCheck(c *gin.Context) {
	if s.DB == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": "memory"})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := s.DB.PingContext(ctx); err != nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database is not reachable", nil)
		return
	}

	var missing []string
	for _, t := range s.Tables {
		ok, err := intdb.HasTable(ctx, s.DB, t.Name)
		if err != nil {
			respondError(c, http.StatusServiceUnavailable, "db_unavailable", err.Error(), nil)
			return
		}
		if !ok {
			missing = append(missing, t.Name)
			continue
		}
		for _, col := range []string{t.OrgColumn, t.DeptColumn} {
			if col == "" || col == t.PrimaryKey {
				continue
			}
			ok, err := intdb.HasColumn(ctx, s.DB, t.Name, col)
			if err != nil {
				respondError(c, http.StatusServiceUnavailable, "db_unavailable", err.Error(), nil)
				return
			}
			if !ok {
				missing = append(missing, t.Name+"."+col)
			}
		}
	}
	if len(missing) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "schema_incomplete", "missing": missing})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": "mysql"})
}

func (s *System) ListRoutes(c *gin.Context) {
	if s.Routes == nil {
		respondError(c, http.StatusServiceUnavailable, "not_ready", "router is not ready", nil)
		return
	}
	routes := s.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{"method": rt.Method, "path": rt.Path})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
