package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"dashboard-api/internal/config"
	"dashboard-api/internal/domain"
	h "dashboard-api/internal/http/handlers"
	"dashboard-api/internal/http/middleware"
	"dashboard-api/internal/http/response"
	"dashboard-api/internal/repositories"
	"dashboard-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps is everything the router mounts.
type Deps struct {
	Env    config.Env
	Logger *zap.Logger
	// DB is nil under the memory storage driver.
	DB            *sql.DB
	Organizations *services.OrganizationService
	Visitors      *services.VisitorService
	Badges        h.BadgeGenerator
	// Registry defaults to a fresh registry with Go and process collectors.
	Registry *prometheus.Registry
}

func NewRouter(d Deps) (*gin.Engine, error) {
	if d.Organizations == nil || d.Visitors == nil || d.Badges == nil {
		return nil, errors.New("router: organization, visitor and badge services are required")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if d.DB != nil {
		if err := reg.Register(collectors.NewDBStatsCollector(d.DB, "dashboard")); err != nil {
			return nil, err
		}
	}
	metrics, err := middleware.NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		gin.Recovery(),
		metrics.Handler(),
		middleware.CORS(d.Env.CORSOrigins),
	)
	if err := r.SetTrustedProxies(nil); err != nil {
		d.Logger.Warn("failed to set trusted proxies", zap.Error(err))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.ErrorResponse{
			Success:   false,
			Message:   "route not found",
			Error:     "not_found",
			Path:      c.Request.URL.Path,
			Timestamp: response.Timestamp(time.Now()),
			RequestID: middleware.GetRequestID(c),
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	system := &h.System{
		DB:     d.DB,
		Tables: []*repositories.Table{repositories.OrganizationsTable(), repositories.VisitorsTable()},
		Routes: r.Routes,
	}

	api := r.Group("/api")
	{
		api.GET("/health", system.Health)
		api.GET("/db-check", system.DBCheck)

		secured := api.Group("", middleware.Auth([]byte(d.Env.JWTSecret)))
		secured.GET("/routes", middleware.RequireRoles(domain.RoleSuperAdmin), system.ListRoutes)

		organizations := secured.Group("/organizations")
		h.NewOrganizationController(d.Organizations).Register(organizations)

		visitors := secured.Group("/visitors")
		h.NewVisitorController(d.Visitors).Register(visitors)
		visitors.GET("/:id/badge", h.VisitorBadge(d.Badges))
	}

	return r, nil
}
