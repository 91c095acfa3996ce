package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dashboard-api/internal/config"
	router "dashboard-api/internal/http"
	"dashboard-api/internal/logger"
	"dashboard-api/internal/repositories"
	"dashboard-api/internal/services"
	"dashboard-api/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		// no logger yet
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}
	log := logger.New(logger.Config{Env: env.AppEnv, Level: env.LogLevel, ServiceName: "dashboard-api"})
	defer func() { _ = log.Sync() }()

	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	var (
		db                   *sql.DB
		orgRepo, visitorRepo repositories.Repository
	)
	switch env.StorageDriver {
	case config.DriverMemory:
		log.Warn("using in-memory storage; data is lost on restart")
		orgRepo = repositories.NewMemoryRepository(repositories.OrganizationsTable())
		visitorRepo = repositories.NewMemoryRepository(repositories.VisitorsTable())
	default:
		db, err = config.OpenDB(context.Background(), env.DB)
		if err != nil {
			log.Fatal("database connection failed", zap.Error(err))
		}
		defer db.Close()
		orgRepo = repositories.NewMySQLRepository(db, repositories.OrganizationsTable())
		visitorRepo = repositories.NewMySQLRepository(db, repositories.VisitorsTable())
		log.Info("connected to mysql", zap.String("host", env.DB.Host), zap.String("database", env.DB.Name))
	}

	v := validation.New()
	orgs, err := services.NewOrganizationService(services.EntityDeps{
		Repository: orgRepo, Validator: v, Logger: log, MaxLimit: env.PageMaxLimit,
	})
	if err != nil {
		log.Fatal("organization service", zap.Error(err))
	}
	visitors, err := services.NewVisitorService(services.EntityDeps{
		Repository: visitorRepo, Validator: v, Logger: log, MaxLimit: env.PageMaxLimit,
	})
	if err != nil {
		log.Fatal("visitor service", zap.Error(err))
	}

	r, err := router.NewRouter(router.Deps{
		Env:           env,
		Logger:        log,
		DB:            db,
		Organizations: orgs,
		Visitors:      visitors,
		Badges:        services.BadgeService{Visitors: visitors, Logger: log},
	})
	if err != nil {
		log.Fatal("router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", env.AppAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
		return
	}
	log.Info("server stopped")
}
