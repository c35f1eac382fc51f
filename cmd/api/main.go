package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/carrizal-edu/asistencia-api/api/swagger"
	"github.com/carrizal-edu/asistencia-api/internal/assistant"
	"github.com/carrizal-edu/asistencia-api/internal/handler"
	"github.com/carrizal-edu/asistencia-api/internal/middleware"
	"github.com/carrizal-edu/asistencia-api/internal/repository"
	"github.com/carrizal-edu/asistencia-api/internal/service"
	"github.com/carrizal-edu/asistencia-api/internal/store"
	"github.com/carrizal-edu/asistencia-api/pkg/cache"
	"github.com/carrizal-edu/asistencia-api/pkg/config"
	"github.com/carrizal-edu/asistencia-api/pkg/database"
	"github.com/carrizal-edu/asistencia-api/pkg/logger"
	corsmiddleware "github.com/carrizal-edu/asistencia-api/pkg/middleware/cors"
	reqidmiddleware "github.com/carrizal-edu/asistencia-api/pkg/middleware/requestid"
)

// @title Asistencia API
// @version 0.1.0
// @description Single-classroom attendance tracking and reporting
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Both stores are best effort: the session keeps working from memory
	// when the database is down, and reports skip caching without Redis.
	var snapshotRepo *repository.SnapshotRepository
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Warn("database unavailable, running memory-only", zap.Error(err))
	} else {
		defer db.Close() //nolint:errcheck
		snapshotRepo = repository.NewSnapshotRepository(db)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, report caching disabled", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close() //nolint:errcheck
	}

	session := store.NewSession()
	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	persistenceSvc := service.NewPersistenceService(persistenceRepo(snapshotRepo), session, logr)
	persistenceSvc.Hydrate(context.Background())

	authSvc := service.NewAuthService(service.AuthConfig{
		AccessKey:     cfg.Auth.AccessKey,
		AccessKeyHash: cfg.Auth.AccessKeyHash,
		TokenSecret:   cfg.JWT.Secret,
		TokenExpiry:   cfg.JWT.Expiration,
	}, validate, logr)
	rosterSvc := service.NewRosterService(session, persistenceSvc, logr)
	attendanceSvc := service.NewAttendanceService(session, persistenceSvc, logr)
	reportSvc := service.NewReportService(
		session,
		assistant.New(cfg.Assistant),
		repository.NewCacheRepository(redisClient, logr),
		metricsSvc,
		cfg.Reports.CacheTTL,
		cfg.Reports.ExportTitle,
		logr,
	)

	authHandler := handler.NewAuthHandler(authSvc)
	rosterHandler := handler.NewRosterHandler(rosterSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	reportHandler := handler.NewReportHandler(reportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		status := gin.H{"status": "ready", "persistence": snapshotRepo != nil, "cache": redisClient != nil}
		c.JSON(http.StatusOK, status)
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.GET("/students", rosterHandler.List)
		protected.POST("/students", rosterHandler.Add)
		protected.DELETE("/students/:id", rosterHandler.Remove)

		protected.GET("/attendance/:date", attendanceHandler.Day)
		protected.PUT("/attendance/:date/students/:id", attendanceHandler.SetStatus)
		protected.DELETE("/attendance/:date", attendanceHandler.Clear)

		protected.POST("/reports/daily-message", reportHandler.DailyMessage)
		protected.POST("/reports/range", reportHandler.Range)
		protected.GET("/reports/range/export", reportHandler.ExportRange)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// One last save so a restart resumes from the latest state.
	persistenceSvc.SaveSnapshot(ctx)

	if err := srv.Shutdown(ctx); err != nil {
		logr.Warn("forced shutdown", zap.Error(err))
	}
}

// persistenceRepo keeps the typed nil out of the interface value so the
// persistence service sees a true nil when the database is down.
func persistenceRepo(repo *repository.SnapshotRepository) service.SnapshotStore {
	if repo == nil {
		return nil
	}
	return repo
}
