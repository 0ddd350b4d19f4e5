package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/spark-api/api/swagger"
	"github.com/noah-isme/spark-api/internal/handler"
	"github.com/noah-isme/spark-api/internal/middleware"
	"github.com/noah-isme/spark-api/internal/repository"
	"github.com/noah-isme/spark-api/internal/seed"
	"github.com/noah-isme/spark-api/internal/service"
	"github.com/noah-isme/spark-api/pkg/cache"
	"github.com/noah-isme/spark-api/pkg/config"
	"github.com/noah-isme/spark-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/spark-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/spark-api/pkg/middleware/requestid"
)

const shutdownTimeout = 10 * time.Second

// @title Spark API
// @version 0.1.0
// @description Student app state: announcements, assignments, calendar, clubs, points and rewards
// @BasePath /
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	metrics := service.NewMetricsService()

	initial, err := loadSeed(cfg)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}

	activity := service.NewActivityService(service.ActivityConfig{
		Workers:    cfg.Activity.Workers,
		BufferSize: cfg.Activity.BufferSize,
		History:    cfg.Activity.History,
	}, metrics, logr)
	// Detached from ctx so events published while requests drain after the
	// shutdown signal are still handled. Stop runs after the server is down.
	activity.Start(context.Background())
	defer activity.Stop()

	state := service.NewStateService(service.StateServiceParams{
		Repo:              repository.NewStateRepository(initial),
		Location:          cfg.Store.Location,
		StrictTransitions: cfg.Store.StrictAssignmentTransitions,
		Activity:          activity,
		Metrics:           metrics,
		Logger:            logr,
	})

	var (
		cacheSvc *service.CacheService
		pinger   handler.Pinger
	)
	if cfg.Dashboard.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(client, logr)
			defer cacheRepo.Close() //nolint:errcheck
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, true)
			pinger = cacheRepo
		}
	}

	dashboard := service.NewDashboardService(service.DashboardServiceParams{
		State:  state,
		Cache:  cacheSvc,
		Logger: logr,
		Config: service.DashboardServiceConfig{CacheTTL: cfg.Dashboard.CacheTTL},
	})
	exporter := service.NewExportService(state, logr, nil, nil)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	ops := handler.NewMetricsHandler(metrics, pinger, logr)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.Router{
		User:          handler.NewUserHandler(state),
		Announcements: handler.NewAnnouncementHandler(state),
		Assignments:   handler.NewAssignmentHandler(state, exporter),
		Calendar:      handler.NewCalendarHandler(state, exporter),
		Campus:        handler.NewCampusHandler(state),
		Rewards:       handler.NewRewardsHandler(state, activity),
		Dashboard:     handler.NewDashboardHandler(dashboard),
		DebugEnabled:  cfg.Debug.Enabled,
	}.Register(r.Group(cfg.APIPrefix))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "strict_transitions", cfg.Store.StrictAssignmentTransitions)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loadSeed(cfg *config.Config) (seed.State, error) {
	now := time.Now().In(cfg.Store.Location)
	if cfg.Store.SeedFile == "" {
		return seed.Default(now, cfg.Store.Location), nil
	}
	return seed.LoadFile(cfg.Store.SeedFile, now, cfg.Store.Location)
}
