package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	agreementapp "github.com/lpdp/backend/internal/application/agreement"
	evaluationapp "github.com/lpdp/backend/internal/application/evaluation"
	notificationapp "github.com/lpdp/backend/internal/application/notification"
	registryapp "github.com/lpdp/backend/internal/application/registry"
	syncapp "github.com/lpdp/backend/internal/application/sync"
	taskapp "github.com/lpdp/backend/internal/application/task"
	"github.com/lpdp/backend/internal/infrastructure/cache"
	"github.com/lpdp/backend/internal/infrastructure/config"
	"github.com/lpdp/backend/internal/infrastructure/event"
	"github.com/lpdp/backend/internal/infrastructure/logger"
	"github.com/lpdp/backend/internal/infrastructure/persistence"
	"github.com/lpdp/backend/internal/infrastructure/telemetry"
	"github.com/lpdp/backend/internal/interfaces/http/handler"
	"github.com/lpdp/backend/internal/interfaces/http/middleware"
	"github.com/lpdp/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	// Repositories
	activityRepo := persistence.NewGormActivityRepository(db.DB)
	evaluationRepo := persistence.NewGormEvaluationRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	agreementRepo := persistence.NewGormAgreementRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// Event bus
	bus := event.NewInMemoryEventBus(log)
	ctx := context.Background()
	if err := bus.Start(ctx); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}
	defer func() { _ = bus.Stop(ctx) }()

	// Sync layer: aggregator, cache, metrics, optional cross-instance
	// invalidation over Redis pub/sub
	aggregator := syncapp.NewAggregator(
		activityRepo,
		evaluationRepo,
		taskRepo,
		notificationRepo,
		syncapp.WithFetchTimeout(cfg.Sync.FetchTimeout),
		syncapp.WithAggregatorLogger(log),
	)

	aggregateCache := syncapp.NewAggregateCache(
		syncapp.WithCacheTTL(cfg.Sync.CacheTTL),
		syncapp.WithCacheLogger(log),
	)

	syncOpts := []syncapp.ServiceOption{
		syncapp.WithServiceLogger(log),
		syncapp.WithServiceCache(aggregateCache),
	}

	metrics, err := telemetry.NewSyncMetrics()
	if err != nil {
		log.Warn("sync metrics unavailable", zap.Error(err))
	} else {
		syncOpts = append(syncOpts, syncapp.WithServiceMetrics(metrics))
	}

	var invalidator *cache.RedisAggregateInvalidator
	if cfg.Redis.Enabled {
		invalidator, err = cache.NewRedisAggregateInvalidator(cfg.Redis,
			cache.WithInvalidatorLogger(log))
		if err != nil {
			log.Warn("redis invalidator unavailable, running single-instance", zap.Error(err))
		} else {
			defer func() { _ = invalidator.Close() }()
			syncOpts = append(syncOpts, syncapp.WithCrossInstanceInvalidator(invalidator))
		}
	}

	syncService := syncapp.NewService(aggregator, syncOpts...)
	defer func() { _ = syncService.Close() }()

	// Write-path events invalidate the cached aggregate
	bus.Subscribe(syncService)

	// Drop cached aggregates when another instance invalidates them
	if invalidator != nil {
		subCtx, subCancel := context.WithCancel(ctx)
		defer subCancel()
		go func() {
			err := invalidator.Subscribe(subCtx, func(msg cache.InvalidationMessage) {
				syncService.InvalidateLocal(msg.TenantID)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("invalidation subscription ended", zap.Error(err))
			}
		}()
	}

	// Application services
	activityService := registryapp.NewActivityService(activityRepo, bus, log)
	evaluationService := evaluationapp.NewEvaluationService(evaluationRepo, activityRepo, bus, log)
	taskService := taskapp.NewTaskService(taskRepo, bus, log)
	agreementService := agreementapp.NewAgreementService(agreementRepo, bus, log)
	notificationService := notificationapp.NewNotificationService(notificationRepo, log)

	// Compliance milestones produce notification-center entries
	bus.Subscribe(notificationapp.NewDomainEventHandler(notificationService, log))

	// HTTP server
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.CORSWithConfig(corsCfg),
		middleware.Secure(),
		middleware.TenantMiddleware(),
	)

	r := router.NewRouter(engine)
	r.Register(handler.NewSystemHandler(db))
	r.Register(handler.NewActivityHandler(activityService))
	r.Register(handler.NewEvaluationHandler(evaluationService))
	r.Register(handler.NewTaskHandler(taskService))
	r.Register(handler.NewAgreementHandler(agreementService))
	r.Register(handler.NewNotificationHandler(notificationService))
	r.Register(handler.NewDashboardHandler(syncService,
		handler.WithAutoSyncInterval(cfg.Sync.AutoSyncInterval)))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}

	log.Info("server stopped")
}
