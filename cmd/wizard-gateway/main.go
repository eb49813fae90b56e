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
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/enrollment-wizard/api/swagger"
	"github.com/noah-isme/enrollment-wizard/internal/handler"
	"github.com/noah-isme/enrollment-wizard/internal/middleware"
	"github.com/noah-isme/enrollment-wizard/internal/repository"
	"github.com/noah-isme/enrollment-wizard/internal/resolver"
	"github.com/noah-isme/enrollment-wizard/internal/service"
	"github.com/noah-isme/enrollment-wizard/internal/wizard"
	"github.com/noah-isme/enrollment-wizard/pkg/cache"
	"github.com/noah-isme/enrollment-wizard/pkg/config"
	"github.com/noah-isme/enrollment-wizard/pkg/logger"
	corsmiddleware "github.com/noah-isme/enrollment-wizard/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/enrollment-wizard/pkg/middleware/requestid"
	"github.com/noah-isme/enrollment-wizard/pkg/registry"
)

// @title Enrollment Wizard Gateway
// @version 1.0.0
// @description Drives the student enrollment wizard and enrollment transfers against the student registry.
// @BasePath /api/v1
// @schemes http https

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

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	redisClient := connectRedis(cfg, logr)
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	var store interface {
		service.SessionStore
		handler.Pinger
	}
	if cfg.Wizard.SessionStore == config.SessionStoreRedis && redisClient != nil {
		prefix := cfg.Wizard.KeyPrefix
		if prefix == "" {
			prefix = repository.DefaultSessionPrefix
		}
		store = repository.NewRedisSessionRepository(redisClient, prefix)
	} else {
		logr.Warn("wizard sessions kept in memory; drafts are lost on restart")
		store = repository.NewMemorySessionRepository()
	}

	registryClient := registry.NewClient(cfg.Registry, logr.Named("registry"),
		registry.WithObserver(metricsSvc),
		registry.WithUnauthorizedHook(func(ctx context.Context) {
			logr.Info("registry session rejected", zap.String("request_id", reqidmiddleware.FromContext(ctx)))
		}),
	)

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, repository.OptionCachePrefix, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Options.CacheTTL, logr, cfg.Options.CacheEnabled && cacheRepo != nil)

	validator := wizard.DefaultValidator()
	catalogSvc := service.NewCatalogService(registryClient, cacheSvc, logr)
	optionResolver := resolver.New(catalogSvc, cfg.Registry.Timeout, logr)
	wizardSvc := service.NewWizardService(service.WizardServiceParams{
		Store:     store,
		Registry:  registryClient,
		Catalog:   catalogSvc,
		Resolver:  optionResolver,
		Validator: validator,
		Metrics:   metricsSvc,
		Logger:    logr,
		TTL:       cfg.Wizard.SessionTTL,
	})
	transferSvc := service.NewTransferService(catalogSvc, registryClient, validator, logr)

	wizardHandler := handler.NewWizardHandler(wizardSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	transferHandler := handler.NewTransferHandler(transferSvc)
	authHandler := handler.NewAuthHandler(registryClient)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, store)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	if metricsSvc != nil {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/auth/session", middleware.OptionalRegistrySession(registryClient.CookieName()), authHandler.Session)

	secured := api.Group("")
	secured.Use(middleware.RegistrySession(registryClient.CookieName()))

	secured.GET("/metrics/summary", metricsHandler.Snapshot)

	catalog := secured.Group("/catalog")
	catalog.GET("/pathways", catalogHandler.Pathways)
	catalog.GET("/courses", catalogHandler.Courses)
	catalog.GET("/courses/:courseId/batches", catalogHandler.Batches)
	catalog.GET("/classrooms", catalogHandler.Classrooms)
	catalog.GET("/required-documents", catalogHandler.RequiredDocuments)

	wiz := secured.Group("/wizard")
	wiz.POST("/sessions", wizardHandler.Start)
	wiz.POST("/students/:studentId/sessions", wizardHandler.StartUpdate)
	wiz.GET("/sessions/:id", wizardHandler.Get)
	wiz.DELETE("/sessions/:id", wizardHandler.Discard)
	wiz.POST("/sessions/:id/reload", wizardHandler.Reload)
	wiz.PATCH("/sessions/:id/form", wizardHandler.Patch)
	wiz.POST("/sessions/:id/enrollments", wizardHandler.AddEnrollment)
	wiz.DELETE("/sessions/:id/enrollments/:index", wizardHandler.RemoveEnrollment)
	wiz.PUT("/sessions/:id/enrollments/:index/selection", wizardHandler.Select)
	wiz.POST("/sessions/:id/next", wizardHandler.Next)
	wiz.POST("/sessions/:id/back", wizardHandler.Back)
	wiz.POST("/sessions/:id/skip", wizardHandler.Skip)
	wiz.POST("/sessions/:id/submit", wizardHandler.Submit)
	wiz.GET("/sessions/:id/payment/:courseId/schedule", wizardHandler.Schedule)

	secured.GET("/transfers/intakes", transferHandler.Intakes)
	secured.GET("/transfers/classrooms", transferHandler.Classrooms)
	secured.GET("/enrollments/:id/eligible-classrooms", transferHandler.EligibleClassrooms)
	secured.POST("/enrollments/:id/transfers", transferHandler.Transfer)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "session_store", cfg.Wizard.SessionStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}

// connectRedis returns nil when nothing needs Redis or it cannot be reached
// and the configuration allows running without it.
func connectRedis(cfg *config.Config, logr *zap.Logger) *redis.Client {
	needed := cfg.Wizard.SessionStore == config.SessionStoreRedis || cfg.Options.CacheEnabled
	if !needed {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err == nil {
		return client
	}
	if cfg.Wizard.SessionStore == config.SessionStoreRedis {
		logr.Fatal("failed to connect to redis", zap.Error(err))
	}
	logr.Warn("redis unavailable; option cache disabled", zap.Error(err))
	return nil
}
