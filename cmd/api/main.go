package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/lead-dashboard/internal/api/http"
	"github.com/spec-kit/lead-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/lead-dashboard/internal/auth"
	"github.com/spec-kit/lead-dashboard/internal/cache"
	"github.com/spec-kit/lead-dashboard/internal/config"
	"github.com/spec-kit/lead-dashboard/internal/events"
	"github.com/spec-kit/lead-dashboard/internal/observability"
	"github.com/spec-kit/lead-dashboard/internal/persistence"
	"github.com/spec-kit/lead-dashboard/internal/query"
	"github.com/spec-kit/lead-dashboard/internal/service"
	"github.com/spec-kit/lead-dashboard/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	loc, err := cfg.App.Location()
	if err != nil {
		logger.Fatal("invalid timezone", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := persistence.OpenLeadStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open lead store", zap.Error(err))
	}
	defer store.Close(context.Background())

	redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Warn("analytics cache unavailable; continuing without it", zap.Error(err))
	}
	defer redis.Close()

	dependencies := map[string]handlers.Pinger{}
	for name, dep := range store.Dependencies() {
		dependencies[name] = dep
	}

	var summaryCache cache.SummaryCache
	if redis != nil && cfg.Leads.CacheTTL() > 0 {
		summaryCache = cache.NewRedisSummaryCache(redis.Client, cfg.Leads.CacheTTL())
		dependencies["redis"] = redis
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	builder := query.NewBuilder(query.Options{
		DefaultLimit: cfg.Leads.DefaultLimit,
		MaxLimit:     cfg.Leads.MaxLimit,
		Location:     loc,
	})

	authService := service.NewAuthService(cfg.Auth)
	leadService := service.NewLeadService(service.LeadDependencies{
		LeadRepo:   store.Leads,
		Builder:    builder,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	analyticsService := service.NewAnalyticsService(service.AnalyticsDependencies{
		LeadRepo: store.Leads,
		Builder:  builder,
		Cache:    summaryCache,
		Metrics:  metrics,
		Logger:   logger,
	})
	worker.StartEventWorker(service.NewEventService(dispatcher, analyticsService, logger))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.App.RequestTimeout(),
		WriteTimeout: cfg.App.RequestTimeout(),
	})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:           logger,
		Metrics:          metrics,
		RequestTimeout:   cfg.App.RequestTimeout(),
		CORSAllowOrigins: cfg.App.CORSAllowOrigins,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Auth:           handlers.NewAuthHandler(authService),
		Leads:          handlers.NewLeadsHandler(leadService),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		LoginLimiter:   auth.NewLoginLimiter(float64(cfg.Auth.LoginPerMinute), cfg.Auth.LoginBurst),
		Metrics:        metrics,
	})

	go func() {
		logger.Info("http server starting",
			zap.String("addr", cfg.App.Addr()),
			zap.String("store", cfg.Store.Driver),
			zap.String("timezone", loc.String()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("graceful shutdown incomplete", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
