package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/lead-dashboard/internal/auth"
	"github.com/spec-kit/lead-dashboard/internal/cache"
	"github.com/spec-kit/lead-dashboard/internal/config"
	"github.com/spec-kit/lead-dashboard/internal/events"
	"github.com/spec-kit/lead-dashboard/internal/observability"
	"github.com/spec-kit/lead-dashboard/internal/persistence"
	"github.com/spec-kit/lead-dashboard/internal/seed"
	"github.com/spec-kit/lead-dashboard/internal/service"
	"github.com/spec-kit/lead-dashboard/internal/worker"
)

func main() {
	hashPassword := flag.String("hash-password", "", "print the bcrypt hash of the given password for ADMIN_PASSWORD_HASH and exit")
	flag.Parse()
	if *hashPassword != "" {
		if err := printPasswordHash(os.Stdout, *hashPassword); err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(cfg, logger); err != nil {
		logger.Error("seeding failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	loc, err := cfg.App.Location()
	if err != nil {
		return err
	}

	store, err := persistence.OpenLeadStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close(ctx)

	redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Warn("analytics cache unavailable; continuing without it", zap.Error(err))
	}
	defer redis.Close()

	// Running API instances share the Redis cache, so reseeding must drop it.
	dispatcher := events.NewInMemoryDispatcher()
	if redis != nil {
		analytics := service.NewAnalyticsService(service.AnalyticsDependencies{
			LeadRepo: store.Leads,
			Cache:    cache.NewRedisSummaryCache(redis.Client, cfg.Leads.CacheTTL()),
			Logger:   logger,
		})
		worker.StartEventWorker(service.NewEventService(dispatcher, analytics, logger))
	}

	seeder := seed.NewSeeder(seed.Dependencies{
		LeadRepo:   store.Leads,
		Generator:  seed.NewGenerator(0, loc),
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	report, err := seeder.Run(ctx, cfg.Seed.Count)
	if err != nil {
		return err
	}

	fmt.Printf("Removed %d existing leads\n", report.Deleted)
	fmt.Printf("Seeded %d leads\n\nLeads by stage:\n", report.Inserted)
	for _, sc := range report.ByStage {
		fmt.Printf("  %s: %d\n", sc.Stage, sc.Count)
	}
	return nil
}

func printPasswordHash(w io.Writer, password string) error {
	hashed, err := auth.HashPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, hashed)
	return err
}
