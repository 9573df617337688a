package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/campus-aura/backend/internal/api/http/handlers"
	"github.com/campus-aura/backend/internal/app"
	"github.com/campus-aura/backend/internal/cache"
	"github.com/campus-aura/backend/internal/config"
	"github.com/campus-aura/backend/internal/events"
	"github.com/campus-aura/backend/internal/media"
	"github.com/campus-aura/backend/internal/observability"
	"github.com/campus-aura/backend/internal/persistence"
)

const cacheKeyPrefix = "campusaura:events"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	opened, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open document store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer opened.Close()
	checks := opened.Checks

	var listingCache cache.ListingCache = cache.Noop{}
	if cfg.Redis.Enabled {
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		listingCache = redis.ListingCache(cacheKeyPrefix)
		checks = append(checks, handlers.HealthCheck{Name: "redis", Pinger: redis})
	}

	uploader, err := media.NewUploader(cfg.Cloudinary, logger)
	if err != nil {
		logger.Fatal("failed to init cloudinary", zap.Error(err))
	}

	forwarder := events.NewKafkaForwarder(cfg.Kafka, logger)
	defer func() {
		if err := forwarder.Close(); err != nil {
			logger.Warn("closing kafka forwarder", zap.Error(err))
		}
	}()

	server := app.New(app.Dependencies{
		Config:       cfg,
		Logger:       logger,
		Store:        opened.Store,
		Cache:        listingCache,
		Uploader:     uploader,
		Dispatcher:   events.NewInMemoryDispatcher(logger),
		Forwarder:    forwarder,
		Metrics:      observability.NewMetrics(),
		HealthChecks: checks,
	})

	go func() {
		if err := server.App.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := server.App.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
