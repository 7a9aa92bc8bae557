// Package main is the entry point for the collection-filter-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"collection-filter-service/internal/app/service"
	"collection-filter-service/internal/config"
	"collection-filter-service/internal/domain"
	"collection-filter-service/internal/infra/postgres"
	"collection-filter-service/internal/infra/postgres/migrations"
	rediscache "collection-filter-service/internal/infra/redis"
	"collection-filter-service/internal/infra/site"
	"collection-filter-service/internal/infra/source/registry"
	"collection-filter-service/internal/job"
	"collection-filter-service/internal/logger"
	"collection-filter-service/internal/transport/httpserver"
	"collection-filter-service/internal/validator"
	"collection-filter-service/pkg/locker"
)

const (
	bodyLimit       = 1024 * 1024 // 1MB
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load(os.Getenv("APP_CONFIG"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(cfg.Logger, cfg.Sentry)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting collection-filter-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
		zap.String("site", cfg.Site.BaseURL),
	)

	ctx := context.Background()

	db, err := postgres.NewConnection(ctx, cfg.Database, cfg.App.Debug, log.Logger)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = postgres.Close(db) }()

	if err := migrations.Run(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("database migrations completed")

	repo := postgres.NewRepository(db)

	redisClient, err := rediscache.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr()))

	var pageCache domain.Cache
	if cfg.Cache.Enabled {
		pageCache = rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
		log.Info("page cache enabled",
			zap.Duration("page_ttl", cfg.Cache.PageTTL),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
	} else {
		log.Info("page cache disabled")
	}

	siteClient := site.New(registry.ClientConfig(cfg.Site), pageCache, cfg.Cache.PageTTL, log.Logger)
	sources := registry.NewSources(cfg.Site, cfg.Sources, log.Logger)

	filterSvc := service.NewFilterService(repo, siteClient, cfg.Site.FetchConcurrency, log.Logger)
	syncSvc := service.NewIndexSyncService(repo, sources, log.Logger)

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:         cfg.App.Port,
			BodyLimit:    bodyLimit,
			Debug:        cfg.App.Debug,
			AllowOrigins: cfg.App.AllowOrigins,
		},
		filterSvc,
		syncSvc,
		validator.New(),
		log.Logger,
		func(ctx context.Context) error { return postgres.HealthCheck(ctx, db) },
		func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
	)

	scheduler := job.NewIndexSyncScheduler(
		syncSvc,
		job.IndexSyncConfig{
			Interval:  cfg.Sync.Interval,
			Timeout:   cfg.Sync.Timeout,
			OnStartup: cfg.Sync.OnStartup,
		},
		locker.NewRedsync(redisClient, log.Logger),
		log.Logger,
	)
	scheduler.Start(ctx)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		scheduler.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.App.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
