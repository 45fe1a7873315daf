package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/storefront-cart/internal/cron"
	product "github.com/angelmondragon/storefront-cart/internal/products"
	"github.com/angelmondragon/storefront-cart/internal/storage"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/db"
	"github.com/angelmondragon/storefront-cart/pkg/instance"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
	"github.com/angelmondragon/storefront-cart/pkg/migrate"
	"github.com/angelmondragon/storefront-cart/pkg/redis"
)

const lockKeyFormat = "%s:cron-worker:lock:%s"

func main() {
	once := flag.Bool("once", false, "run every job a single time and exit")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Instance:    instance.GetID(),
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	lock, closeLock, err := buildLock(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to create cron lock", err)
		os.Exit(1)
	}
	defer closeLock()

	registry := cron.NewRegistry()
	if cfg.Storage.Driver == config.StorageDriverDB {
		job, err := cron.NewStorageRetentionJob(cron.StorageRetentionJobParams{
			Logger:    logg,
			Store:     storage.NewDBBackend(dbClient.DB()),
			Namespace: cfg.Storage.Namespace,
			Retention: cfg.Cron.StorageRetention,
		})
		if err != nil {
			logg.Error(ctx, "failed to create storage retention job", err)
			os.Exit(1)
		}
		registry.Register(job)
	}
	auditJob, err := cron.NewCatalogAuditJob(cron.CatalogAuditJobParams{
		Logger:   logg,
		Products: product.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(ctx, "failed to create catalog audit job", err)
		os.Exit(1)
	}
	registry.Register(auditJob)

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cron service", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"jobs": registry.Names(),
	})

	if *once {
		logg.Info(ctx, "running cron jobs once")
		if err := service.RunOnce(ctx); err != nil {
			logg.Error(ctx, "cron run failed", err)
			os.Exit(1)
		}
		return
	}

	logg.Info(ctx, "starting cron worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}

// buildLock prefers a redis lock so several workers can be deployed; without
// redis the worker must run as a single instance.
func buildLock(ctx context.Context, cfg *config.Config, logg *logger.Logger) (cron.Lock, func(), error) {
	if cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		logg.Warn(ctx, "redis not configured; using in-process cron lock")
		return &cron.LocalLock{}, func() {}, nil
	}
	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return nil, nil, err
	}
	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.Storage.Namespace, cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		_ = redisClient.Close()
		return nil, nil, err
	}
	closeFn := func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}
	return lock, closeFn, nil
}

func lockKey(namespace, env string) string {
	if namespace == "" {
		namespace = "sf"
	}
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, namespace, env)
}
