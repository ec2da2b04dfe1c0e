package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"alumni/internal/alumni"
	"alumni/internal/cloudinary"
	"alumni/internal/config"
	"alumni/internal/logging"
	"alumni/internal/metrics"
	"alumni/internal/offload"
	"alumni/internal/queue"
	"alumni/internal/store"
)

// Worker consumes alumni.created events and moves inline pictures to Cloudinary.
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("worker failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.App, logger *zap.Logger) error {
	if !cfg.CloudinaryEnabled() {
		return errors.New("cloudinary not configured (CLOUDINARY_CLOUD_NAME / API_KEY / API_SECRET not set)")
	}
	if cfg.QueueBackend == "memory" || cfg.StoreBackend == "memory" {
		return errors.New("worker needs the redis queue and the postgres store; in-memory backends are drained by the api")
	}

	db, err := store.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db connect failed: %w", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()

	var cache alumni.Cache
	if cfg.ListCache {
		cache = alumni.NewRedisCache(redisClient.Client, cfg.ListCacheTTL)
	}
	svc := alumni.NewService(alumni.NewRepository(db.Client), cache, nil, logger.Named("alumni"))
	cdn := cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
	logger.Info("cloudinary configured", zap.String("cloud", cfg.CloudinaryCloudName), zap.String("folder", cfg.CloudinaryFolder))

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	srv := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics listener failed", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	q := queue.NewRedisQueue(redisClient.Client, queue.DefaultKey)
	return offload.New(svc, cdn, m, logger.Named("offload")).Run(ctx, q)
}
