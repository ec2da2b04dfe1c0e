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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"alumni/internal/alumni"
	"alumni/internal/cloudinary"
	"alumni/internal/config"
	"alumni/internal/handler"
	"alumni/internal/httpmiddleware"
	"alumni/internal/logging"
	"alumni/internal/metrics"
	"alumni/internal/offload"
	"alumni/internal/queue"
	"alumni/internal/store"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runHTTP(ctx, cfg, logger); err != nil {
		logger.Fatal("http server failed", zap.Error(err))
	}
}

// deps are the backends the router reports on in /healthz.
type deps struct {
	db    *store.DB
	redis *store.Redis
}

func (d deps) health(ctx context.Context) (int, gin.H) {
	body := gin.H{"status": "ok"}
	status := http.StatusOK
	if d.db != nil {
		ok := d.db.Healthy(ctx)
		body["db"] = ok
		if !ok {
			status = http.StatusServiceUnavailable
		}
	}
	if d.redis != nil {
		ok := d.redis.Healthy(ctx)
		body["redis"] = ok
		if !ok {
			status = http.StatusServiceUnavailable
		}
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	return status, body
}

func runHTTP(ctx context.Context, cfg config.App, logger *zap.Logger) error {
	var d deps
	defer func() {
		_ = d.db.Close()
		_ = d.redis.Close()
	}()

	var records alumni.Store
	switch cfg.StoreBackend {
	case "memory":
		records = alumni.NewMemoryRepository()
		logger.Warn("using in-memory record store; data is lost on restart")
	default:
		db, err := store.NewDB(ctx, cfg.DatabaseURL)
		d.db = db
		if err != nil {
			return fmt.Errorf("db connect failed: %w", err)
		}
		repo := alumni.NewRepository(db.Client)
		if err := repo.Migrate(ctx); err != nil {
			return fmt.Errorf("db migrate failed: %w", err)
		}
		records = repo
	}

	if cfg.ListCache || cfg.QueueBackend != "memory" {
		d.redis = store.NewRedis(cfg.RedisAddr)
	}

	var cache alumni.Cache
	if cfg.ListCache {
		cache = alumni.NewRedisCache(d.redis.Client, cfg.ListCacheTTL)
	}

	// The in-memory queue has no consumer in another process, so the API
	// drains it itself when Cloudinary is configured and skips publishing otherwise.
	var (
		q      queue.Queue
		events queue.Publisher
	)
	if cfg.QueueBackend == "memory" {
		if cfg.CloudinaryEnabled() {
			q = queue.NewInMemory(64)
			events = q
		}
	} else {
		q = queue.NewRedisQueue(d.redis.Client, queue.DefaultKey)
		events = q
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	svc := alumni.NewService(records, cache, events, logger.Named("alumni"))

	if cfg.QueueBackend == "memory" && q != nil {
		cdn := cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		proc := offload.New(svc, cdn, m, logger.Named("offload"))
		go func() { _ = proc.Run(ctx, q) }()
	}

	r := newRouter(cfg, logger, svc, m, reg, d.health)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreBackend), zap.String("queue", cfg.QueueBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server forced shutdown", zap.Error(err))
	}
	logger.Info("server exited")
	return nil
}

func newRouter(cfg config.App, logger *zap.Logger, svc *alumni.Service, m *metrics.Metrics,
	gatherer prometheus.Gatherer, health func(context.Context) (int, gin.H)) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.GinLogger(logger, "/healthz", "/metrics"))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.ExposeHeaders = []string{"Content-Disposition"}
	corsCfg.MaxAge = 24 * time.Hour
	r.Use(cors.New(corsCfg))

	r.Use(httpmiddleware.SecurityHeaders())
	r.Use(httpmiddleware.NewRateLimiter(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())
	r.Use(httpmiddleware.BodyLimit(cfg.MaxBodyBytes))
	r.Use(m.GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(health(c.Request.Context()))
	})

	handler.New(svc, m, logger.Named("http")).Register(r)
	return r
}
