package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/bookkeeper/internal/adapter/http"
	"github.com/iho/bookkeeper/internal/adapter/http/handler"
	"github.com/iho/bookkeeper/internal/adapter/http/middleware"
	"github.com/iho/bookkeeper/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/bookkeeper/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bookkeeper/internal/adapter/repository/redis"
	"github.com/iho/bookkeeper/internal/infrastructure/config"
	"github.com/iho/bookkeeper/internal/infrastructure/metrics"
	"github.com/iho/bookkeeper/internal/infrastructure/postgres"
	"github.com/iho/bookkeeper/internal/infrastructure/redis"
	"github.com/iho/bookkeeper/internal/usecase"
)

// rateLimiterCleanupInterval bounds the per-IP limiter map.
const rateLimiterCleanupInterval = time.Hour

// entryStore is the injected Entry Store handle and its companions.
type entryStore struct {
	txManager usecase.TransactionManager
	subjects  usecase.SubjectRepository
	entries   usecase.EntryRepository
	retrier   usecase.Retrier
	checks    []handler.Check
	close     func()
}

// app is the wired HTTP server with everything it owns.
type app struct {
	server      *http.Server
	rateLimiter *middleware.RateLimiter
	logger      zerolog.Logger
	shutdown    time.Duration
	closers     []func()
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger, registry *prometheus.Registry) (*app, error) {
	a := &app{logger: logger, shutdown: cfg.HTTPShutdownTimeout}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.close)

	var (
		cache       usecase.Cache
		idempotency usecase.IdempotencyStore
		checks      = store.checks
	)

	redisClient, err := openRedis(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	if redisClient != nil {
		a.closers = append(a.closers, func() { redisClient.Close() })
		cache = redisRepo.NewCache(redisClient)
		idempotency = redisRepo.NewIdempotencyStore(redisClient)
		checks = append(checks, handler.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
		logger.Info().Msg("connected to redis")
	}

	m := metrics.NewWithRegisterer(registry)
	currency := cfg.Currency()
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize use cases
	subjectUC := usecase.NewSubjectUseCase(store.txManager, store.subjects, store.entries, idGen, store.retrier, cache, m, currency)
	entryUC := usecase.NewEntryUseCase(store.txManager, store.entries, store.subjects, idGen, store.retrier, cache, m, currency)
	reportUC := usecase.NewReportUseCase(store.subjects, store.entries, cache, m, cfg.CacheTTL, cfg.LowStockThreshold)
	reconcileUC := usecase.NewReconciliationUseCase(store.subjects, store.entries, m)

	routerCfg := httpAdapter.RouterConfig{
		SubjectHandler: handler.NewSubjectHandler(subjectUC, currency),
		EntryHandler:   handler.NewEntryHandler(entryUC, currency),
		ReportHandler:  handler.NewReportHandler(reportUC, reconcileUC, currency),
		HealthHandler:  handler.NewHealthHandler(checks...),
		Logger:         logger,
		RequestMetrics: middleware.Metrics(m.HTTPRequests, m.HTTPDuration),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}

	if idempotency != nil {
		routerCfg.Idempotency = middleware.NewIdempotencyMiddleware(idempotency, cfg.IdempotencyTTL, m.IdempotentReplays.Inc)
	}

	if cfg.RateLimitRPS > 0 {
		a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).
			OnLimited(func(ip string) { m.RateLimitHits.WithLabelValues(ip).Inc() })
		routerCfg.RateLimiter = a.rateLimiter
	}

	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return a, nil
}

// openStore builds the configured Entry Store.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*entryStore, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		if err := postgres.RunMigrations(ctx, cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return nil, err
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, err
		}
		logger.Info().Msg("connected to postgres")

		return &entryStore{
			txManager: postgresRepo.NewTxManager(pool),
			subjects:  postgresRepo.NewSubjectRepository(pool),
			entries:   postgresRepo.NewEntryRepository(pool),
			retrier:   postgresRepo.NewRetrier(),
			checks:    []handler.Check{{Name: "postgres", Ping: pool.Ping}},
			close:     pool.Close,
		}, nil

	default:
		store := memory.NewStore()
		if cfg.SnapshotPath != "" {
			var err error
			if store, err = memory.Open(cfg.SnapshotPath); err != nil {
				return nil, err
			}
			logger.Info().Str("path", cfg.SnapshotPath).Msg("opened ledger snapshot")
		}

		return &entryStore{
			txManager: memory.NewTxManager(store),
			subjects:  memory.NewSubjectRepository(store),
			entries:   memory.NewEntryRepository(store),
			retrier:   usecase.NoRetry{},
			close:     func() {},
		}, nil
	}
}

// openRedis connects to redis, or returns nil when it is not configured.
func openRedis(ctx context.Context, cfg *config.Config) (*goredis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	return redis.NewClient(ctx, cfg.RedisURL)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (a *app) Run(ctx context.Context) error {
	if a.rateLimiter != nil {
		a.rateLimiter.StartCleanup(ctx, rateLimiterCleanupInterval)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", a.server.Addr).Msg("starting server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdown)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

// Close releases the store and redis connections.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
