package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/ArnoldEsquivel/palindrome-web/pkg/database"
	"github.com/ArnoldEsquivel/palindrome-web/pkg/health"
	pkgkafka "github.com/ArnoldEsquivel/palindrome-web/pkg/kafka"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/cache"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/config"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/engine"
	esengine "github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/engine/elasticsearch"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/engine/memory"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/event"
	handler "github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/handler/http"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/repository"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/repository/postgres"
	"github.com/ArnoldEsquivel/palindrome-web/services/catalog/internal/service"
)

// App wires together all dependencies and runs the catalog service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server

	pool     *pgxpool.Pool
	redis    *goredis.Client
	producer *pkgkafka.Producer
}

// NewApp creates a new application instance, initializing all dependencies.
// ctx bounds startup work and the lifetime of background helpers.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}
	healthHandler := health.NewHandler()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	repo, err := a.initRepository(ctx, healthHandler, registry)
	if err != nil {
		a.closeResources()
		return nil, err
	}

	eng, err := a.initEngine(ctx, healthHandler)
	if err != nil {
		a.closeResources()
		return nil, err
	}

	searchCache, err := a.initCache(ctx, healthHandler)
	if err != nil {
		a.closeResources()
		return nil, err
	}

	events := a.initEvents(healthHandler)

	catalogService := service.NewCatalogService(eng, repo, searchCache, events, logger)
	if _, err := catalogService.Reindex(ctx); err != nil {
		a.closeResources()
		return nil, fmt.Errorf("initial index: %w", err)
	}

	router := handler.NewRouter(ctx, catalogService, healthHandler, handler.RouterOptions{
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Registry:       registry,
	}, logger)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// initRepository selects the product source: PostgreSQL when DATABASE_URL is
// set, otherwise the fixture catalog.
func (a *App) initRepository(ctx context.Context, h *health.Handler, reg prometheus.Registerer) (repository.ProductRepository, error) {
	if a.cfg.DatabaseURL == "" {
		a.logger.Info("no DATABASE_URL configured, serving fixture catalog")
		return repository.NewFixtureRepository(), nil
	}

	pool, err := database.NewPostgresPool(ctx, database.DefaultPostgresConfig(a.cfg.DatabaseURL), a.logger)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	a.pool = pool

	if err := database.RunMigrations(ctx, pool, postgres.Migrations(), a.logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	reg.MustRegister(database.NewPoolStatsCollector(pool, "catalog"))
	h.RegisterCritical("catalog-db", pool.Ping)

	a.logger.Info("postgres product repository initialized")
	return postgres.NewProductRepository(pool), nil
}

func (a *App) initEngine(ctx context.Context, h *health.Handler) (engine.SearchEngine, error) {
	if a.cfg.SearchEngine != config.EngineElasticsearch {
		a.logger.Info("in-memory search engine initialized")
		return memory.New(), nil
	}

	esEng, err := esengine.New(ctx, a.cfg.ElasticsearchURL, a.cfg.ElasticsearchIndex, a.logger)
	if err != nil {
		return nil, fmt.Errorf("init elasticsearch engine: %w", err)
	}
	h.RegisterCritical("elasticsearch", esEng.Ping)

	a.logger.Info("elasticsearch search engine initialized",
		slog.String("url", a.cfg.ElasticsearchURL),
		slog.String("index", a.cfg.ElasticsearchIndex),
	)
	return esEng, nil
}

func (a *App) initCache(ctx context.Context, h *health.Handler) (cache.SearchCache, error) {
	if a.cfg.RedisAddr == "" {
		return cache.Noop{}, nil
	}

	client, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}
	a.redis = client

	c := cache.NewRedisCache(client, a.cfg.CacheTTL)
	h.RegisterNonCritical("redis", c.Ping)

	a.logger.Info("redis search cache initialized",
		slog.String("addr", a.cfg.RedisAddr),
		slog.Duration("ttl", a.cfg.CacheTTL),
	)
	return c, nil
}

func (a *App) initEvents(h *health.Handler) event.Publisher {
	if len(a.cfg.KafkaBrokers) == 0 {
		return event.Noop{}
	}

	producerCfg := pkgkafka.DefaultProducerConfig(a.cfg.KafkaBrokers)
	producerCfg.Async = true
	a.producer = pkgkafka.NewProducer(producerCfg, a.logger)
	h.RegisterNonCritical("kafka", a.producer.Ping)

	a.logger.Info("kafka event producer initialized",
		slog.Any("brokers", a.cfg.KafkaBrokers),
	)
	return event.NewProducer(a.producer, a.logger)
}

// Handler returns the HTTP handler serving the catalog API.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server, blocking until the context is canceled or the
// server fails.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutdown signal received")
		return a.Shutdown()
	})

	return g.Wait()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.closeResources(); err != nil {
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

func (a *App) closeResources() error {
	var errs []error
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
		a.producer = nil
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
		a.redis = nil
	}
	if a.pool != nil {
		a.pool.Close()
		a.pool = nil
	}
	return errors.Join(errs...)
}
