package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/utafrali/storefront/internal/assistant"
	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/event"
	handler "github.com/utafrali/storefront/internal/handler/http"
	"github.com/utafrali/storefront/internal/repository"
	"github.com/utafrali/storefront/internal/repository/memory"
	redisrepo "github.com/utafrali/storefront/internal/repository/redis"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/database"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/httpclient"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/middleware"
	"github.com/utafrali/storefront/pkg/tracing"
)

const serviceName = "storefront"

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	carts          *service.CartService
	checkouts      *service.CheckoutService
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	a := &App{cfg: cfg, logger: logger, tracerShutdown: tracerShutdown}
	healthHandler := health.NewHandler()

	// Session storage.
	var storage repository.Storage
	switch cfg.StorageBackend {
	case config.StorageRedis:
		rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)
		database.RegisterPoolMetrics(rdb, serviceName)
		if cfg.SlowCommandThresholdMs > 0 {
			database.SetSlowCommandLogging(time.Duration(cfg.SlowCommandThresholdMs)*time.Millisecond, logger)
		}

		redisStorage := redisrepo.NewStorage(rdb, time.Duration(cfg.CartTTL)*time.Hour)
		healthHandler.RegisterCritical("redis", redisStorage.Ping)
		storage = redisStorage
		a.rdb = rdb
	default:
		logger.Warn("using in-memory session storage; carts are lost on restart")
		storage = memory.NewStorage()
	}

	// Event publishing.
	var publisher event.Publisher = event.Noop{}
	if cfg.EventsEnabled() {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = event.NewProducer(a.producer, logger)
		healthHandler.RegisterNonCritical("kafka", a.producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("no kafka brokers configured; events disabled")
	}

	// Build the dependency graph.
	store := catalog.Default()
	a.carts = service.NewCartService(storage, store, publisher, logger)
	a.checkouts = service.NewCheckoutService(a.carts, publisher, logger,
		time.Duration(cfg.CheckoutSettleDelayMs)*time.Millisecond)

	ai := newAssistant(cfg, store, healthHandler, logger)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxyCIDRs)
	if err != nil {
		return nil, fmt.Errorf("parse trusted proxies: %w", err)
	}
	assistantLimit := middleware.RateLimitConfig{
		RPS:            cfg.AssistantRateRPS,
		Burst:          cfg.AssistantRateBurst,
		TrustedProxies: trustedProxies,
	}

	router := handler.NewRouter(handler.Deps{
		Catalog:        store,
		Carts:          a.carts,
		Checkouts:      a.checkouts,
		Assistant:      ai,
		Health:         healthHandler,
		CORS:           corsCfg,
		PprofCIDRs:     cfg.PprofAllowedCIDRs,
		AssistantLimit: assistantLimit,
		Logger:         logger,
	})

	// Image generation can outlast the default write budget.
	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// newAssistant returns the OpenAI assistant behind a circuit breaker, or a
// disabled assistant when no API key is configured.
func newAssistant(cfg *config.Config, store *catalog.Store, h *health.Handler, logger *slog.Logger) assistant.Assistant {
	if !cfg.AssistantEnabled() {
		logger.Warn("OPENAI_API_KEY not set; assistant endpoints will return 503")
		return assistant.Disabled{}
	}

	cb := httpclient.NewCircuitBreakerClient(httpclient.New(httpclient.DefaultConfig()), httpclient.CircuitBreakerConfig{
		Name:         "assistant",
		MaxRequests:  cfg.CBMaxRequests,
		Interval:     time.Duration(cfg.CBInterval) * time.Second,
		Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
		FailureRatio: cfg.CBFailureRatio,
		MinRequests:  cfg.CBMinRequests,
	}, logger)

	h.RegisterNonCritical("assistant", func(context.Context) error {
		if cb.State() == gobreaker.StateOpen {
			return errors.New("circuit breaker open")
		}
		return nil
	})

	return assistant.NewOpenAI(assistant.Config{
		APIKey:     cfg.OpenAIAPIKey,
		Model:      cfg.OpenAIModel,
		ImageModel: cfg.OpenAIImageModel,
		BaseURL:    cfg.OpenAIBaseURL,
	}, cb.Doer(), store, logger)
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	go a.evictIdleCarts(ctx, time.Duration(a.cfg.CartIdleMinutes)*time.Minute)

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// evictIdleCarts periodically drops in-memory carts idle for longer than
// maxIdle until ctx is done.
func (a *App) evictIdleCarts(ctx context.Context, maxIdle time.Duration) {
	ticker := time.NewTicker(maxIdle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.carts.EvictIdle(maxIdle); n > 0 {
				a.logger.Debug("evicted idle carts", slog.Int("count", n))
			}
		}
	}
}

// Shutdown gracefully stops all components in order: HTTP server, pending
// checkouts, tracer, Kafka producer, Redis client.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// Drain in-flight HTTP requests (5s budget).
	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// Cancel pending settlements so no cart is cleared after this point.
	a.checkouts.Shutdown(httpCtx)

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
