package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"github.com/iliaxp/LiberaryApplication/internal/catalog"
	"github.com/iliaxp/LiberaryApplication/internal/config"
	"github.com/iliaxp/LiberaryApplication/internal/event"
	handler "github.com/iliaxp/LiberaryApplication/internal/handler/http"
	"github.com/iliaxp/LiberaryApplication/internal/repository"
	"github.com/iliaxp/LiberaryApplication/internal/repository/memory"
	redisrepo "github.com/iliaxp/LiberaryApplication/internal/repository/redis"
	"github.com/iliaxp/LiberaryApplication/internal/service"
	"github.com/iliaxp/LiberaryApplication/pkg/database"
	"github.com/iliaxp/LiberaryApplication/pkg/health"
	pkgkafka "github.com/iliaxp/LiberaryApplication/pkg/kafka"
	"github.com/iliaxp/LiberaryApplication/pkg/middleware"
	"github.com/iliaxp/LiberaryApplication/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	redisClient    *goredis.Client
	producer       *pkgkafka.Producer
	storefront     *service.Storefront
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	tcfg := tracing.DefaultConfig("storefront-service")
	tcfg.Environment = cfg.Environment
	tcfg.Enabled = cfg.OTelEnabled
	tcfg.OTLPEndpoint = cfg.OTelEndpoint
	tcfg.SampleRate = cfg.OTelSampleRate
	shutdown, err := tracing.InitTracer(ctx, tcfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = shutdown

	healthHandler := health.NewHandler()

	// Onboarding flag store.
	var repo repository.OnboardingRepository
	switch cfg.OnboardingStore {
	case config.StoreRedis:
		redisCfg := database.DefaultRedisConfig()
		redisCfg.Addr = cfg.RedisAddr
		redisCfg.Password = cfg.RedisPass
		redisCfg.DB = cfg.RedisDB

		client, err := database.NewRedisClient(ctx, redisCfg)
		if err != nil {
			a.closeTracer()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redisClient = client
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)

		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, client, "storefront"); err != nil {
			logger.Warn("redis pool metrics not registered", slog.String("error", err.Error()))
		}

		redisRepo := redisrepo.NewOnboardingRepository(client)
		healthHandler.Register("redis", redisRepo.Ping)
		repo = redisRepo
	default:
		logger.Warn("onboarding flags kept in memory; they are lost on restart")
		repo = memory.NewOnboardingRepository()
	}

	// Event publishing.
	var publisher event.Publisher = event.NopPublisher{}
	if cfg.EventsEnabled {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		healthHandler.RegisterOptional("kafka", a.producer.Ping)
		publisher = pkgkafka.NewBreakerPublisher(a.producer, pkgkafka.DefaultBreakerConfig("storefront-events"), logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("event publishing disabled")
	}

	// Build the dependency graph.
	eventProducer := event.NewProducer(publisher, logger)
	a.storefront = service.NewStorefront(catalog.SeedBooks(), repo, eventProducer, logger, service.Options{
		SplashDuration:   cfg.SplashDuration,
		CarouselInterval: cfg.CarouselInterval,
		SessionIdleTTL:   cfg.SessionIdleTTL,
	})

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = cfg.CORSAllowedOrigins

	limit := middleware.DefaultRateLimitConfig()
	limit.RPS = cfg.RateLimitRPS
	limit.Burst = cfg.RateLimitBurst

	router := handler.NewRouter(a.storefront, healthHandler, logger, cors, limit)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// Handler returns the HTTP handler served by the application.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
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

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Stops splash and carousel timers and the idle session janitor.
	a.storefront.Close()

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}

func (a *App) closeTracer() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = a.tracerShutdown(ctx)
}
