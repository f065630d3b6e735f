package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/realtora/EstateHub/internal/auth"
	"github.com/realtora/EstateHub/internal/cache"
	"github.com/realtora/EstateHub/internal/config"
	"github.com/realtora/EstateHub/internal/event"
	handler "github.com/realtora/EstateHub/internal/handler/http"
	"github.com/realtora/EstateHub/internal/provider"
	providermock "github.com/realtora/EstateHub/internal/provider/mock"
	"github.com/realtora/EstateHub/internal/provider/stripe"
	"github.com/realtora/EstateHub/internal/repository/postgres"
	"github.com/realtora/EstateHub/internal/service"
	"github.com/realtora/EstateHub/migrations"
	"github.com/realtora/EstateHub/pkg/database"
	"github.com/realtora/EstateHub/pkg/health"
	"github.com/realtora/EstateHub/pkg/httpclient"
	pkgkafka "github.com/realtora/EstateHub/pkg/kafka"
	"github.com/realtora/EstateHub/pkg/middleware"
	"github.com/realtora/EstateHub/pkg/tracing"
)

// App wires together all dependencies and runs the EstateHub API.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redisClient    *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "estatehub",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, "estatehub")

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Configure slow query logging.
	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
	}

	// Redis backs the advertised-listing cache. An empty host disables it;
	// the cache layer degrades to pass-through.
	var redisClient *redis.Client
	if cfg.RedisHost != "" {
		redisCfg := database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		}
		redisClient, err = database.NewRedisClient(ctx, redisCfg)
		if err != nil {
			logger.Warn("redis unavailable, advertised cache disabled",
				slog.String("error", err.Error()),
			)
			redisClient = nil
		} else {
			logger.Info("connected to Redis", slog.String("host", cfg.RedisHost))
		}
	}

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Identity provider token verifier. Left nil when no secret is
	// configured; auth-gated routes then answer 503.
	var verifier auth.Verifier
	if cfg.AuthSecret != "" {
		verifier = auth.NewJWTVerifier(cfg.AuthSecret)
	} else {
		logger.Warn("AUTH_TOKEN_SECRET not set, authenticated routes disabled")
	}

	paymentProvider := newPaymentProvider(cfg, logger)

	// Build the dependency graph.
	userRepo := postgres.NewUserRepository(pool)
	propertyRepo := postgres.NewPropertyRepository(pool)
	offerRepo := postgres.NewOfferRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)

	eventProducer := event.NewProducer(producer, logger)
	propertyCache := cache.NewPropertyCache(redisClient, logger)

	identityService := service.NewIdentityService(userRepo, eventProducer, logger)
	propertyService := service.NewPropertyService(propertyRepo, propertyCache, logger)
	offerService := service.NewOfferService(offerRepo, propertyRepo, userRepo, propertyCache, eventProducer, logger)
	paymentService := service.NewPaymentService(offerService, paymentProvider, cfg.Currency, logger)
	reviewService := service.NewReviewService(reviewRepo, propertyRepo, eventProducer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	// HTTP router.
	router := handler.NewRouter(handler.RouterDeps{
		Config:     cfg,
		Logger:     logger,
		Health:     healthHandler,
		Resolver:   newPrincipalResolver(verifier, identityService),
		Auth:       handler.NewAuthHandler(verifier, identityService, logger),
		Properties: handler.NewPropertyHandler(propertyService, logger),
		Offers:     handler.NewOfferHandler(offerService, logger),
		Payments:   handler.NewPaymentHandler(paymentService, logger),
		Reviews:    handler.NewReviewHandler(reviewService, logger),
		Users:      handler.NewUserHandler(identityService, logger),
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redisClient:    redisClient,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// newPaymentProvider selects the configured payment backend. A nil return
// leaves payment endpoints answering 503.
func newPaymentProvider(cfg *config.Config, logger *slog.Logger) provider.Provider {
	switch cfg.PaymentProvider {
	case "mock":
		logger.Warn("using mock payment provider")
		return providermock.NewProvider()
	case "stripe":
		if cfg.StripeSecretKey == "" {
			logger.Warn("STRIPE_SECRET_KEY not set, payment endpoints disabled")
			return nil
		}
		client := httpclient.New(httpclient.DefaultConfig())
		cb := httpclient.NewCircuitBreakerClient(client, httpclient.DefaultCircuitBreakerConfig("stripe"), logger)
		return stripe.NewProvider(cb, cfg.StripeAPIBase, cfg.StripeSecretKey, logger)
	}
	return nil
}

// newPrincipalResolver composes token verification with account resolution.
// Every authenticated request passes through here, so suspended accounts are
// cut off on their next call, not just at login.
func newPrincipalResolver(verifier auth.Verifier, identity *service.IdentityService) middleware.PrincipalResolver {
	if verifier == nil {
		return nil
	}
	return func(ctx context.Context, token string) (*middleware.Principal, error) {
		id, err := verifier.Verify(ctx, token)
		if err != nil {
			return nil, err
		}
		user, err := identity.ResolveOrProvision(ctx, id)
		if err != nil {
			return nil, err
		}
		return &middleware.Principal{
			UID:   user.UID,
			Email: user.Email,
			Name:  user.DisplayName,
			Role:  user.Role,
		}, nil
	}
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
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka producer
// 4. Redis client
// 5. PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
