package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hrcontracts/internal/domain/audit"
	"hrcontracts/internal/domain/auth"
	"hrcontracts/internal/domain/contracts"
	"hrcontracts/internal/domain/novedades"
	"hrcontracts/internal/domain/onboarding"
	"hrcontracts/internal/domain/periods"
	"hrcontracts/internal/domain/users"
	"hrcontracts/internal/format"
	"hrcontracts/internal/platform/cache"
	"hrcontracts/internal/platform/config"
	"hrcontracts/internal/platform/db"
	"hrcontracts/internal/platform/email"
	"hrcontracts/internal/platform/events"
	"hrcontracts/internal/platform/jobs"
	"hrcontracts/internal/platform/metrics"
	"hrcontracts/internal/transport/http/api"
	audithandler "hrcontracts/internal/transport/http/handlers/audit"
	authhandler "hrcontracts/internal/transport/http/handlers/auth"
	contractshandler "hrcontracts/internal/transport/http/handlers/contracts"
	novedadeshandler "hrcontracts/internal/transport/http/handlers/novedades"
	onboardinghandler "hrcontracts/internal/transport/http/handlers/onboarding"
	periodshandler "hrcontracts/internal/transport/http/handlers/periods"
	usershandler "hrcontracts/internal/transport/http/handlers/users"
	"hrcontracts/internal/transport/http/middleware"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	Config config.Config
	Logger *zap.Logger
	DB     *pgxpool.Pool
	Router http.Handler
	Jobs   *jobs.Service

	bus     *events.Bus
	closers []func() error
}

// New connects to the backing services and wires every handler. The caller owns Close.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	api.Logger = logger

	if cfg.RunMigrations {
		version, err := db.Migrate(cfg.DatabaseURL, "up")
		if err != nil {
			return nil, err
		}
		logger.Info("migrations applied", zap.String("state", version))
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: logger, DB: pool}
	app.closers = append(app.closers, func() error { pool.Close(); return nil })

	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			app.Close()
			return nil, err
		}
	}

	collector := metrics.New()
	authorizer, err := auth.NewAuthorizer()
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("server: authorizer: %w", err)
	}

	app.bus = events.NewBus(logger, collector, 256, app.sinks(logger)...)
	formatter := format.New(cfg.Location())
	auditSvc := audit.New(pool)

	contractStore := contracts.NewStore(pool)
	contractSvc := contracts.NewService(contractStore, auditSvc, app.bus, formatter)
	novedadSvc := novedades.NewService(novedades.NewStore(pool), contractStore, auditSvc, app.bus, collector, formatter)
	periodSvc := periods.NewService(periods.NewStore(pool), contractStore, auditSvc, app.bus, cfg.Rules, formatter)
	onboardingSvc := onboarding.NewService(contractStore, auditSvc, app.bus, formatter)
	usersCache := cache.NewTTL(app.cacheBackend(), users.CacheKey, cfg.UsersCacheTTL, cache.WithMetrics[[]users.Profile](collector))
	userSvc := users.NewService(users.NewStore(pool), usersCache, auditSvc, app.bus)
	authSvc := auth.NewService(auth.NewStore(pool), cfg.JWTSecret)
	idempotency := middleware.NewIdempotencyStore(pool)

	app.Jobs = jobs.New(pool, contractSvc, app.bus, collector, logger, cfg.ExpiryScanInterval, cfg.ExpiryWarningDays)

	app.Router = routes{
		cfg:        cfg,
		logger:     logger,
		metrics:    collector,
		ready:      pool.Ping,
		auth:       authhandler.NewHandler(authSvc),
		contracts:  contractshandler.NewHandler(contractSvc, authorizer),
		novedades:  novedadeshandler.NewHandler(novedadSvc, authorizer, idempotency),
		periods:    periodshandler.NewHandler(periodSvc, authorizer, idempotency),
		onboarding: onboardinghandler.NewHandler(onboardingSvc, authorizer),
		users:      usershandler.NewHandler(userSvc, authorizer, cfg.JWTSecret),
		audit:      audithandler.NewHandler(auditSvc, authorizer),
	}.handler()
	return app, nil
}

func (a *App) sinks(logger *zap.Logger) []events.Sink {
	sinks := []events.Sink{events.NewLogSink(logger)}
	if len(a.Config.KafkaBrokers) > 0 {
		kafkaSink := events.NewKafkaSink(events.NewKafkaWriter(a.Config.KafkaBrokers), a.Config.KafkaTopic)
		a.closers = append(a.closers, kafkaSink.Close)
		sinks = append(sinks, kafkaSink)
	}
	if a.Config.EmailEnabled && a.Config.HRNotifyEmail != "" {
		sinks = append(sinks, events.NewEmailSink(email.New(a.Config), a.Config.HRNotifyEmail))
	}
	return sinks
}

// cacheBackend shares the users list through redis when configured, else per process.
func (a *App) cacheBackend() cache.Backend {
	if a.Config.RedisAddr == "" {
		return cache.NewMemoryBackend()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     a.Config.RedisAddr,
		Password: a.Config.RedisPassword,
		DB:       a.Config.RedisDB,
	})
	a.closers = append(a.closers, client.Close)
	return cache.NewRedisBackend(client)
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests and queued events.
func (a *App) Run(ctx context.Context) error {
	a.bus.Start(context.WithoutCancel(ctx))
	a.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          zap.NewStdLog(a.Logger),
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("hr contracts server listening", zap.String("addr", a.Config.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return <-errCh
}

// Close flushes the event bus and releases connections in reverse order of creation.
func (a *App) Close() {
	if a.bus != nil {
		a.bus.Start(context.Background())
		a.bus.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Logger.Warn("close failed", zap.Error(err))
		}
	}
	a.closers = nil
}

type routes struct {
	cfg     config.Config
	logger  *zap.Logger
	metrics *metrics.Collector
	ready   func(context.Context) error

	auth       *authhandler.Handler
	contracts  *contractshandler.Handler
	novedades  *novedadeshandler.Handler
	periods    *periodshandler.Handler
	onboarding *onboardinghandler.Handler
	users      *usershandler.Handler
	audit      *audithandler.Handler
}

func (rt routes) handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.SecureHeaders(rt.cfg.IsProduction()))
	router.Use(middleware.BodyLimit(rt.cfg.MaxBodyBytes))
	router.Use(middleware.Auth(rt.cfg.JWTSecret))
	router.Use(middleware.Logger(rt.logger, rt.metrics))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SensitiveMutationRateLimit(rt.cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := rt.ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if rt.cfg.MetricsEnabled {
		router.Handle("/metrics", metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		rt.auth.RegisterRoutes(r)
		rt.contracts.RegisterRoutes(r)
		rt.novedades.RegisterRoutes(r)
		rt.periods.RegisterRoutes(r)
		rt.onboarding.RegisterRoutes(r)
		rt.users.RegisterRoutes(r)
		rt.audit.RegisterRoutes(r)
	})

	router.Route("/api", func(r chi.Router) {
		rt.users.RegisterLegacyRoutes(r)
	})

	return router
}
