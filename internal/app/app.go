// Package app wires repositories, use cases and HTTP handlers into a
// runnable service.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/fincontrol/internal/adapter/http"
	"github.com/iho/fincontrol/internal/adapter/http/handler"
	"github.com/iho/fincontrol/internal/adapter/http/middleware"
	"github.com/iho/fincontrol/internal/adapter/repository/memory"
	redisRepo "github.com/iho/fincontrol/internal/adapter/repository/redis"
	"github.com/iho/fincontrol/internal/infrastructure/auth"
	"github.com/iho/fincontrol/internal/infrastructure/config"
	"github.com/iho/fincontrol/internal/infrastructure/metrics"
	"github.com/iho/fincontrol/internal/usecase"
)

// Options are the external dependencies of the service.
type Options struct {
	Config *config.Config
	Logger zerolog.Logger
	// Registry receives the service metrics. A fresh one is created when nil.
	Registry *prometheus.Registry
	// Redis enables idempotency keys and the readiness check. May be nil.
	Redis *goredis.Client
}

// App is the wired service.
type App struct {
	Handler     http.Handler
	RateLimiter *middleware.RateLimiter
	Metrics     *metrics.Metrics
	JWT         *auth.JWTManager
}

// New builds the service over the in-memory stores and seeds the system
// categories when configured to.
func New(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	logger := opts.Logger

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := metrics.NewWithRegistry(registry)

	// Repositories
	accountRepo := memory.NewAccountRepository()
	txRepo := memory.NewTransactionRepository()
	categoryRepo := memory.NewCategoryRepository()
	goalRepo := memory.NewGoalRepository()
	budgetRepo := memory.NewBudgetRepository()
	userRepo := memory.NewUserRepository()
	locker := memory.NewOwnerLock()
	idGen := memory.NewUUIDGenerator()

	// Use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, txRepo, locker, idGen, m)
	transactionUC := usecase.NewTransactionUseCase(txRepo, accountRepo, categoryRepo, locker, idGen, m)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, txRepo, idGen)
	goalUC := usecase.NewGoalUseCase(goalRepo, idGen)
	budgetUC := usecase.NewBudgetUseCase(budgetRepo, categoryRepo, txRepo, idGen)
	userUC := usecase.NewUserUseCase(userRepo, idGen)
	analyticsUC := usecase.NewAnalyticsUseCase(txRepo, accountRepo, logger.With().Str("component", "analytics").Logger(), m)
	dashboardUC := usecase.NewDashboardUseCase(txRepo, accountRepo, categoryRepo, analyticsUC,
		logger.With().Str("component", "dashboard").Logger(), m)

	if cfg.SeedSystemCategories {
		created, err := categoryUC.SeedSystemCategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("seed system categories: %w", err)
		}
		logger.Info().Int("created", created).Msg("system categories seeded")
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	checks := map[string]handler.Pinger{}
	var idempotencyStore usecase.IdempotencyStore
	if opts.Redis != nil {
		client := opts.Redis
		idempotencyStore = redisRepo.NewIdempotencyStore(client, m)
		checks["redis"] = handler.PingerFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:        handler.NewAuthHandler(userUC, jwtManager, m),
		AccountHandler:     handler.NewAccountHandler(accountUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		CategoryHandler:    handler.NewCategoryHandler(categoryUC),
		GoalHandler:        handler.NewGoalHandler(goalUC),
		BudgetHandler:      handler.NewBudgetHandler(budgetUC),
		DashboardHandler:   handler.NewDashboardHandler(dashboardUC),
		HealthHandler:      handler.NewHealthHandler(checks),
		TokenVerifier:      jwtManager,
		Logger:             logger,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        rateLimiter,
		Metrics:            m,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	return &App{
		Handler:     router,
		RateLimiter: rateLimiter,
		Metrics:     m,
		JWT:         jwtManager,
	}, nil
}
