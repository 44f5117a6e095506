package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/iho/fincontrol/internal/adapter/http/handler"
	"github.com/iho/fincontrol/internal/adapter/http/middleware"
	"github.com/iho/fincontrol/internal/infrastructure/metrics"
	"github.com/iho/fincontrol/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler        *handler.AuthHandler
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	CategoryHandler    *handler.CategoryHandler
	GoalHandler        *handler.GoalHandler
	BudgetHandler      *handler.BudgetHandler
	DashboardHandler   *handler.DashboardHandler
	HealthHandler      *handler.HealthHandler

	TokenVerifier middleware.TokenVerifier
	Logger        zerolog.Logger

	// Optional
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	RateLimiter        *middleware.RateLimiter
	Metrics            *metrics.Metrics
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyKeyHeader},
			ExposedHeaders: []string{middleware.IdempotencyReplayHeader},
			MaxAge:         300,
		}))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", cfg.AuthHandler.Register)
		r.Post("/auth/login", cfg.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.TokenVerifier))

			// Idempotency runs after auth so keys are scoped per owner
			if cfg.IdempotencyStore != nil {
				idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
				r.Use(idempotency.Wrap)
			}

			r.Get("/auth/me", cfg.AuthHandler.Me)

			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", cfg.AccountHandler.List)
				r.Post("/", cfg.AccountHandler.Create)
				r.Get("/{id}", cfg.AccountHandler.Get)
				r.Put("/{id}", cfg.AccountHandler.Update)
				r.Delete("/{id}", cfg.AccountHandler.Delete)
				r.Patch("/{id}/primary", cfg.AccountHandler.SetPrimary)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Get("/", cfg.TransactionHandler.List)
				r.Post("/", cfg.TransactionHandler.Create)
				r.Get("/{id}", cfg.TransactionHandler.Get)
				r.Put("/{id}", cfg.TransactionHandler.Update)
				r.Delete("/{id}", cfg.TransactionHandler.Delete)
				r.Post("/{id}/duplicate", cfg.TransactionHandler.Duplicate)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", cfg.CategoryHandler.List)
				r.Post("/", cfg.CategoryHandler.Create)
				r.Get("/{id}", cfg.CategoryHandler.Get)
				r.Put("/{id}", cfg.CategoryHandler.Update)
				r.Delete("/{id}", cfg.CategoryHandler.Delete)
			})

			r.Route("/goals", func(r chi.Router) {
				r.Get("/", cfg.GoalHandler.List)
				r.Post("/", cfg.GoalHandler.Create)
				r.Get("/{id}", cfg.GoalHandler.Get)
				r.Put("/{id}", cfg.GoalHandler.Update)
				r.Delete("/{id}", cfg.GoalHandler.Delete)
				r.Post("/{id}/contribute", cfg.GoalHandler.Contribute)
			})

			r.Route("/budgets", func(r chi.Router) {
				r.Get("/", cfg.BudgetHandler.List)
				r.Post("/", cfg.BudgetHandler.Set)
				r.Delete("/{id}", cfg.BudgetHandler.Delete)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/balance", cfg.DashboardHandler.Balance)
				r.Get("/summary", cfg.DashboardHandler.Summary)
				r.Get("/expenses-by-category", cfg.DashboardHandler.ExpensesByCategory)
				r.Get("/balance-evolution", cfg.DashboardHandler.BalanceEvolution)
				r.Get("/recent-transactions", cfg.DashboardHandler.RecentTransactions)
				r.Get("/indicators", cfg.DashboardHandler.Indicators)
			})
		})
	})

	return r
}
