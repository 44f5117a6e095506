package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fincontrol/internal/adapter/http/handler"
	apimiddleware "github.com/iho/fincontrol/internal/adapter/http/middleware"
	"github.com/iho/fincontrol/internal/infrastructure/auth"
	"github.com/iho/fincontrol/internal/infrastructure/metrics"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = apimiddleware.NewRateLimiter(1, 1, nil)
	}))

	send := func() int {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "1.2.3.4:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestNewRouter_APIRequiresToken(t *testing.T) {
	router := NewRouter(newRouterConfig())

	for _, path := range []string{"/api/v1/accounts/", "/api/v1/dashboard/balance", "/api/v1/auth/me"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestNewRouter_IdempotencyRunsAfterAuth(t *testing.T) {
	store := &stubIdempotencyStore{}
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
		cfg.IdempotencyTTL = time.Hour
	}))

	post := func(token string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/", strings.NewReader(`{`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, post(""))
	assert.Empty(t, store.keys)

	assert.Equal(t, http.StatusBadRequest, post("good"))
	require.Len(t, store.keys, 1)
	assert.True(t, strings.HasPrefix(store.keys[0], "user-1:"), store.keys[0])
	assert.Equal(t, store.keys, store.released)
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.CORSAllowedOrigins = []string{"https://app.example.com"}
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/accounts/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.Metrics = m
		cfg.MetricsHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("metrics"))
		})
	}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "metrics", rec.Body.String())
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Routes)
	require.True(t, ok, "router does not implement chi.Routes")

	seen := map[string]bool{}
	err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	})
	require.NoError(t, err)

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"GET /api/v1/auth/me",
		"POST /api/v1/accounts/",
		"GET /api/v1/accounts/{id}",
		"POST /api/v1/transactions/",
		"POST /api/v1/transactions/{id}/duplicate",
		"GET /api/v1/categories/",
		"POST /api/v1/goals/{id}/contribute",
		"POST /api/v1/budgets/",
		"GET /api/v1/dashboard/balance",
		"GET /api/v1/dashboard/summary",
		"GET /api/v1/dashboard/expenses-by-category",
		"GET /api/v1/dashboard/balance-evolution",
		"GET /api/v1/dashboard/recent-transactions",
		"GET /api/v1/dashboard/indicators",
	}
	for _, route := range expected {
		assert.True(t, seen[route], "expected route %s to be registered", route)
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	cfg := RouterConfig{
		AuthHandler:        handler.NewAuthHandler(nil, nil, nil),
		AccountHandler:     handler.NewAccountHandler(nil),
		TransactionHandler: handler.NewTransactionHandler(nil),
		CategoryHandler:    handler.NewCategoryHandler(nil),
		GoalHandler:        handler.NewGoalHandler(nil),
		BudgetHandler:      handler.NewBudgetHandler(nil),
		DashboardHandler:   handler.NewDashboardHandler(nil),
		HealthHandler:      handler.NewHealthHandler(nil),
		TokenVerifier:      stubVerifier{},
		Logger:             zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (*auth.Claims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &auth.Claims{UserID: "user-1", Email: "user@example.com"}, nil
}

type stubIdempotencyStore struct {
	keys     []string
	released []string
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.keys = append(s.keys, key)
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}

func (s *stubIdempotencyStore) Release(ctx context.Context, key string) error {
	s.released = append(s.released, key)
	return nil
}
