package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsWritten *prometheus.CounterVec
	TransactionAmount   *prometheus.HistogramVec

	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// Analytics metrics
	AnalyticsDegraded *prometheus.CounterVec
	DashboardDuration *prometheus.HistogramVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// NewWithRegistry creates all Prometheus metrics and registers them on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Transaction metrics
		TransactionsWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincontrol_transactions_written_total",
				Help: "Total number of transaction writes by operation",
			},
			[]string{"operation"},
		),
		TransactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fincontrol_transaction_amount",
				Help:    "Transaction amounts by kind",
				Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000, 100000},
			},
			[]string{"kind"},
		),

		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "fincontrol_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincontrol_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		// Analytics metrics
		AnalyticsDegraded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincontrol_analytics_degraded_total",
				Help: "Analytics results replaced by a neutral value, by operation",
			},
			[]string{"operation"},
		),
		DashboardDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fincontrol_dashboard_duration_seconds",
				Help:    "Duration of dashboard aggregations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"view"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincontrol_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fincontrol_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "fincontrol_http_requests_in_flight",
				Help: "HTTP requests currently being served",
			},
		),

		// Redis metrics
		RedisOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincontrol_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincontrol_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincontrol_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"method"},
		),
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincontrol_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fincontrol_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"endpoint"},
		),
	}
}
