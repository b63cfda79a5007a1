package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics
type Metrics struct {
	// Ledger metrics
	TransactionsCreated  *prometheus.CounterVec
	TransactionMutations *prometheus.CounterVec

	// Analytics metrics
	AnalyticsCacheRequests *prometheus.CounterVec
	AnalyticsQueryDuration *prometheus.HistogramVec

	// Auth metrics
	AuthAttempts *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics against the given registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := prometheus.WrapRegistererWith(nil, reg)

	m := &Metrics{
		TransactionsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_created_total",
				Help:      "Total number of transactions created by kind and category",
			},
			[]string{"kind", "category"},
		),
		TransactionMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transaction_mutations_total",
				Help:      "Total number of transaction mutations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		AnalyticsCacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "analytics_cache_requests_total",
				Help:      "Analytics cache lookups by view and result",
			},
			[]string{"view", "result"},
		),
		AnalyticsQueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "analytics_query_duration_seconds",
				Help:      "Aggregation query duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
			},
			[]string{"view"},
		),
		AuthAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_attempts_total",
				Help:      "Total number of authentication attempts by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	// Register all collectors
	factory.MustRegister(
		m.TransactionsCreated,
		m.TransactionMutations,
		m.AnalyticsCacheRequests,
		m.AnalyticsQueryDuration,
		m.AuthAttempts,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}
