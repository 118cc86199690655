package metrics

import (
	"order-analytics-service/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// QueryMetrics is the metrics surface of the aggregation engine
type QueryMetrics interface {
	ObserveQueryDuration(query string, seconds float64)
	IncQueryErrors(query string)
}

type queryMetrics struct {
	log           *logger.Logger
	queryDuration *prometheus.HistogramVec
	queryErrors   *prometheus.CounterVec
}

// NewQueryMetrics creates the aggregation query metrics
func NewQueryMetrics(registry *prometheus.Registry, log *logger.Logger) QueryMetrics {
	queryDuration := promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_query_duration_seconds",
			Help:    "Duration of analytics queries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)

	queryErrors := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_query_errors_total",
			Help: "The total number of failed analytics queries",
		},
		[]string{"query"},
	)

	return &queryMetrics{
		log:           log,
		queryDuration: queryDuration,
		queryErrors:   queryErrors,
	}
}

// ObserveQueryDuration records the duration of one analytics query
func (m *queryMetrics) ObserveQueryDuration(query string, seconds float64) {
	m.queryDuration.WithLabelValues(query).Observe(seconds)
}

// IncQueryErrors increments the error counter of an analytics query
func (m *queryMetrics) IncQueryErrors(query string) {
	m.queryErrors.WithLabelValues(query).Inc()
}
