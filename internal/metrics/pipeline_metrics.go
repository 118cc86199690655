package metrics

import (
	"order-analytics-service/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PipelineMetrics is the metrics surface of the reconciliation pipeline
type PipelineMetrics interface {
	IncRecordsInserted(entity string, count int)
	IncRecordsSkipped(entity string, reason string)
	IncLinesDropped(reason string)
	ObserveRunDuration(seconds float64)
}

type pipelineMetrics struct {
	log             *logger.Logger
	recordsInserted *prometheus.CounterVec
	recordsSkipped  *prometheus.CounterVec
	linesDropped    *prometheus.CounterVec
	runDuration     prometheus.Histogram
}

// NewPipelineMetrics creates the pipeline metrics
func NewPipelineMetrics(registry *prometheus.Registry, log *logger.Logger) PipelineMetrics {
	recordsInserted := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "reseed_records_inserted_total",
			Help: "The total number of records inserted per entity",
		},
		[]string{"entity"},
	)

	recordsSkipped := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "reseed_records_skipped_total",
			Help: "The total number of records skipped per entity and reason",
		},
		[]string{"entity", "reason"},
	)

	linesDropped := promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "reseed_order_lines_dropped_total",
			Help: "The total number of order line items dropped per reason",
		},
		[]string{"reason"},
	)

	runDuration := promauto.With(registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reseed_run_duration_seconds",
			Help:    "Duration of full reseed runs",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 6),
		},
	)

	return &pipelineMetrics{
		log:             log,
		recordsInserted: recordsInserted,
		recordsSkipped:  recordsSkipped,
		linesDropped:    linesDropped,
		runDuration:     runDuration,
	}
}

// IncRecordsInserted adds to the inserted-records counter of an entity
func (m *pipelineMetrics) IncRecordsInserted(entity string, count int) {
	m.recordsInserted.WithLabelValues(entity).Add(float64(count))
}

// IncRecordsSkipped increments the skipped-records counter of an entity
func (m *pipelineMetrics) IncRecordsSkipped(entity string, reason string) {
	m.recordsSkipped.WithLabelValues(entity, reason).Inc()
}

// IncLinesDropped increments the dropped-lines counter
func (m *pipelineMetrics) IncLinesDropped(reason string) {
	m.linesDropped.WithLabelValues(reason).Inc()
}

// ObserveRunDuration records the duration of one reseed run
func (m *pipelineMetrics) ObserveRunDuration(seconds float64) {
	m.runDuration.Observe(seconds)
}
