package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Failure stages.
const (
	StageNormalize = "normalize"
	StageProvider  = "provider"
)

// TransportMetrics holds Prometheus metrics for mail sent through the
// transport. A nil *TransportMetrics records nothing.
type TransportMetrics struct {
	Messages        *prometheus.CounterVec
	Failures        *prometheus.CounterVec
	ProviderLatency *prometheus.HistogramVec
	BatchSize       prometheus.Histogram
}

// NewTransportMetrics creates and registers the transport metrics on reg.
func NewTransportMetrics(reg prometheus.Registerer, namespace string) *TransportMetrics {
	if namespace == "" {
		namespace = "postmark_transport"
	}

	subsystem := "mail"
	factory := promauto.With(reg)

	return &TransportMetrics{
		Messages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "messages_total",
				Help:      "Messages handed to Postmark, by provider verdict",
			},
			[]string{"operation", "outcome"}, // outcome: accepted, rejected
		),
		Failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "send_failures_total",
				Help:      "Send calls that failed before a provider verdict",
			},
			[]string{"operation", "stage"},
		),
		ProviderLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "provider_request_duration_seconds",
				Help:      "Postmark API call latency",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),
		BatchSize: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "batch_size",
				Help:      "Messages per batch call",
				Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
			},
		),
	}
}

// RecordResult counts the provider verdicts of one call.
func (m *TransportMetrics) RecordResult(operation string, accepted, rejected int) {
	if m == nil {
		return
	}
	m.Messages.WithLabelValues(operation, "accepted").Add(float64(accepted))
	m.Messages.WithLabelValues(operation, "rejected").Add(float64(rejected))
}

// RecordFailure counts a call that failed at stage.
func (m *TransportMetrics) RecordFailure(operation, stage string) {
	if m == nil {
		return
	}
	m.Failures.WithLabelValues(operation, stage).Inc()
}

// ObserveProviderLatency records how long a Postmark call took.
func (m *TransportMetrics) ObserveProviderLatency(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.ProviderLatency.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveBatchSize records the number of messages in a batch call.
func (m *TransportMetrics) ObserveBatchSize(n int) {
	if m == nil {
		return
	}
	m.BatchSize.Observe(float64(n))
}
