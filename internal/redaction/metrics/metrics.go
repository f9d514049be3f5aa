package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the redaction pipeline.
type Metrics struct {
	// Agreements selected for redaction by eligibility reason
	SelectedAgreements *prometheus.CounterVec

	// Stage latency by stage token and outcome
	StageDuration *prometheus.HistogramVec

	// Orchestrator runs by outcome: empty, succeeded, failed
	BatchOutcome *prometheus.CounterVec

	BatchSize prometheus.Histogram

	// Trigger messages handled by the consumer, by outcome
	ConsumedRequests *prometheus.CounterVec
}

// New registers the redaction metrics with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the redaction metrics with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SelectedAgreements: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ahwr_redaction_selected_agreements_total",
			Help: "Agreements selected for PII redaction by eligibility reason",
		}, []string{"reason"}),

		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ahwr_redaction_stage_duration_seconds",
			Help:    "Duration of each redaction stage by outcome",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"stage", "outcome"}),

		BatchOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ahwr_redaction_batches_total",
			Help: "Redaction runs by outcome",
		}, []string{"outcome"}),

		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ahwr_redaction_batch_size",
			Help:    "Number of agreements in each non-empty redaction batch",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),

		ConsumedRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ahwr_redaction_requests_consumed_total",
			Help: "Redaction trigger messages handled by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncrementSelected(reason string) {
	if m != nil {
		m.SelectedAgreements.WithLabelValues(reason).Inc()
	}
}

// ObserveStage records a stage execution.
func (m *Metrics) ObserveStage(stage string, err error, d time.Duration) {
	if m != nil {
		m.StageDuration.WithLabelValues(stage, outcome(err)).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementBatch(outcome string, size int) {
	if m == nil {
		return
	}
	m.BatchOutcome.WithLabelValues(outcome).Inc()
	if size > 0 {
		m.BatchSize.Observe(float64(size))
	}
}

func (m *Metrics) IncrementConsumed(outcome string) {
	if m != nil {
		m.ConsumedRequests.WithLabelValues(outcome).Inc()
	}
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
