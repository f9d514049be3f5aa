package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.IncrementSelected("no-payment")
	m.IncrementSelected("no-payment")
	m.ObserveStage("documents", nil, time.Second)
	m.ObserveStage("documents", errors.New("boom"), time.Second)
	m.IncrementBatch("succeeded", 3)
	m.IncrementBatch("empty", 0)

	assert.InDelta(t, 2, testutil.ToFloat64(m.SelectedAgreements.WithLabelValues("no-payment")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.BatchOutcome.WithLabelValues("empty")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.StageDuration))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementSelected("paid-unclaimed")
		m.ObserveStage("messages", nil, time.Millisecond)
		m.IncrementBatch("failed", 1)
		m.IncrementConsumed("ok")
	})
}
