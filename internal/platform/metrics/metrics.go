// Package metrics holds process-level Prometheus metrics shared by the HTTP
// surface.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP metrics for the application.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	BuildInfo       *prometheus.GaugeVec
}

// New creates and registers metrics on the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ahwr_http_request_duration_seconds",
			Help:    "Admin HTTP request latency",
			Buckets: prometheus.ExponentialBuckets(0.005, 4, 10),
		}, []string{"method", "route", "status"}),
		BuildInfo: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ahwr_build_info",
			Help: "Build information of the running binary",
		}, []string{"version"}),
	}
}

// ObserveRequest records one completed request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
	}
}

// SetBuildInfo publishes the running version.
func (m *Metrics) SetBuildInfo(version string) {
	if m != nil {
		m.BuildInfo.WithLabelValues(version).Set(1)
	}
}
