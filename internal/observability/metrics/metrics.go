package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClientMetrics exposes counters/histograms for backend calls made by the
// transport client.
type ClientMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewClientMetrics registers client collectors on reg (the default registerer
// when nil).
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	m := &ClientMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neardoc",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total backend requests by outcome",
		}, []string{"method", "endpoint", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "neardoc",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Latency of backend requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration)
	return m
}

// ObserveRequest records one completed request. endpoint should be a route
// template ("/doctor/{id}") so label cardinality stays bounded.
func (m *ClientMetrics) ObserveRequest(method, endpoint, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, endpoint, outcome).Inc()
	m.requestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

// BackendMetrics instruments the mock backend's HTTP routes.
type BackendMetrics struct {
	handledTotal *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

func NewBackendMetrics(reg prometheus.Registerer) *BackendMetrics {
	m := &BackendMetrics{
		handledTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neardoc",
			Subsystem: "mock_backend",
			Name:      "handled_total",
			Help:      "Total requests handled by route and status code",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "neardoc",
			Subsystem: "mock_backend",
			Name:      "latency_seconds",
			Help:      "Latency of mock backend handlers",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.handledTotal, m.latency)
	return m
}

func (m *BackendMetrics) ObserveHandled(route, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.handledTotal.WithLabelValues(route, code).Inc()
	m.latency.WithLabelValues(route).Observe(elapsed.Seconds())
}
