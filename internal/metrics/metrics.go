package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "motoko_mcp"

// Metrics holds the gateway's Prometheus collectors.
// It satisfies dispatcher.Recorder and backend.Observer.
type Metrics struct {
	registry *prometheus.Registry

	toolCalls       *prometheus.CounterVec
	toolDuration    *prometheus.HistogramVec
	backendRequests *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
}

// New creates the collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_calls_total",
				Help:      "Total number of tool calls by tool and outcome",
			},
			[]string{"tool", "outcome"},
		),
		toolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_call_duration_seconds",
				Help:      "Duration of tool calls",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"tool"},
		),
		backendRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backend_requests_total",
				Help:      "Total number of backend round trips by endpoint and HTTP status",
			},
			[]string{"endpoint", "status"},
		),
		backendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "backend_request_duration_seconds",
				Help:      "Duration of backend round trips",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"endpoint"},
		),
	}
	m.registry.MustRegister(
		m.toolCalls,
		m.toolDuration,
		m.backendRequests,
		m.backendDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveToolCall records one dispatched tool call.
func (m *Metrics) ObserveToolCall(tool, outcome string, d time.Duration) {
	m.toolCalls.WithLabelValues(tool, outcome).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// ObserveRequest records one backend round trip. A zero status means no
// response was received and is reported as "error".
func (m *Metrics) ObserveRequest(endpoint string, status int, d time.Duration, _ error) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.backendRequests.WithLabelValues(endpoint, label).Inc()
	m.backendDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// Registry exposes the underlying registry (for tests and custom exporters).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
