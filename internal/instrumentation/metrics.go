// Package instrumentation exposes Prometheus metrics for the tool dispatch
// path.
package instrumentation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the server.
type Metrics struct {
	InvocationsTotal  *prometheus.CounterVec
	CacheHitsTotal    *prometheus.CounterVec
	UpstreamLatencyMS prometheus.Histogram
}

// NewMetrics creates and registers all metrics on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		InvocationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shopify_mcp_tool_invocations_total",
			Help: "Tool invocations by operation and outcome",
		}, []string{"tool", "outcome"}),

		CacheHitsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shopify_mcp_cache_hits_total",
			Help: "Tool-result cache hits by operation",
		}, []string{"tool"}),

		UpstreamLatencyMS: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "shopify_mcp_upstream_latency_ms",
			Help:    "Admin API round-trip latency in milliseconds",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2000, 5000},
		}),
	}
}

// ObserveInvocation records one dispatched call.
func (m *Metrics) ObserveInvocation(tool string, isError bool) {
	if m == nil {
		return
	}
	outcome := "success"
	if isError {
		outcome = "error"
	}
	m.InvocationsTotal.WithLabelValues(tool, outcome).Inc()
}

// ObserveCacheHit records a memoized response short-circuiting dispatch.
func (m *Metrics) ObserveCacheHit(tool string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(tool).Inc()
}

// ObserveUpstreamLatency records one Admin API round trip.
func (m *Metrics) ObserveUpstreamLatency(ms float64) {
	if m == nil {
		return
	}
	m.UpstreamLatencyMS.Observe(ms)
}
