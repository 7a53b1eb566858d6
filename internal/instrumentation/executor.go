package instrumentation

import (
	"context"
	"time"

	"github.com/shopmcp/shopify-mcp-server/internal/shopify"
)

// instrumentedExecutor observes the latency of every upstream round trip.
type instrumentedExecutor struct {
	next    shopify.Executor
	metrics *Metrics
}

// WrapExecutor decorates an executor with latency observation.
func WrapExecutor(next shopify.Executor, metrics *Metrics) shopify.Executor {
	return &instrumentedExecutor{next: next, metrics: metrics}
}

func (e *instrumentedExecutor) Execute(ctx context.Context, req shopify.Request) (map[string]interface{}, error) {
	start := time.Now()
	data, err := e.next.Execute(ctx, req)
	e.metrics.ObserveUpstreamLatency(float64(time.Since(start).Milliseconds()))
	return data, err
}
