package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shopmcp/shopify-mcp-server/internal/cache"
	"github.com/shopmcp/shopify-mcp-server/internal/catalog"
	"github.com/shopmcp/shopify-mcp-server/internal/instrumentation"
	"github.com/shopmcp/shopify-mcp-server/internal/logger"
	"github.com/shopmcp/shopify-mcp-server/internal/usecase"
)

// UseCaseProvider abstracts the store operations behind the tool catalog.
type UseCaseProvider interface {
	GetOrders(ctx context.Context, args catalog.Arguments) (map[string]interface{}, error)
	GetTransactions(ctx context.Context, args catalog.Arguments) (map[string]interface{}, error)
	GetInventoryLevels(ctx context.Context, args catalog.Arguments) (map[string]interface{}, error)
	GetProducts(ctx context.Context, args catalog.Arguments) (map[string]interface{}, error)
	UpdateInventory(ctx context.Context, args catalog.Arguments) (map[string]interface{}, error)
	GetFinancialSummary(ctx context.Context, args catalog.Arguments) (*usecase.FinancialSummary, error)
	GetSalesSummary(ctx context.Context, args catalog.Arguments) (*usecase.SalesSummary, error)
	GetStoreSummary(ctx context.Context) (*usecase.StoreSummary, error)
	GetProductAnalytics(ctx context.Context, args catalog.Arguments) (*usecase.ProductAnalytics, error)
}

type handlerFunc func(ctx context.Context, args catalog.Arguments) (interface{}, error)

// toolHandler binds one catalog entry to its invocation. readOnly marks
// operations eligible for result memoization.
type toolHandler struct {
	def      catalog.OperationDefinition
	readOnly bool
	invoke   handlerFunc
}

// Dispatcher is the single entry point for tool invocations. It routes a
// named call through normalize → use case → envelope and never returns a
// raised error: every failure is flattened into an error Response.
type Dispatcher struct {
	useCase  UseCaseProvider
	handlers map[string]*toolHandler
	store    cache.Store
	ttl      time.Duration
	metrics  *instrumentation.Metrics
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithCache memoizes read-operation results in the given store.
func WithCache(store cache.Store, ttl time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.store = store
		d.ttl = ttl
	}
}

// WithMetrics records invocation outcomes on the given metrics.
func WithMetrics(m *instrumentation.Metrics) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// NewDispatcher builds the handler registry for the full catalog.
func NewDispatcher(useCase UseCaseProvider, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		useCase:  useCase,
		handlers: make(map[string]*toolHandler),
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, def := range catalog.Definitions() {
		h := &toolHandler{def: def, readOnly: def.Name != "update_inventory"}
		h.invoke = d.invocationFor(def.Name)
		d.handlers[def.Name] = h
	}
	return d
}

// invocationFor maps a catalog entry to its use case call. The registry is
// built once here; dispatch itself is a plain map lookup.
func (d *Dispatcher) invocationFor(name string) handlerFunc {
	switch name {
	case "get_orders":
		return func(ctx context.Context, args catalog.Arguments) (interface{}, error) {
			return d.useCase.GetOrders(ctx, args)
		}
	case "get_financial_summary":
		return func(ctx context.Context, args catalog.Arguments) (interface{}, error) {
			return d.useCase.GetFinancialSummary(ctx, args)
		}
	case "get_transactions":
		return func(ctx context.Context, args catalog.Arguments) (interface{}, error) {
			return d.useCase.GetTransactions(ctx, args)
		}
	case "get_inventory_levels":
		return func(ctx context.Context, args catalog.Arguments) (interface{}, error) {
			return d.useCase.GetInventoryLevels(ctx, args)
		}
	case "get_products":
		return func(ctx context.Context, args catalog.Arguments) (interface{}, error) {
			return d.useCase.GetProducts(ctx, args)
		}
	case "update_inventory":
		return func(ctx context.Context, args catalog.Arguments) (interface{}, error) {
			return d.useCase.UpdateInventory(ctx, args)
		}
	case "get_store_summary":
		return func(ctx context.Context, _ catalog.Arguments) (interface{}, error) {
			return d.useCase.GetStoreSummary(ctx)
		}
	case "get_sales_summary":
		return func(ctx context.Context, args catalog.Arguments) (interface{}, error) {
			return d.useCase.GetSalesSummary(ctx, args)
		}
	case "get_product_analytics":
		return func(ctx context.Context, args catalog.Arguments) (interface{}, error) {
			return d.useCase.GetProductAnalytics(ctx, args)
		}
	default:
		return func(context.Context, catalog.Arguments) (interface{}, error) {
			return nil, fmt.Errorf("no handler bound for %s", name)
		}
	}
}

// Dispatch runs one tool invocation and always returns an envelope.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, raw map[string]interface{}) (resp *Response) {
	invocationID := uuid.NewString()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic dispatching %s (invocation %s): %v", name, invocationID, r)
			resp = ErrorText(fmt.Sprintf("Error: internal failure handling %s", name))
		}
		d.metrics.ObserveInvocation(name, resp.IsError)
	}()

	handler, ok := d.handlers[name]
	if !ok {
		logger.Warn("Unknown tool requested: %s", name)
		return ErrorText(fmt.Sprintf("Unknown tool: %s", name))
	}

	logger.Debug("Dispatching %s (invocation %s)", name, invocationID)

	args, err := catalog.Normalize(handler.def, raw)
	if err != nil {
		return FromError(err)
	}

	cacheKey := ""
	if d.store != nil && handler.readOnly {
		cacheKey = cache.Key(name, args)
		if text, hit, cerr := d.store.Get(ctx, cacheKey); cerr == nil && hit {
			logger.Debug("Cache hit for %s (invocation %s)", name, invocationID)
			d.metrics.ObserveCacheHit(name)
			return FromString(text)
		} else if cerr != nil {
			logger.Warn("Cache read failed for %s: %v", name, cerr)
		}
	}

	result, err := handler.invoke(ctx, args)
	if err != nil {
		logger.Warn("Tool %s failed (invocation %s): %v", name, invocationID, err)
		return FromError(err)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return FromError(fmt.Errorf("failed to encode %s result: %w", name, err))
	}

	if cacheKey != "" {
		if cerr := d.store.Set(ctx, cacheKey, string(payload), d.ttl); cerr != nil {
			logger.Warn("Cache write failed for %s: %v", name, cerr)
		}
	}

	return FromString(string(payload))
}

// Definitions exposes the catalog entries backing the registered handlers.
func (d *Dispatcher) Definitions() []catalog.OperationDefinition {
	return catalog.Definitions()
}
