// Package usecase implements the store operations behind the MCP tool
// catalog: each one composes an upstream request, executes it and applies
// whatever client-side aggregation its result contract requires.
package usecase

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/shopmcp/shopify-mcp-server/internal/catalog"
	"github.com/shopmcp/shopify-mcp-server/internal/logger"
	"github.com/shopmcp/shopify-mcp-server/internal/shopify"
)

// Summaries and analytics aggregate a single upstream page of up to 250
// orders; windows with more orders than that under-report. The cap matches
// the upstream page-size maximum.
//
// recentOrderSample bounds the revenue sample behind get_store_summary.
const recentOrderSample = 100

// StoreUseCase runs the catalog's operations against an injected executor.
type StoreUseCase struct {
	executor shopify.Executor
	composer *shopify.Composer
}

// NewStoreUseCase creates a store use case.
func NewStoreUseCase(executor shopify.Executor, composer *shopify.Composer) *StoreUseCase {
	return &StoreUseCase{executor: executor, composer: composer}
}

// GetOrders returns one page of orders, raw.
func (uc *StoreUseCase) GetOrders(ctx context.Context, args catalog.Arguments) (map[string]interface{}, error) {
	return uc.executor.Execute(ctx, uc.composer.Orders(args))
}

// GetTransactions returns one order's transactions, raw.
func (uc *StoreUseCase) GetTransactions(ctx context.Context, args catalog.Arguments) (map[string]interface{}, error) {
	return uc.executor.Execute(ctx, uc.composer.Transactions(args))
}

// GetInventoryLevels returns available quantities per location, raw.
func (uc *StoreUseCase) GetInventoryLevels(ctx context.Context, args catalog.Arguments) (map[string]interface{}, error) {
	return uc.executor.Execute(ctx, uc.composer.InventoryLevels(args))
}

// GetProducts returns one page of products, raw.
func (uc *StoreUseCase) GetProducts(ctx context.Context, args catalog.Arguments) (map[string]interface{}, error) {
	return uc.executor.Execute(ctx, uc.composer.Products(args))
}

// UpdateInventory applies one quantity adjustment and returns the mutation
// payload, raw. User errors surface from the executor as API errors.
func (uc *StoreUseCase) UpdateInventory(ctx context.Context, args catalog.Arguments) (map[string]interface{}, error) {
	logger.Info("Adjusting inventory item %s at location %s by %d",
		args.String("inventory_item_id"), args.String("location_id"), args.Int("available"))
	return uc.executor.Execute(ctx, uc.composer.UpdateInventory(args))
}

// GetFinancialSummary sums revenue over the windowed order scan.
func (uc *StoreUseCase) GetFinancialSummary(ctx context.Context, args catalog.Arguments) (*FinancialSummary, error) {
	days := args.Int("days")
	data, err := uc.executor.Execute(ctx, uc.composer.OrdersSince(days))
	if err != nil {
		return nil, err
	}
	return aggregateFinancialSummary(days, connectionNodes(data, "orders")), nil
}

// GetSalesSummary extends the financial roll-up with product ranking and
// customer counting over the same windowed scan.
func (uc *StoreUseCase) GetSalesSummary(ctx context.Context, args catalog.Arguments) (*SalesSummary, error) {
	days := args.Int("days")
	data, err := uc.executor.Execute(ctx, uc.composer.OrdersSince(days))
	if err != nil {
		return nil, err
	}
	return aggregateSalesSummary(days, connectionNodes(data, "orders")), nil
}

// GetStoreSummary merges three independent upstream queries into one
// overview. The queries are read-only and mutually independent, so they run
// concurrently.
func (uc *StoreUseCase) GetStoreSummary(ctx context.Context) (*StoreSummary, error) {
	var countData, latestData, recentData map[string]interface{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		countData, err = uc.executor.Execute(gctx, uc.composer.ProductsCount())
		return err
	})
	g.Go(func() error {
		var err error
		latestData, err = uc.executor.Execute(gctx, uc.composer.LatestOrder())
		return err
	})
	g.Go(func() error {
		var err error
		recentData, err = uc.executor.Execute(gctx, uc.composer.RecentOrders(recentOrderSample))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	recent := connectionNodes(recentData, "orders")
	total, currency := revenueTotals(recent)

	summary := &StoreSummary{
		ProductCount:      getInt(getMap(countData, "productsCount"), "count"),
		SampledOrderCount: len(recent),
		TotalRevenue:      total,
		AverageOrderValue: averageOrderValue(total, len(recent)),
		Currency:          currency,
	}

	if latest := connectionNodes(latestData, "orders"); len(latest) > 0 {
		summary.LatestOrderName = getString(latest[0], "name")
		summary.LatestOrderAt = getString(latest[0], "createdAt")
	}
	return summary, nil
}

// GetProductAnalytics fetches the product, then scans recent orders for its
// line items. The scan depends on the product id resolving, so the two
// queries are sequenced.
func (uc *StoreUseCase) GetProductAnalytics(ctx context.Context, args catalog.Arguments) (*ProductAnalytics, error) {
	productID := shopify.ProductGID(args.String("product_id"))
	days := args.Int("days")

	productData, err := uc.executor.Execute(ctx, uc.composer.ProductByID(productID))
	if err != nil {
		return nil, err
	}
	product := getMap(productData, "product")
	if product == nil {
		return nil, fmt.Errorf("product not found: %s", productID)
	}

	orderData, err := uc.executor.Execute(ctx, uc.composer.OrdersSince(days))
	if err != nil {
		return nil, err
	}

	return aggregateProductAnalytics(productID, days, product, connectionNodes(orderData, "orders")), nil
}
