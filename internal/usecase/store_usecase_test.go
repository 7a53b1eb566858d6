package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmcp/shopify-mcp-server/internal/catalog"
	"github.com/shopmcp/shopify-mcp-server/internal/shopify"
)

// stubExecutor routes composed requests to canned responses by matching a
// fragment of the query document. The mutex covers concurrent execution in
// the store summary fan-out.
type stubExecutor struct {
	mu        sync.Mutex
	responses map[string]map[string]interface{}
	err       error
	requests  []shopify.Request
}

func (s *stubExecutor) Execute(ctx context.Context, req shopify.Request) (map[string]interface{}, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for fragment, resp := range s.responses {
		if strings.Contains(req.Query, fragment) {
			return resp, nil
		}
	}
	return nil, fmt.Errorf("unexpected query: %s", req.Query)
}

func decode(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func fixedClock() func() time.Time {
	fixed := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return fixed }
}

func newUseCase(executor shopify.Executor) *StoreUseCase {
	return NewStoreUseCase(executor, shopify.NewComposerWithClock(fixedClock()))
}

// orderFixture builds one order node with the given total and line items.
func orderFixture(total, currency, customerID string, lineItems ...map[string]interface{}) map[string]interface{} {
	edges := make([]interface{}, 0, len(lineItems))
	for _, li := range lineItems {
		edges = append(edges, map[string]interface{}{"node": li})
	}
	node := map[string]interface{}{
		"id":        "gid://shopify/Order/1",
		"createdAt": "2025-06-10T00:00:00Z",
		"totalPriceSet": map[string]interface{}{
			"shopMoney": map[string]interface{}{"amount": total, "currencyCode": currency},
		},
		"lineItems": map[string]interface{}{"edges": edges},
	}
	if customerID != "" {
		node["customer"] = map[string]interface{}{"id": customerID}
	}
	return node
}

func lineItemFixture(productID, title string, quantity int, revenue string) map[string]interface{} {
	li := map[string]interface{}{
		"title":    title,
		"quantity": float64(quantity),
		"originalTotalSet": map[string]interface{}{
			"shopMoney": map[string]interface{}{"amount": revenue},
		},
	}
	if productID != "" {
		li["product"] = map[string]interface{}{"id": productID}
	}
	return li
}

func ordersData(orders ...map[string]interface{}) map[string]interface{} {
	edges := make([]interface{}, 0, len(orders))
	for _, o := range orders {
		edges = append(edges, map[string]interface{}{"node": o})
	}
	return map[string]interface{}{
		"orders": map[string]interface{}{"edges": edges},
	}
}

func TestGetFinancialSummary(t *testing.T) {
	executor := &stubExecutor{responses: map[string]map[string]interface{}{
		"query GetOrders": ordersData(
			orderFixture("100.00", "EUR", "c1"),
			orderFixture("50.50", "EUR", "c2"),
			orderFixture("49.50", "EUR", ""),
		),
	}}

	summary, err := newUseCase(executor).GetFinancialSummary(context.Background(), catalog.Arguments{"days": 30})
	require.NoError(t, err)

	assert.Equal(t, 30, summary.PeriodDays)
	assert.Equal(t, 3, summary.OrderCount)
	assert.InDelta(t, 200.0, summary.TotalRevenue, 1e-9)
	assert.InDelta(t, 200.0/3, summary.AverageOrderValue, 1e-9)
	assert.Equal(t, "EUR", summary.Currency)

	// The scan requests a full 250-order page bounded by the window.
	require.Len(t, executor.requests, 1)
	assert.Equal(t, 250, executor.requests[0].Variables["first"])
	assert.Equal(t, "created_at:>=2025-05-16T12:00:00Z", executor.requests[0].Variables["query"])
}

func TestGetFinancialSummaryEmptyWindow(t *testing.T) {
	executor := &stubExecutor{responses: map[string]map[string]interface{}{
		"query GetOrders": ordersData(),
	}}

	summary, err := newUseCase(executor).GetFinancialSummary(context.Background(), catalog.Arguments{"days": 30})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.OrderCount)
	assert.Zero(t, summary.TotalRevenue)
	assert.Zero(t, summary.AverageOrderValue)
	assert.Equal(t, "USD", summary.Currency)
}

func TestGetSalesSummary(t *testing.T) {
	productP := "gid://shopify/Product/777"
	executor := &stubExecutor{responses: map[string]map[string]interface{}{
		"query GetOrders": ordersData(
			orderFixture("20.00", "USD", "c1", lineItemFixture(productP, "Widget", 2, "20.00")),
			orderFixture("30.00", "USD", "c2", lineItemFixture(productP, "Widget", 3, "30.00")),
		),
	}}

	summary, err := newUseCase(executor).GetSalesSummary(context.Background(), catalog.Arguments{"days": 30})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.OrderCount)
	assert.InDelta(t, 50.0, summary.TotalRevenue, 1e-9)
	assert.Equal(t, 2, summary.UniqueCustomers)

	require.Len(t, summary.TopProducts, 1)
	top := summary.TopProducts[0]
	assert.Equal(t, productP, top.ProductID)
	assert.Equal(t, "Widget", top.Title)
	assert.Equal(t, 5, top.QuantitySold)
	assert.InDelta(t, 50.0, top.Revenue, 1e-9)
}

func TestGetSalesSummaryCustomersAndFallback(t *testing.T) {
	executor := &stubExecutor{responses: map[string]map[string]interface{}{
		"query GetOrders": ordersData(
			// Same customer twice, one anonymous order.
			orderFixture("10.00", "USD", "c1", lineItemFixture("", "Custom Item", 1, "10.00")),
			orderFixture("10.00", "USD", "c1", lineItemFixture("", "Custom Item", 1, "10.00")),
			orderFixture("10.00", "USD", "", lineItemFixture("", "Custom Item", 1, "10.00")),
		),
	}}

	summary, err := newUseCase(executor).GetSalesSummary(context.Background(), catalog.Arguments{"days": 7})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.UniqueCustomers)

	// Line items without a linked product accumulate under their title.
	require.Len(t, summary.TopProducts, 1)
	assert.Equal(t, "Custom Item", summary.TopProducts[0].ProductID)
	assert.Equal(t, 3, summary.TopProducts[0].QuantitySold)
}

func TestGetSalesSummaryTopTenRanking(t *testing.T) {
	orders := make([]map[string]interface{}, 0, 12)
	for i := 0; i < 12; i++ {
		revenue := fmt.Sprintf("%d.00", (12-i)*10)
		productID := fmt.Sprintf("gid://shopify/Product/%d", i)
		orders = append(orders, orderFixture(revenue, "USD", "",
			lineItemFixture(productID, fmt.Sprintf("P%d", i), 1, revenue)))
	}
	// Two products tie on revenue; encounter order breaks the tie.
	orders = append(orders,
		orderFixture("35.00", "USD", "", lineItemFixture("gid://shopify/Product/first-tie", "First", 1, "35.00")),
		orderFixture("35.00", "USD", "", lineItemFixture("gid://shopify/Product/second-tie", "Second", 1, "35.00")),
	)

	executor := &stubExecutor{responses: map[string]map[string]interface{}{
		"query GetOrders": ordersData(orders...),
	}}

	summary, err := newUseCase(executor).GetSalesSummary(context.Background(), catalog.Arguments{"days": 30})
	require.NoError(t, err)

	require.Len(t, summary.TopProducts, 10)
	assert.Equal(t, "gid://shopify/Product/0", summary.TopProducts[0].ProductID)

	// Revenues descend 120,110,... with one tied pair at 35; the tied
	// pair keeps encounter order.
	var firstTie, secondTie = -1, -1
	for i, p := range summary.TopProducts {
		switch p.ProductID {
		case "gid://shopify/Product/first-tie":
			firstTie = i
		case "gid://shopify/Product/second-tie":
			secondTie = i
		}
	}
	require.GreaterOrEqual(t, firstTie, 0)
	require.GreaterOrEqual(t, secondTie, 0)
	assert.Less(t, firstTie, secondTie)
}

func TestGetStoreSummary(t *testing.T) {
	executor := &stubExecutor{responses: map[string]map[string]interface{}{
		"query GetProductsCount": {
			"productsCount": map[string]interface{}{"count": float64(42)},
		},
		"query GetLatestOrder": ordersData(func() map[string]interface{} {
			o := orderFixture("99.00", "GBP", "")
			o["name"] = "#1042"
			o["createdAt"] = "2025-06-14T09:00:00Z"
			return o
		}()),
		"query GetRecentOrders": ordersData(
			orderFixture("60.00", "GBP", ""),
			orderFixture("40.00", "GBP", ""),
		),
	}}

	summary, err := newUseCase(executor).GetStoreSummary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 42, summary.ProductCount)
	assert.Equal(t, 2, summary.SampledOrderCount)
	assert.InDelta(t, 100.0, summary.TotalRevenue, 1e-9)
	assert.InDelta(t, 50.0, summary.AverageOrderValue, 1e-9)
	assert.Equal(t, "GBP", summary.Currency)
	assert.Equal(t, "#1042", summary.LatestOrderName)
	assert.Equal(t, "2025-06-14T09:00:00Z", summary.LatestOrderAt)

	assert.Len(t, executor.requests, 3)
}

func TestGetStoreSummaryEmptyStore(t *testing.T) {
	executor := &stubExecutor{responses: map[string]map[string]interface{}{
		"query GetProductsCount": {
			"productsCount": map[string]interface{}{"count": float64(0)},
		},
		"query GetLatestOrder":  ordersData(),
		"query GetRecentOrders": ordersData(),
	}}

	summary, err := newUseCase(executor).GetStoreSummary(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.ProductCount)
	assert.Zero(t, summary.SampledOrderCount)
	assert.Zero(t, summary.AverageOrderValue)
	assert.Equal(t, "USD", summary.Currency)
	assert.Empty(t, summary.LatestOrderName)
}

func TestGetStoreSummaryUpstreamFailure(t *testing.T) {
	executor := &stubExecutor{err: errors.New("rate limited")}

	_, err := newUseCase(executor).GetStoreSummary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestGetProductAnalytics(t *testing.T) {
	productID := "gid://shopify/Product/42"
	executor := &stubExecutor{responses: map[string]map[string]interface{}{
		"query GetProduct(": {
			"product": map[string]interface{}{
				"id":             productID,
				"title":          "Widget",
				"totalInventory": float64(20),
			},
		},
		"query GetOrders": ordersData(
			orderFixture("50.00", "USD", "c1",
				lineItemFixture(productID, "Widget", 4, "40.00"),
				lineItemFixture("gid://shopify/Product/other", "Other", 1, "10.00"),
			),
			orderFixture("10.00", "USD", "c2", lineItemFixture(productID, "Widget", 1, "10.00")),
		),
	}}

	analytics, err := newUseCase(executor).GetProductAnalytics(context.Background(),
		catalog.Arguments{"product_id": "42", "days": 30})
	require.NoError(t, err)

	assert.Equal(t, productID, analytics.ProductID)
	assert.Equal(t, "Widget", analytics.Title)
	assert.Equal(t, 20, analytics.CurrentStock)
	assert.Equal(t, 5, analytics.QuantitySold)
	assert.InDelta(t, 50.0, analytics.Revenue, 1e-9)
	assert.InDelta(t, 25.0, analytics.TurnoverRate, 1e-9)

	// Product fetch first, order scan second.
	require.Len(t, executor.requests, 2)
	assert.Contains(t, executor.requests[0].Query, "GetProduct")
	assert.Contains(t, executor.requests[1].Query, "GetOrders")
}

func TestGetProductAnalyticsZeroStock(t *testing.T) {
	productID := "gid://shopify/Product/42"
	executor := &stubExecutor{responses: map[string]map[string]interface{}{
		"query GetProduct(": {
			"product": map[string]interface{}{
				"id":             productID,
				"title":          "Widget",
				"totalInventory": float64(0),
			},
		},
		"query GetOrders": ordersData(
			orderFixture("40.00", "USD", "c1", lineItemFixture(productID, "Widget", 4, "40.00")),
		),
	}}

	analytics, err := newUseCase(executor).GetProductAnalytics(context.Background(),
		catalog.Arguments{"product_id": "42", "days": 30})
	require.NoError(t, err)

	assert.Equal(t, 4, analytics.QuantitySold)
	assert.Zero(t, analytics.TurnoverRate)
}

func TestGetProductAnalyticsNotFound(t *testing.T) {
	executor := &stubExecutor{responses: map[string]map[string]interface{}{
		"query GetProduct(": {"product": nil},
	}}

	_, err := newUseCase(executor).GetProductAnalytics(context.Background(),
		catalog.Arguments{"product_id": "42", "days": 30})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product not found")
}

func TestPassThroughOperations(t *testing.T) {
	raw := decode(t, `{"orders":{"edges":[{"node":{"id":"gid://shopify/Order/1"}}]}}`)
	executor := &stubExecutor{responses: map[string]map[string]interface{}{
		"query GetOrders": raw,
	}}

	data, err := newUseCase(executor).GetOrders(context.Background(),
		catalog.Arguments{"status": "any", "financial_status": "any", "limit": 50})
	require.NoError(t, err)

	// Raw upstream data is forwarded unmodified.
	assert.Equal(t, raw, data)
}

func TestUpdateInventoryPassThrough(t *testing.T) {
	raw := decode(t, `{"inventoryAdjustQuantities":{"inventoryAdjustmentGroup":{"reason":"correction"}}}`)
	executor := &stubExecutor{responses: map[string]map[string]interface{}{
		"mutation AdjustInventory": raw,
	}}

	data, err := newUseCase(executor).UpdateInventory(context.Background(), catalog.Arguments{
		"inventory_item_id": "1",
		"location_id":       "2",
		"available":         3,
	})
	require.NoError(t, err)
	assert.Equal(t, raw, data)
}
