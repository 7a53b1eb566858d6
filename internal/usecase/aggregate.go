package usecase

import (
	"sort"
	"strconv"
)

// FinancialSummary is the aggregated payload of get_financial_summary.
type FinancialSummary struct {
	PeriodDays        int     `json:"period_days"`
	OrderCount        int     `json:"order_count"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
	Currency          string  `json:"currency"`
}

// ProductSales is one ranked entry in a sales summary.
type ProductSales struct {
	ProductID    string  `json:"product_id"`
	Title        string  `json:"title"`
	QuantitySold int     `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

// SalesSummary is the aggregated payload of get_sales_summary.
type SalesSummary struct {
	PeriodDays        int            `json:"period_days"`
	OrderCount        int            `json:"order_count"`
	TotalRevenue      float64        `json:"total_revenue"`
	AverageOrderValue float64        `json:"average_order_value"`
	Currency          string         `json:"currency"`
	UniqueCustomers   int            `json:"unique_customers"`
	TopProducts       []ProductSales `json:"top_products"`
}

// StoreSummary is the aggregated payload of get_store_summary.
type StoreSummary struct {
	ProductCount      int     `json:"product_count"`
	SampledOrderCount int     `json:"sampled_order_count"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
	Currency          string  `json:"currency"`
	LatestOrderName   string  `json:"latest_order_name,omitempty"`
	LatestOrderAt     string  `json:"latest_order_at,omitempty"`
}

// ProductAnalytics is the aggregated payload of get_product_analytics.
type ProductAnalytics struct {
	ProductID    string  `json:"product_id"`
	Title        string  `json:"title"`
	PeriodDays   int     `json:"period_days"`
	CurrentStock int     `json:"current_stock"`
	QuantitySold int     `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
	TurnoverRate float64 `json:"turnover_rate"`
}

// Traversal helpers for the decoded upstream shapes. Money fields arrive as
// decimal strings and are parsed to float64; precision loss is accepted.

func getMap(m map[string]interface{}, key string) map[string]interface{} {
	v, _ := m[key].(map[string]interface{})
	return v
}

func getSlice(m map[string]interface{}, key string) []interface{} {
	v, _ := m[key].([]interface{})
	return v
}

func getString(m map[string]interface{}, key string) string {
	v, _ := m[key].(string)
	return v
}

func getInt(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func parseAmount(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// connectionNodes extracts the node maps from a GraphQL connection under the
// given key.
func connectionNodes(data map[string]interface{}, key string) []map[string]interface{} {
	edges := getSlice(getMap(data, key), "edges")
	nodes := make([]map[string]interface{}, 0, len(edges))
	for _, e := range edges {
		edge, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		if node := getMap(edge, "node"); node != nil {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// orderMoney returns the total amount and currency of one order node.
func orderMoney(order map[string]interface{}) (float64, string) {
	money := getMap(getMap(order, "totalPriceSet"), "shopMoney")
	if money == nil {
		return 0, ""
	}
	return parseAmount(getString(money, "amount")), getString(money, "currencyCode")
}

// lineItemRevenue returns the line item's extended total.
func lineItemRevenue(item map[string]interface{}) float64 {
	money := getMap(getMap(item, "originalTotalSet"), "shopMoney")
	if money == nil {
		return 0
	}
	return parseAmount(getString(money, "amount"))
}

// revenueTotals sums order totals over one page of orders. Currency is taken
// from the first order carrying one, defaulting to USD for empty pages.
func revenueTotals(orders []map[string]interface{}) (total float64, currency string) {
	currency = "USD"
	seen := false
	for _, order := range orders {
		amount, cur := orderMoney(order)
		total += amount
		if !seen && cur != "" {
			currency = cur
			seen = true
		}
	}
	return total, currency
}

func averageOrderValue(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// aggregateFinancialSummary sums one page of windowed orders.
func aggregateFinancialSummary(days int, orders []map[string]interface{}) *FinancialSummary {
	total, currency := revenueTotals(orders)
	return &FinancialSummary{
		PeriodDays:        days,
		OrderCount:        len(orders),
		TotalRevenue:      total,
		AverageOrderValue: averageOrderValue(total, len(orders)),
		Currency:          currency,
	}
}

// aggregateSalesSummary extends the financial roll-up with per-product
// accumulation, top-10 ranking and a distinct customer count.
func aggregateSalesSummary(days int, orders []map[string]interface{}) *SalesSummary {
	total, currency := revenueTotals(orders)

	type bucket struct {
		sales ProductSales
		seq   int
	}
	byProduct := make(map[string]*bucket)
	customers := make(map[string]struct{})
	seq := 0

	for _, order := range orders {
		if id := getString(getMap(order, "customer"), "id"); id != "" {
			customers[id] = struct{}{}
		}

		for _, item := range connectionNodes(order, "lineItems") {
			title := getString(item, "title")
			key := getString(getMap(item, "product"), "id")
			if key == "" {
				// Line items with no linked product fall back to the title.
				key = title
			}
			b, ok := byProduct[key]
			if !ok {
				b = &bucket{sales: ProductSales{ProductID: key, Title: title}, seq: seq}
				byProduct[key] = b
				seq++
			}
			b.sales.QuantitySold += getInt(item, "quantity")
			b.sales.Revenue += lineItemRevenue(item)
		}
	}

	buckets := make([]*bucket, 0, len(byProduct))
	for _, b := range byProduct {
		buckets = append(buckets, b)
	}
	// Encounter order first so the revenue sort below is a stable ranking.
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].seq < buckets[j].seq })
	sort.SliceStable(buckets, func(i, j int) bool { return buckets[i].sales.Revenue > buckets[j].sales.Revenue })

	top := make([]ProductSales, 0, 10)
	for _, b := range buckets {
		if len(top) == 10 {
			break
		}
		top = append(top, b.sales)
	}

	return &SalesSummary{
		PeriodDays:        days,
		OrderCount:        len(orders),
		TotalRevenue:      total,
		AverageOrderValue: averageOrderValue(total, len(orders)),
		Currency:          currency,
		UniqueCustomers:   len(customers),
		TopProducts:       top,
	}
}

// aggregateProductAnalytics filters a broad order scan down to line items
// matching the product and derives the turnover rate. A product with zero
// stock reports a turnover of 0 rather than dividing by zero.
func aggregateProductAnalytics(productID string, days int, product map[string]interface{}, orders []map[string]interface{}) *ProductAnalytics {
	analytics := &ProductAnalytics{
		ProductID:    productID,
		Title:        getString(product, "title"),
		PeriodDays:   days,
		CurrentStock: getInt(product, "totalInventory"),
	}

	for _, order := range orders {
		for _, item := range connectionNodes(order, "lineItems") {
			if getString(getMap(item, "product"), "id") != productID {
				continue
			}
			analytics.QuantitySold += getInt(item, "quantity")
			analytics.Revenue += lineItemRevenue(item)
		}
	}

	if analytics.CurrentStock > 0 {
		analytics.TurnoverRate = float64(analytics.QuantitySold) / float64(analytics.CurrentStock) * 100
	}
	return analytics
}
