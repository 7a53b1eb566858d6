package shopify

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopmcp/shopify-mcp-server/internal/catalog"
)

// Query documents for the catalog's operations. Page sizes are capped at 250
// by normalization; no retry-on-cost-limit logic exists at this layer.
const (
	ordersQuery = `query GetOrders($first: Int!, $query: String) {
  orders(first: $first, query: $query, sortKey: CREATED_AT, reverse: true) {
    edges {
      node {
        id
        name
        createdAt
        displayFinancialStatus
        displayFulfillmentStatus
        totalPriceSet { shopMoney { amount currencyCode } }
        customer { id email }
        lineItems(first: 20) {
          edges {
            node {
              title
              quantity
              originalTotalSet { shopMoney { amount } }
              product { id }
            }
          }
        }
      }
    }
  }
}`

	transactionsQuery = `query GetTransactions($id: ID!, $first: Int!) {
  order(id: $id) {
    id
    name
    transactions(first: $first) {
      id
      kind
      status
      gateway
      createdAt
      amountSet { shopMoney { amount currencyCode } }
    }
  }
}`

	inventoryLevelsQuery = `query GetInventoryLevels($first: Int!, $locationQuery: String) {
  locations(first: 10, query: $locationQuery) {
    edges {
      node {
        id
        name
        inventoryLevels(first: $first) {
          edges {
            node {
              quantities(names: ["available"]) { name quantity }
              item {
                id
                sku
                variant { id displayName }
              }
            }
          }
        }
      }
    }
  }
}`

	productsQuery = `query GetProducts($first: Int!, $query: String) {
  products(first: $first, query: $query) {
    edges {
      node {
        id
        title
        handle
        status
        totalInventory
        createdAt
        variants(first: 20) {
          edges {
            node {
              id
              title
              sku
              price
              inventoryQuantity
            }
          }
        }
      }
    }
  }
}`

	updateInventoryMutation = `mutation AdjustInventory($input: InventoryAdjustQuantitiesInput!) {
  inventoryAdjustQuantities(input: $input) {
    inventoryAdjustmentGroup {
      createdAt
      reason
      changes { name delta }
    }
    userErrors { field message }
  }
}`

	productsCountQuery = `query GetProductsCount {
  productsCount { count }
}`

	latestOrderQuery = `query GetLatestOrder {
  orders(first: 1, sortKey: CREATED_AT, reverse: true) {
    edges {
      node {
        id
        name
        createdAt
        totalPriceSet { shopMoney { amount currencyCode } }
      }
    }
  }
}`

	recentOrdersQuery = `query GetRecentOrders($first: Int!) {
  orders(first: $first, sortKey: CREATED_AT, reverse: true) {
    edges {
      node {
        id
        createdAt
        totalPriceSet { shopMoney { amount currencyCode } }
      }
    }
  }
}`

	productByIDQuery = `query GetProduct($id: ID!) {
  product(id: $id) {
    id
    title
    status
    totalInventory
    variants(first: 20) {
      edges {
        node {
          id
          title
          price
          inventoryQuantity
        }
      }
    }
  }
}`
)

// Composer builds upstream requests from normalized arguments. The clock is
// injectable so date-windowed compositions are pure under test.
type Composer struct {
	now func() time.Time
}

// NewComposer returns a composer using the wall clock.
func NewComposer() *Composer {
	return &Composer{now: time.Now}
}

// NewComposerWithClock returns a composer with a fixed clock.
func NewComposerWithClock(now func() time.Time) *Composer {
	return &Composer{now: now}
}

// buildFilter joins predicate clauses with " AND ". Empty clauses are
// dropped; a value of "any" means the caller omitted that predicate.
func buildFilter(clauses ...string) string {
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " AND ")
}

func statusClause(field, value string) string {
	if value == "" || value == "any" {
		return ""
	}
	return field + ":" + value
}

// sinceClause builds an inclusive created_at lower bound of now minus the
// given number of days, in UTC RFC3339 form.
func (c *Composer) sinceClause(days int) string {
	since := c.now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)
	return "created_at:>=" + since
}

// Orders composes the get_orders query.
func (c *Composer) Orders(args catalog.Arguments) Request {
	vars := map[string]interface{}{"first": args.Int("limit")}
	if filter := buildFilter(
		statusClause("status", args.String("status")),
		statusClause("financial_status", args.String("financial_status")),
	); filter != "" {
		vars["query"] = filter
	}
	return Request{Query: ordersQuery, Variables: vars}
}

// OrdersSince composes the windowed order scan used by the financial and
// sales summaries: one page of up to 250 orders created in the last N days.
func (c *Composer) OrdersSince(days int) Request {
	return Request{
		Query: ordersQuery,
		Variables: map[string]interface{}{
			"first": 250,
			"query": buildFilter(c.sinceClause(days)),
		},
	}
}

// Transactions composes the get_transactions query.
func (c *Composer) Transactions(args catalog.Arguments) Request {
	return Request{
		Query: transactionsQuery,
		Variables: map[string]interface{}{
			"id":    OrderGID(args.String("order_id")),
			"first": args.Int("limit"),
		},
	}
}

// InventoryLevels composes the get_inventory_levels query.
func (c *Composer) InventoryLevels(args catalog.Arguments) Request {
	vars := map[string]interface{}{"first": args.Int("limit")}
	if loc := args.String("location_id"); loc != "" {
		vars["locationQuery"] = "id:" + NumericID(loc)
	}
	return Request{Query: inventoryLevelsQuery, Variables: vars}
}

// Products composes the get_products query.
func (c *Composer) Products(args catalog.Arguments) Request {
	vars := map[string]interface{}{"first": args.Int("limit")}
	if filter := buildFilter(statusClause("status", args.String("status"))); filter != "" {
		vars["query"] = filter
	}
	return Request{Query: productsQuery, Variables: vars}
}

// UpdateInventory composes the quantity-adjustment mutation: a single change
// entry against the "available" quantity with a fixed "correction" reason.
func (c *Composer) UpdateInventory(args catalog.Arguments) Request {
	return Request{
		Query: updateInventoryMutation,
		Variables: map[string]interface{}{
			"input": map[string]interface{}{
				"reason": "correction",
				"name":   "available",
				"changes": []map[string]interface{}{
					{
						"delta":           args.Int("available"),
						"inventoryItemId": InventoryItemGID(args.String("inventory_item_id")),
						"locationId":      LocationGID(args.String("location_id")),
					},
				},
			},
		},
	}
}

// ProductsCount composes the product existence probe for get_store_summary.
func (c *Composer) ProductsCount() Request {
	return Request{Query: productsCountQuery}
}

// LatestOrder composes the most-recent-order probe for get_store_summary.
func (c *Composer) LatestOrder() Request {
	return Request{Query: latestOrderQuery}
}

// RecentOrders composes the revenue sample for get_store_summary.
func (c *Composer) RecentOrders(first int) Request {
	return Request{
		Query:     recentOrdersQuery,
		Variables: map[string]interface{}{"first": first},
	}
}

// ProductByID composes the product fetch for get_product_analytics.
func (c *Composer) ProductByID(productID string) Request {
	return Request{
		Query:     productByIDQuery,
		Variables: map[string]interface{}{"id": ProductGID(productID)},
	}
}

// GID helpers. Callers may pass bare numeric ids or full
// gid://shopify/... identifiers; composed requests always carry the full
// form.

func gid(resource, id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return fmt.Sprintf("gid://shopify/%s/%s", resource, id)
}

// OrderGID expands an order id to its GID form.
func OrderGID(id string) string { return gid("Order", id) }

// ProductGID expands a product id to its GID form.
func ProductGID(id string) string { return gid("Product", id) }

// LocationGID expands a location id to its GID form.
func LocationGID(id string) string { return gid("Location", id) }

// InventoryItemGID expands an inventory item id to its GID form.
func InventoryItemGID(id string) string { return gid("InventoryItem", id) }

// NumericID strips a GID down to its trailing numeric id.
func NumericID(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[i+1:]
	}
	return id
}
