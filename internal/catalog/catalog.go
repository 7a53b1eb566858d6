// Package catalog holds the static registry of operations exposed as MCP
// tools, together with the argument normalization rules each one declares.
package catalog

// ParamType is the JSON schema type of a tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
)

// Parameter describes one input field of an operation.
type Parameter struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	// Enum lists the allowed values for closed-set string parameters.
	// Normalization does not reject values outside this set; the upstream
	// filter syntax tolerates unknown values.
	Enum []string
	// Default is applied when the caller omits the field. For integer
	// parameters it also replaces non-positive values.
	Default interface{}
	// Min/Max clamp integer parameters into their valid range.
	Min int
	Max int
}

// OperationDefinition is one immutable catalog entry.
type OperationDefinition struct {
	Name        string
	Description string
	Parameters  []Parameter
}

var orderStatusEnum = []string{"any", "open", "closed", "cancelled"}

var financialStatusEnum = []string{
	"any", "authorized", "pending", "paid", "partially_paid",
	"refunded", "voided", "partially_refunded", "unpaid",
}

var productStatusEnum = []string{"active", "archived", "draft"}

func limitParam(description string) Parameter {
	return Parameter{
		Name:        "limit",
		Type:        TypeInteger,
		Description: description,
		Default:     50,
		Min:         1,
		Max:         250,
	}
}

func daysParam(description string) Parameter {
	return Parameter{
		Name:        "days",
		Type:        TypeInteger,
		Description: description,
		Default:     30,
		Min:         1,
		Max:         365,
	}
}

// definitions is built once at init and never mutated.
var definitions = []OperationDefinition{
	{
		Name:        "get_orders",
		Description: "Retrieve orders with optional status and financial status filters",
		Parameters: []Parameter{
			{
				Name:        "status",
				Type:        TypeString,
				Description: "Order status filter",
				Enum:        orderStatusEnum,
				Default:     "any",
			},
			{
				Name:        "financial_status",
				Type:        TypeString,
				Description: "Financial status filter",
				Enum:        financialStatusEnum,
				Default:     "any",
			},
			limitParam("Maximum number of orders to return (1-250)"),
		},
	},
	{
		Name:        "get_financial_summary",
		Description: "Summarize revenue, order count and average order value over a recent window",
		Parameters: []Parameter{
			daysParam("Number of days to include in the summary (1-365)"),
		},
	},
	{
		Name:        "get_transactions",
		Description: "Retrieve payment transactions for a single order",
		Parameters: []Parameter{
			{
				Name:        "order_id",
				Type:        TypeString,
				Description: "Order ID (numeric or gid://shopify/Order/...)",
				Required:    true,
			},
			limitParam("Maximum number of transactions to return (1-250)"),
		},
	},
	{
		Name:        "get_inventory_levels",
		Description: "Retrieve available inventory quantities per location",
		Parameters: []Parameter{
			{
				Name:        "location_id",
				Type:        TypeString,
				Description: "Restrict to one location (numeric or gid://shopify/Location/...)",
			},
			limitParam("Maximum number of inventory levels per location (1-250)"),
		},
	},
	{
		Name:        "get_products",
		Description: "Retrieve products with variants and stock levels",
		Parameters: []Parameter{
			{
				Name:        "status",
				Type:        TypeString,
				Description: "Product status filter",
				Enum:        productStatusEnum,
			},
			limitParam("Maximum number of products to return (1-250)"),
		},
	},
	{
		Name:        "update_inventory",
		Description: "Adjust the available quantity of an inventory item at a location",
		Parameters: []Parameter{
			{
				Name:        "inventory_item_id",
				Type:        TypeString,
				Description: "Inventory item ID (numeric or gid://shopify/InventoryItem/...)",
				Required:    true,
			},
			{
				Name:        "location_id",
				Type:        TypeString,
				Description: "Location ID (numeric or gid://shopify/Location/...)",
				Required:    true,
			},
			{
				Name:        "available",
				Type:        TypeInteger,
				Description: "Quantity delta to apply to the available count",
				Required:    true,
			},
		},
	},
	{
		Name:        "get_store_summary",
		Description: "Merge product count, latest order and recent revenue into one store overview",
		Parameters:  []Parameter{},
	},
	{
		Name:        "get_sales_summary",
		Description: "Summarize sales over a recent window including top products and unique customers",
		Parameters: []Parameter{
			daysParam("Number of days to include in the summary (1-365)"),
		},
	},
	{
		Name:        "get_product_analytics",
		Description: "Compute sales velocity and turnover rate for a single product",
		Parameters: []Parameter{
			{
				Name:        "product_id",
				Type:        TypeString,
				Description: "Product ID (numeric or gid://shopify/Product/...)",
				Required:    true,
			},
			daysParam("Number of days of order history to scan (1-365)"),
		},
	},
}

// Definitions returns the ordered operation catalog. The returned slice is
// shared; callers must treat it as read-only.
func Definitions() []OperationDefinition {
	return definitions
}

// Lookup finds a definition by operation name.
func Lookup(name string) (OperationDefinition, bool) {
	for _, def := range definitions {
		if def.Name == name {
			return def, true
		}
	}
	return OperationDefinition{}, false
}
