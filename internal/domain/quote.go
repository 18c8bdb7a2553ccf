package domain

// Quote statuses. Accepted quotes may be converted into exactly one order.
const (
	QuoteDraft    = "draft"
	QuoteSent     = "sent"
	QuoteAccepted = "accepted"
	QuoteRejected = "rejected"
)

// Variant tier names (at most one of each per quote).
const (
	VariantEconomy = "ekonomicka"
	VariantOptimal = "optimalni"
	VariantPremium = "premiova"
)

type Quote struct {
	ID              string  `db:"id"`
	QuoteNumber     string  `db:"quote_number"`
	ConfigurationID string  `db:"configuration_id"` // empty for manual quotes
	CustomerName    string  `db:"customer_name"`
	CustomerEmail   string  `db:"customer_email"`
	CustomerPhone   string  `db:"customer_phone"`
	PoolConfig      string  `db:"pool_config_json"` // denormalized snapshot
	Subtotal        float64 `db:"subtotal"`
	DiscountPercent float64 `db:"discount_percent"`
	DiscountAmount  float64 `db:"discount_amount"`
	TotalPrice      float64 `db:"total_price"`
	Status          string  `db:"status"`
	ValidUntil      string  `db:"valid_until"`
	CreatedAt       string  `db:"created_at"`
	UpdatedAt       string  `db:"updated_at"`
}

// QuoteItem is one line of a quote. ProductID may be empty for freeform
// lines. TotalPrice is stored as entered (quantity × unit price is the
// front-end contract), never recomputed here.
type QuoteItem struct {
	ID         string  `db:"id"`
	QuoteID    string  `db:"quote_id"`
	ProductID  string  `db:"product_id"`
	Name       string  `db:"name"`
	Category   string  `db:"category"`
	Quantity   float64 `db:"quantity"`
	Unit       string  `db:"unit"`
	UnitPrice  float64 `db:"unit_price"`
	TotalPrice float64 `db:"total_price"`
	SortOrder  int     `db:"sort_order"`
}

// QuoteVariant is an optional pricing tier within one quote. Its totals
// cover only the items linked to it through quote_item_variants.
type QuoteVariant struct {
	ID              string  `db:"id"`
	QuoteID         string  `db:"quote_id"`
	Name            string  `db:"name"`
	Subtotal        float64 `db:"subtotal"`
	DiscountPercent float64 `db:"discount_percent"`
	DiscountAmount  float64 `db:"discount_amount"`
	TotalPrice      float64 `db:"total_price"`
	SortOrder       int     `db:"sort_order"`
}

// QuoteVersion is an immutable snapshot of a quote and its items.
// Versions are append-only; restore never rewrites history.
type QuoteVersion struct {
	ID            string `db:"id"`
	QuoteID       string `db:"quote_id"`
	VersionNumber int    `db:"version_number"`
	Snapshot      string `db:"snapshot_json"`
	Note          string `db:"note"`
	CreatedAt     string `db:"created_at"`
}
