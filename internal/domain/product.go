package domain

import "encoding/json"

// PriceType discriminates how a product's effective price is derived.
type PriceType string

const (
	PriceFixed              PriceType = "fixed"
	PricePercentage         PriceType = "percentage"
	PriceSurfaceCoefficient PriceType = "surface_coefficient"
)

// CoefficientBasis selects what a surface_coefficient product multiplies.
// Most multiply the wetted surface in m²; a few legacy rim addons are
// priced per running meter (bm) of perimeter.
const (
	BasisSurface   = "surface"
	BasisPerimeter = "perimeter"
)

// Product categories. The four coarse ones drive quote grouping; the
// finer technical ones exist for the admin catalog filters.
const (
	CategoryPools       = "bazeny"
	CategoryAccessories = "prislusenstvi"
	CategoryServices    = "sluzby"
	CategoryTransport   = "doprava"
	CategorySkeletons   = "skelety"
	CategorySets        = "sety"
	CategoryTechnology  = "technologie"
)

type Product struct {
	ID                 string    `db:"id"`
	Code               string    `db:"code"`
	Name               string    `db:"name"`
	Category           string    `db:"category"`
	Unit               string    `db:"unit"` // ks, m2, bm, m3
	UnitPrice          float64   `db:"unit_price"`
	PriceType          PriceType `db:"price_type"`
	PricePercentage    float64   `db:"price_percentage"`
	PriceRefProductID  string    `db:"price_ref_product_id"`
	PriceMinimum       float64   `db:"price_minimum"`
	PriceCoefficient   float64   `db:"price_coefficient"`
	CoefficientBasis   string    `db:"coefficient_basis"`
	RequiredSurcharges string    `db:"required_surcharges_json"`
	Active             bool      `db:"active"`
	CreatedAt          string    `db:"created_at"`
	UpdatedAt          string    `db:"updated_at"`
}

// RequiredSurchargeIDs decodes the JSON id list of products that must
// accompany this one on a quote. A broken value is treated as empty.
func (p Product) RequiredSurchargeIDs() []string {
	if p.RequiredSurcharges == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(p.RequiredSurcharges), &ids); err != nil {
		return nil
	}
	return ids
}

// SetAddon trigger kinds. Manual addons (empty kind) are never
// auto-attached; the admin picks them per quote.
const (
	TriggerDepth        = "depth"
	TriggerSharpCorners = "sharp_corners"
	TriggerStairs       = "stairs"
)

// SetAddon is an optional extra bundled conditionally with one specific
// set product.
type SetAddon struct {
	ID           string  `db:"id"`
	ProductID    string  `db:"product_id"` // owning set
	Name         string  `db:"name"`
	Price        float64 `db:"price"`
	TriggerKind  string  `db:"trigger_kind"`
	TriggerValue string  `db:"trigger_value"`
	SortOrder    int     `db:"sort_order"`
}

// MappingRule links a configurator choice (field=value) to a catalog
// product. Shapes restricts the rule to a subset of pool shapes; empty
// means all. ProductID may be empty — such rules are shown to admins
// as unassigned and skipped at generation time.
type MappingRule struct {
	ID        string  `db:"id"`
	Field     string  `db:"field"`
	Value     string  `db:"value"`
	Shapes    string  `db:"shapes_json"`
	ProductID string  `db:"product_id"`
	Quantity  float64 `db:"quantity"`
	SortOrder int     `db:"sort_order"`
	Active    bool    `db:"active"`
}

// ShapeList decodes the JSON shape restriction; nil means no restriction.
func (r MappingRule) ShapeList() []string {
	if r.Shapes == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(r.Shapes), &out); err != nil {
		return nil
	}
	return out
}

// AppliesToShape reports whether the rule may fire for the given shape.
func (r MappingRule) AppliesToShape(shape string) bool {
	list := r.ShapeList()
	if len(list) == 0 {
		return true
	}
	for _, s := range list {
		if s == shape {
			return true
		}
	}
	return false
}
