package pricing

import (
	"poolquote/internal/domain"
	"poolquote/internal/geometry"
)

// Context carries everything Calculate may need: already-resolved
// reference prices for percentage products and either a precomputed
// pool surface or shape+dimensions to derive geometry from.
type Context struct {
	// ReferencePrices maps product id → resolved price. Percentage
	// products read their reference here.
	ReferencePrices map[string]float64

	// PoolSurface, when > 0, takes priority over recomputation from
	// Shape+Dimensions.
	PoolSurface float64

	Shape      geometry.Shape
	Dimensions geometry.Dimensions
}

func (ctx Context) surface() float64 {
	if ctx.PoolSurface > 0 {
		return ctx.PoolSurface
	}
	return geometry.Surface(ctx.Shape, ctx.Dimensions)
}

func (ctx Context) perimeter() float64 {
	return geometry.Perimeter(ctx.Shape, ctx.Dimensions)
}

// Calculated is the uniform price envelope every price type produces.
// The derivation fields let the admin UI explain where a number came
// from without re-running the calculation.
type Calculated struct {
	Price     float64
	PriceType domain.PriceType

	// percentage derivation
	ReferencePrice float64
	ReferenceFound bool
	Percentage     float64
	MinimumApplied bool

	// surface_coefficient derivation
	Coefficient float64
	Basis       float64 // surface m² or perimeter bm actually used

	// FellBack is set whenever the branch could not price the product
	// and unit_price was used instead.
	FellBack bool

	RequiredSurchargeIDs []string
}

// Calculate derives one product's effective price. It never fails:
// every branch that cannot resolve falls back to the product's
// unit_price, so callers can build line items without per-item error
// handling. A misconfigured percentage reference therefore silently
// prices at unit_price — typically 0, which is obvious to an operator
// reviewing the quote.
func Calculate(p domain.Product, ctx Context) Calculated {
	out := Calculated{
		PriceType:            p.PriceType,
		RequiredSurchargeIDs: p.RequiredSurchargeIDs(),
	}
	if out.PriceType == "" {
		out.PriceType = domain.PriceFixed
	}

	switch out.PriceType {
	case domain.PricePercentage:
		ref, ok := ctx.ReferencePrices[p.PriceRefProductID]
		if !ok {
			out.Price = p.UnitPrice
			out.FellBack = true
			return out
		}
		out.ReferencePrice = ref
		out.ReferenceFound = true
		out.Percentage = p.PricePercentage
		out.Price = ref * p.PricePercentage / 100
		if p.PriceMinimum > 0 && out.Price < p.PriceMinimum {
			out.Price = p.PriceMinimum
			out.MinimumApplied = true
		}
		return out

	case domain.PriceSurfaceCoefficient:
		basis := ctx.surface()
		if p.CoefficientBasis == domain.BasisPerimeter {
			basis = ctx.perimeter()
		}
		if basis <= 0 {
			out.Price = p.UnitPrice
			out.FellBack = true
			return out
		}
		out.Coefficient = p.PriceCoefficient
		out.Basis = basis
		out.Price = basis * p.PriceCoefficient
		return out
	}

	out.Price = p.UnitPrice
	return out
}
