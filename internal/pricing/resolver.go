package pricing

import (
	"poolquote/internal/domain"
	"poolquote/internal/geometry"
)

// ResolveAll prices a whole product set at once, in dependency order:
//
//  1. seed the reference map with every fixed product's unit_price
//  2. resolve surface_coefficient products (geometry only) and add
//     them to the reference map, so percentage products may reference
//     a surface-priced skeleton
//  3. resolve fixed products through Calculate for the uniform envelope
//  4. resolve percentage products against whatever the map holds now
//
// This is a single pass, not a topological sort: a percentage product
// referencing another percentage product reads an unresolved value and
// falls back to its unit_price. Chained percentage pricing is
// unsupported catalog data, kept unsupported on purpose.
func ResolveAll(products []domain.Product, shape geometry.Shape, dims geometry.Dimensions) map[string]Calculated {
	ctx := Context{
		ReferencePrices: make(map[string]float64, len(products)),
		Shape:           shape,
		Dimensions:      dims,
	}
	for _, p := range products {
		if p.PriceType == domain.PriceFixed || p.PriceType == "" {
			ctx.ReferencePrices[p.ID] = p.UnitPrice
		}
	}

	out := make(map[string]Calculated, len(products))

	for _, p := range products {
		if p.PriceType != domain.PriceSurfaceCoefficient {
			continue
		}
		c := Calculate(p, ctx)
		out[p.ID] = c
		ctx.ReferencePrices[p.ID] = c.Price
	}

	for _, p := range products {
		if p.PriceType == domain.PriceFixed || p.PriceType == "" {
			out[p.ID] = Calculate(p, ctx)
		}
	}

	for _, p := range products {
		if p.PriceType == domain.PricePercentage {
			out[p.ID] = Calculate(p, ctx)
		}
	}

	return out
}
