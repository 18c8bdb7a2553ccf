package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"poolquote/internal/domain"
	"poolquote/internal/geometry"
)

func TestResolveAllPercentageOfFixed(t *testing.T) {
	products := []domain.Product{
		{ID: "a", UnitPrice: 1000, PriceType: domain.PriceFixed},
		{ID: "b", PriceType: domain.PricePercentage, PricePercentage: 10, PriceRefProductID: "a", PriceMinimum: 50},
	}
	out := ResolveAll(products, geometry.ShapeRectangle, geometry.Dimensions{Width: 3, Length: 6, Depth: 1.5})

	assert.Equal(t, 1000.0, out["a"].Price)
	assert.Equal(t, 100.0, out["b"].Price)
	assert.False(t, out["b"].MinimumApplied)
}

func TestResolveAllMinimumFloor(t *testing.T) {
	products := []domain.Product{
		{ID: "a", UnitPrice: 400, PriceType: domain.PriceFixed},
		{ID: "b", PriceType: domain.PricePercentage, PricePercentage: 10, PriceRefProductID: "a", PriceMinimum: 50},
	}
	out := ResolveAll(products, geometry.ShapeRectangle, geometry.Dimensions{Width: 3, Length: 6, Depth: 1.5})

	assert.Equal(t, 50.0, out["b"].Price)
	assert.True(t, out["b"].MinimumApplied)
}

func TestResolveAllPercentageOfSurfacePricedSkeleton(t *testing.T) {
	products := []domain.Product{
		{ID: "skelet", PriceType: domain.PriceSurfaceCoefficient, PriceCoefficient: 1450, CoefficientBasis: domain.BasisSurface},
		{ID: "doprava", PriceType: domain.PricePercentage, PricePercentage: 5, PriceRefProductID: "skelet"},
	}
	out := ResolveAll(products, geometry.ShapeRectangle, geometry.Dimensions{Width: 3, Length: 6, Depth: 1.5})

	// 45 m² × 1450 = 65250, transport 5% of that
	assert.InDelta(t, 65250.0, out["skelet"].Price, 1e-9)
	assert.InDelta(t, 3262.5, out["doprava"].Price, 1e-6)
	assert.True(t, out["doprava"].ReferenceFound)
}

func TestResolveAllTransportMinimum(t *testing.T) {
	products := []domain.Product{
		{ID: "skelet", PriceType: domain.PriceSurfaceCoefficient, PriceCoefficient: 1450, CoefficientBasis: domain.BasisSurface},
		{ID: "doprava", PriceType: domain.PricePercentage, PricePercentage: 5, PriceRefProductID: "skelet", PriceMinimum: 4900},
	}
	out := ResolveAll(products, geometry.ShapeRectangle, geometry.Dimensions{Width: 3, Length: 6, Depth: 1.5})

	assert.Equal(t, 4900.0, out["doprava"].Price)
	assert.True(t, out["doprava"].MinimumApplied)
}

func TestResolveAllChainedPercentageFallsBack(t *testing.T) {
	products := []domain.Product{
		{ID: "a", UnitPrice: 1000, PriceType: domain.PriceFixed},
		{ID: "b", PriceType: domain.PricePercentage, PricePercentage: 10, PriceRefProductID: "a"},
		{ID: "c", UnitPrice: 42, PriceType: domain.PricePercentage, PricePercentage: 50, PriceRefProductID: "b"},
	}
	out := ResolveAll(products, geometry.ShapeRectangle, geometry.Dimensions{Width: 3, Length: 6, Depth: 1.5})

	// b is not in the reference map (only fixed and coefficient products
	// seed it), so c prices at its own unit_price.
	assert.Equal(t, 42.0, out["c"].Price)
	assert.True(t, out["c"].FellBack)
}
