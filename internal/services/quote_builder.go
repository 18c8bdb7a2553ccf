package services

import (
	"database/sql"
	"strconv"
	"strings"

	"poolquote/internal/domain"
	"poolquote/internal/geometry"
	"poolquote/internal/pricing"
	"poolquote/internal/repos"
)

// Sharp corners on an individually priced skeleton cost a tenth of the
// skeleton price. This is a manufacturing rule, not catalog data.
const sharpCornersRate = 0.10

// QuoteBuilder turns a customer configuration into the ordered list of
// priced line-item drafts for a new quote. SetCodes is the external
// dimension-key → set-code lookup table, supplied as deployment
// configuration.
type QuoteBuilder struct {
	Products *repos.ProductRepo
	Rules    *repos.MappingRuleRepo
	SetCodes map[string]string
}

func NewQuoteBuilder(products *repos.ProductRepo, rules *repos.MappingRuleRepo, setCodes map[string]string) *QuoteBuilder {
	return &QuoteBuilder{Products: products, Rules: rules, SetCodes: setCodes}
}

// Build generates quote items in the fixed order quotes always show:
// the pool (set or skeleton) first, then its bundled additions, then
// mapping-rule accessories in configurator-field order. Every price
// flows through the price resolver, never raw unit_price, so
// percentage- and coefficient-priced accessories resolve against the
// skeleton/set actually chosen.
func (b *QuoteBuilder) Build(cfg domain.Configuration) ([]domain.QuoteItem, error) {
	shape := effectiveShape(cfg)
	dims := geometry.Dimensions{
		Diameter: cfg.Diameter,
		Width:    cfg.Width,
		Length:   cfg.Length,
		Depth:    cfg.Depth,
	}

	catalog, err := b.Products.ListActive()
	if err != nil {
		return nil, err
	}
	resolved := pricing.ResolveAll(catalog, shape, dims)

	ctx := pricing.Context{
		ReferencePrices: make(map[string]float64, len(resolved)),
		Shape:           shape,
		Dimensions:      dims,
	}
	for id, c := range resolved {
		ctx.ReferencePrices[id] = c.Price
	}

	var items []domain.QuoteItem
	added := map[string]bool{}
	appendItem := func(it domain.QuoteItem) {
		it.SortOrder = len(items)
		items = append(items, it)
		if it.ProductID != "" {
			added[it.ProductID] = true
		}
	}

	set, haveSet, err := b.lookupSet(shape, dims)
	if err != nil {
		return nil, err
	}

	if haveSet {
		// The set price already bundles the skeleton and standard
		// accessories; later percentage references to the skeleton must
		// see the set price instead.
		if skeleton, ok, err := b.skeletonProduct(string(shape)); err != nil {
			return nil, err
		} else if ok {
			ctx.ReferencePrices[skeleton.ID] = set.UnitPrice
		}
		ctx.ReferencePrices[set.ID] = set.UnitPrice

		appendItem(domain.QuoteItem{
			ProductID:  set.ID,
			Name:       set.Name,
			Category:   set.Category,
			Quantity:   1,
			Unit:       set.Unit,
			UnitPrice:  set.UnitPrice,
			TotalPrice: set.UnitPrice,
		})

		addons, err := b.Products.Addons(set.ID)
		if err != nil {
			return nil, err
		}
		for _, a := range addons {
			if a.MatchesConfiguration(string(shape), cfg.Depth, cfg.Stairs) {
				appendItem(domain.QuoteItem{
					Name:       a.Name,
					Category:   domain.CategoryAccessories,
					Quantity:   1,
					Unit:       "ks",
					UnitPrice:  a.Price,
					TotalPrice: a.Price,
				})
			}
		}
	} else {
		item, err := b.skeletonItem(cfg, shape, ctx, resolved)
		if err != nil {
			return nil, err
		}
		if item != nil {
			ctx.ReferencePrices[item.ProductID] = item.UnitPrice
			appendItem(*item)
		}
	}

	// Mapping-rule accessories, in fixed configurator-field order.
	for _, field := range domain.AccessoryFields {
		value := cfg.FieldValue(field)
		if value == "" {
			continue
		}
		rules, err := b.Rules.ListActiveByField(field, value)
		if err != nil {
			return nil, err
		}
		rule, ok := domain.FirstMatch(rules, string(shape))
		if !ok || rule.ProductID == "" {
			// Unassigned rules are a catalog gap surfaced in the admin
			// UI, not a generation error.
			continue
		}
		p, err := b.Products.Get(rule.ProductID)
		if err != nil {
			if err == sql.ErrNoRows {
				continue
			}
			return nil, err
		}
		calc := pricing.Calculate(p, ctx)
		appendItem(domain.QuoteItem{
			ProductID:  p.ID,
			Name:       p.Name,
			Category:   p.Category,
			Quantity:   rule.Quantity,
			Unit:       p.Unit,
			UnitPrice:  calc.Price,
			TotalPrice: calc.Price * rule.Quantity,
		})

		for _, reqID := range calc.RequiredSurchargeIDs {
			if added[reqID] {
				continue
			}
			rp, err := b.Products.Get(reqID)
			if err != nil {
				continue
			}
			rc := pricing.Calculate(rp, ctx)
			appendItem(domain.QuoteItem{
				ProductID:  rp.ID,
				Name:       rp.Name,
				Category:   rp.Category,
				Quantity:   1,
				Unit:       rp.Unit,
				UnitPrice:  rc.Price,
				TotalPrice: rc.Price,
			})
		}
	}

	return items, nil
}

// effectiveShape applies the one-way 8mm → sharp corners dependency:
// choosing the 8 mm wall on a rectangular pool forces sharp corners.
func effectiveShape(cfg domain.Configuration) geometry.Shape {
	shape := geometry.Shape(cfg.Shape)
	if cfg.Thickness == "8mm" && shape == geometry.ShapeRectangle {
		shape = geometry.ShapeRectangleSharp
	}
	return shape
}

// lookupSet checks whether a pre-built set exists for the exact pool
// dimensions. The table key is "<length>-<width>"; circles have no
// stock sets.
func (b *QuoteBuilder) lookupSet(shape geometry.Shape, dims geometry.Dimensions) (domain.Product, bool, error) {
	if !geometry.IsRectangular(shape) || len(b.SetCodes) == 0 {
		return domain.Product{}, false, nil
	}
	key := trimNum(dims.Length) + "-" + trimNum(dims.Width)
	code, ok := b.SetCodes[key]
	if !ok {
		return domain.Product{}, false, nil
	}
	set, err := b.Products.GetByCode(code)
	if err != nil {
		if err == sql.ErrNoRows {
			// Table points at a code the catalog no longer has; price
			// an individual skeleton instead.
			return domain.Product{}, false, nil
		}
		return domain.Product{}, false, err
	}
	if !set.Active {
		return domain.Product{}, false, nil
	}
	return set, true, nil
}

// skeletonProduct resolves the base shell product for a shape through
// the mapping rules (field "shape").
func (b *QuoteBuilder) skeletonProduct(shape string) (domain.Product, bool, error) {
	rules, err := b.Rules.ListActiveByField("shape", shape)
	if err != nil {
		return domain.Product{}, false, err
	}
	rule, ok := domain.FirstMatch(rules, shape)
	if !ok || rule.ProductID == "" {
		return domain.Product{}, false, nil
	}
	p, err := b.Products.Get(rule.ProductID)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Product{}, false, nil
		}
		return domain.Product{}, false, err
	}
	return p, true, nil
}

// skeletonItem prices an individual skeleton and merges its additions
// (sharp corners, 8 mm wall) into one customer-facing line: the quote
// shows "Bazénový skelet … (ostré rohy, 8 mm)" with a combined price,
// not three rows.
func (b *QuoteBuilder) skeletonItem(cfg domain.Configuration, shape geometry.Shape, ctx pricing.Context, resolved map[string]pricing.Calculated) (*domain.QuoteItem, error) {
	skeleton, ok, err := b.skeletonProduct(string(shape))
	if err != nil || !ok {
		return nil, err
	}

	price := skeleton.UnitPrice
	if c, ok := resolved[skeleton.ID]; ok {
		price = c.Price
	}

	var notes []string
	total := price

	if shape == geometry.ShapeRectangleSharp {
		total += price * sharpCornersRate
		notes = append(notes, "ostré rohy")
	}

	if cfg.Thickness == "8mm" {
		rules, err := b.Rules.ListActiveByField("thickness", "8mm")
		if err != nil {
			return nil, err
		}
		if rule, ok := domain.FirstMatch(rules, string(shape)); ok && rule.ProductID != "" {
			if p, err := b.Products.Get(rule.ProductID); err == nil {
				calc := pricing.Calculate(p, ctx)
				total += calc.Price
				notes = append(notes, "8 mm")
			}
		}
	}

	name := skeleton.Name
	if len(notes) > 0 {
		name += " (" + strings.Join(notes, ", ") + ")"
	}

	return &domain.QuoteItem{
		ProductID:  skeleton.ID,
		Name:       name,
		Category:   skeleton.Category,
		Quantity:   1,
		Unit:       skeleton.Unit,
		UnitPrice:  total,
		TotalPrice: total,
	}, nil
}

func trimNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
