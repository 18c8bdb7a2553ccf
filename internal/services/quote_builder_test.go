package services_test

import (
	"math"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"poolquote/internal/domain"
	"poolquote/internal/repos"
	"poolquote/internal/services"
)

// memdb opens a seeded in-memory catalog. One connection, so every
// statement sees the same memory database.
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newBuilder(db *sqlx.DB, setCodes map[string]string) *services.QuoteBuilder {
	return services.NewQuoteBuilder(repos.NewProductRepo(db), repos.NewMappingRuleRepo(db), setCodes)
}

func rectCfg() domain.Configuration {
	return domain.Configuration{Shape: "rectangle", Width: 3, Length: 6, Depth: 1.5}
}

func findItem(items []domain.QuoteItem, name string) (domain.QuoteItem, bool) {
	for _, it := range items {
		if it.Name == name {
			return it, true
		}
	}
	return domain.QuoteItem{}, false
}

func TestBuildSetSubstitution(t *testing.T) {
	db := memdb(t)
	b := newBuilder(db, map[string]string{"6-3": "SET-6-3"})

	items, err := b.Build(rectCfg())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) == 0 {
		t.Fatal("no items built")
	}
	if items[0].ProductID != "set-6-3" || items[0].UnitPrice != 129900 {
		t.Fatalf("want the set first at 129900, got %+v", items[0])
	}

	// depth 1.5 matches the bundled zero-price addon
	if _, ok := findItem(items, "Hloubka 1,5 m"); !ok {
		t.Fatalf("depth addon not attached: %+v", items)
	}

	// no individually priced skeleton, no sharp-corner or 8mm lines
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), "skelet") {
			t.Fatalf("set quote must not contain a skeleton line: %+v", it)
		}
	}
	if len(items) != 2 {
		t.Fatalf("want set + depth addon only, got %+v", items)
	}
}

func TestBuildSetWithStairs(t *testing.T) {
	db := memdb(t)
	b := newBuilder(db, map[string]string{"6-3": "SET-6-3"})

	cfg := rectCfg()
	cfg.Stairs = "pres_sirku"
	items, err := b.Build(cfg)
	if err != nil {
		t.Fatal(err)
	}

	bundled, ok := findItem(items, "Schody přes šířku")
	if !ok || bundled.UnitPrice != 12500 {
		t.Fatalf("bundled stairs addon missing: %+v", items)
	}
	// stairs answered in the wizard also resolve through the mapping rules
	if _, ok := findItem(items, "Schody přes šířku bazénu"); !ok {
		t.Fatalf("mapped stairs accessory missing: %+v", items)
	}
}

func TestBuildSkeletonWhenNoSetMatches(t *testing.T) {
	db := memdb(t)
	b := newBuilder(db, map[string]string{})

	items, err := b.Build(rectCfg())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("want one skeleton line, got %+v", items)
	}
	// wetted surface 45 m² × 1450 Kč/m²
	if items[0].Name != "Bazénový skelet obdélník" || math.Abs(items[0].UnitPrice-65250) > 1e-6 {
		t.Fatalf("bad skeleton line: %+v", items[0])
	}
}

func TestBuildSkeletonWhenSetCodeUnknown(t *testing.T) {
	db := memdb(t)
	b := newBuilder(db, map[string]string{"6-3": "SET-ZRUSENY"})

	items, err := b.Build(rectCfg())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ProductID != "skelet-obdelnik" {
		t.Fatalf("stale set code must fall back to the skeleton: %+v", items)
	}
}

func TestBuildSharpCornersAndThickness(t *testing.T) {
	db := memdb(t)
	b := newBuilder(db, map[string]string{})

	cfg := rectCfg()
	cfg.Thickness = "8mm"
	items, err := b.Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("additions must merge into the skeleton line, got %+v", items)
	}
	it := items[0]
	if it.Name != "Bazénový skelet obdélník (ostré rohy, 8 mm)" {
		t.Fatalf("bad merged name: %q", it.Name)
	}
	// 65250 + 10% sharp corners + 45 m² × 180 for the 8 mm wall
	want := 65250 + 6525 + 45*180.0
	if math.Abs(it.UnitPrice-want) > 1e-6 {
		t.Fatalf("want %.2f, got %.2f", want, it.UnitPrice)
	}
}

func TestBuildCircle(t *testing.T) {
	db := memdb(t)
	b := newBuilder(db, map[string]string{"6-3": "SET-6-3"})

	items, err := b.Build(domain.Configuration{Shape: "circle", Diameter: 4, Depth: 1.2})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ProductID != "skelet-kruh" {
		t.Fatalf("circle pools have no stock sets: %+v", items)
	}
	surface := math.Pi*4*1.2 + math.Pi*4
	if math.Abs(items[0].UnitPrice-surface*1520) > 1e-6 {
		t.Fatalf("bad circle skeleton price: %.2f", items[0].UnitPrice)
	}
}

func TestBuildAccessories(t *testing.T) {
	db := memdb(t)
	b := newBuilder(db, map[string]string{})

	cfg := rectCfg()
	cfg.Lighting = "led_2x"
	cfg.WaterTreatment = "salt"
	items, err := b.Build(cfg)
	if err != nil {
		t.Fatal(err)
	}

	led, ok := findItem(items, "LED světlo s trafem")
	if !ok || led.Quantity != 2 || led.TotalPrice != 11800 {
		t.Fatalf("bad lighting line: %+v", items)
	}
	salt, ok := findItem(items, "Solná úpravna vody")
	if !ok || salt.UnitPrice != 24900 {
		t.Fatalf("bad water treatment line: %+v", items)
	}
}

func TestBuildRequiredSurcharges(t *testing.T) {
	db := memdb(t)
	// crane transport must always accompany the heat pump and the
	// roofing; ordering both must not duplicate the line
	db.MustExec(`INSERT INTO products(id, code, name, category, unit, unit_price, price_type)
	  VALUES('doprava-jerab', 'DOPR-JERAB', 'Doprava jeřábem', 'doprava', 'ks', 9900, 'fixed')`)
	db.MustExec(`UPDATE products SET required_surcharges_json='["doprava-jerab"]'
	  WHERE id IN ('top-cerpadlo', 'zastreseni-nizke')`)

	b := newBuilder(db, nil)
	cfg := rectCfg()
	cfg.Heating = "heat_pump"
	cfg.Roofing = "low"
	items, err := b.Build(cfg)
	if err != nil {
		t.Fatal(err)
	}

	// skeleton, heat pump, crane, roofing
	if len(items) != 4 {
		t.Fatalf("want 4 items, got %+v", items)
	}
	crane, ok := findItem(items, "Doprava jeřábem")
	if !ok || crane.UnitPrice != 9900 || crane.Quantity != 1 {
		t.Fatalf("bad crane line: %+v", items)
	}

	pumpIdx, craneIdx := -1, -1
	for i, it := range items {
		if it.ProductID == "top-cerpadlo" {
			pumpIdx = i
		}
		if it.ProductID == "doprava-jerab" {
			craneIdx = i
		}
	}
	if craneIdx != pumpIdx+1 {
		t.Fatalf("surcharge must directly follow the first product requiring it: %+v", items)
	}
}

func TestBuildRequiredSurchargeAlreadyOrdered(t *testing.T) {
	db := memdb(t)
	// the customer's own choices already put the surcharge product on
	// the quote; the requirement must not add it again
	db.MustExec(`UPDATE products SET required_surcharges_json='["upravna-sul"]'
	  WHERE id='zastreseni-nizke'`)

	b := newBuilder(db, nil)
	cfg := rectCfg()
	cfg.WaterTreatment = "salt"
	cfg.Roofing = "low"
	items, err := b.Build(cfg)
	if err != nil {
		t.Fatal(err)
	}

	count := 0
	for _, it := range items {
		if it.ProductID == "upravna-sul" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("salt unit must appear exactly once, got %+v", items)
	}
}

func TestBuildPercentageReferencesMergedSkeleton(t *testing.T) {
	db := memdb(t)
	db.MustExec(`INSERT INTO products(id, code, name, category, unit, unit_price, price_type,
	    price_percentage, price_ref_product_id)
	  VALUES('montaz-skeletu', 'MONTAZ-SKELET', 'Montáž skeletu', 'sluzby', 'ks', 0, 'percentage',
	    5, 'skelet-obdelnik')`)
	db.MustExec(`INSERT INTO mapping_rules(id, field, value, shapes_json, product_id, quantity, sort_order)
	  VALUES('mr-tech-montaz', 'technology', 'montaz', '', 'montaz-skeletu', 1, 0)`)

	b := newBuilder(db, nil)
	cfg := rectCfg()
	cfg.Thickness = "8mm"
	cfg.Technology = "montaz"
	items, err := b.Build(cfg)
	if err != nil {
		t.Fatal(err)
	}

	// the skeleton line merges sharp corners and the 8 mm wall; the
	// percentage accessory prices off that merged amount, the price the
	// customer actually pays for the pool, not the bare resolution
	merged := 65250 + 6525 + 45*180.0
	svc, ok := findItem(items, "Montáž skeletu")
	if !ok || math.Abs(svc.UnitPrice-merged*0.05) > 1e-6 {
		t.Fatalf("want %.2f, got %+v", merged*0.05, items)
	}
}

func TestBuildUnassignedRuleSkipped(t *testing.T) {
	db := memdb(t)
	b := newBuilder(db, map[string]string{})

	cfg := rectCfg()
	cfg.Roofing = "high" // seeded rule exists but points at no product
	items, err := b.Build(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), "zastřešení") {
			t.Fatalf("unassigned rule must not produce a line: %+v", it)
		}
	}
	if len(items) != 1 {
		t.Fatalf("want skeleton only, got %+v", items)
	}
}
