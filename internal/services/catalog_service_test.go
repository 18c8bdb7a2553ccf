package services_test

import (
	"testing"

	"poolquote/internal/domain"
	"poolquote/internal/repos"
	"poolquote/internal/services"
)

func newCatalog(t *testing.T) *services.CatalogService {
	t.Helper()
	db := memdb(t)
	return services.NewCatalogService(repos.NewProductRepo(db), repos.NewMappingRuleRepo(db))
}

func TestSaveAddonDecodesLegacyName(t *testing.T) {
	svc := newCatalog(t)

	a, err := svc.SaveAddon(domain.SetAddon{ProductID: "set-6-3", Name: "Hloubka 1,2 m", Price: -4500})
	if err != nil {
		t.Fatal(err)
	}
	if a.TriggerKind != domain.TriggerDepth || a.TriggerValue != "1.2" {
		t.Fatalf("legacy name not decoded: %+v", a)
	}

	// explicit triggers are never overridden
	b, err := svc.SaveAddon(domain.SetAddon{ProductID: "set-6-3", Name: "Hloubka 1,2 m", TriggerKind: domain.TriggerStairs, TriggerValue: "romanske"})
	if err != nil {
		t.Fatal(err)
	}
	if b.TriggerKind != domain.TriggerStairs {
		t.Fatalf("explicit trigger lost: %+v", b)
	}

	// unrecognized names stay manual
	c, err := svc.SaveAddon(domain.SetAddon{ProductID: "set-6-3", Name: "Kotvení do svahu", Price: 7400})
	if err != nil {
		t.Fatal(err)
	}
	if c.TriggerKind != "" {
		t.Fatalf("manual addon got a trigger: %+v", c)
	}
}

func TestUnassignedRuleCount(t *testing.T) {
	svc := newCatalog(t)

	// the seed catalog ships one rule with no product (high roofing)
	n, err := svc.UnassignedRuleCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want 1 unassigned seed rule, got %d", n)
	}

	r, err := svc.SaveRule(domain.MappingRule{Field: "roofing", Value: "mid", Quantity: 1, Active: true})
	if err != nil {
		t.Fatal(err)
	}
	n, _ = svc.UnassignedRuleCount()
	if n != 2 {
		t.Fatalf("want 2 after adding an unassigned rule, got %d", n)
	}

	r.ProductID = "zastreseni-nizke"
	if _, err := svc.SaveRule(r); err != nil {
		t.Fatal(err)
	}
	n, _ = svc.UnassignedRuleCount()
	if n != 1 {
		t.Fatalf("want 1 after assigning, got %d", n)
	}
}
