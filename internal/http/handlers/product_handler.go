package handlers

import (
	"strings"

	"poolquote/internal/domain"
	applog "poolquote/internal/log"
	"poolquote/internal/services"
	"poolquote/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// GET /admin/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q := strings.ToLower(strings.TrimSpace(c.Query("q")))
	category := strings.TrimSpace(c.Query("category"))
	if category != "" {
		if _, ok := validate.ID(category); !ok {
			return c.Status(400).Render("notfound", fiber.Map{"Message": "Invalid category"})
		}
	}
	includeInactive := c.Query("all") == "1"

	products, err := h.Catalog.Search(q, category, includeInactive, 1, 100)
	if err != nil {
		applog.Error(c, "products.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load products"})
	}
	return render(c, "admin_products", fiber.Map{
		"Products": products, "Q": q, "Category": category, "All": includeInactive,
	})
}

// GET /admin/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Product not found"})
	}
	addons, _ := h.Catalog.Addons(id)
	return render(c, "admin_product_detail", fiber.Map{"P": p, "Addons": addons})
}

// POST /admin/products — create or update
func (h *ProductHandler) Save(c *fiber.Ctx) error {
	code, ok := validate.Code(c.FormValue("code"))
	if !ok {
		return c.Status(400).SendString("invalid product code")
	}
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return c.Status(400).SendString("invalid product name")
	}

	p := domain.Product{
		ID:                c.FormValue("id"),
		Code:              code,
		Name:              name,
		Category:          c.FormValue("category"),
		Unit:              c.FormValue("unit"),
		UnitPrice:         validate.Amount(c.FormValue("unit_price")),
		PriceType:         domain.PriceType(c.FormValue("price_type")),
		PricePercentage:   validate.Percent(c.FormValue("price_percentage")),
		PriceRefProductID: c.FormValue("price_ref_product_id"),
		PriceMinimum:      validate.Amount(c.FormValue("price_minimum")),
		PriceCoefficient:  validate.Amount(c.FormValue("price_coefficient")),
		CoefficientBasis:  c.FormValue("coefficient_basis"),
		Active:            c.FormValue("active") != "0",
	}
	if p.Unit == "" {
		p.Unit = "ks"
	}
	if p.CoefficientBasis == "" {
		p.CoefficientBasis = domain.BasisSurface
	}

	p, err := h.Catalog.SaveProduct(p)
	if err != nil {
		applog.Error(c, "products.save.fail", err, map[string]any{"code": code})
		return c.Status(400).SendString("could not save product")
	}
	applog.Audit(c, "products.save", map[string]any{"product_id": p.ID, "code": p.Code})
	return c.Redirect("/admin/products/" + p.ID)
}

// POST /admin/products/:id/addons
func (h *ProductHandler) SaveAddon(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing product id")
	}
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return c.Status(400).SendString("invalid addon name")
	}
	a := domain.SetAddon{
		ID:           c.FormValue("addon_id"),
		ProductID:    productID,
		Name:         name,
		Price:        validate.Amount(c.FormValue("price")),
		TriggerKind:  c.FormValue("trigger_kind"),
		TriggerValue: c.FormValue("trigger_value"),
	}
	a, err := h.Catalog.SaveAddon(a)
	if err != nil {
		applog.Error(c, "products.addon.save.fail", err, map[string]any{"product_id": productID})
		return c.Status(400).SendString("could not save addon")
	}
	applog.Audit(c, "products.addon.save", map[string]any{"addon_id": a.ID, "trigger": a.TriggerKind})
	return c.Redirect("/admin/products/" + productID)
}

// POST /admin/products/:id/addons/:aid/delete
func (h *ProductHandler) DeleteAddon(c *fiber.Ctx) error {
	aid, ok := validate.ID(c.Params("aid"))
	if !ok {
		return c.Status(400).SendString("missing addon id")
	}
	if err := h.Catalog.DeleteAddon(aid); err != nil {
		return c.Status(400).SendString("could not delete addon")
	}
	applog.Audit(c, "products.addon.delete", map[string]any{"addon_id": aid})
	return c.Redirect("/admin/products/" + c.Params("id"))
}

// GET /admin/rules
func (h *ProductHandler) Rules(c *fiber.Ctx) error {
	rules, err := h.Catalog.ListRules()
	if err != nil {
		applog.Error(c, "rules.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load mapping rules"})
	}
	unassigned, _ := h.Catalog.UnassignedRuleCount()
	return render(c, "admin_rules", fiber.Map{"Rules": rules, "Unassigned": unassigned})
}

// POST /admin/rules
func (h *ProductHandler) SaveRule(c *fiber.Ctx) error {
	field := strings.TrimSpace(c.FormValue("field"))
	value := strings.TrimSpace(c.FormValue("value"))
	if field == "" || value == "" {
		return c.Status(400).SendString("missing field or value")
	}
	m := domain.MappingRule{
		ID:        c.FormValue("id"),
		Field:     field,
		Value:     value,
		Shapes:    c.FormValue("shapes_json"),
		ProductID: c.FormValue("product_id"),
		Quantity:  validate.Quantity(c.FormValue("quantity")),
		Active:    c.FormValue("active") != "0",
	}
	m, err := h.Catalog.SaveRule(m)
	if err != nil {
		applog.Error(c, "rules.save.fail", err, map[string]any{"field": field, "value": value})
		return c.Status(400).SendString("could not save rule")
	}
	applog.Audit(c, "rules.save", map[string]any{"rule_id": m.ID})
	return c.Redirect("/admin/rules")
}

// POST /admin/rules/:id/delete
func (h *ProductHandler) DeleteRule(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing rule id")
	}
	if err := h.Catalog.DeleteRule(id); err != nil {
		return c.Status(400).SendString("could not delete rule")
	}
	applog.Audit(c, "rules.delete", map[string]any{"rule_id": id})
	return c.Redirect("/admin/rules")
}
