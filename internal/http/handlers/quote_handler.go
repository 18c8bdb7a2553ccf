package handlers

import (
	"encoding/base64"
	"encoding/json"

	"poolquote/internal/assets"
	"poolquote/internal/domain"
	applog "poolquote/internal/log"
	"poolquote/internal/repos"
	"poolquote/internal/services"
	"poolquote/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type QuoteHandler struct {
	Quotes *services.QuoteService
	Repo   *repos.QuoteRepo
	Assets *assets.Cache
}

// GET /admin/quotes
func (h *QuoteHandler) List(c *fiber.Ctx) error {
	quotes, err := h.Repo.ListLatest(100)
	if err != nil {
		applog.Error(c, "quotes.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load quotes"})
	}
	return render(c, "admin_quotes", fiber.Map{"Quotes": quotes})
}

// GET /admin/quotes/:id
func (h *QuoteHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Quote not found"})
	}
	q, err := h.Repo.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Quote not found"})
	}
	items, err := h.Repo.Items(id)
	if err != nil {
		applog.Error(c, "quotes.detail.fail", err, map[string]any{"quote_id": id})
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load quote"})
	}
	variants, _ := h.Repo.Variants(id)
	versions, _ := h.Repo.Versions(id)
	return render(c, "admin_quote_detail", fiber.Map{
		"Quote": q, "Items": items, "Variants": variants, "Versions": versions,
	})
}

// POST /admin/configurations/:id/quote
func (h *QuoteHandler) GenerateFromConfiguration(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing configuration id")
	}
	q, items, err := h.Quotes.GenerateFromConfiguration(id)
	if err != nil {
		applog.Error(c, "quotes.generate.fail", err, map[string]any{"configuration_id": id})
		return c.Status(400).SendString("Could not generate quote from configuration.")
	}
	applog.Audit(c, "quotes.generate", map[string]any{
		"quote_id": q.ID, "quote_number": q.QuoteNumber, "items": len(items),
	})
	return c.Redirect("/admin/quotes/" + q.ID)
}

// POST /admin/quotes — manual quote, no configuration behind it
func (h *QuoteHandler) CreateManual(c *fiber.Ctx) error {
	name, ok := validate.Name(c.FormValue("name"))
	if !ok {
		return c.Status(400).SendString("invalid customer name")
	}
	email := c.FormValue("email")
	if email != "" {
		if _, ok := validate.Email(email); !ok {
			return c.Status(400).SendString("invalid email")
		}
	}
	phone, _ := validate.Phone(c.FormValue("phone"))

	q, err := h.Quotes.CreateManual(name, email, phone)
	if err != nil {
		applog.Error(c, "quotes.create.fail", err, nil)
		return c.Status(500).SendString("could not create quote")
	}
	applog.Audit(c, "quotes.create", map[string]any{"quote_id": q.ID, "quote_number": q.QuoteNumber})
	return c.Redirect("/admin/quotes/" + q.ID)
}

type quoteItemsRequest struct {
	Items []domain.QuoteItem `json:"items"`
}

// PUT /admin/quotes/:id/items — replace-all item save from the editor
func (h *QuoteHandler) SaveItems(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "missing quote id"})
	}
	var req quoteItemsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid payload"})
	}
	for i := range req.Items {
		if req.Items[i].Name == "" {
			return c.Status(400).JSON(fiber.Map{"error": "item name required"})
		}
		req.Items[i].QuoteID = id
	}
	if err := h.Quotes.SaveItems(id, req.Items); err != nil {
		applog.Error(c, "quotes.items.save.fail", err, map[string]any{"quote_id": id})
		return c.Status(400).JSON(fiber.Map{"error": "could not save items"})
	}
	applog.Audit(c, "quotes.items.save", map[string]any{"quote_id": id, "items": len(req.Items)})
	return c.JSON(fiber.Map{"ok": true})
}

// POST /admin/quotes/:id/discount
func (h *QuoteHandler) SetDiscount(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing quote id")
	}
	percent := validate.Percent(c.FormValue("discount_percent"))
	amount := validate.Amount(c.FormValue("discount_amount"))
	q, err := h.Quotes.SetDiscount(id, percent, amount)
	if err != nil {
		applog.Error(c, "quotes.discount.fail", err, map[string]any{"quote_id": id})
		return c.Status(400).SendString("could not apply discount")
	}
	applog.Audit(c, "quotes.discount", map[string]any{"quote_id": id, "total": q.TotalPrice})
	return c.Redirect("/admin/quotes/" + id)
}

// POST /admin/quotes/:id/status
func (h *QuoteHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	status, okS := validate.QuoteStatus(c.FormValue("status"))
	if !ok || !okS {
		return c.Status(400).SendString("missing id or status")
	}
	if err := h.Quotes.Transition(id, status); err != nil {
		applog.Security(c, "quotes.status.fail", map[string]any{"quote_id": id, "status": status, "error": err.Error()})
		return c.Status(400).SendString("could not update status")
	}
	applog.Audit(c, "quotes.status", map[string]any{"quote_id": id, "status": status})
	return c.Redirect("/admin/quotes/" + id)
}

// POST /admin/quotes/:id/versions
func (h *QuoteHandler) SaveVersion(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing quote id")
	}
	v, err := h.Quotes.SaveVersion(id, c.FormValue("note"))
	if err != nil {
		applog.Error(c, "quotes.version.save.fail", err, map[string]any{"quote_id": id})
		return c.Status(400).SendString("could not save version")
	}
	applog.Audit(c, "quotes.version.save", map[string]any{"quote_id": id, "version": v.VersionNumber})
	return c.Redirect("/admin/quotes/" + id)
}

// POST /admin/quotes/:id/versions/:vid/restore
func (h *QuoteHandler) RestoreVersion(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	vid, okV := validate.ID(c.Params("vid"))
	if !ok || !okV {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Quotes.RestoreVersion(vid); err != nil {
		applog.Error(c, "quotes.version.restore.fail", err, map[string]any{"quote_id": id, "version_id": vid})
		return c.Status(400).SendString("could not restore version")
	}
	applog.Audit(c, "quotes.version.restore", map[string]any{"quote_id": id, "version_id": vid})
	return c.Redirect("/admin/quotes/" + id)
}

// POST /admin/quotes/:id/variants
func (h *QuoteHandler) AddVariant(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing quote id")
	}
	v, err := h.Quotes.AddVariant(id, c.FormValue("name"))
	if err != nil {
		applog.Error(c, "quotes.variant.add.fail", err, map[string]any{"quote_id": id})
		return c.Status(400).SendString("could not add variant")
	}
	applog.Audit(c, "quotes.variant.add", map[string]any{"quote_id": id, "variant": v.Name})
	return c.Redirect("/admin/quotes/" + id)
}

// POST /admin/quotes/:id/variants/:vid/items
func (h *QuoteHandler) AssignVariantItem(c *fiber.Ctx) error {
	vid, okV := validate.ID(c.Params("vid"))
	itemID, okI := validate.ID(c.FormValue("item_id"))
	if !okV || !okI {
		return c.Status(400).SendString("missing ids")
	}
	var err error
	if c.FormValue("remove") == "1" {
		err = h.Quotes.UnassignItem(itemID, vid)
	} else {
		err = h.Quotes.AssignItem(itemID, vid)
	}
	if err != nil {
		applog.Error(c, "quotes.variant.assign.fail", err, map[string]any{"variant_id": vid, "item_id": itemID})
		return c.Status(400).SendString("could not update variant items")
	}
	return c.Redirect("/admin/quotes/" + c.Params("id"))
}

// POST /admin/quotes/:id/variants/:vid/discount
func (h *QuoteHandler) SetVariantDiscount(c *fiber.Ctx) error {
	vid, ok := validate.ID(c.Params("vid"))
	if !ok {
		return c.Status(400).SendString("missing variant id")
	}
	percent := validate.Percent(c.FormValue("discount_percent"))
	amount := validate.Amount(c.FormValue("discount_amount"))
	if err := h.Quotes.SetVariantDiscount(vid, percent, amount); err != nil {
		applog.Error(c, "quotes.variant.discount.fail", err, map[string]any{"variant_id": vid})
		return c.Status(400).SendString("could not apply variant discount")
	}
	return c.Redirect("/admin/quotes/" + c.Params("id"))
}

// GET /admin/quotes/:id/print — HTML print preview; the external
// document service renders the real PDF from the same data.
func (h *QuoteHandler) Print(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Quote not found"})
	}
	q, err := h.Repo.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Quote not found"})
	}
	items, err := h.Repo.Items(id)
	if err != nil {
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load quote"})
	}

	var pool map[string]any
	if q.PoolConfig != "" {
		_ = json.Unmarshal([]byte(q.PoolConfig), &pool)
	}

	data := fiber.Map{"Quote": q, "Items": items, "Pool": pool}
	if h.Assets != nil {
		if logo, err := h.Assets.Get("logo.png"); err == nil {
			data["LogoB64"] = base64.StdEncoding.EncodeToString(logo)
		}
	}
	return render(c, "quote_print", data)
}
