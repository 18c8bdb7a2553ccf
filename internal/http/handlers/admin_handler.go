package handlers

import (
	applog "poolquote/internal/log"
	"poolquote/internal/repos"
	"poolquote/internal/services"
	"poolquote/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Configs   *services.ConfigurationService
	Catalog   *services.CatalogService
	QuoteRepo *repos.QuoteRepo
	OrderRepo *repos.OrderRepo
	Users     *repos.UserRepo
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	configs, _ := h.Configs.ListLatest(10)
	quotes, _ := h.QuoteRepo.ListLatest(10)
	orders, _ := h.OrderRepo.ListLatest(10)
	unassigned, _ := h.Catalog.UnassignedRuleCount()

	return render(c, "admin_dashboard", fiber.Map{
		"Configurations":  configs,
		"Quotes":          quotes,
		"Orders":          orders,
		"UnassignedRules": unassigned,
	})
}

// GET /admin/configurations
func (h *AdminHandler) Configurations(c *fiber.Ctx) error {
	configs, err := h.Configs.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.configurations.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load configurations"})
	}
	return render(c, "admin_configurations", fiber.Map{"Configurations": configs})
}

// GET /admin/configurations/:id
func (h *AdminHandler) ConfigurationDetail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Configuration not found"})
	}
	cfg, err := h.Configs.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Configuration not found"})
	}
	return render(c, "admin_configuration_detail", fiber.Map{"Config": cfg})
}

// POST /admin/configurations/:id/sync — record CRM push outcome
func (h *AdminHandler) RecordSync(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing configuration id")
	}
	var err error
	if reason := c.FormValue("error"); reason != "" {
		err = h.Configs.MarkSyncFailed(id, reason)
	} else {
		err = h.Configs.MarkSynced(id)
	}
	if err != nil {
		applog.Error(c, "admin.sync.record.fail", err, map[string]any{"configuration_id": id})
		return c.Status(400).SendString("could not record sync status")
	}
	applog.Audit(c, "admin.sync.record", map[string]any{"configuration_id": id})
	return c.Redirect("/admin/configurations/" + id)
}

// GET /admin/users
func (h *AdminHandler) UsersPage(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load users"})
	}
	return render(c, "admin_users", fiber.Map{"Users": users})
}

// POST /admin/users/:id/delete
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing id")
	}
	if err := h.Users.Delete(id); err != nil {
		applog.Error(c, "admin.users.delete.fail", err, map[string]any{"user_id": id})
		return c.Status(400).SendString("could not delete user")
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return c.Redirect("/admin/users")
}
