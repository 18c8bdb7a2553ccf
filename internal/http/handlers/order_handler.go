package handlers

import (
	applog "poolquote/internal/log"
	"poolquote/internal/repos"
	"poolquote/internal/services"
	"poolquote/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type OrderHandler struct {
	Orders *services.OrderService
	Repo   *repos.OrderRepo
}

// GET /admin/orders
func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.Repo.ListLatest(100)
	if err != nil {
		applog.Error(c, "orders.list.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load orders"})
	}
	return render(c, "admin_orders", fiber.Map{"Orders": orders})
}

// GET /admin/orders/:id
func (h *OrderHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	o, err := h.Repo.Get(id)
	if err != nil {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Order not found"})
	}
	tickets, _ := h.Repo.ProductionOrders(id)
	return render(c, "admin_order_detail", fiber.Map{"Order": o, "Tickets": tickets})
}

// POST /admin/quotes/:id/order — convert an accepted quote
func (h *OrderHandler) CreateFromQuote(c *fiber.Ctx) error {
	quoteID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing quote id")
	}
	o, err := h.Orders.CreateFromQuote(quoteID)
	if err != nil {
		applog.Security(c, "orders.create.fail", map[string]any{"quote_id": quoteID, "error": err.Error()})
		return c.Status(400).SendString("Could not create order from this quote.")
	}
	applog.Audit(c, "orders.create", map[string]any{"order_id": o.ID, "quote_id": quoteID})
	return c.Redirect("/admin/orders/" + o.ID)
}

// POST /admin/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	status := c.FormValue("status")
	if !ok || status == "" {
		return c.Status(400).SendString("missing id or status")
	}
	if err := h.Repo.UpdateStatus(id, status); err != nil {
		applog.Error(c, "orders.status.fail", err, map[string]any{"order_id": id})
		return c.Status(400).SendString("could not update status")
	}
	applog.Audit(c, "orders.status", map[string]any{"order_id": id, "status": status})
	return c.Redirect("/admin/orders/" + id)
}

// POST /admin/orders/:id/production
func (h *OrderHandler) CreateProduction(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(400).SendString("missing order id")
	}
	po, err := h.Orders.CreateProductionTicket(id)
	if err != nil {
		applog.Error(c, "orders.production.fail", err, map[string]any{"order_id": id})
		return c.Status(400).SendString("could not create production ticket")
	}
	applog.Audit(c, "orders.production", map[string]any{"order_id": id, "ticket": po.TicketNumber})
	return c.Redirect("/admin/orders/" + id)
}

// POST /admin/orders/:id/production/:pid/status
func (h *OrderHandler) UpdateProductionStatus(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("pid"))
	status := c.FormValue("status")
	if !ok || status == "" {
		return c.Status(400).SendString("missing id or status")
	}
	if err := h.Repo.UpdateProductionStatus(pid, status); err != nil {
		applog.Error(c, "orders.production.status.fail", err, map[string]any{"production_id": pid})
		return c.Status(400).SendString("could not update ticket status")
	}
	applog.Audit(c, "orders.production.status", map[string]any{"production_id": pid, "status": status})
	return c.Redirect("/admin/orders/" + c.Params("id"))
}
