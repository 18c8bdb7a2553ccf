package handlers

import (
	"poolquote/internal/domain"
	applog "poolquote/internal/log"
	"poolquote/internal/services"
	"poolquote/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// ConfiguratorHandler is the JSON API the customer-facing wizard talks
// to: submit a configuration, get an indicative price preview.
type ConfiguratorHandler struct {
	Configs *services.ConfigurationService
	Quotes  *services.QuoteService
}

type configurationRequest struct {
	Shape          string  `json:"shape"`
	Type           string  `json:"type"`
	Width          float64 `json:"width"`
	Length         float64 `json:"length"`
	Diameter       float64 `json:"diameter"`
	Depth          float64 `json:"depth"`
	Color          string  `json:"color"`
	Stairs         string  `json:"stairs"`
	Thickness      string  `json:"thickness"`
	Technology     string  `json:"technology"`
	Lighting       string  `json:"lighting"`
	Counterflow    string  `json:"counterflow"`
	WaterTreatment string  `json:"water_treatment"`
	Heating        string  `json:"heating"`
	Roofing        string  `json:"roofing"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
}

func (r configurationRequest) toDomain() domain.Configuration {
	return domain.Configuration{
		Shape:          r.Shape,
		Type:           r.Type,
		Width:          validate.DimensionValue(r.Width),
		Length:         validate.DimensionValue(r.Length),
		Diameter:       validate.DimensionValue(r.Diameter),
		Depth:          validate.DimensionValue(r.Depth),
		Color:          r.Color,
		Stairs:         r.Stairs,
		Thickness:      r.Thickness,
		Technology:     r.Technology,
		Lighting:       r.Lighting,
		Counterflow:    r.Counterflow,
		WaterTreatment: r.WaterTreatment,
		Heating:        r.Heating,
		Roofing:        r.Roofing,
		CustomerName:   r.Name,
		CustomerEmail:  r.Email,
		CustomerPhone:  r.Phone,
	}
}

// Submit stores a finished wizard run. The CRM sync worker picks up
// pending configurations afterwards.
func (h *ConfiguratorHandler) Submit(c *fiber.Ctx) error {
	var req configurationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if _, ok := validate.Shape(req.Shape); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid shape"})
	}
	if _, ok := validate.Email(req.Email); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid email"})
	}
	if _, ok := validate.Phone(req.Phone); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid phone"})
	}

	cfg, err := h.Configs.Create(req.toDomain())
	if err != nil {
		if err == services.ErrBadDimensions {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing dimensions"})
		}
		applog.Error(c, "configurator.submit.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save configuration"})
	}

	applog.Audit(c, "configurator.submit", map[string]any{"configuration_id": cfg.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": cfg.ID})
}

// Preview prices a configuration without persisting anything.
func (h *ConfiguratorHandler) Preview(c *fiber.Ctx) error {
	var req configurationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if _, ok := validate.Shape(req.Shape); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid shape"})
	}

	items, subtotal, err := h.Quotes.Preview(req.toDomain())
	if err != nil {
		applog.Error(c, "configurator.preview.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not compute preview"})
	}
	return c.JSON(fiber.Map{"items": items, "subtotal": subtotal})
}

func (h *ConfiguratorHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	cfg, err := h.Configs.Get(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	return c.JSON(cfg)
}
