package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"poolquote/internal/http/handlers"
	"poolquote/internal/repos"
	"poolquote/internal/services"
)

func newConfiguratorApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	configs := services.NewConfigurationService(repos.NewConfigurationRepo(db))
	builder := services.NewQuoteBuilder(repos.NewProductRepo(db), repos.NewMappingRuleRepo(db), nil)
	quotes := services.NewQuoteService(repos.NewQuoteRepo(db), repos.NewConfigurationRepo(db), builder)
	h := &handlers.ConfiguratorHandler{Configs: configs, Quotes: quotes}

	app := fiber.New()
	app.Post("/api/v1/configurations", h.Submit)
	return app
}

func submitConfiguration(t *testing.T, app *fiber.App, payload map[string]any) int {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", "/api/v1/configurations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestSubmitAcceptsPlausibleDimensions(t *testing.T) {
	app := newConfiguratorApp(t)
	code := submitConfiguration(t, app, map[string]any{
		"shape": "rectangle", "width": 3, "length": 6, "depth": 1.5,
		"email": "jana@example.com",
	})
	if code != fiber.StatusCreated {
		t.Fatalf("want 201, got %d", code)
	}
}

func TestSubmitRejectsImplausibleDimensions(t *testing.T) {
	app := newConfiguratorApp(t)
	// a 60 m wide garden pool is a typo, not an order
	code := submitConfiguration(t, app, map[string]any{
		"shape": "rectangle", "width": 60, "length": 6, "depth": 1.5,
		"email": "jana@example.com",
	})
	if code != fiber.StatusBadRequest {
		t.Fatalf("implausible width must be rejected, got %d", code)
	}
}
