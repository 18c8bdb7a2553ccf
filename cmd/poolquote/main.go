package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"poolquote/internal/assets"
	"poolquote/internal/config"
	"poolquote/internal/http/handlers"
	applog "poolquote/internal/log"
	"poolquote/internal/repos"
	"poolquote/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	setCodes, err := config.LoadSetCodes(cfg.SetCodesFile)
	if err != nil {
		log.Printf("[warn] could not load set codes from %s: %v", cfg.SetCodesFile, err)
		setCodes = map[string]string{}
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	// Static asset cache (print logo etc.)
	cache := assets.NewCache(cfg.MediaDir, cfg.AssetCacheTTL)

	// Templates & app
	engine := html.New("./web/templates", ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and show a friendly message
			applog.Error(c, "server.error", err, nil)
			// Avoid leaking internals; best-effort render
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for templates/headers)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/media/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		Next: func(c *fiber.Ctx) bool {
			// The configurator API is token-less JSON from the public web form.
			return strings.HasPrefix(string(c.Request().URI().Path()), "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			formTok := c.FormValue("csrf")
			applog.Security(c, "csrf.fail", map[string]any{"form": formTok})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	log.Printf("[static] /static -> ./web/static")
	log.Printf("[static] /media  -> %s", mediaDir)

	app.Static("/static", "./web/static")
	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		// Block encoded traversal attempts as well as raw .. or null bytes
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		full := filepath.Join(mediaDir, clean)
		return c.SendFile(full, true)
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, authSvc, setCodes, cache)

	// Auth routes (login throttled)
	app.Get("/login", authH.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)

	// Public configurator API
	api := app.Group("/api/v1")
	submitLimiter := limiter.New(limiter.Config{
		Max:        15,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|configurator"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.configurator.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Post("/configurations", submitLimiter, deps.ConfiguratorHandler.Submit)
	api.Post("/configurations/preview", submitLimiter, deps.ConfiguratorHandler.Preview)
	api.Get("/configurations/:id", deps.ConfiguratorHandler.Get)

	// Back office
	admin := app.Group("/admin", handlers.RequireStaff(authSvc))
	admin.Get("/", deps.AdminHandler.Dashboard)

	admin.Get("/configurations", deps.AdminHandler.Configurations)
	admin.Get("/configurations/:id", deps.AdminHandler.ConfigurationDetail)
	admin.Post("/configurations/:id/sync", deps.AdminHandler.RecordSync)
	admin.Post("/configurations/:id/quote", deps.QuoteHandler.GenerateFromConfiguration)

	admin.Get("/quotes", deps.QuoteHandler.List)
	admin.Post("/quotes", deps.QuoteHandler.CreateManual)
	admin.Get("/quotes/:id", deps.QuoteHandler.Detail)
	admin.Get("/quotes/:id/print", deps.QuoteHandler.Print)
	admin.Put("/quotes/:id/items", deps.QuoteHandler.SaveItems)
	admin.Post("/quotes/:id/discount", deps.QuoteHandler.SetDiscount)
	admin.Post("/quotes/:id/status", deps.QuoteHandler.UpdateStatus)
	admin.Post("/quotes/:id/versions", deps.QuoteHandler.SaveVersion)
	admin.Post("/quotes/:id/versions/:vid/restore", deps.QuoteHandler.RestoreVersion)
	admin.Post("/quotes/:id/variants", deps.QuoteHandler.AddVariant)
	admin.Post("/quotes/:id/variants/:vid/items", deps.QuoteHandler.AssignVariantItem)
	admin.Post("/quotes/:id/variants/:vid/discount", deps.QuoteHandler.SetVariantDiscount)
	admin.Post("/quotes/:id/order", deps.OrderHandler.CreateFromQuote)

	admin.Get("/orders", deps.OrderHandler.List)
	admin.Get("/orders/:id", deps.OrderHandler.Detail)
	admin.Post("/orders/:id/status", deps.OrderHandler.UpdateStatus)
	admin.Post("/orders/:id/production", deps.OrderHandler.CreateProduction)
	admin.Post("/orders/:id/production/:pid/status", deps.OrderHandler.UpdateProductionStatus)

	// Catalog maintenance is admin-only
	catalog := app.Group("/admin", handlers.RequireAdmin(authSvc))
	catalog.Get("/products", deps.ProductHandler.List)
	catalog.Get("/products/:id", deps.ProductHandler.Detail)
	catalog.Post("/products", deps.ProductHandler.Save)
	catalog.Post("/products/:id/addons", deps.ProductHandler.SaveAddon)
	catalog.Post("/products/:id/addons/:aid/delete", deps.ProductHandler.DeleteAddon)
	catalog.Get("/rules", deps.ProductHandler.Rules)
	catalog.Post("/rules", deps.ProductHandler.SaveRule)
	catalog.Post("/rules/:id/delete", deps.ProductHandler.DeleteRule)
	catalog.Get("/users", deps.AdminHandler.UsersPage)
	catalog.Post("/users/:id/delete", deps.AdminHandler.DeleteUser)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
