package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"github.com/ruruk/palcofon/internal/config"
	"github.com/ruruk/palcofon/internal/http/handlers"
	applog "github.com/ruruk/palcofon/internal/log"
	"github.com/ruruk/palcofon/internal/repos"
	"github.com/ruruk/palcofon/internal/services"
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

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatal(err)
	}

	bus := EventBus.New()
	catalog := repos.OpenCatalog(cfg.DataDir, bus)
	settingsRepo := repos.NewSettingsRepo(cfg.DataDir)

	inqRepo, err := repos.OpenInquiryDB(cfg.InquiryDBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer inqRepo.Close()

	db, err := repos.OpenDB(cfg.AdminDBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	// Templates & app
	engine := html.New("./web/templates", ".html")
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and show a friendly message
			applog.Error(c, "server.error", err, nil)
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

	deps := handlers.NewDeps(cfg, catalog, settingsRepo, inqRepo, bus)

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
	// Site settings + inquiry badge for every render
	app.Use(func(c *fiber.Ctx) error {
		if s, err := settingsRepo.Load(); err == nil {
			c.Locals("Site", s)
		}
		if sid := c.Cookies("sid"); sid != "" {
			if n, err := deps.InquirySvc.Count(sid); err == nil {
				c.Locals("InquiryCount", n)
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

	// ---------- Public pages ----------
	app.Get("/", deps.PageHandler.Home)
	app.Get("/about", deps.PageHandler.About)
	app.Get("/products", limiter.New(limiter.Config{Max: 30, Expiration: time.Minute}), deps.ProductHandler.List)
	app.Get("/products/:id", deps.ProductHandler.Detail)
	app.Get("/applications", deps.ApplicationHandler.List)
	app.Get("/applications/:id", deps.ApplicationHandler.Detail)

	// Contact
	app.Get("/contact", deps.ContactHandler.Form)
	app.Post("/contact", limiter.New(limiter.Config{
		Max:        5,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.contact.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("contact", fiber.Map{"Err": "Too many messages. Please try again later."})
		},
	}), deps.ContactHandler.Submit)

	// Inquiry list
	app.Get("/inquiry", deps.InquiryHandler.View)
	app.Post("/inquiry/items", deps.InquiryHandler.Add)
	app.Post("/inquiry/items/quantity", deps.InquiryHandler.UpdateQuantity)
	app.Post("/inquiry/items/delete", deps.InquiryHandler.Remove)
	app.Post("/inquiry/clear", deps.InquiryHandler.Clear)
	app.Post("/inquiry/submit", limiter.New(limiter.Config{
		Max:        5,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.inquiry.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("inquiry", fiber.Map{"Err": "Too many submissions. Please try again later."})
		},
	}), deps.InquiryHandler.Submit)

	// API
	api := app.Group("/api/v1")
	countLimiter := limiter.New(limiter.Config{
		Max:        30,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|count"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.count.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/inquiry/count", countLimiter, deps.InquiryHandler.Count)

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

	// ---------- Admin ----------
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/", deps.AdminHandler.Dashboard)
	admin.Get("/categories", deps.AdminHandler.Categories)
	admin.Post("/categories", deps.AdminHandler.CreateCategory)
	admin.Post("/categories/:id/update", deps.AdminHandler.UpdateCategory)
	admin.Post("/categories/:id/delete", deps.AdminHandler.DeleteCategory)
	admin.Get("/products", deps.AdminHandler.Products)
	admin.Get("/products/new", deps.AdminHandler.ProductForm)
	admin.Post("/products", deps.AdminHandler.CreateProduct)
	admin.Get("/products/:id", deps.AdminHandler.ProductForm)
	admin.Post("/products/:id/update", deps.AdminHandler.UpdateProduct)
	admin.Post("/products/:id/delete", deps.AdminHandler.DeleteProduct)
	admin.Get("/applications", deps.AdminHandler.Applications)
	admin.Get("/applications/new", deps.AdminHandler.ApplicationForm)
	admin.Post("/applications", deps.AdminHandler.CreateApplication)
	admin.Get("/applications/:id", deps.AdminHandler.ApplicationForm)
	admin.Post("/applications/:id/update", deps.AdminHandler.UpdateApplication)
	admin.Post("/applications/:id/delete", deps.AdminHandler.DeleteApplication)
	admin.Get("/settings", deps.AdminHandler.SettingsPage)
	admin.Post("/settings", deps.AdminHandler.SaveSettings)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
