package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"salesledger/internal/config"
	applog "salesledger/internal/log"
	"salesledger/internal/repos"
	"salesledger/internal/services"
)

// ErrorHandler logs err and shows a friendly page without internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		code = fe.Code
	}
	applog.Error(c, "server.error", err, nil)
	msg := friendlyError
	if code == fiber.StatusNotFound {
		msg = "Page not found"
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}

// NewApp builds the fiber application with its middleware and routes.
func NewApp(cfg config.Config, db *sqlx.DB) (*fiber.App, *Deps) {
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	authH := &AuthHandler{Auth: authSvc, CookieSecure: cfg.CookieSecure}
	deps := NewDeps(db)

	engine := html.New(cfg.TemplatesDir, ".html")
	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: ErrorHandler,
		BodyLimit:    1 << 20,
	})

	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{Output: applog.Writer()}))
	app.Use(helmet.New())
	app.Use(AttachUser(authSvc))
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many requests")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		Next:           isAPI,
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ContextKey:     "csrf",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		v, err := repos.SchemaVersion(db)
		if err != nil {
			applog.Error(c, "health.fail", err, nil)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
		}
		return c.JSON(fiber.Map{"ok": true, "schema_version": v})
	})

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

	// Everything below needs a session unless auth is switched off.
	if cfg.AuthRequired {
		app.Use(RequireUser(authSvc))
	}

	app.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/products") })
	app.Get("/products", deps.ProductHandler.List)
	app.Post("/products", deps.ProductHandler.Create)
	app.Post("/products/:id/delete", deps.ProductHandler.Delete)
	app.Get("/sales/new", deps.SaleHandler.New)
	app.Post("/sales", deps.SaleHandler.Record)
	app.Post("/sales/:id/delete", deps.SaleHandler.Delete)
	app.Get("/reports", deps.ReportHandler.Page)
	app.Get("/reports/export", deps.ReportHandler.Export)

	api := app.Group("/api/v1")
	api.Get("/products", deps.ProductHandler.APIList)
	api.Post("/products", deps.ProductHandler.APICreate)
	api.Get("/products/:id", deps.ProductHandler.APIGet)
	api.Delete("/products/:id", deps.ProductHandler.APIDelete)
	api.Get("/sales", deps.SaleHandler.APIList)
	api.Post("/sales", deps.SaleHandler.APICreate)
	api.Post("/sales/preview", deps.SaleHandler.APIPreview)
	api.Delete("/sales/:id", deps.SaleHandler.APIDelete)
	api.Get("/reports", deps.ReportHandler.API)

	app.Use(func(c *fiber.Ctx) error {
		if isAPI(c) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
		}
		return notFound(c, "Page not found")
	})
	return app, deps
}
