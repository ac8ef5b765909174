package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"barstore/internal/log"
)

// ErrorHandler logs the failure and shows a friendly page without internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < 500 {
		code = fe.Code
	}
	log.Error(c, "server.error", err, map[string]any{"status": code})
	msg := "Something went wrong. Please try again."
	if code == fiber.StatusNotFound {
		msg = "Page not found"
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

// CSRF protects the form posts. The JSON API under /api/ is exempt.
func CSRF(secure bool) fiber.Handler {
	return csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   secure,
		ContextKey:     "csrf",
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Security(c, "csrf.fail", map[string]any{"path": c.Path()})
			return notFound(c, fiber.StatusForbidden, "Security check failed. Please refresh and try again.")
		},
	})
}

// ExposeCSRF copies the token into the Locals key the templates read.
func ExposeCSRF(c *fiber.Ctx) error {
	if tok, ok := c.Locals("csrf").(string); ok {
		c.Locals("CSRFToken", tok)
	}
	return c.Next()
}

// Limiter throttles everything except static assets.
func Limiter(limit int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: window,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/static/")
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Security(c, "rate.hit", nil)
			if strings.HasPrefix(c.Path(), "/api/") {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
			}
			return notFound(c, fiber.StatusTooManyRequests, "Too many requests. Please slow down.")
		},
	})
}

// Routes mounts the pages, the JSON API, the health check and the 404 page.
func Routes(app *fiber.App, d *Deps, healthy func() fiber.Map) {
	app.Get("/", d.StoreHandler.Home)
	app.Post("/products/refresh", d.StoreHandler.Refresh)
	app.Post("/products/dismiss", d.StoreHandler.Dismiss)

	app.Get("/cart", d.CartHandler.View)
	app.Post("/cart", d.CartHandler.Mutate)
	app.Post("/cart/clear", d.CartHandler.Clear)
	app.Post("/cart/dismiss", d.CartHandler.Dismiss)

	api := app.Group("/api/v1")
	api.Get("/products", d.APIHandler.Products)
	api.Get("/cart", d.APIHandler.CartState)
	api.Post("/cart/items", d.APIHandler.UpdateItem)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		body := fiber.Map{"ok": true}
		if healthy != nil {
			for k, v := range healthy() {
				body[k] = v
			}
		}
		return c.JSON(body)
	})
	app.Use(func(c *fiber.Ctx) error {
		return notFound(c, fiber.StatusNotFound, "Page not found")
	})
}
