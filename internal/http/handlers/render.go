package handlers

import (
	"github.com/gofiber/fiber/v2"

	"barstore/internal/domain"
	"barstore/internal/services"
)

func render(c *fiber.Ctx, cart *services.CartStore, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if cart != nil {
		data["CartCount"] = cartCount(cart.Snapshot().Items)
	}
	data["Path"] = c.Path()
	// Pick up the token the CSRF middleware put into Locals
	tok, _ := c.Locals("CSRFToken").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	if tok != "" {
		data["CSRFToken"] = tok
	}
	return c.Render(tmpl, data)
}

// cartCount is the header badge: total quantity across line items.
func cartCount(items []domain.CartLineItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func notFound(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).Render("notfound", fiber.Map{"Message": msg, "Path": c.Path()})
}
