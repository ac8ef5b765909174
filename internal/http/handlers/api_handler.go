package handlers

import (
	"github.com/gofiber/fiber/v2"

	"barstore/internal/log"
	"barstore/internal/services"
	"barstore/internal/validate"
)

// APIHandler exposes the store state as JSON for scripts and tests.
type APIHandler struct {
	Catalog *services.CatalogStore
	Cart    *services.CartStore
}

type cartItemRequest struct {
	BarID  int    `json:"bar_id"`
	Action string `json:"action"`
}

func (h *APIHandler) Products(c *fiber.Ctx) error {
	if c.QueryBool("refresh") || (!h.Catalog.Loaded() && h.Catalog.Snapshot().Error == "") {
		if err := h.Catalog.FetchProducts(c.UserContext()); err != nil {
			log.Error(c, "catalog.fetch.fail", err, nil)
		}
	}
	st := h.Catalog.Snapshot()
	return c.JSON(fiber.Map{
		"products": st.Visible(),
		"total":    len(st.Products),
		"loading":  st.Loading,
		"error":    st.Error,
	})
}

func (h *APIHandler) CartState(c *fiber.Ctx) error {
	if c.QueryBool("refresh") {
		if err := h.Cart.Refresh(c.UserContext()); err != nil {
			log.Error(c, "cart.refresh.fail", err, nil)
		}
	}
	return c.JSON(h.Cart.Snapshot())
}

func (h *APIHandler) UpdateItem(c *fiber.Ctx) error {
	var req cartItemRequest
	if err := c.BodyParser(&req); err != nil {
		log.Security(c, "validation.fail", map[string]any{"field": "body"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.BarID <= 0 {
		log.Security(c, "validation.fail", map[string]any{"field": "bar_id"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bar_id must be a positive integer"})
	}
	action, ok := validate.Action(req.Action)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "action"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "action must be INCREMENT, DECREMENT or DELETE"})
	}

	if err := h.Cart.Mutate(c.UserContext(), req.BarID, action); err != nil {
		log.Error(c, "cart.mutate.fail", err, map[string]any{"bar_id": req.BarID, "action": action})
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error(), "cart": h.Cart.Snapshot()})
	}
	log.Audit(c, "cart.mutate", map[string]any{"bar_id": req.BarID, "action": action})
	return c.JSON(h.Cart.Snapshot())
}
