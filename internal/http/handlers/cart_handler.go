package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"barstore/internal/domain"
	"barstore/internal/log"
	"barstore/internal/services"
	"barstore/internal/validate"
)

type CartHandler struct {
	Cart *services.CartStore
}

// View re-reads the cart on every page view; a failed re-read shows up as the
// page's error banner. A pending error (a rejected action, a failed re-read)
// is shown as is and waits for dismiss.
func (h *CartHandler) View(c *fiber.Ctx) error {
	st := h.Cart.Snapshot()
	if st.Error == "" {
		if err := h.Cart.Refresh(c.UserContext()); err != nil {
			log.Error(c, "cart.refresh.fail", err, nil)
		}
		st = h.Cart.Snapshot()
	}
	return render(c, h.Cart, "cart", fiber.Map{
		"Items":     st.Items,
		"Summary":   st.Summary,
		"ItemCount": len(st.Items),
		"Loading":   st.Loading,
		"Error":     st.Error,
	})
}

// Mutate handles the add-to-cart button on the store page and the quantity
// controls on the cart page.
func (h *CartHandler) Mutate(c *fiber.Ctx) error {
	back := validate.ReturnPath(c.FormValue("return"))
	barID, ok := validate.BarID(c.FormValue("bar_id"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "bar_id"})
		return notFound(c, fiber.StatusBadRequest, "That item could not be found")
	}
	action, ok := validate.Action(c.FormValue("action"))
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "action"})
		return notFound(c, fiber.StatusBadRequest, "That cart action is not supported")
	}

	err := h.Cart.Mutate(c.UserContext(), barID, action)
	if err != nil {
		log.Error(c, "cart.mutate.fail", err, map[string]any{"bar_id": barID, "action": action})
		if back == "/" {
			return c.Redirect("/?failed=" + strconv.Itoa(barID))
		}
		return c.Redirect(back)
	}
	log.Audit(c, "cart.mutate", map[string]any{"bar_id": barID, "action": action})
	if back == "/" && action == domain.ActionIncrement {
		return c.Redirect("/?added=" + strconv.Itoa(barID))
	}
	return c.Redirect(back)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(c.UserContext()); err != nil {
		log.Error(c, "cart.clear.fail", err, nil)
	} else {
		log.Audit(c, "cart.clear", nil)
	}
	return c.Redirect("/cart")
}

func (h *CartHandler) Dismiss(c *fiber.Ctx) error {
	h.Cart.ClearError()
	return c.Redirect(validate.ReturnPath(c.FormValue("return")))
}
