package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"barstore/internal/log"
	"barstore/internal/services"
	"barstore/internal/validate"
)

// retryLimit caps the retry button on the catalog error alert.
const retryLimit = 3

type StoreHandler struct {
	Catalog *services.CatalogStore
	Cart    *services.CartStore
}

// ensureProducts fetches the catalog when nothing is shown yet, nothing is in
// flight and no error is pending. A pending error waits for retry or dismiss.
func (h *StoreHandler) ensureProducts(c *fiber.Ctx) services.CatalogState {
	st := h.Catalog.Snapshot()
	if len(st.Products) == 0 && !st.Loading && st.Error == "" {
		if err := h.Catalog.FetchProducts(c.UserContext()); err != nil {
			log.Error(c, "catalog.fetch.fail", err, nil)
		}
		st = h.Catalog.Snapshot()
	}
	return st
}

func (h *StoreHandler) Home(c *fiber.Ctx) error {
	st := h.ensureProducts(c)
	visible := st.Visible()

	data := fiber.Map{
		"Products": visible,
		"Total":    len(st.Products),
		"Filtered": len(st.Products) - len(visible),
		"Loading":  st.Loading,
		"Error":    st.Error,
		"Added":    0,
		"Failed":   0,
	}
	retries := c.QueryInt("retry")
	if retries > 0 {
		data["Retries"] = retries
	}
	data["RetryNext"] = retries + 1
	data["CanRetry"] = retries < retryLimit
	data["RetryLimit"] = retryLimit

	if id, ok := validate.BarID(c.Query("added")); ok {
		data["Added"] = id
	}
	if id, ok := validate.BarID(c.Query("failed")); ok {
		data["Failed"] = id
		msg := h.Cart.Snapshot().Error
		if msg == "" {
			msg = "Failed to add to cart"
		}
		data["FailedMsg"] = msg
	}
	return render(c, h.Cart, "store", data)
}

// Refresh backs both the retry button of the error alert and the refresh
// button of the empty state.
func (h *StoreHandler) Refresh(c *fiber.Ctx) error {
	h.Catalog.ClearError()
	if err := h.Catalog.FetchProducts(c.UserContext()); err != nil {
		log.Error(c, "catalog.fetch.fail", err, nil)
		retries := c.QueryInt("retry")
		return c.Redirect("/?retry=" + strconv.Itoa(retries))
	}
	log.Info(c, "catalog.refresh", map[string]any{"count": len(h.Catalog.Snapshot().Products)})
	return c.Redirect("/")
}

func (h *StoreHandler) Dismiss(c *fiber.Ctx) error {
	h.Catalog.ClearError()
	return c.Redirect("/")
}
