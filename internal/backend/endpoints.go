package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"barstore/internal/domain"
	applog "barstore/internal/log"
)

const (
	PathProducts   = "/e-bar-store"
	PathCartItems  = "/cart/index"
	PathCartPrices = "/cart/prices"
	PathCartStore  = "/cart/store"
	PathCartClear  = "/cart/clear-cart"
)

// Products lists the bar catalog. A missing or non-array list is an empty
// catalog; entries that are not objects are skipped.
func (c *Client) Products(ctx context.Context) ([]domain.RawProduct, error) {
	env, err := c.Do(ctx, http.MethodGet, PathProducts, nil, "Failed to fetch products")
	if err != nil {
		return nil, err
	}
	var entries []json.RawMessage
	if ok, err := env.Field("ECommerceBars", &entries); !ok || err != nil {
		return []domain.RawProduct{}, nil
	}
	out := make([]domain.RawProduct, 0, len(entries))
	for i, e := range entries {
		var p domain.RawProduct
		if err := json.Unmarshal(e, &p); err != nil {
			applog.Warn("backend.products.skip", err, map[string]any{"index": i})
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

type rawCart struct {
	Items []domain.RawCartItem `json:"items"`
}

func (c *Client) CartItems(ctx context.Context) ([]domain.RawCartItem, error) {
	const fallback = "Failed to fetch cart items"
	env, err := c.Do(ctx, http.MethodGet, PathCartItems, nil, fallback)
	if err != nil {
		return nil, err
	}
	var cart rawCart
	ok, err := env.Field("Cart", &cart)
	if err != nil {
		return nil, protocolErr(http.MethodGet+" "+PathCartItems, fallback, err)
	}
	if !ok || cart.Items == nil {
		return []domain.RawCartItem{}, nil
	}
	return cart.Items, nil
}

func (c *Client) CartPrices(ctx context.Context) (domain.RawCartPrices, error) {
	const fallback = "Failed to fetch cart summary"
	op := http.MethodGet + " " + PathCartPrices
	env, err := c.Do(ctx, http.MethodGet, PathCartPrices, nil, fallback)
	if err != nil {
		return domain.RawCartPrices{}, err
	}
	var out domain.RawCartPrices
	var totals domain.RawTotals
	if ok, err := env.Field("data", &totals); err != nil {
		return domain.RawCartPrices{}, protocolErr(op, fallback, err)
	} else if ok {
		out.Data = &totals
	}
	var cart rawCart
	if _, err := env.Field("Cart", &cart); err != nil {
		return domain.RawCartPrices{}, protocolErr(op, fallback, err)
	}
	out.Items = cart.Items
	return out, nil
}

// UpdateCart posts one cart mutation for a bar.
func (c *Client) UpdateCart(ctx context.Context, barID int, action domain.CartAction) error {
	_, err := c.Do(ctx, http.MethodPost, PathCartStore, map[string]any{
		"bar_id": barID,
		"action": string(action),
	}, "Failed to update cart")
	return err
}

func (c *Client) ClearCart(ctx context.Context) error {
	_, err := c.Do(ctx, http.MethodGet, PathCartClear, nil, "Failed to clear cart")
	return err
}
