package handlers_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"barstore/internal/backend"
)

func addForm(barID, action, back string) url.Values {
	return url.Values{"bar_id": {barID}, "action": {action}, "return": {back}}
}

func TestAddToCartFromStore(t *testing.T) {
	a := newTestApp(t, appOpts{})

	var resp *http.Response
	entries := captureLogs(t, func() {
		resp, _ = a.postForm(t, "/cart", addForm("42", "INCREMENT", "/"))
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/?added=42", resp.Header.Get("Location"))
	require.Equal(t, 1, a.backend.Quantity(42))

	e, ok := findAction(entries, "cart.mutate")
	require.True(t, ok, "audit entry missing")
	require.Equal(t, "audit", e.Fields["kind"])
	require.NotEmpty(t, e.ReqID)

	// one write, then exactly one re-read of each cart resource
	require.Equal(t, 1, a.backend.Calls(backend.PathCartStore))
	require.Equal(t, 1, a.backend.Calls(backend.PathCartItems))
	require.Equal(t, 1, a.backend.Calls(backend.PathCartPrices))

	_, body := a.get(t, "/?added=42")
	require.Contains(t, body, "Added successfully!")
	require.Contains(t, body, `class="badge">1<`)
}

func TestAddToCartFailureFlashesOnCard(t *testing.T) {
	a := newTestApp(t, appOpts{})
	a.backend.Fail(backend.PathCartStore, http.StatusOK, `{"status":false,"message":{"en":"","ar":"غير متوفر"}}`)

	resp, _ := a.postForm(t, "/cart", addForm("42", "INCREMENT", "/"))
	require.Equal(t, "/?failed=42", resp.Header.Get("Location"))
	require.Equal(t, 0, a.backend.Calls(backend.PathCartItems))

	_, body := a.get(t, "/?failed=42")
	require.Contains(t, body, "Failed to add")
	require.Contains(t, body, "غير متوفر")
}

func TestAddUnknownBarSurfacesServerMessage(t *testing.T) {
	a := newTestApp(t, appOpts{})
	resp, _ := a.postForm(t, "/cart", addForm("7", "INCREMENT", "/cart"))
	require.Equal(t, "/cart", resp.Header.Get("Location"))
	require.Equal(t, "Bar not found", a.state.Cart.Snapshot().Error)

	// the redirect target shows the rejection instead of re-reading it away
	reads := a.backend.Calls(backend.PathCartItems)
	_, body := a.get(t, resp.Header.Get("Location"))
	require.Contains(t, body, "Bar not found")
	require.Equal(t, reads, a.backend.Calls(backend.PathCartItems))

	resp, _ = a.postForm(t, "/cart/dismiss", url.Values{"return": {"/cart"}})
	require.Equal(t, "/cart", resp.Header.Get("Location"))
	_, body = a.get(t, "/cart")
	require.NotContains(t, body, "Bar not found")
	require.Equal(t, reads+1, a.backend.Calls(backend.PathCartItems))
}

func TestCartPage_FailedClearShowsError(t *testing.T) {
	a := newTestApp(t, appOpts{})
	a.postForm(t, "/cart", addForm("42", "INCREMENT", "/cart"))
	a.backend.Fail(backend.PathCartClear, http.StatusOK, `{"status":false,"message":{"en":"Cart is locked"}}`)

	resp, _ := a.postForm(t, "/cart/clear", url.Values{})
	require.Equal(t, "/cart", resp.Header.Get("Location"))

	_, body := a.get(t, "/cart")
	require.Contains(t, body, "Cart is locked")
	require.Contains(t, body, "Bar 42")
}

func TestCartPage_RefreshesAndRenders(t *testing.T) {
	a := newTestApp(t, appOpts{})
	a.postForm(t, "/cart", addForm("42", "INCREMENT", "/cart"))
	a.postForm(t, "/cart", addForm("42", "INCREMENT", "/cart"))
	a.postForm(t, "/cart", addForm("43", "INCREMENT", "/cart"))

	before := a.backend.Calls(backend.PathCartItems)
	resp, body := a.get(t, "/cart")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, before+1, a.backend.Calls(backend.PathCartItems))

	require.Contains(t, body, "Bar 42")
	require.Contains(t, body, "10g • 21K • BTC")
	require.Contains(t, body, "EGP 4,800 per item")
	require.Contains(t, body, "EGP 9,600")
	require.Contains(t, body, "Items (2)")
	require.Contains(t, body, `<strong id="total">EGP 10,834</strong>`)
}

func TestCartPage_Empty(t *testing.T) {
	a := newTestApp(t, appOpts{})
	_, body := a.get(t, "/cart")
	require.Contains(t, body, "Your cart is empty")
}

func TestCartPage_ItemsFailureShowsError(t *testing.T) {
	a := newTestApp(t, appOpts{})
	a.backend.Fail(backend.PathCartItems, http.StatusBadGateway, `{"message":"Upstream unavailable"}`)

	_, body := a.get(t, "/cart")
	require.Contains(t, body, "Upstream unavailable")
	require.Contains(t, body, "Your cart is empty")

	resp, _ := a.postForm(t, "/cart/dismiss", url.Values{"return": {"/cart"}})
	require.Equal(t, "/cart", resp.Header.Get("Location"))
	require.Empty(t, a.state.Cart.Snapshot().Error)
}

func TestCartMutations(t *testing.T) {
	a := newTestApp(t, appOpts{})
	a.postForm(t, "/cart", addForm("42", "INCREMENT", "/cart"))
	a.postForm(t, "/cart", addForm("42", "increment", "/cart"))
	require.Equal(t, 2, a.backend.Quantity(42))

	resp, _ := a.postForm(t, "/cart", addForm("42", "DECREMENT", "/cart"))
	require.Equal(t, "/cart", resp.Header.Get("Location"))
	require.Equal(t, 1, a.backend.Quantity(42))

	a.postForm(t, "/cart", addForm("42", "DELETE", "/cart"))
	require.Equal(t, 0, a.backend.Quantity(42))
	require.Empty(t, a.state.Cart.Snapshot().Items)
}

func TestCartClear(t *testing.T) {
	a := newTestApp(t, appOpts{})
	a.postForm(t, "/cart", addForm("42", "INCREMENT", "/cart"))
	a.postForm(t, "/cart", addForm("43", "INCREMENT", "/cart"))

	var resp *http.Response
	entries := captureLogs(t, func() {
		resp, _ = a.postForm(t, "/cart/clear", url.Values{})
	})
	require.Equal(t, "/cart", resp.Header.Get("Location"))
	_, ok := findAction(entries, "cart.clear")
	require.True(t, ok)

	st := a.state.Cart.Snapshot()
	require.Empty(t, st.Items)
	require.Zero(t, st.Summary.Total)
	require.Equal(t, 1, a.backend.Calls(backend.PathCartClear))
}

func TestCartRejectsBadInput(t *testing.T) {
	a := newTestApp(t, appOpts{})

	var resp *http.Response
	entries := captureLogs(t, func() {
		resp, _ = a.postForm(t, "/cart", addForm("abc", "INCREMENT", "/"))
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	e, ok := findAction(entries, "validation.fail")
	require.True(t, ok)
	require.Equal(t, "bar_id", e.Fields["field"])

	resp, _ = a.postForm(t, "/cart", addForm("42", "DOUBLE", "/"))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, 0, a.backend.Calls(backend.PathCartStore))
}

func TestCartReturnPathIsConfined(t *testing.T) {
	a := newTestApp(t, appOpts{})
	resp, _ := a.postForm(t, "/cart", addForm("42", "DECREMENT", "https://evil.example/"))
	require.Equal(t, "/", resp.Header.Get("Location"))
}
