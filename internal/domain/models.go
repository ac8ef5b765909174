package domain

import "strings"

const (
	PlaceholderImage = "/static/placeholder-image.svg"
	UnknownProduct   = "Unknown Product"
)

type Product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// Valid reports whether the product can be shown in the store grid.
func (p Product) Valid() bool {
	return p.ID != 0 && strings.TrimSpace(p.Name) != ""
}

type CartLineItem struct {
	ID        int     `json:"id"` // bar id, used for cart operations
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
	Weight    string  `json:"weight"`
	Karat     string  `json:"karat"`
	Maker     string  `json:"maker"`
}

type CartSummary struct {
	Subtotal float64 `json:"subtotal"`
	Total    float64 `json:"total"`
}

type CartAction string

const (
	ActionIncrement CartAction = "INCREMENT"
	ActionDecrement CartAction = "DECREMENT"
	ActionDelete    CartAction = "DELETE"
)

func (a CartAction) Valid() bool {
	switch a {
	case ActionIncrement, ActionDecrement, ActionDelete:
		return true
	}
	return false
}
