package domain

// ProductFromRaw maps a catalog entry for display.
func ProductFromRaw(r RawProduct) Product {
	price := r.Total
	if price == 0 {
		price = r.GoldPrice
	}
	img := r.Image
	if img == "" {
		img = PlaceholderImage
	}
	return Product{
		ID:    r.ID,
		Name:  r.Name.Pick(UnknownProduct),
		Price: price,
		Image: img,
	}
}

// LineItemFromRaw maps a cart entry. The line total is the server's figure and
// is never recomputed here.
func LineItemFromRaw(r RawCartItem) CartLineItem {
	return CartLineItem{
		ID:        r.Bar.ID,
		Name:      r.Bar.Name.Pick(UnknownProduct),
		Image:     r.Bar.Image,
		UnitPrice: r.GoldPrice + r.MakingCharge,
		Quantity:  r.Quantity,
		LineTotal: r.Total,
		Weight:    string(r.Bar.BarWeight) + "g",
		Karat:     string(r.Bar.BarKarat) + "K",
		Maker:     r.Bar.Maker,
	}
}

// SummaryFromPrices prefers the server totals and only sums line totals when
// the payload has no direct total.
func SummaryFromPrices(p RawCartPrices) CartSummary {
	if p.Data != nil && p.Data.Total != nil {
		s := CartSummary{Total: *p.Data.Total}
		if p.Data.Subtotal != nil {
			s.Subtotal = *p.Data.Subtotal
		}
		return s
	}
	var sum float64
	for _, it := range p.Items {
		sum += it.Total
	}
	return CartSummary{Subtotal: sum, Total: sum}
}
