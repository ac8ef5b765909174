package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Localized is a backend text field. The API sends {"en","ar"} objects, older
// payloads send a bare string which is kept as the English value.
type Localized struct {
	En string `json:"en"`
	Ar string `json:"ar"`
}

func (l *Localized) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = Localized{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = Localized{En: s}
		return nil
	}
	type plain Localized
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*l = Localized(p)
	return nil
}

// Pick returns the English text, then the Arabic one, then fallback.
func (l Localized) Pick(fallback string) string {
	if l.En != "" {
		return l.En
	}
	if l.Ar != "" {
		return l.Ar
	}
	return fallback
}

// FlexString accepts either a JSON string or a JSON number.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*f = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	default:
		n, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return err
		}
		*f = FlexString(strconv.FormatFloat(n, 'f', -1, 64))
	}
	return nil
}

type RawProduct struct {
	ID           int        `json:"id"`
	Weight       FlexString `json:"weight"`
	Image        string     `json:"image"`
	Name         Localized  `json:"name"`
	Description  Localized  `json:"description"`
	Maker        string     `json:"maker"`
	Karat        FlexString `json:"karat"`
	Fineness     float64    `json:"fineness"`
	Cashback     float64    `json:"cashback"`
	MakingCharge float64    `json:"making_charge"`
	GoldPrice    float64    `json:"gold_price"`
	Total        float64    `json:"total"`
}

type RawBar struct {
	ID          int        `json:"id"`
	Image       string     `json:"image"`
	Name        Localized  `json:"name"`
	Description Localized  `json:"description"`
	BarKarat    FlexString `json:"bar_karat"`
	BarWeight   FlexString `json:"bar_weight"`
	Maker       string     `json:"maker"`
}

type RawCartItem struct {
	ID           int     `json:"id"`
	Bar          RawBar  `json:"bar"`
	Quantity     int     `json:"quantity"`
	GoldPrice    float64 `json:"gold_price"`
	MakingCharge float64 `json:"making_charge"`
	Total        float64 `json:"total"`
}

// RawTotals is the optional "data" object of the prices endpoint.
type RawTotals struct {
	Subtotal *float64 `json:"subtotal"`
	Total    *float64 `json:"total"`
}

// RawCartPrices carries whichever of the two shapes the prices endpoint sent.
type RawCartPrices struct {
	Data  *RawTotals
	Items []RawCartItem
}
