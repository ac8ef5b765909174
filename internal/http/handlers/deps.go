package handlers

import (
	"barstore/internal/services"
)

type Deps struct {
	StoreHandler *StoreHandler
	CartHandler  *CartHandler
	APIHandler   *APIHandler
}

func NewDeps(state *services.AppState) *Deps {
	return &Deps{
		StoreHandler: &StoreHandler{Catalog: state.Catalog, Cart: state.Cart},
		CartHandler:  &CartHandler{Cart: state.Cart},
		APIHandler:   &APIHandler{Catalog: state.Catalog, Cart: state.Cart},
	}
}
