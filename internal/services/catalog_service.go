package services

import (
	"context"
	"sync"

	"barstore/internal/domain"
)

type CatalogAPI interface {
	Products(ctx context.Context) ([]domain.RawProduct, error)
}

type CatalogState struct {
	Products []domain.Product `json:"products"`
	Loading  bool             `json:"loading"`
	Error    string           `json:"error,omitempty"`
}

// Visible returns the products that pass the display filter.
func (s CatalogState) Visible() []domain.Product {
	out := make([]domain.Product, 0, len(s.Products))
	for _, p := range s.Products {
		if p.Valid() {
			out = append(out, p)
		}
	}
	return out
}

// CatalogStore holds the product list. The list is only ever replaced as a
// whole: by a successful fetch, or by the empty list when a fetch fails and
// KeepProductsOnError is off.
type CatalogStore struct {
	API    CatalogAPI
	Policy FailurePolicy

	mu       sync.Mutex
	state    CatalogState
	inflight int
	loaded   bool
}

func NewCatalogStore(api CatalogAPI, policy FailurePolicy) *CatalogStore {
	return &CatalogStore{API: api, Policy: policy, state: CatalogState{Products: []domain.Product{}}}
}

func (s *CatalogStore) FetchProducts(ctx context.Context) error {
	s.mu.Lock()
	s.inflight++
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()

	raw, err := s.API.Products(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	s.state.Loading = s.inflight > 0
	if err != nil {
		s.state.Error = err.Error()
		if !s.Policy.KeepProductsOnError {
			s.state.Products = []domain.Product{}
		}
		return err
	}
	products := make([]domain.Product, 0, len(raw))
	for _, r := range raw {
		products = append(products, domain.ProductFromRaw(r))
	}
	s.state.Products = products
	s.loaded = true
	return nil
}

// Loaded reports whether a fetch ever succeeded.
func (s *CatalogStore) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *CatalogStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = ""
}

// Snapshot returns a copy of the current state.
func (s *CatalogStore) Snapshot() CatalogState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Products = make([]domain.Product, len(s.state.Products))
	copy(st.Products, s.state.Products)
	return st
}
