package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"barstore/internal/domain"
)

// ErrInvalidAction is returned by Mutate for actions outside INCREMENT,
// DECREMENT and DELETE. No request is sent for them.
var ErrInvalidAction = errors.New("invalid cart action")

type CartAPI interface {
	CartItems(ctx context.Context) ([]domain.RawCartItem, error)
	CartPrices(ctx context.Context) (domain.RawCartPrices, error)
	UpdateCart(ctx context.Context, barID int, action domain.CartAction) error
	ClearCart(ctx context.Context) error
}

// FailurePolicy decides what a failed fetch does to previously loaded data.
// The zero value clears it.
type FailurePolicy struct {
	KeepProductsOnError bool
	KeepSummaryOnError  bool
}

type CartState struct {
	Items   []domain.CartLineItem `json:"items"`
	Summary domain.CartSummary    `json:"summary"`
	Loading bool                  `json:"loading"`
	Error   string                `json:"error,omitempty"`
}

// CartStore caches the server cart. Every write is followed by a full re-read
// of items and prices; nothing is ever predicted locally.
//
// All operations share the loading flag, which stays up while any of them
// (including the re-reads nested in a write) is in flight. Overlapping
// operations are not serialized: whichever response lands last wins.
type CartStore struct {
	API    CartAPI
	Policy FailurePolicy

	mu       sync.Mutex
	state    CartState
	inflight int
}

func NewCartStore(api CartAPI, policy FailurePolicy) *CartStore {
	return &CartStore{API: api, Policy: policy, state: CartState{Items: []domain.CartLineItem{}}}
}

func (s *CartStore) begin(clearErr bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight++
	s.state.Loading = true
	if clearErr {
		s.state.Error = ""
	}
}

func (s *CartStore) end(update func(st *CartState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	s.state.Loading = s.inflight > 0
	if update != nil {
		update(&s.state)
	}
}

// FetchItems replaces the line items. On failure the items are cleared, the
// error is set and the summary is left alone.
func (s *CartStore) FetchItems(ctx context.Context) error {
	s.begin(true)
	raw, err := s.API.CartItems(ctx)
	if err != nil {
		s.end(func(st *CartState) {
			st.Error = err.Error()
			st.Items = []domain.CartLineItem{}
		})
		return err
	}
	items := make([]domain.CartLineItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, domain.LineItemFromRaw(r))
	}
	s.end(func(st *CartState) { st.Items = items })
	return nil
}

// FetchSummary replaces the order summary. Failures never reach the shared
// error; the summary is zeroed unless KeepSummaryOnError is set.
func (s *CartStore) FetchSummary(ctx context.Context) error {
	s.begin(false)
	prices, err := s.API.CartPrices(ctx)
	if err != nil {
		s.end(func(st *CartState) {
			if !s.Policy.KeepSummaryOnError {
				st.Summary = domain.CartSummary{}
			}
		})
		return err
	}
	sum := domain.SummaryFromPrices(prices)
	s.end(func(st *CartState) { st.Summary = sum })
	return nil
}

// Refresh re-reads items and summary concurrently and returns once both
// settled. It reports the items error first.
func (s *CartStore) Refresh(ctx context.Context) error {
	items := Go(ctx, s.FetchItems)
	summary := Go(ctx, s.FetchSummary)
	ierr, serr := items.Wait(), summary.Wait()
	if ierr != nil {
		return ierr
	}
	return serr
}

// Mutate applies one cart action for a bar, then refreshes. A failed write
// sets the error and skips the refresh. Errors of the refresh itself land in
// state and are not returned.
func (s *CartStore) Mutate(ctx context.Context, barID int, action domain.CartAction) error {
	if !action.Valid() {
		err := fmt.Errorf("%w: %q", ErrInvalidAction, action)
		s.mu.Lock()
		s.state.Error = err.Error()
		s.mu.Unlock()
		return err
	}
	return s.writeThenRefresh(ctx, func(ctx context.Context) error {
		return s.API.UpdateCart(ctx, barID, action)
	})
}

// Clear empties the server cart, then refreshes like Mutate.
func (s *CartStore) Clear(ctx context.Context) error {
	return s.writeThenRefresh(ctx, s.API.ClearCart)
}

func (s *CartStore) writeThenRefresh(ctx context.Context, write func(context.Context) error) error {
	s.begin(true)
	if err := write(ctx); err != nil {
		s.end(func(st *CartState) { st.Error = err.Error() })
		return err
	}
	_ = s.Refresh(ctx)
	s.end(nil)
	return nil
}

func (s *CartStore) MutateAsync(ctx context.Context, barID int, action domain.CartAction) *Task {
	return Go(ctx, func(ctx context.Context) error { return s.Mutate(ctx, barID, action) })
}

func (s *CartStore) ClearAsync(ctx context.Context) *Task { return Go(ctx, s.Clear) }

func (s *CartStore) RefreshAsync(ctx context.Context) *Task { return Go(ctx, s.Refresh) }

// ClearError dismisses the current error.
func (s *CartStore) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = ""
}

// Snapshot returns a copy of the current state.
func (s *CartStore) Snapshot() CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Items = make([]domain.CartLineItem, len(s.state.Items))
	copy(st.Items, s.state.Items)
	return st
}
