// Package backendtest runs an in-memory bar-store API for tests.
package backendtest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
)

type Bar struct {
	ID           int
	NameEn       string
	NameAr       string
	Image        string
	Weight       string
	Karat        string
	Maker        string
	GoldPrice    float64
	MakingCharge float64
}

func (b Bar) unit() float64 { return b.GoldPrice + b.MakingCharge }

type failure struct {
	code int
	body string
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	bars     map[int]Bar
	cart     map[int]int
	calls    map[string]int
	tokens   map[string]int
	fail     map[string]failure
	lastBody map[string]any
}

// NewServer starts a fake backend seeded with bars. It is closed on cleanup.
func NewServer(t testing.TB, bars ...Bar) *Server {
	s := &Server{
		bars:   map[int]Bar{},
		cart:   map[int]int{},
		calls:  map[string]int{},
		tokens: map[string]int{},
		fail:   map[string]failure{},
	}
	for _, b := range bars {
		s.bars[b.ID] = b
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Fail makes path answer with code and a raw body until Recover is called.
func (s *Server) Fail(path string, code int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[path] = failure{code: code, body: body}
}

func (s *Server) Recover(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.fail, path)
}

// Calls reports how many requests hit path.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// Tokens returns the distinct session tokens seen so far.
func (s *Server) Tokens() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.tokens))
	for t := range s.tokens {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// LastBody is the decoded JSON body of the last POST to /cart/store.
func (s *Server) LastBody() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBody
}

// Quantity is the server-side quantity of a bar in the cart.
func (s *Server) Quantity(barID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart[barID]
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[r.URL.Path]++

	token := r.URL.Query().Get("token")
	var body map[string]any
	if r.Method == http.MethodPost {
		_ = json.NewDecoder(r.Body).Decode(&body)
		if t, ok := body["token"].(string); ok {
			token = t
		}
	}
	if f, ok := s.fail[r.URL.Path]; ok {
		w.WriteHeader(f.code)
		_, _ = w.Write([]byte(f.body))
		return
	}
	if token == "" {
		reply(w, map[string]any{"status": false, "message": msg("token is required")})
		return
	}
	s.tokens[token]++

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/e-bar-store":
		reply(w, map[string]any{"status": true, "message": msg("ok"), "ECommerceBars": s.products()})
	case r.Method == http.MethodGet && r.URL.Path == "/cart/index":
		reply(w, map[string]any{"status": true, "message": msg("ok"), "Cart": map[string]any{"items": s.items()}})
	case r.Method == http.MethodGet && r.URL.Path == "/cart/prices":
		total := s.total()
		reply(w, map[string]any{"status": true, "message": msg("ok"), "data": map[string]any{"subtotal": total, "total": total}})
	case r.Method == http.MethodPost && r.URL.Path == "/cart/store":
		s.lastBody = body
		s.store(w, body)
	case r.Method == http.MethodGet && r.URL.Path == "/cart/clear-cart":
		s.cart = map[int]int{}
		reply(w, map[string]any{"status": true, "message": msg("Cart cleared")})
	default:
		w.WriteHeader(http.StatusNotFound)
		reply(w, map[string]any{"status": false, "message": msg("not found")})
	}
}

func (s *Server) store(w http.ResponseWriter, body map[string]any) {
	idf, _ := body["bar_id"].(float64)
	id := int(idf)
	if _, ok := s.bars[id]; !ok {
		reply(w, map[string]any{"status": false, "message": map[string]string{"en": "Bar not found", "ar": "السبيكة غير موجودة"}})
		return
	}
	switch body["action"] {
	case "INCREMENT":
		s.cart[id]++
	case "DECREMENT":
		if s.cart[id] > 1 {
			s.cart[id]--
		}
	case "DELETE":
		delete(s.cart, id)
	default:
		reply(w, map[string]any{"status": false, "message": msg("invalid action")})
		return
	}
	reply(w, map[string]any{"status": true, "message": msg("Cart updated")})
}

func (s *Server) products() []map[string]any {
	ids := s.sortedIDs(s.bars)
	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		b := s.bars[id]
		out = append(out, map[string]any{
			"id":            b.ID,
			"name":          map[string]string{"en": b.NameEn, "ar": b.NameAr},
			"image":         b.Image,
			"weight":        b.Weight,
			"karat":         b.Karat,
			"maker":         b.Maker,
			"gold_price":    b.GoldPrice,
			"making_charge": b.MakingCharge,
			"total":         b.unit(),
		})
	}
	return out
}

func (s *Server) items() []map[string]any {
	ids := make([]int, 0, len(s.cart))
	for id := range s.cart {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]map[string]any, 0, len(ids))
	for i, id := range ids {
		b, q := s.bars[id], s.cart[id]
		out = append(out, map[string]any{
			"id": i + 1,
			"bar": map[string]any{
				"id":         b.ID,
				"image":      b.Image,
				"name":       map[string]string{"en": b.NameEn, "ar": b.NameAr},
				"bar_karat":  b.Karat,
				"bar_weight": b.Weight,
				"maker":      b.Maker,
			},
			"quantity":      q,
			"gold_price":    b.GoldPrice,
			"making_charge": b.MakingCharge,
			"total":         b.unit() * float64(q),
		})
	}
	return out
}

func (s *Server) total() float64 {
	var t float64
	for id, q := range s.cart {
		t += s.bars[id].unit() * float64(q)
	}
	return t
}

func (s *Server) sortedIDs(m map[int]Bar) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func msg(en string) map[string]string { return map[string]string{"en": en, "ar": ""} }

func reply(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// StaticToken is a fixed session token source.
type StaticToken string

func (t StaticToken) Token(context.Context) string { return string(t) }
