package services

import (
	"context"
	"encoding/hex"
	"errors"
	"math/rand"
	"regexp"
	"sync"

	"golang.org/x/crypto/blake2b"

	applog "barstore/internal/log"
	"barstore/internal/repos"
)

const SessionKey = "session_token"

var reSessionToken = regexp.MustCompile(`^[0-9a-f]{64}$`)

// KeyValueStore is the local storage the session token lives in.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// SessionService owns the process-wide session token. It is loaded or created
// once and then served from memory.
type SessionService struct {
	Store KeyValueStore

	mu    sync.Mutex
	token string
}

func NewSessionService(store KeyValueStore) *SessionService {
	return &SessionService{Store: store}
}

// GetOrCreate returns the persisted anonymous session token. Only an absent
// or malformed value is replaced with a fresh one; persistence is best-effort.
// When storage cannot be read the fresh token is kept in memory only, so a
// valid stored token is never overwritten.
func (s *SessionService) GetOrCreate(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" {
		return s.token
	}

	v, err := s.Store.Get(ctx, SessionKey)
	switch {
	case err == nil && ValidSessionToken(v):
		s.token = v
		return v
	case err != nil && !errors.Is(err, repos.ErrNoKey):
		tok := NewSessionToken()
		applog.Warn("session.load.fail", err, map[string]any{"token": Fingerprint(tok)})
		s.token = tok
		return tok
	}

	tok := NewSessionToken()
	if err := s.Store.Set(ctx, SessionKey, tok); err != nil {
		applog.Warn("session.persist.fail", err, map[string]any{"token": Fingerprint(tok)})
	}
	s.token = tok
	return tok
}

// Token satisfies backend.TokenSource.
func (s *SessionService) Token(ctx context.Context) string { return s.GetOrCreate(ctx) }

func ValidSessionToken(v string) bool { return reSessionToken.MatchString(v) }

// NewSessionToken draws 64 independent hex digits. Not suitable as a secret.
func NewSessionToken() string {
	const digits = "0123456789abcdef"
	b := make([]byte, 64)
	for i := range b {
		b[i] = digits[rand.Intn(16)]
	}
	return string(b)
}

// Fingerprint is a short digest of a token, safe to put in logs.
func Fingerprint(tok string) string {
	sum := blake2b.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:6])
}
