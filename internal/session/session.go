// Package session holds the server's view of live browser sessions. The
// identity provider owns the truth; this store resolves tokens through it,
// remembers which sessions it has seen, and notifies subscribers of sign-in
// and sign-out transitions. It is constructed once at startup and threaded
// into every component that needs identity.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/auth"
)

// Provider is the identity provider contract the store needs. Any failure
// from the provider is treated as "no session".
type Provider interface {
	CurrentSession(ctx context.Context, token string) (*auth.Identity, error)
	SignUp(ctx context.Context, email, password string) (*auth.Identity, error)
	SignIn(ctx context.Context, email, password string) (string, *auth.Identity, error)
	SignOut(ctx context.Context, token string) error
}

// Change is pushed to subscribers whenever a session transitions.
// Identity is nil after sign-out.
type Change struct {
	Identity *auth.Identity
}

type entry struct {
	identity *auth.Identity
	seenAt   time.Time
}

// Store tracks resolved sessions by token. Every resolution goes back to the
// provider, so revocation takes effect on the next guarded request; the
// cached entries exist to detect transitions, not to skip the check.
type Store struct {
	provider Provider

	mu       sync.Mutex
	sessions map[string]entry
	subs     map[int]chan Change
	nextSub  int
}

// NewStore creates an empty session store.
func NewStore(provider Provider) *Store {
	return &Store{
		provider: provider,
		sessions: make(map[string]entry),
		subs:     make(map[int]chan Change),
	}
}

// Resolve checks a token with the provider. A missing, invalid, or revoked
// token resolves to no session; only provider infrastructure errors are
// returned, and callers treat those as "no session" too. A session that was
// live on a previous resolution and is now gone (signed out elsewhere, token
// revoked) notifies subscribers of the sign-out.
func (s *Store) Resolve(ctx context.Context, token string) (*auth.Identity, error) {
	if token == "" {
		return nil, nil
	}

	identity, err := s.provider.CurrentSession(ctx, token)
	if err != nil {
		identity = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prior, known := s.sessions[token]
	if identity == nil {
		if known && prior.identity != nil {
			delete(s.sessions, token)
			s.notifyLocked(nil)
		}
		return nil, err
	}

	if !known {
		s.notifyLocked(identity)
	}
	s.sessions[token] = entry{identity: identity, seenAt: time.Now()}
	s.pruneLocked()
	return identity, nil
}

// SignIn authenticates with the provider and records the new session.
// Returns the session token.
func (s *Store) SignIn(ctx context.Context, email, password string) (string, error) {
	token, identity, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.sessions[token] = entry{identity: identity, seenAt: time.Now()}
	s.notifyLocked(identity)
	s.pruneLocked()
	s.mu.Unlock()
	return token, nil
}

// SignUp creates an account and immediately signs in with it.
func (s *Store) SignUp(ctx context.Context, email, password string) (string, error) {
	if _, err := s.provider.SignUp(ctx, email, password); err != nil {
		return "", err
	}
	return s.SignIn(ctx, email, password)
}

// SignOut forgets the session and revokes it with the provider. The local
// session ends even if revocation fails; the provider's error is returned
// for diagnostics.
func (s *Store) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	s.mu.Lock()
	if prior, ok := s.sessions[token]; ok && prior.identity != nil {
		delete(s.sessions, token)
		s.notifyLocked(nil)
	}
	s.mu.Unlock()

	return s.provider.SignOut(ctx, token)
}

// Subscribe registers for session change notifications. The returned cancel
// function must be called to release the subscription.
func (s *Store) Subscribe() (<-chan Change, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Change, 8)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// notifyLocked pushes a change to all subscribers. Slow subscribers miss
// intermediate transitions rather than blocking the store.
func (s *Store) notifyLocked(identity *auth.Identity) {
	for _, ch := range s.subs {
		select {
		case ch <- Change{Identity: identity}:
		default:
		}
	}
}

// pruneLocked drops entries for tokens not presented within the token
// lifetime, so abandoned sessions do not accumulate.
func (s *Store) pruneLocked() {
	cutoff := time.Now().Add(-auth.TokenExpiry)
	for token, e := range s.sessions {
		if e.seenAt.Before(cutoff) {
			delete(s.sessions, token)
		}
	}
}
