// internal/domain/cart/registry.go
package cart

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-cart/internal/identity"
)

// Session bundles one user's identity gate with their cart store. The
// store reacts to the gate: identity appearing triggers the initial cart
// load, identity disappearing clears the mapping.
type Session struct {
	Gate  *identity.Gate
	Store *Store
}

// Registry hands out one cart session per authenticated user
type Registry struct {
	mu       sync.Mutex
	client   RemoteCart
	logger   *logrus.Logger
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry
func NewRegistry(client RemoteCart, logger *logrus.Logger) *Registry {
	return &Registry{
		client:   client,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Session returns the cart session for userID, creating it and signing it
// in on first access
func (r *Registry) Session(userID string) *Session {
	r.mu.Lock()
	if sess, ok := r.sessions[userID]; ok {
		r.mu.Unlock()
		return sess
	}

	store := NewStore(r.client, r.logger)
	gate := identity.NewGate()
	gate.Subscribe(func(uid string) {
		if uid == "" {
			store.SignOut()
			return
		}
		store.SignIn(context.Background(), uid)
	})

	sess := &Session{Gate: gate, Store: store}
	r.sessions[userID] = sess
	r.mu.Unlock()

	// Sign in outside the registry lock; this performs the initial fetch
	gate.SignIn(userID)
	return sess
}

// Drop signs the user out and discards their session
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	sess, ok := r.sessions[userID]
	delete(r.sessions, userID)
	r.mu.Unlock()

	if ok {
		sess.Gate.SignOut()
	}
}

// Size returns the number of live sessions
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
