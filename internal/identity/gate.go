// internal/identity/gate.go
package identity

import "sync"

// Listener is notified when the current identity changes. userID is the
// empty string when the identity has been cleared.
type Listener func(userID string)

// Gate supplies the current user identity for one storefront session.
// Identity is an opaque external input; the gate does not validate it.
type Gate struct {
	mu        sync.RWMutex
	userID    string
	listeners []Listener
}

// NewGate creates a gate with no identity present
func NewGate() *Gate {
	return &Gate{}
}

// CurrentUserID returns the current identity and whether one is present
func (g *Gate) CurrentUserID() (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.userID, g.userID != ""
}

// IsAuthenticated reports whether an identity is present
func (g *Gate) IsAuthenticated() bool {
	_, ok := g.CurrentUserID()
	return ok
}

// Subscribe registers a listener fired on every identity change
func (g *Gate) Subscribe(l Listener) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, l)
}

// SignIn sets the identity and notifies listeners. Setting the same
// identity again is a no-op.
func (g *Gate) SignIn(userID string) {
	g.mu.Lock()
	if userID == "" || g.userID == userID {
		g.mu.Unlock()
		return
	}
	g.userID = userID
	listeners := append([]Listener(nil), g.listeners...)
	g.mu.Unlock()

	for _, l := range listeners {
		l(userID)
	}
}

// SignOut clears the identity and notifies listeners
func (g *Gate) SignOut() {
	g.mu.Lock()
	if g.userID == "" {
		g.mu.Unlock()
		return
	}
	g.userID = ""
	listeners := append([]Listener(nil), g.listeners...)
	g.mu.Unlock()

	for _, l := range listeners {
		l("")
	}
}
