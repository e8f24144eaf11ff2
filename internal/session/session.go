// ABOUTME: Session manager owning the authenticated identity lifecycle
// ABOUTME: Two-step login, signup, logout, and startup hydration from the token slot

package session

import (
	"context"
	"log/slog"
	"sync"

	"shopfront/internal/client"
)

// Manager owns the current authenticated identity. At most one identity is
// active at a time; it lives in memory only and is rebuilt from the token
// slot on startup via Hydrate.
type Manager struct {
	api   *client.Client
	store *TokenStore

	mu      sync.RWMutex
	current *client.Identity
}

// NewManager creates a session manager using the given API client and slot
func NewManager(api *client.Client, store *TokenStore) *Manager {
	return &Manager{api: api, store: store}
}

// Signup creates a new non-admin account. Mismatched password confirmation
// short-circuits before any network call. Signup never authenticates; the
// user logs in separately afterwards.
func (m *Manager) Signup(ctx context.Context, name, email, password, confirm string) error {
	if password != confirm {
		return &client.Error{Kind: client.KindValidation, Op: "signup", Message: "passwords do not match"}
	}
	return m.api.Signup(ctx, name, email, password)
}

// Login exchanges credentials for a token, persists it, then fetches the
// profile. The session stays anonymous until the profile fetch succeeds; a
// failed fetch leaves the token stored for the next Hydrate to retry.
func (m *Manager) Login(ctx context.Context, email, password string) (*client.Identity, error) {
	token, err := m.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := m.store.Save(token); err != nil {
		return nil, err
	}

	ident, err := m.api.Me(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.current = ident
	m.mu.Unlock()

	slog.Debug("Session established", "email", ident.Email, "admin", ident.IsAdmin)
	return ident, nil
}

// Logout clears the token slot and the in-memory identity. It always
// succeeds and performs no server round-trip.
func (m *Manager) Logout() {
	if err := m.store.Clear(); err != nil {
		slog.Warn("Failed to clear token slot", "error", err)
	}

	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}

// Current returns the active identity, or nil when anonymous. Pure memory
// read; the token is not re-validated against the server.
func (m *Manager) Current() *client.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Hydrate rebuilds the session from the token slot on startup. An invalid
// token clears the slot and leaves the session anonymous; a transport
// failure keeps the token and reports the error.
func (m *Manager) Hydrate(ctx context.Context) error {
	token, err := m.store.Token()
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}

	ident, err := m.api.Me(ctx)
	if err != nil {
		if client.IsAuth(err) {
			slog.Debug("Stored token rejected, clearing slot")
			m.store.Clear()
			return nil
		}
		return err
	}

	m.mu.Lock()
	m.current = ident
	m.mu.Unlock()
	return nil
}
