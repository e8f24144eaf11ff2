// ABOUTME: Durable token slot backed by a file in the config directory
// ABOUTME: Single opaque bearer token, written on login and erased on logout

package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// tokenFileName is the fixed name of the slot inside the config dir
const tokenFileName = "token"

// TokenStore persists the bearer token between runs. It implements
// client.TokenSource. An empty string means no token is stored.
type TokenStore struct {
	configDir string
	mu        sync.Mutex
}

// NewTokenStore creates a token store rooted at the given config directory
func NewTokenStore(configDir string) *TokenStore {
	return &TokenStore{configDir: configDir}
}

func (s *TokenStore) path() string {
	return filepath.Join(s.configDir, tokenFileName)
}

// Token reads the stored token. A missing slot is not an error.
func (s *TokenStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token to the slot, creating the config dir if needed
func (s *TokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}
	return os.WriteFile(s.path(), []byte(token), 0600)
}

// Clear erases the slot. Clearing an already-empty slot succeeds.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
