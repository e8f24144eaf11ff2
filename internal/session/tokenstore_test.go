// ABOUTME: Tests for the file-backed token slot
// ABOUTME: Verifies save, read, clear, and missing-slot behavior

package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTokenStore_RoundTrip(t *testing.T) {
	store := NewTokenStore(t.TempDir())

	if err := store.Save("tok-123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := store.Token()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("expected tok-123, got %q", token)
	}
}

func TestTokenStore_MissingSlot(t *testing.T) {
	store := NewTokenStore(t.TempDir())

	token, err := store.Token()
	if err != nil {
		t.Fatalf("missing slot must not be an error, got %v", err)
	}
	if token != "" {
		t.Errorf("expected empty token, got %q", token)
	}
}

func TestTokenStore_Clear(t *testing.T) {
	store := NewTokenStore(t.TempDir())

	if err := store.Save("tok-123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token, _ := store.Token(); token != "" {
		t.Errorf("expected cleared slot, got %q", token)
	}

	// Clearing twice must still succeed
	if err := store.Clear(); err != nil {
		t.Fatalf("double clear must succeed, got %v", err)
	}
}

func TestTokenStore_CreatesConfigDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "shopfront")
	store := NewTokenStore(dir)

	if err := store.Save("tok-123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "token")); err != nil {
		t.Errorf("expected slot file to exist: %v", err)
	}
}

func TestTokenStore_TrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	store := NewTokenStore(dir)

	if err := os.WriteFile(filepath.Join(dir, "token"), []byte("tok-123\n"), 0600); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := store.Token()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok-123" {
		t.Errorf("expected trimmed token, got %q", token)
	}
}
