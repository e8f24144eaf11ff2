// ABOUTME: Tests for the root TUI model
// ABOUTME: Covers frame alignment and stale async completion handling

package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"shopfront/internal/client"
	"shopfront/internal/config"
	"shopfront/internal/session"
	"shopfront/internal/tui/authform"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{
		APIURL:      "http://127.0.0.1:1",
		HTTPTimeout: 5,
		ConfigDir:   t.TempDir(),
		ProductTTL:  60,
	}
	store := session.NewTokenStore(cfg.ConfigDir)
	api := client.New(cfg.APIURL, store)
	return New(cfg, api, session.NewManager(api, store))
}

func TestFrameAlignment(t *testing.T) {
	widths := []int{80, 100, 120}

	for _, targetWidth := range widths {
		t.Run(fmt.Sprintf("width%d", targetWidth), func(t *testing.T) {
			app := newTestApp(t)

			model, _ := app.Update(tea.WindowSizeMsg{Width: targetWidth, Height: 30})
			app = model.(*App)

			view := app.View()
			lines := strings.Split(view, "\n")
			headerFound := false
			footerFound := false

			expectedWidth := targetWidth
			if expectedWidth < minTerminalWidth {
				expectedWidth = minTerminalWidth
			}

			for _, line := range lines {
				if strings.HasPrefix(line, "╭") {
					headerFound = true
					if w := lipgloss.Width(line); w != expectedWidth {
						t.Errorf("Header width mismatch at width %d: expected %d, got %d", targetWidth, expectedWidth, w)
					}
				}
				if strings.Contains(line, "╰") {
					footerFound = true
					footerLine := line[strings.Index(line, "╰"):]
					if w := lipgloss.Width(footerLine); w != expectedWidth {
						t.Errorf("Footer width mismatch at width %d: expected %d, got %d", targetWidth, expectedWidth, w)
					}
				}
			}

			if !headerFound {
				t.Error("Header not found in output")
			}
			if !footerFound {
				t.Error("Footer not found in output")
			}
		})
	}
}

func TestStaleProductsLoadIgnored(t *testing.T) {
	app := newTestApp(t)
	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	app = model.(*App)

	fresh := []client.Product{{ID: client.ObjectID{OID: "p1"}, Title: "Lamp", Price: 25}}
	model, _ = app.Update(productsLoadedMsg{gen: app.gen, products: fresh})
	app = model.(*App)
	if app.shop == nil {
		t.Fatal("expected shop view after current-generation load")
	}

	// A completion from before the generation bump must not overwrite state
	app.gen++
	stale := []client.Product{{ID: client.ObjectID{OID: "old"}, Title: "Stale", Price: 1}}
	model, _ = app.Update(productsLoadedMsg{gen: app.gen - 1, products: stale})
	app = model.(*App)

	if p, ok := app.shop.Selected(); !ok || p.ID.OID != "p1" {
		t.Errorf("stale load overwrote catalog: got %+v", p)
	}
}

func TestStaleLoginIgnored(t *testing.T) {
	app := newTestApp(t)

	app.gen++
	model, _ := app.Update(loggedInMsg{gen: app.gen - 1, ident: &client.Identity{Email: "old@example.com"}})
	app = model.(*App)

	if app.status != "" {
		t.Errorf("stale login changed status: %q", app.status)
	}
}

func TestProfileSaveRefreshesIdentity(t *testing.T) {
	var mu sync.Mutex
	name := "Alice"

	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-abc" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, `{"_id":{"$oid":"u1"},"name":%q,"email":"alice@example.com","is_admin":false}`, name)
	})
	mux.HandleFunc("/update-user", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name string `json:"name"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		name = req.Name
		mu.Unlock()
		fmt.Fprint(w, "user updated")
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		APIURL:      server.URL,
		HTTPTimeout: 5,
		ConfigDir:   t.TempDir(),
		ProductTTL:  60,
	}
	store := session.NewTokenStore(cfg.ConfigDir)
	if err := store.Save("tok-abc"); err != nil {
		t.Fatalf("Save token: %v", err)
	}
	api := client.New(cfg.APIURL, store)
	sessions := session.NewManager(api, store)
	app := New(cfg, api, sessions)

	if err := sessions.Hydrate(context.Background()); err != nil {
		t.Fatalf("Hydrate: %v", err)
	}

	model, cmd := app.Update(authform.ProfileSubmittedMsg{Name: "Alicia"})
	app = model.(*App)
	if cmd == nil {
		t.Fatal("expected a save command from the profile form")
	}

	msg, ok := cmd().(profileSavedMsg)
	if !ok {
		t.Fatalf("expected profileSavedMsg, got %T", cmd())
	}
	if msg.err != nil {
		t.Fatalf("save failed: %v", msg.err)
	}

	model, _ = app.Update(msg)
	app = model.(*App)

	if ident := sessions.Current(); ident == nil || ident.Name != "Alicia" {
		t.Errorf("expected identity refreshed to Alicia, got %+v", ident)
	}
	if !strings.Contains(app.status, "Alicia") {
		t.Errorf("expected status to confirm the rename, got %q", app.status)
	}
}

func TestLogoutResetsCartState(t *testing.T) {
	app := newTestApp(t)
	before := app.gen
	oldCart := app.cart

	model, _ := app.logout()
	app = model.(*App)

	if app.cart == oldCart {
		t.Error("expected a fresh synchronizer after logout")
	}
	if app.gen != before+1 {
		t.Errorf("expected generation bump on logout, got %d -> %d", before, app.gen)
	}
	if app.cartView != nil {
		t.Error("expected cart view to be dropped on logout")
	}
	if app.screen != ScreenShop {
		t.Errorf("expected shop screen after logout, got %d", app.screen)
	}
}
