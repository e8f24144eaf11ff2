// ABOUTME: Tests for the cart screen
// ABOUTME: Exercises the two-step remove flow against a fake backend

package cartview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"shopfront/internal/cart"
	"shopfront/internal/client"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/fetch-cart", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"cart":{"products":[
			{"product_id":"p1","quantity":2},
			{"product_id":"p2","quantity":1}]}}`)
	})
	mux.HandleFunc("/get-product", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProductID string `json:"product_id"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		prices := map[string]float64{"p1": 100, "p2": 50}
		fmt.Fprintf(w, `{"_id":{"$oid":%q},"title":"Item %s","price":%g,"quantity":5}`,
			req.ProductID, req.ProductID, prices[req.ProductID])
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func loadedView(t *testing.T) *CartView {
	t.Helper()
	server := testServer(t)
	sync := cart.New(client.New(server.URL, nil), time.Minute)
	if _, err := sync.Load(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if errs := sync.ResolvePrices(context.Background()); len(errs) != 0 {
		t.Fatalf("ResolvePrices: %v", errs)
	}
	return New(sync, 80)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestRemoveCancelKeepsTotal(t *testing.T) {
	v := loadedView(t)

	model, _ := v.Update(keyRune('d'))
	v = model.(*CartView)
	if !strings.Contains(v.View(), "Remove") {
		t.Error("expected confirm prompt in view")
	}

	model, cmd := v.Update(keyRune('n'))
	v = model.(*CartView)
	if cmd != nil {
		t.Error("expected no command from cancelled remove")
	}
	if got := v.sync.Total(); got != 250 {
		t.Errorf("expected total 250 after cancel, got %g", got)
	}
}

func TestRemoveConfirmDropsLine(t *testing.T) {
	v := loadedView(t)

	model, _ := v.Update(keyRune('d'))
	v = model.(*CartView)
	model, cmd := v.Update(keyRune('y'))
	v = model.(*CartView)

	if cmd == nil {
		t.Fatal("expected a command from confirmed remove")
	}
	if _, ok := cmd().(ChangedMsg); !ok {
		t.Fatalf("expected ChangedMsg, got %T", cmd())
	}
	if got := v.sync.Total(); got != 50 {
		t.Errorf("expected total 50 after removing p1, got %g", got)
	}
	if len(v.sync.Lines()) != 1 {
		t.Errorf("expected one line left, got %d", len(v.sync.Lines()))
	}
}

func TestPromptCapturesNavigation(t *testing.T) {
	v := loadedView(t)

	model, _ := v.Update(keyRune('d'))
	v = model.(*CartView)
	model, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v = model.(*CartView)

	if _, pending := v.sync.PendingRemoval(); !pending {
		t.Error("expected removal still pending while prompt is open")
	}
	if v.cursor != 0 {
		t.Errorf("expected cursor unchanged during prompt, got %d", v.cursor)
	}
}
