// ABOUTME: Tests for the admin catalog editor screen
// ABOUTME: Covers the delete confirm flow and key capture reporting

package adminview

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"shopfront/internal/client"
)

func testProducts() []client.Product {
	return []client.Product{
		{ID: client.ObjectID{OID: "p1"}, Title: "Desk Lamp", Price: 25, Quantity: 10},
		{ID: client.ObjectID{OID: "p2"}, Title: "Notebook", Price: 5.5, Quantity: 40},
	}
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestDeleteConfirmEmitsMessage(t *testing.T) {
	v := New(testProducts())

	model, _ := v.Update(keyRune('d'))
	v = model.(*AdminView)
	if !v.Capturing() {
		t.Fatal("expected delete confirm to capture input")
	}

	model, cmd := v.Update(keyRune('y'))
	v = model.(*AdminView)
	if cmd == nil {
		t.Fatal("expected a command from confirmed delete")
	}

	msg, ok := cmd().(DeleteMsg)
	if !ok {
		t.Fatalf("expected DeleteMsg, got %T", cmd())
	}
	if msg.ProductID != "p1" {
		t.Errorf("expected p1, got %s", msg.ProductID)
	}
	if v.Capturing() {
		t.Error("expected list mode after confirm")
	}
}

func TestDeleteCancelKeepsProduct(t *testing.T) {
	v := New(testProducts())

	model, _ := v.Update(keyRune('d'))
	v = model.(*AdminView)

	model, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	v = model.(*AdminView)
	if cmd != nil {
		t.Error("expected no command from cancelled delete")
	}
	if v.Capturing() {
		t.Error("expected list mode after cancel")
	}
}

func TestEditSeedsFormFromProduct(t *testing.T) {
	v := New(testProducts())

	model, _ := v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v = model.(*AdminView)
	model, _ = v.Update(keyRune('e'))
	v = model.(*AdminView)

	if !v.Capturing() {
		t.Fatal("expected edit form to capture input")
	}
	if v.title != "Notebook" || v.price != "5.50" || v.stock != "40" {
		t.Errorf("form not seeded from product: title=%q price=%q stock=%q", v.title, v.price, v.stock)
	}
}
