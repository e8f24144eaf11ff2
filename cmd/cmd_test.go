// ABOUTME: Tests for the CLI commands against a fake storefront API
// ABOUTME: Verifies exit codes, output formatting, and request payloads

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"shopfront/internal/client"
	"shopfront/internal/session"
)

// storeBackend is a fake storefront API for command tests
type storeBackend struct {
	admin      bool
	savedCarts atomic.Int32
	deleted    atomic.Int32
	renamed    atomic.Int32
}

func (b *storeBackend) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Email, Password string }
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "alice@example.com" || req.Password != "hunter2" {
			http.Error(w, "invalid email or password", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `{"token":"tok-abc"}`)
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-abc" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		fmt.Fprintf(w, `{"_id":{"$oid":"u1"},"name":"Alice","email":"alice@example.com","is_admin":%t}`, b.admin)
	})
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"_id":{"$oid":"p1"},"title":"Desk Lamp","description":"Warm light","price":100,"quantity":10},
			{"_id":{"$oid":"p2"},"title":"Notebook","description":"A5 dotted","price":50,"quantity":40}]`)
	})
	mux.HandleFunc("/get-product", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ProductID string `json:"product_id"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		titles := map[string]string{"p1": "Desk Lamp", "p2": "Notebook"}
		prices := map[string]float64{"p1": 100, "p2": 50}
		title, ok := titles[req.ProductID]
		if !ok {
			fmt.Fprint(w, `{}`)
			return
		}
		fmt.Fprintf(w, `{"_id":{"$oid":%q},"title":%q,"price":%g,"quantity":10}`,
			req.ProductID, title, prices[req.ProductID])
	})
	mux.HandleFunc("/fetch-cart", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"cart":{"products":[
			{"product_id":"p1","quantity":2},
			{"product_id":"p2","quantity":1}]}}`)
	})
	mux.HandleFunc("/carts", func(w http.ResponseWriter, r *http.Request) {
		b.savedCarts.Add(1)
		fmt.Fprint(w, `{"success":true}`)
	})
	mux.HandleFunc("/add_product", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "product added")
	})
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			b.deleted.Add(1)
		}
		fmt.Fprint(w, `{}`)
	})
	mux.HandleFunc("/update-user", func(w http.ResponseWriter, r *http.Request) {
		b.renamed.Add(1)
		fmt.Fprint(w, "user updated")
	})
	mux.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Email string }
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email == "taken@example.com" {
			http.Error(w, "email already in use", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, "user created")
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// setupEnv points the commands at the fake backend with a fresh config dir
func setupEnv(t *testing.T, b *storeBackend) string {
	t.Helper()
	server := b.server(t)
	dir := t.TempDir()
	t.Setenv("SHOPFRONT_CONFIG_DIR", dir)
	apiURL = server.URL
	t.Cleanup(func() { apiURL = "" })
	return dir
}

// loginAs stores a valid token as if the user had logged in
func loginAs(t *testing.T, dir string) {
	t.Helper()
	if err := session.NewTokenStore(dir).Save("tok-abc"); err != nil {
		t.Fatalf("Save token: %v", err)
	}
}

func TestLoginCommand_Success(t *testing.T) {
	dir := setupEnv(t, &storeBackend{})

	var buf bytes.Buffer
	exitCode := runLogin(context.Background(), &buf, "alice@example.com", "hunter2")

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "Logged in as Alice <alice@example.com>") {
		t.Errorf("unexpected output: %s", buf.String())
	}

	token, err := session.NewTokenStore(dir).Token()
	if err != nil || token != "tok-abc" {
		t.Errorf("expected stored token tok-abc, got %q (%v)", token, err)
	}
}

func TestLoginCommand_BadCredentials(t *testing.T) {
	dir := setupEnv(t, &storeBackend{})

	var buf bytes.Buffer
	exitCode := runLogin(context.Background(), &buf, "alice@example.com", "wrong")

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Login failed") {
		t.Errorf("expected failure message, got: %s", buf.String())
	}
	if token, _ := session.NewTokenStore(dir).Token(); token != "" {
		t.Errorf("expected no stored token after failed login, got %q", token)
	}
}

func TestLogoutCommand_ClearsToken(t *testing.T) {
	dir := setupEnv(t, &storeBackend{})
	loginAs(t, dir)

	var buf bytes.Buffer
	if exitCode := runLogout(&buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", exitCode)
	}
	if token, _ := session.NewTokenStore(dir).Token(); token != "" {
		t.Errorf("expected token cleared, got %q", token)
	}
}

func TestLogoutCommand_WithoutLogin(t *testing.T) {
	setupEnv(t, &storeBackend{})

	var buf bytes.Buffer
	if exitCode := runLogout(&buf); exitCode != 0 {
		t.Errorf("expected logout without a login to succeed, got %d", exitCode)
	}
}

func TestSignupCommand_MismatchedConfirmation(t *testing.T) {
	setupEnv(t, &storeBackend{})

	var buf bytes.Buffer
	exitCode := runSignup(context.Background(), &buf, "Bob", "bob@example.com", "secret", "secrte")

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "passwords do not match") {
		t.Errorf("expected mismatch message, got: %s", buf.String())
	}
}

func TestSignupCommand_DuplicateEmail(t *testing.T) {
	setupEnv(t, &storeBackend{})

	var buf bytes.Buffer
	exitCode := runSignup(context.Background(), &buf, "Bob", "taken@example.com", "secret", "secret")

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "email already in use") {
		t.Errorf("expected server text surfaced, got: %s", buf.String())
	}
}

func TestWhoamiCommand_NotLoggedIn(t *testing.T) {
	setupEnv(t, &storeBackend{})

	var buf bytes.Buffer
	exitCode := runWhoami(context.Background(), &buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "Not logged in") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestWhoamiCommand_LoggedIn(t *testing.T) {
	dir := setupEnv(t, &storeBackend{})
	loginAs(t, dir)

	var buf bytes.Buffer
	exitCode := runWhoami(context.Background(), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "Alice") || !strings.Contains(buf.String(), "customer") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestProductsCommand(t *testing.T) {
	setupEnv(t, &storeBackend{})

	var buf bytes.Buffer
	exitCode := runProducts(context.Background(), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	out := buf.String()
	if !strings.Contains(out, "Desk Lamp") || !strings.Contains(out, "Notebook") {
		t.Errorf("expected both products listed, got: %s", out)
	}
	if !strings.Contains(out, "2 product(s)") {
		t.Errorf("expected count line, got: %s", out)
	}
}

func TestProductShowCommand_NotFound(t *testing.T) {
	setupEnv(t, &storeBackend{})

	var buf bytes.Buffer
	exitCode := runProductShow(context.Background(), &buf, "missing")

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "No product with id missing") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestCartShowCommand(t *testing.T) {
	dir := setupEnv(t, &storeBackend{})
	loginAs(t, dir)

	var buf bytes.Buffer
	exitCode := runCartShow(context.Background(), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "Total: 250.00") {
		t.Errorf("expected total 250.00, got: %s", buf.String())
	}
}

func TestCartShowCommand_NotLoggedIn(t *testing.T) {
	setupEnv(t, &storeBackend{})

	var buf bytes.Buffer
	exitCode := runCartShow(context.Background(), &buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "not logged in") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestCartAddCommand(t *testing.T) {
	backend := &storeBackend{}
	dir := setupEnv(t, backend)
	loginAs(t, dir)

	var buf bytes.Buffer
	exitCode := runCartAdd(context.Background(), &buf, "p2", 3)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if backend.savedCarts.Load() != 1 {
		t.Errorf("expected one cart save, got %d", backend.savedCarts.Load())
	}
	if !strings.Contains(buf.String(), "Added 3 x p2") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestCartRemoveCommand_LocalOnly(t *testing.T) {
	backend := &storeBackend{}
	dir := setupEnv(t, backend)
	loginAs(t, dir)

	var buf bytes.Buffer
	exitCode := runCartRemove(context.Background(), &buf, "p1")

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if backend.savedCarts.Load() != 0 {
		t.Error("remove must not write to the server")
	}
	if !strings.Contains(buf.String(), "Cart total: 50.00") {
		t.Errorf("expected recomputed total 50.00, got: %s", buf.String())
	}
}

func TestCartRemoveCommand_AbsentLine(t *testing.T) {
	dir := setupEnv(t, &storeBackend{})
	loginAs(t, dir)

	var buf bytes.Buffer
	exitCode := runCartRemove(context.Background(), &buf, "p9")

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "No cart line for product p9") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestAdminCommand_RequiresAdmin(t *testing.T) {
	dir := setupEnv(t, &storeBackend{admin: false})
	loginAs(t, dir)

	var buf bytes.Buffer
	exitCode := runAdminList(context.Background(), &buf)

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "not an admin") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestAdminListCommand(t *testing.T) {
	dir := setupEnv(t, &storeBackend{admin: true})
	loginAs(t, dir)

	var buf bytes.Buffer
	exitCode := runAdminList(context.Background(), &buf)

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), "Desk Lamp") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestAdminAddCommand(t *testing.T) {
	dir := setupEnv(t, &storeBackend{admin: true})
	loginAs(t, dir)

	var buf bytes.Buffer
	exitCode := runAdminAdd(context.Background(), &buf, client.NewProduct{Title: "Mug", Price: 12})

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if !strings.Contains(buf.String(), `Added "Mug"`) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestAdminDeleteCommand(t *testing.T) {
	backend := &storeBackend{admin: true}
	dir := setupEnv(t, backend)
	loginAs(t, dir)

	var buf bytes.Buffer
	exitCode := runAdminDelete(context.Background(), &buf, "p1")

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if backend.deleted.Load() != 1 {
		t.Errorf("expected one delete request, got %d", backend.deleted.Load())
	}
}

func TestProfileUpdateCommand(t *testing.T) {
	backend := &storeBackend{}
	dir := setupEnv(t, backend)
	loginAs(t, dir)

	var buf bytes.Buffer
	exitCode := runProfileUpdate(context.Background(), &buf, "Alicia")

	if exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	if backend.renamed.Load() != 1 {
		t.Errorf("expected one rename request, got %d", backend.renamed.Load())
	}
	if !strings.Contains(buf.String(), "Display name changed to Alicia") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestFormatProductsHuman_Empty(t *testing.T) {
	out := formatProductsHuman(nil)
	if out != "The catalog is empty." {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestFormatIdentityJSON(t *testing.T) {
	ident := &client.Identity{Name: "Alice", Email: "alice@example.com", IsAdmin: true}
	out := formatIdentityJSON(ident)

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["is_admin"] != true {
		t.Errorf("expected is_admin true, got %v", parsed["is_admin"])
	}
}
