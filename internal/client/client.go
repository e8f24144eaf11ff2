// ABOUTME: HTTP client for the shopfront storefront API
// ABOUTME: Wraps all REST endpoints with bearer auth and classified errors

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TokenSource supplies the bearer token for authenticated requests.
// An empty token means the request is sent unauthenticated.
type TokenSource interface {
	Token() (string, error)
}

// Client is the API client for the storefront backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// New creates a new API client with the given base URL
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
	}
}

// WithTimeout overrides the per-request timeout
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.httpClient.Timeout = d
	return c
}

// ObjectID is the Mongo-style document id the API uses: {"$oid": "..."}
type ObjectID struct {
	OID string `json:"$oid"`
}

// Identity is the authenticated user profile from GET /user
type Identity struct {
	ID      ObjectID `json:"_id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	IsAdmin bool     `json:"is_admin"`
}

// Product is a catalog entry. Quantity is stock on hand, not a cart amount.
type Product struct {
	ID          ObjectID `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Img         string   `json:"img"`
	Quantity    int      `json:"quantity"`
}

// NewProduct is the payload for POST /add_product
type NewProduct struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Img         string  `json:"img"`
}

// CartLine is one (product, quantity) pair in a cart
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type fetchCartRequest struct {
	Email string `json:"email"`
}

type fetchCartResponse struct {
	Success bool `json:"success"`
	Cart    struct {
		Products []CartLine `json:"products"`
	} `json:"cart"`
}

type saveCartRequest struct {
	Email    string     `json:"email"`
	Products []CartLine `json:"products"`
}

type getProductRequest struct {
	ProductID string `json:"product_id"`
}

type updateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Signup creates a new non-admin account. The API's rejection text (duplicate
// email, malformed fields) is surfaced verbatim as a validation error.
func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	resp, err := c.post(ctx, "signup", "/signup", signupRequest{
		Name:     name,
		Email:    email,
		Password: password,
		IsAdmin:  false,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.classify("signup", resp, KindValidation)
	}
	return nil
}

// Login exchanges credentials for a bearer token. It does not fetch the
// profile; callers follow up with Me once the token is stored.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	resp, err := c.post(ctx, "login", "/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", c.classify("login", resp, KindAuth)
	}

	var lr loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return "", &Error{Kind: KindServer, Op: "login", Message: "invalid response from server", Err: err}
	}
	if lr.Token == "" {
		return "", &Error{Kind: KindServer, Op: "login", Message: "server returned no token"}
	}
	return lr.Token, nil
}

// Me fetches the profile for the current bearer token via GET /user
func (c *Client) Me(ctx context.Context) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: "me", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.authorize(req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, "me", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.classify("me", resp, KindAuth)
	}

	var ident Identity
	if err := json.NewDecoder(resp.Body).Decode(&ident); err != nil {
		return nil, &Error{Kind: KindServer, Op: "me", Message: "invalid response from server", Err: err}
	}
	return &ident, nil
}

// Products fetches the full catalog via GET /products
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: "products", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, "products", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.classify("products", resp, KindServer)
	}

	var products []Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, &Error{Kind: KindServer, Op: "products", Message: "invalid response from server", Err: err}
	}
	return products, nil
}

// Product fetches a single product via POST /get-product. The API signals a
// missing product by responding without an _id rather than with a 404.
func (c *Client) Product(ctx context.Context, productID string) (*Product, error) {
	resp, err := c.post(ctx, "get-product", "/get-product", getProductRequest{ProductID: productID})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.classify("get-product", resp, KindServer)
	}

	var p Product
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, &Error{Kind: KindServer, Op: "get-product", Message: "invalid response from server", Err: err}
	}
	if p.ID.OID == "" {
		return nil, &Error{Kind: KindNotFound, Op: "get-product", Message: fmt.Sprintf("product %s not found", productID)}
	}
	return &p, nil
}

// FetchCart retrieves the server's view of the cart for the given email
func (c *Client) FetchCart(ctx context.Context, email string) ([]CartLine, error) {
	resp, err := c.post(ctx, "fetch-cart", "/fetch-cart", fetchCartRequest{Email: email})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.classify("fetch-cart", resp, KindServer)
	}

	var fr fetchCartResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, &Error{Kind: KindServer, Op: "fetch-cart", Message: "invalid response from server", Err: err}
	}
	if !fr.Success {
		return nil, &Error{Kind: KindServer, Op: "fetch-cart", Message: "failed to fetch cart details"}
	}
	return fr.Cart.Products, nil
}

// SaveCart upserts cart lines for the given email via POST /carts.
// The server accumulates quantities for existing lines.
func (c *Client) SaveCart(ctx context.Context, email string, lines []CartLine) error {
	resp, err := c.post(ctx, "save-cart", "/carts", saveCartRequest{Email: email, Products: lines})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.classify("save-cart", resp, KindValidation)
	}
	return nil
}

// AddProduct creates a catalog entry via POST /add_product (admin)
func (c *Client) AddProduct(ctx context.Context, p NewProduct) error {
	resp, err := c.post(ctx, "add-product", "/add_product", p)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.classify("add-product", resp, KindValidation)
	}
	return nil
}

// UpdateProduct replaces a catalog entry via PUT /products/:id (admin)
func (c *Client) UpdateProduct(ctx context.Context, id string, p Product) error {
	body, err := json.Marshal(p)
	if err != nil {
		return &Error{Kind: KindValidation, Op: "update-product", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/products/"+id, bytes.NewReader(body))
	if err != nil {
		return &Error{Kind: KindNetwork, Op: "update-product", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, "update-product", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.classify("update-product", resp, KindValidation)
	}
	return nil
}

// DeleteProduct removes a catalog entry via DELETE /products/:id (admin)
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/products/"+id, nil)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: "delete-product", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, "delete-product", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.classify("delete-product", resp, KindServer)
	}
	return nil
}

// UpdateUser changes the display name for the given email via POST /update-user
func (c *Client) UpdateUser(ctx context.Context, email, name string) error {
	resp, err := c.post(ctx, "update-user", "/update-user", updateUserRequest{Email: email, Name: name})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.classify("update-user", resp, KindValidation)
	}
	return nil
}

// post builds and sends a JSON POST, returning transport failures classified
func (c *Client) post(ctx context.Context, op, path string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.authorize(req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, op, err)
	}
	return resp, nil
}

// authorize attaches the bearer token when one is available
func (c *Client) authorize(req *http.Request) error {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token()
	if err != nil {
		return &Error{Kind: KindAuth, Op: "authorize", Message: "cannot read stored token", Err: err}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// transportError converts transport and context errors to classified errors
func (c *Client) transportError(ctx context.Context, op string, err error) error {
	if ctx.Err() == context.Canceled {
		return &Error{Kind: KindNetwork, Op: op, Message: "request canceled", Err: err}
	}
	if ctx.Err() == context.DeadlineExceeded {
		return &Error{Kind: KindNetwork, Op: op, Message: "request timed out", Err: err}
	}
	return &Error{Kind: KindNetwork, Op: op, Message: fmt.Sprintf("cannot connect to %s", c.baseURL), Err: err}
}

// classify maps a non-2xx response to the taxonomy. kind4xx is the kind
// used for 4xx statuses other than 401/403/404, which have fixed meanings.
func (c *Client) classify(op string, resp *http.Response, kind4xx Kind) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = fmt.Sprintf("server returned status %d", resp.StatusCode)
	}

	kind := KindServer
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		kind = KindAuth
	case resp.StatusCode == http.StatusNotFound:
		kind = KindNotFound
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		kind = kind4xx
	}

	return &Error{Kind: kind, Op: op, Status: resp.StatusCode, Message: msg}
}
