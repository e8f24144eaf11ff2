// ABOUTME: Admin catalog editor performing CRUD against the product collection
// ABOUTME: The cached list mirrors the last successful server response

package catalog

import (
	"context"
	"log/slog"
	"sync"

	"shopfront/internal/client"
)

// Editor maintains a local mirror of the product collection for the admin
// surface. Local mutations are applied only after the server confirms the
// corresponding call; each operation is one independent request.
type Editor struct {
	api *client.Client

	mu       sync.Mutex
	products []client.Product
}

// NewEditor creates a catalog editor using the given API client
func NewEditor(api *client.Client) *Editor {
	return &Editor{api: api}
}

// Refresh replaces the local mirror with the server's product list
func (e *Editor) Refresh(ctx context.Context) ([]client.Product, error) {
	products, err := e.api.Products(ctx)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.products = products
	e.mu.Unlock()

	slog.Debug("Catalog refreshed", "products", len(products))
	return e.Products(), nil
}

// Products returns a snapshot of the local mirror
func (e *Editor) Products() []client.Product {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]client.Product, len(e.products))
	copy(out, e.products)
	return out
}

// Create adds a product. The API returns no id for the new entry, so the
// mirror is not touched; callers Refresh to pick it up.
func (e *Editor) Create(ctx context.Context, p client.NewProduct) error {
	return e.api.AddProduct(ctx, p)
}

// Update replaces a product on the server, then mirrors the replacement
// locally once the server confirms
func (e *Editor) Update(ctx context.Context, p client.Product) error {
	if err := e.api.UpdateProduct(ctx, p.ID.OID, p); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.products {
		if e.products[i].ID.OID == p.ID.OID {
			e.products[i] = p
			break
		}
	}
	return nil
}

// Delete removes a product on the server, then filters it from the mirror.
// Deleting an id absent from the mirror leaves the mirror unchanged.
func (e *Editor) Delete(ctx context.Context, id string) error {
	if err := e.api.DeleteProduct(ctx, id); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.products[:0]
	for _, p := range e.products {
		if p.ID.OID != id {
			kept = append(kept, p)
		}
	}
	e.products = kept
	return nil
}
