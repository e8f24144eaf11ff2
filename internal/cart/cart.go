// ABOUTME: Cart synchronizer reconciling optimistic local edits with the server
// ABOUTME: Lines are keyed by product id; the total is a pure fold over current state

package cart

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"shopfront/internal/cache"
	"shopfront/internal/client"
)

// OpState tracks a pending mutation through reconciliation
type OpState int

const (
	OpPending OpState = iota
	OpCommitted
	OpRolledBack
)

// String returns the string representation of an OpState
func (s OpState) String() string {
	switch s {
	case OpPending:
		return "pending"
	case OpCommitted:
		return "committed"
	case OpRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// Op is one optimistic cart mutation awaiting server acknowledgment
type Op struct {
	ID        string
	ProductID string
	Quantity  int
	State     OpState
}

// Synchronizer maintains the client-visible cart for one identity. Local
// edits are applied optimistically and rolled back if the server rejects
// them. All reads return snapshots; the zero total never drifts from the
// line contents because it is recomputed on demand.
type Synchronizer struct {
	api      *client.Client
	products *cache.Cache[client.Product]
	group    singleflight.Group

	mu       sync.Mutex
	email    string
	lines    []client.CartLine
	prices   map[string]float64
	ops      map[string]*Op
	removing string // product id with a removal intent awaiting confirmation
}

// New creates a cart synchronizer. productTTL bounds how long a resolved
// product (price, title) is reused before being fetched again.
func New(api *client.Client, productTTL time.Duration) *Synchronizer {
	return &Synchronizer{
		api:      api,
		products: cache.New[client.Product](productTTL),
		prices:   make(map[string]float64),
		ops:      make(map[string]*Op),
	}
}

// Close releases the product cache's background cleanup. Call it when
// the synchronizer is replaced rather than just going out of scope.
func (s *Synchronizer) Close() {
	s.products.Stop()
}

// Load replaces local state with the server's view of the cart for the
// given email. Duplicate product ids from the server are merged by summing
// quantities so that lines stay keyed by product id.
func (s *Synchronizer) Load(ctx context.Context, email string) ([]client.CartLine, error) {
	fetched, err := s.api.FetchCart(ctx, email)
	if err != nil {
		return nil, err
	}

	merged := make([]client.CartLine, 0, len(fetched))
	index := make(map[string]int, len(fetched))
	for _, line := range fetched {
		if at, ok := index[line.ProductID]; ok {
			merged[at].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}

	s.mu.Lock()
	s.email = email
	s.lines = merged
	s.prices = make(map[string]float64)
	s.removing = ""
	s.mu.Unlock()

	slog.Debug("Cart loaded", "email", email, "lines", len(merged))
	return s.Lines(), nil
}

// Lines returns a snapshot of the cart in display order
func (s *Synchronizer) Lines() []client.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]client.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// Add optimistically merges a line into local state, then sends the upsert.
// The server accumulates quantities for an existing product, so the local
// merge mirrors that. On rejection the local mutation is rolled back.
func (s *Synchronizer) Add(ctx context.Context, email string, productID string, quantity int) error {
	if quantity <= 0 {
		return &client.Error{Kind: client.KindValidation, Op: "add-to-cart", Message: "quantity must be positive"}
	}

	op := &Op{ID: uuid.NewString(), ProductID: productID, Quantity: quantity, State: OpPending}

	s.mu.Lock()
	s.email = email
	s.ops[op.ID] = op
	prevQuantity := 0
	found := false
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			prevQuantity = s.lines[i].Quantity
			s.lines[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		s.lines = append(s.lines, client.CartLine{ProductID: productID, Quantity: quantity})
	}
	s.mu.Unlock()

	err := s.api.SaveCart(ctx, email, []client.CartLine{{ProductID: productID, Quantity: quantity}})

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		op.State = OpRolledBack
		for i := range s.lines {
			if s.lines[i].ProductID != productID {
				continue
			}
			if found {
				s.lines[i].Quantity = prevQuantity
			} else {
				s.lines = append(s.lines[:i], s.lines[i+1:]...)
			}
			break
		}
		slog.Debug("Cart add rolled back", "product", productID, "op", op.ID)
		return err
	}

	op.State = OpCommitted
	return nil
}

// Ops returns a snapshot of recorded mutations, most recent state included
func (s *Synchronizer) Ops() []Op {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Op, 0, len(s.ops))
	for _, op := range s.ops {
		out = append(out, *op)
	}
	return out
}

// Total is the derived total: a fold over current lines and resolved unit
// prices. Lines whose price has not resolved yet contribute nothing; they
// are reported by Unresolved.
func (s *Synchronizer) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for _, line := range s.lines {
		if price, ok := s.prices[line.ProductID]; ok {
			total += float64(line.Quantity) * price
		}
	}
	return total
}

// Price returns the resolved unit price for a product, if any
func (s *Synchronizer) Price(productID string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	price, ok := s.prices[productID]
	return price, ok
}

// Unresolved lists product ids whose price lookup has not succeeded
func (s *Synchronizer) Unresolved() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for _, line := range s.lines {
		if _, ok := s.prices[line.ProductID]; !ok {
			out = append(out, line.ProductID)
		}
	}
	return out
}

// RequestRemove records a removal intent for the given line. The line is
// untouched until ConfirmRemove; CancelRemove discards the intent. Returns
// false when no such line exists.
func (s *Synchronizer) RequestRemove(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range s.lines {
		if line.ProductID == productID {
			s.removing = productID
			return true
		}
	}
	return false
}

// PendingRemoval returns the product id awaiting removal confirmation
func (s *Synchronizer) PendingRemoval() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removing, s.removing != ""
}

// ConfirmRemove drops the line under the removal intent from the display
// list. This is a UI-level safeguard, not a server transaction: the server
// cart is untouched and a later Load will show the server's view again.
func (s *Synchronizer) ConfirmRemove() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.removing == "" {
		return false
	}
	for i := range s.lines {
		if s.lines[i].ProductID == s.removing {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			break
		}
	}
	s.removing = ""
	return true
}

// CancelRemove discards the pending removal intent
func (s *Synchronizer) CancelRemove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removing = ""
}
