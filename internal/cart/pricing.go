// ABOUTME: Concurrent per-line price resolution for the cart
// ABOUTME: Lookups are deduplicated with singleflight and cached with a TTL

package cart

import (
	"context"
	"log/slog"
	"sync"

	"shopfront/internal/client"
)

// ResolvePrices fetches the current product data for every cart line. Each
// line's lookup runs as an independent goroutine; completions are unordered
// and a failed line leaves the others resolved (partial-failure tolerant).
// The returned map holds the error per product id for lines that failed.
func (s *Synchronizer) ResolvePrices(ctx context.Context) map[string]error {
	s.mu.Lock()
	ids := make([]string, 0, len(s.lines))
	for _, line := range s.lines {
		ids = append(ids, line.ProductID)
	}
	s.mu.Unlock()

	errs := make(map[string]error)
	var errMu sync.Mutex
	var wg sync.WaitGroup

	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()

			product, err := s.lookupProduct(ctx, id)
			if err != nil {
				errMu.Lock()
				errs[id] = err
				errMu.Unlock()
				slog.Debug("Price resolution failed", "product", id, "error", err)
				return
			}

			s.mu.Lock()
			s.prices[id] = product.Price
			s.mu.Unlock()
		}(id)
	}

	wg.Wait()
	return errs
}

// ProductInfo returns cached product data for a line, if resolved recently
func (s *Synchronizer) ProductInfo(productID string) (client.Product, bool) {
	return s.products.Get(productID)
}

// lookupProduct serves a product from the TTL cache, collapsing concurrent
// fetches for the same id into a single request
func (s *Synchronizer) lookupProduct(ctx context.Context, productID string) (*client.Product, error) {
	if p, ok := s.products.Get(productID); ok {
		return &p, nil
	}

	v, err, _ := s.group.Do(productID, func() (interface{}, error) {
		p, err := s.api.Product(ctx, productID)
		if err != nil {
			return nil, err
		}
		s.products.Set(productID, *p)
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*client.Product), nil
}
