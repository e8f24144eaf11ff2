// ABOUTME: In-memory cache with TTL-based expiration
// ABOUTME: Thread-safe generic cache used for product lookups

package cache

import (
	"log/slog"
	"sync"
	"time"
)

type entry[T any] struct {
	data      T
	expiresAt time.Time
}

type Cache[T any] struct {
	store    sync.Map
	ttl      time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

func New[T any](ttl time.Duration) *Cache[T] {
	c := &Cache[T]{
		ttl:  ttl,
		done: make(chan struct{}),
	}
	go c.startCleanup()
	return c
}

// Stop ends the background cleanup goroutine. The cache stays usable;
// expired entries are still dropped lazily on Get.
func (c *Cache[T]) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
}

func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	val, ok := c.store.Load(key)
	if !ok {
		slog.Debug("Cache miss", "key", key)
		return zero, false
	}

	e := val.(entry[T])
	if time.Now().After(e.expiresAt) {
		c.store.Delete(key)
		slog.Debug("Cache expired", "key", key)
		return zero, false
	}

	slog.Debug("Cache hit", "key", key)
	return e.data, true
}

func (c *Cache[T]) Set(key string, value T) {
	e := entry[T]{
		data:      value,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.store.Store(key, e)
	slog.Debug("Cache set", "key", key, "ttl", c.ttl)
}

func (c *Cache[T]) Clear(key string) {
	c.store.Delete(key)
}

func (c *Cache[T]) startCleanup() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.store.Range(func(key, val interface{}) bool {
				e := val.(entry[T])
				if now.After(e.expiresAt) {
					c.store.Delete(key)
				}
				return true
			})
		}
	}
}
