package templ

import (
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader produces a compiled template for a resolved key.
type Loader[T any] func() (T, error)

// RenderCache maps resolved keys to compiled templates. In production mode
// an entry is compiled at most once and then reused for the lifetime of the
// cache; in development mode the cache is neither read nor written.
type RenderCache[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
	group   singleflight.Group
}

// NewRenderCache creates an empty cache.
func NewRenderCache[T any]() *RenderCache[T] {
	return &RenderCache[T]{
		entries: make(map[string]T),
	}
}

// Get returns the compiled template for key, calling load on a miss. The
// boolean reports a cache hit. Concurrent misses on the same key share one
// load. Failed loads are not stored.
func (c *RenderCache[T]) Get(key string, mode Mode, load Loader[T]) (T, bool, error) {
	if !mode.CachingEnabled() {
		compiled, err := load()
		return compiled, false, err
	}

	if compiled, ok := c.lookup(key); ok {
		return compiled, true, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if compiled, ok := c.lookup(key); ok {
			return compiled, nil
		}

		compiled, err := load()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = compiled
		c.mu.Unlock()
		return compiled, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return v.(T), false, nil
}

func (c *RenderCache[T]) lookup(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	compiled, ok := c.entries[key]
	return compiled, ok
}

// Len returns the number of cached entries.
func (c *RenderCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns the cached keys in sorted order.
func (c *RenderCache[T]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Purge drops every entry.
func (c *RenderCache[T]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]T)
}
