// Package query caches API results under feature-defined keys and lets
// mutations invalidate them.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Key identifies a cached result. The first segment names the resource
// ("quick-estimates"); later segments narrow it ({"page": 2}).
type Key []any

// NewKey is a convenience constructor.
func NewKey(resource string, parts ...any) Key {
	return append(Key{resource}, parts...)
}

func (k Key) Resource() string {
	if len(k) == 0 {
		return ""
	}
	s, _ := k[0].(string)
	return s
}

// String is the canonical form used as the map key.
func (k Key) String() string {
	b, err := json.Marshal([]any(k))
	if err != nil {
		return fmt.Sprint([]any(k))
	}
	return string(b)
}

func jsonish(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

type entry struct {
	key     Key
	value   any
	fetched time.Time
}

// Cache is safe for concurrent use. A zero StaleTime means entries stay
// fresh until invalidated.
type Cache struct {
	StaleTime time.Duration

	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

func New(staleTime time.Duration) *Cache {
	return &Cache{StaleTime: staleTime, entries: map[string]entry{}, now: time.Now}
}

// Get returns a fresh cached value.
func (c *Cache) Get(k Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[k.String()]
	if !ok || c.stale(e) {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(k Key, v any) {
	c.mu.Lock()
	c.entries[k.String()] = entry{key: k, value: v, fetched: c.now()}
	c.mu.Unlock()
}

// Invalidate drops every entry whose key starts with prefix. A prefix of just
// the resource name drops all pages of that resource.
func (c *Cache) Invalidate(prefix Key) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for s, e := range c.entries {
		if hasPrefix(e.key, prefix) {
			delete(c.entries, s)
			n++
		}
	}
	return n
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) stale(e entry) bool {
	return c.StaleTime > 0 && c.now().Sub(e.fetched) > c.StaleTime
}

func hasPrefix(k, prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if jsonish(k[i]) != jsonish(prefix[i]) {
			return false
		}
	}
	return true
}

// Fetch returns the cached value for k or calls fn and caches its result.
// Errors are not cached. A nil cache always calls fn.
func Fetch[T any](ctx context.Context, c *Cache, k Key, fn func(context.Context) (T, error)) (T, error) {
	if c != nil {
		if v, ok := c.Get(k); ok {
			if t, ok := v.(T); ok {
				return t, nil
			}
		}
	}
	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	if c != nil {
		c.Set(k, v)
	}
	return v, nil
}
