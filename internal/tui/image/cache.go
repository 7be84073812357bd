package image

import (
	"fmt"
	"sync"
)

// DefaultCacheEntries bounds the render cache
const DefaultCacheEntries = 32

// Cache keeps recently rendered previews keyed by file key and grid size,
// evicting the least recently used entry when full
type Cache struct {
	mu      sync.Mutex
	max     int
	entries map[string]*Preview
	order   []string
}

// NewCache creates a cache holding at most max previews
func NewCache(max int) *Cache {
	if max <= 0 {
		max = DefaultCacheEntries
	}
	return &Cache{max: max, entries: make(map[string]*Preview)}
}

func cacheKey(key string, cols, rows int) string {
	return fmt.Sprintf("%s@%dx%d", key, cols, rows)
}

// Get returns a cached preview for key at the given grid size
func (c *Cache) Get(key string, cols, rows int) (*Preview, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := cacheKey(key, cols, rows)
	p, ok := c.entries[k]
	if !ok {
		return nil, false
	}
	c.touch(k)
	hit := *p
	hit.CacheHit = true
	return &hit, true
}

// Put stores p for the given grid size
func (c *Cache) Put(p *Preview, cols, rows int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := cacheKey(p.Key, cols, rows)
	if _, ok := c.entries[k]; !ok && len(c.entries) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[k] = p
	c.touch(k)
}

// Len returns the number of cached previews
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops everything
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Preview)
	c.order = nil
}

func (c *Cache) touch(k string) {
	for i, o := range c.order {
		if o == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.order = append(c.order, k)
}

// RenderCached renders data through the cache
func (c *Cache) RenderCached(r *Renderer, key string, data []byte) (*Preview, error) {
	if p, ok := c.Get(key, r.Cols, r.Rows); ok {
		return p, nil
	}
	p, err := r.Render(key, data)
	if err != nil {
		return nil, err
	}
	c.Put(p, r.Cols, r.Rows)
	return p, nil
}
