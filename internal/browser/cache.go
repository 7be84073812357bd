package browser

import (
	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/HaiFongPan/fsb-cli/internal/metrics"
)

// Listing is the ordered result of one directory fetch or one search
type Listing struct {
	Path      string
	Expr      string
	ForSearch bool
	Entries   []api.Entry
}

// Find returns the entry whose identity key is key
func (l Listing) Find(key string) (api.Entry, bool) {
	for _, e := range l.Entries {
		if KeyOf(e) == key {
			return e, true
		}
	}
	return api.Entry{}, false
}

// KeyOf returns the identity key of an entry
func KeyOf(e api.Entry) string {
	return Join(e.Path, e.Name)
}

// ListingCache keeps the last directory listing per normalized path.
// It is not safe for concurrent use; the controller serializes access.
type ListingCache struct {
	entries map[string]Listing
}

// NewListingCache returns an empty cache
func NewListingCache() *ListingCache {
	return &ListingCache{entries: make(map[string]Listing)}
}

// Get returns the cached listing for path
func (c *ListingCache) Get(path string) (Listing, bool) {
	l, ok := c.entries[Normalize(path)]
	if ok {
		metrics.RecordCacheEvent(metrics.CacheHit)
	} else {
		metrics.RecordCacheEvent(metrics.CacheMiss)
	}
	return l, ok
}

// Put stores a directory listing. Search results are never cached.
func (c *ListingCache) Put(path string, l Listing) {
	if l.ForSearch {
		return
	}
	c.entries[Normalize(path)] = l
}

// InvalidateAll drops every cached listing
func (c *ListingCache) InvalidateAll() {
	if len(c.entries) == 0 {
		return
	}
	c.entries = make(map[string]Listing)
	metrics.RecordCacheEvent(metrics.CacheInvalidate)
}

// Len returns the number of cached directories
func (c *ListingCache) Len() int {
	return len(c.entries)
}
