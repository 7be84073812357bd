package browser

import (
	"testing"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/stretchr/testify/assert"
)

func TestListingCache(t *testing.T) {
	c := NewListingCache()
	_, ok := c.Get("/docs/")
	assert.False(t, ok)

	l := Listing{Path: "/docs/", Entries: []api.Entry{{Path: "/docs/", Name: "a.txt"}}}
	c.Put("docs", l)
	got, ok := c.Get("/docs")
	assert.True(t, ok, "keys are normalized")
	assert.Equal(t, l, got)

	c.Put("/docs/", Listing{Path: "/docs/", ForSearch: true})
	got, _ = c.Get("/docs/")
	assert.False(t, got.ForSearch, "search results are never cached")

	c.InvalidateAll()
	assert.Equal(t, 0, c.Len())
}
