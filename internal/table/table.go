// Package table keeps page, page size, filter and sort state for the
// server-paginated admin listings.
package table

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/HaiFongPan/fsb-cli/internal/api"
	"github.com/sirupsen/logrus"
)

// PageSizes are the page sizes a table accepts
var PageSizes = []int{1, 2, 5, 10, 25, 50, 100}

// DefaultPageSize is used when no valid size is given
const DefaultPageSize = 10

// Source fetches one page envelope: the total row count and the raw list
type Source interface {
	ListPage(ctx context.Context, endpoint, listKey string, query url.Values) (int64, json.RawMessage, error)
}

// Table is a paginated view of endpoint whose rows decode into T
type Table[T any] struct {
	src      Source
	endpoint string
	listKey  string

	page         int
	onePageCount int
	filters      url.Values

	sum  int64
	rows []T

	sortKey  string
	sortDesc bool
	less     func(a, b T) bool
}

// New returns a table positioned on page 1
func New[T any](src Source, endpoint, listKey string, pageSize int) *Table[T] {
	if !validPageSize(pageSize) {
		pageSize = DefaultPageSize
	}
	return &Table[T]{
		src:          src,
		endpoint:     endpoint,
		listKey:      listKey,
		page:         1,
		onePageCount: pageSize,
		filters:      url.Values{},
	}
}

// Users binds a table to the user list
func Users(src Source, pageSize int) *Table[api.UserRecord] {
	return New[api.UserRecord](src, "/api/usrs", api.UserListKey, pageSize)
}

// Counts binds a table to the download counters below dir
func Counts(src Source, dir string, pageSize int) *Table[api.CountRecord] {
	return New[api.CountRecord](src, api.CountEndpoint(dir), api.CountListKey, pageSize)
}

// Downloads binds a table to the download records below dir
func Downloads(src Source, dir string, pageSize int) *Table[api.DownloadRecord] {
	return New[api.DownloadRecord](src, api.DownloadsEndpoint(dir), api.DownloadListKey, pageSize)
}

// Page returns the current 1-based page
func (t *Table[T]) Page() int { return t.page }

// OnePageCount returns the page size
func (t *Table[T]) OnePageCount() int { return t.onePageCount }

// Sum returns the total row count reported by the last load
func (t *Table[T]) Sum() int64 { return t.sum }

// Rows returns the rows of the current page
func (t *Table[T]) Rows() []T { return t.rows }

// Endpoint returns the bound endpoint
func (t *Table[T]) Endpoint() string { return t.endpoint }

// SetFilter sets a query filter such as Day or RealName. An empty value removes it.
func (t *Table[T]) SetFilter(key, value string) {
	if value == "" {
		t.filters.Del(key)
		return
	}
	t.filters.Set(key, value)
}

// Filters returns a copy of the active filters
func (t *Table[T]) Filters() url.Values {
	out := url.Values{}
	for k, v := range t.filters {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Load fetches the current page
func (t *Table[T]) Load(ctx context.Context) error {
	query := t.Filters()
	query.Set("Page", strconv.Itoa(t.page))
	query.Set("OnePageCount", strconv.Itoa(t.onePageCount))

	sum, raw, err := t.src.ListPage(ctx, t.endpoint, t.listKey, query)
	if err != nil {
		return err
	}

	var rows []T
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return fmt.Errorf("failed to decode %s of %s: %w", t.listKey, t.endpoint, err)
		}
	}

	t.sum = sum
	t.rows = rows
	t.applySort()
	logrus.WithFields(logrus.Fields{
		"endpoint": t.endpoint,
		"page":     t.page,
		"rows":     len(rows),
		"sum":      sum,
	}).Debug("table page loaded")
	return nil
}

// SetPage moves to page n, clamped to the known page range, and loads it
func (t *Table[T]) SetPage(ctx context.Context, n int) error {
	if total := t.TotalPages(); total > 0 && n > total {
		n = total
	}
	if n < 1 {
		n = 1
	}
	t.page = n
	return t.Load(ctx)
}

// SetPageSize changes the page size, returns to page 1 and loads it
func (t *Table[T]) SetPageSize(ctx context.Context, n int) error {
	if !validPageSize(n) {
		return fmt.Errorf("invalid page size %d (valid: %v)", n, PageSizes)
	}
	t.onePageCount = n
	t.page = 1
	return t.Load(ctx)
}

// Next loads the following page if there is one
func (t *Table[T]) Next(ctx context.Context) error {
	if t.page >= t.TotalPages() {
		return nil
	}
	return t.SetPage(ctx, t.page+1)
}

// Prev loads the preceding page if there is one
func (t *Table[T]) Prev(ctx context.Context) error {
	if t.page <= 1 {
		return nil
	}
	return t.SetPage(ctx, t.page-1)
}

// TotalPages is ceil(Sum / OnePageCount)
func (t *Table[T]) TotalPages() int {
	if t.sum <= 0 {
		return 0
	}
	n := int64(t.onePageCount)
	return int((t.sum + n - 1) / n)
}

// SortBy sorts the current page client-side. Sorting by the active key
// again reverses the order. The sort is kept across loads.
func (t *Table[T]) SortBy(key string, less func(a, b T) bool) {
	if key == t.sortKey {
		t.sortDesc = !t.sortDesc
	} else {
		t.sortKey = key
		t.sortDesc = false
	}
	t.less = less
	t.applySort()
}

// SortKey returns the active sort key and direction
func (t *Table[T]) SortKey() (string, bool) {
	return t.sortKey, t.sortDesc
}

func (t *Table[T]) applySort() {
	if t.less == nil {
		return
	}
	less, desc := t.less, t.sortDesc
	sort.SliceStable(t.rows, func(i, j int) bool {
		if desc {
			return less(t.rows[j], t.rows[i])
		}
		return less(t.rows[i], t.rows[j])
	})
}

func validPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}
