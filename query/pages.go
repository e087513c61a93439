package query

import (
	"context"
	"sync"

	"github.com/meemong/shampooroom/models"
)

// PageFetcher loads one page. cursor is "" for the first page, otherwise
// exactly the token returned by the previous page.
type PageFetcher[T any] func(ctx context.Context, cursor string, limit int) (models.Page[T], error)

// pagesState is the cache entry behind a paginated query: the ordered pages
// fetched so far plus the fetch-next guard.
type pagesState[T any] struct {
	mu       sync.Mutex
	pages    []models.Page[T]
	fetching bool
}

func (s *pagesState[T]) lastCursorLocked() (string, bool) {
	if len(s.pages) == 0 {
		return "", false
	}
	last := s.pages[len(s.pages)-1]
	if !last.HasNext() {
		return "", false
	}
	return last.Cursor(), true
}

// Pages is a cursor-chained infinite query bound to one cache key. FetchNext
// appends pages without discarding prior ones; invalidating the key resets the
// query so the next read starts from a fresh first page.
type Pages[T any] struct {
	cache *Cache
	key   string
	limit int
	fetch PageFetcher[T]
}

// NewPages binds a paginated query to a cache key.
func NewPages[T any](cache *Cache, key string, limit int, fetch PageFetcher[T]) *Pages[T] {
	return &Pages[T]{cache: cache, key: key, limit: limit, fetch: fetch}
}

// Key returns the cache key this query lives under.
func (p *Pages[T]) Key() string { return p.key }

func (p *Pages[T]) state(ctx context.Context) (*pagesState[T], error) {
	return Fetch(ctx, p.cache, p.key, func(ctx context.Context) (*pagesState[T], error) {
		first, err := p.fetch(ctx, "", p.limit)
		if err != nil {
			return nil, err
		}
		return &pagesState[T]{pages: []models.Page[T]{first}}, nil
	})
}

// Items returns the flattened item view: all fetched pages concatenated in
// arrival order. The first call fetches the first page.
func (p *Pages[T]) Items(ctx context.Context) ([]T, error) {
	st, err := p.state(ctx)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	var items []T
	for _, page := range st.pages {
		items = append(items, page.DataList...)
	}
	return items, nil
}

// HasNextPage reports whether the last fetched page carries a cursor.
func (p *Pages[T]) HasNextPage(ctx context.Context) (bool, error) {
	st, err := p.state(ctx)
	if err != nil {
		return false, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.lastCursorLocked()
	return ok, nil
}

// FetchNext appends the next page. It is a no-op while another FetchNext for
// this query is in flight or when the stream is exhausted, so an eager caller
// can invoke it freely.
func (p *Pages[T]) FetchNext(ctx context.Context) error {
	st, err := p.state(ctx)
	if err != nil {
		return err
	}

	st.mu.Lock()
	cursor, ok := st.lastCursorLocked()
	if !ok || st.fetching {
		st.mu.Unlock()
		return nil
	}
	st.fetching = true
	st.mu.Unlock()

	page, err := p.fetch(ctx, cursor, p.limit)

	st.mu.Lock()
	st.fetching = false
	if err == nil {
		st.pages = append(st.pages, page)
	}
	st.mu.Unlock()
	return err
}
