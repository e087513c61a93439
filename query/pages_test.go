package query

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/meemong/shampooroom/models"
)

// chainFetcher serves a deterministic cursor chain of page sizes.
func chainFetcher(t *testing.T, sizes []int) PageFetcher[int] {
	t.Helper()
	next := 0
	return func(_ context.Context, cursor string, limit int) (models.Page[int], error) {
		pageIdx := 0
		if cursor != "" {
			if _, err := fmt.Sscanf(cursor, "c%d", &pageIdx); err != nil {
				t.Errorf("unexpected cursor %q", cursor)
			}
		}
		items := make([]int, sizes[pageIdx])
		for i := range items {
			items[i] = next
			next++
		}
		page := models.Page[int]{DataList: items, DataCount: len(items)}
		if pageIdx+1 < len(sizes) {
			c := fmt.Sprintf("c%d", pageIdx+1)
			page.NextCursor = &c
		}
		return page, nil
	}
}

func TestPagesFlattenedConcatenation(t *testing.T) {
	cache := NewCache(0, nil)
	p := NewPages(cache, "posts", 20, chainFetcher(t, []int{20, 5}))
	ctx := context.Background()

	items, err := p.Items(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 20 {
		t.Fatalf("first page should hold 20 items, got %d", len(items))
	}
	if ok, _ := p.HasNextPage(ctx); !ok {
		t.Fatal("cursor c1 must mean another page")
	}

	if err := p.FetchNext(ctx); err != nil {
		t.Fatal(err)
	}
	items, err = p.Items(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 25 {
		t.Fatalf("flattened view should hold 25 items, got %d", len(items))
	}
	// Concatenation in fetch order, no duplicates, no drops.
	for i, v := range items {
		if v != i {
			t.Fatalf("item %d out of order: %d", i, v)
		}
	}
	if ok, _ := p.HasNextPage(ctx); ok {
		t.Fatal("null cursor must end the stream")
	}
	// FetchNext at the end of the stream is a no-op.
	if err := p.FetchNext(ctx); err != nil {
		t.Fatal(err)
	}
	if items, _ = p.Items(ctx); len(items) != 25 {
		t.Fatalf("exhausted stream must not grow, got %d items", len(items))
	}
}

func TestPagesFetchNextSingleFlight(t *testing.T) {
	cache := NewCache(0, nil)
	var calls int32
	release := make(chan struct{})
	c0 := "c1"

	p := NewPages(cache, "posts", 20, func(_ context.Context, cursor string, _ int) (models.Page[int], error) {
		if cursor == "" {
			return models.Page[int]{DataList: []int{1}, NextCursor: &c0}, nil
		}
		atomic.AddInt32(&calls, 1)
		<-release
		return models.Page[int]{DataList: []int{2}}, nil
	})
	ctx := context.Background()

	if _, err := p.Items(ctx); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		_ = p.FetchNext(ctx)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)

	// While the first FetchNext is in flight, a second one must not duplicate it.
	if err := p.FetchNext(ctx); err != nil {
		t.Fatal(err)
	}
	close(release)
	<-done

	if calls != 1 {
		t.Fatalf("expected a single next-page request, got %d", calls)
	}
}

func TestPagesInvalidationResetsToFirstPage(t *testing.T) {
	cache := NewCache(0, nil)
	var firstPageFetches int32
	c0 := "c1"

	p := NewPages(cache, "posts", 20, func(_ context.Context, cursor string, _ int) (models.Page[int], error) {
		if cursor == "" {
			atomic.AddInt32(&firstPageFetches, 1)
			return models.Page[int]{DataList: []int{1, 2}, NextCursor: &c0}, nil
		}
		return models.Page[int]{DataList: []int{3}}, nil
	})
	ctx := context.Background()

	if err := p.FetchNext(ctx); err != nil {
		t.Fatal(err)
	}
	if items, _ := p.Items(ctx); len(items) != 3 {
		t.Fatalf("expected 3 items before invalidation, got %d", len(items))
	}

	cache.Invalidate("posts")

	items, err := p.Items(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("invalidated query must restart from a fresh first page, got %d items", len(items))
	}
	if firstPageFetches != 2 {
		t.Fatalf("expected 2 first-page fetches, got %d", firstPageFetches)
	}
}

func TestPagesFetchErrorKeepsExisting(t *testing.T) {
	cache := NewCache(0, nil)
	c0 := "c1"
	fail := true

	p := NewPages(cache, "posts", 20, func(_ context.Context, cursor string, _ int) (models.Page[int], error) {
		if cursor == "" {
			return models.Page[int]{DataList: []int{1}, NextCursor: &c0}, nil
		}
		if fail {
			return models.Page[int]{}, fmt.Errorf("boom")
		}
		return models.Page[int]{DataList: []int{2}}, nil
	})
	ctx := context.Background()

	if err := p.FetchNext(ctx); err == nil {
		t.Fatal("fetch error must surface")
	}
	if items, _ := p.Items(ctx); len(items) != 1 {
		t.Fatalf("failed page must not be appended, got %d items", len(items))
	}

	// The guard resets, so the next attempt succeeds.
	fail = false
	if err := p.FetchNext(ctx); err != nil {
		t.Fatal(err)
	}
	if items, _ := p.Items(ctx); len(items) != 2 {
		t.Fatalf("retry must append, got %d items", len(items))
	}
}
