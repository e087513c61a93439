// Package query owns the client-side cache: per-key results, in-flight request
// de-duplication, cursor-paginated queries, and mutation-driven invalidation.
package query

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Key builds a cache key from its parts. Keys are hierarchical; prefix
// invalidation matches on the leading parts.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

type entry struct {
	data      any
	fetchedAt time.Time
	stale     bool
}

type call struct {
	done chan struct{}
	data any
	err  error
}

// Cache is a process-scoped result cache. It is constructed explicitly and
// threaded through, never a hidden ambient singleton, so invalidation rules
// can be tested in isolation. Within one key at most one request is in flight;
// concurrent identical requests join the pending call.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	calls   map[string]*call
	ttl     time.Duration
	log     *zap.SugaredLogger
}

// NewCache creates a cache. ttl bounds how long an entry stays fresh without
// invalidation; ttl <= 0 means entries only go stale through Invalidate.
func NewCache(ttl time.Duration, log *zap.SugaredLogger) *Cache {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Cache{
		entries: map[string]*entry{},
		calls:   map[string]*call{},
		ttl:     ttl,
		log:     log,
	}
}

func (c *Cache) freshLocked(e *entry) bool {
	if e == nil || e.stale {
		return false
	}
	if c.ttl > 0 && time.Since(e.fetchedAt) > c.ttl {
		return false
	}
	return true
}

// Do returns the cached value for key, or runs fn to fetch it. A fetch keeps
// running after ctx is canceled so joiners and later reads still get the
// result; the canceled caller just stops waiting.
func (c *Cache) Do(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if e := c.entries[key]; c.freshLocked(e) {
		c.mu.Unlock()
		return e.data, nil
	}
	if pending, ok := c.calls[key]; ok {
		c.mu.Unlock()
		return c.wait(ctx, pending)
	}

	pending := &call{done: make(chan struct{})}
	c.calls[key] = pending
	c.mu.Unlock()

	go func() {
		data, err := fn(context.WithoutCancel(ctx))

		c.mu.Lock()
		delete(c.calls, key)
		if err == nil {
			c.entries[key] = &entry{data: data, fetchedAt: time.Now()}
		} else {
			c.log.Debugf("cache fetch failed key=%s err=%v", key, err)
		}
		c.mu.Unlock()

		pending.data, pending.err = data, err
		close(pending.done)
	}()

	return c.wait(ctx, pending)
}

func (c *Cache) wait(ctx context.Context, pending *call) (any, error) {
	select {
	case <-pending.done:
		return pending.data, pending.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Invalidate marks the given keys stale; the next read re-fetches. Nothing is
// evicted immediately, so views keep rendering the previous data meanwhile.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		if e, ok := c.entries[key]; ok {
			e.stale = true
		}
	}
}

// InvalidatePrefix marks every key under the given prefix stale; used for
// wildcarded list queries whose full keys embed filter parameters.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if strings.HasPrefix(key, prefix) {
			e.stale = true
		}
	}
}

// Fetch is the typed wrapper around Cache.Do.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	v, err := c.Do(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
