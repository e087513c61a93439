// Package tracker remembers which posts already had their view/read beacons
// sent, so a detail view mounting twice fires each beacon at most once per
// process lifetime. The state is in-memory only and resets on restart.
package tracker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SendFunc delivers one beacon for a post id.
type SendFunc func(ctx context.Context, id int64) error

// Tracker holds the viewed/read membership sets. It is an explicit injectable
// object rather than package state, so tests can build a fresh one per case.
type Tracker struct {
	mu     sync.Mutex
	viewed map[int64]struct{}
	read   map[int64]struct{}
	wg     sync.WaitGroup
	log    *zap.SugaredLogger
}

// New creates an empty tracker.
func New(log *zap.SugaredLogger) *Tracker {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Tracker{
		viewed: map[int64]struct{}{},
		read:   map[int64]struct{}{},
		log:    log,
	}
}

// View fires the view beacon for id unless it already went out. The call is
// fire-and-forget: it returns immediately and the beacon's failure is logged
// and dropped, never surfaced or allowed to block navigation.
func (t *Tracker) View(ctx context.Context, id int64, send SendFunc) {
	t.spawn(ctx, id, send, t.viewed, "view")
}

// Read fires the read beacon for id. alreadyRead is the server-supplied isRead
// flag; when true there is nothing to send.
func (t *Tracker) Read(ctx context.Context, id int64, alreadyRead bool, send SendFunc) {
	if alreadyRead {
		return
	}
	t.spawn(ctx, id, send, t.read, "read")
}

// spawn adds id to the set speculatively, then delivers in the background.
// On failure the id is removed again so the next mount retries.
func (t *Tracker) spawn(ctx context.Context, id int64, send SendFunc, set map[int64]struct{}, kind string) {
	t.mu.Lock()
	if _, ok := set[id]; ok {
		t.mu.Unlock()
		return
	}
	set[id] = struct{}{}
	t.mu.Unlock()

	// The beacon should complete even if the view navigates away.
	ctx = context.WithoutCancel(ctx)

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := send(ctx, id); err != nil {
			t.mu.Lock()
			delete(set, id)
			t.mu.Unlock()
			t.log.Debugf("mark %s failed post=%d err=%v", kind, id, err)
		}
	}()
}

// Flush waits for in-flight beacons; called on shutdown and from tests.
func (t *Tracker) Flush() {
	t.wg.Wait()
}

// Viewed reports whether the view beacon for id was sent (or is in flight).
func (t *Tracker) Viewed(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.viewed[id]
	return ok
}

// WasRead reports whether the read beacon for id was sent (or is in flight).
func (t *Tracker) WasRead(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.read[id]
	return ok
}
