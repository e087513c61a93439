// Package board ties the resource API, the query cache, and the dedupe
// tracker into the shampoo-room feature: the paginated feed, the post detail
// with its comment thread, and the mutation-driven invalidation rules.
package board

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/meemong/shampooroom/client"
	"github.com/meemong/shampooroom/models"
	"github.com/meemong/shampooroom/query"
	"github.com/meemong/shampooroom/tracker"
)

// Cache key roots. The list root is prefix-invalidated because full list keys
// embed the active category, filter, and region parameters.
const (
	keyPosts    = "shampoo-rooms"
	keyDetail   = "shampoo-room-detail"
	keyComments = "shampoo-room-comments"
)

// Board is the shared feature state: one per process, handed to every session.
type Board struct {
	api     *client.Client
	cache   *query.Cache
	tracker *tracker.Tracker
	log     *zap.SugaredLogger
	limit   int
}

// New wires a Board. limit is the page size used for every paginated query.
func New(api *client.Client, cache *query.Cache, tr *tracker.Tracker, log *zap.SugaredLogger, limit int) *Board {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if limit <= 0 {
		limit = 20
	}
	return &Board{api: api, cache: cache, tracker: tr, log: log, limit: limit}
}

// Flush waits for outstanding fire-and-forget beacons; called on shutdown.
func (b *Board) Flush() {
	b.tracker.Flush()
}

func detailKey(id int64) string {
	return query.Key(keyDetail, strconv.FormatInt(id, 10))
}

func commentsKey(id int64) string {
	return query.Key(keyComments, strconv.FormatInt(id, 10))
}

// Invalidation rules. Each mutation marks stale exactly the caches that could
// display the touched entity; nothing is evicted from a rendered view early.
//
//	like/unlike            -> detail(id), every list
//	update/delete post     -> detail(id), every list
//	create/update/delete comment -> comments(postId), detail(id), every list

func (b *Board) invalidateLists() {
	b.cache.InvalidatePrefix(keyPosts + ":")
}

func (b *Board) invalidatePost(id int64) {
	b.cache.Invalidate(detailKey(id))
	b.invalidateLists()
}

func (b *Board) invalidateComments(postID int64) {
	b.cache.Invalidate(commentsKey(postID))
	b.invalidatePost(postID)
}

// CreatePost submits a new post and invalidates the lists so the feed picks
// it up on the next read.
func (b *Board) CreatePost(ctx context.Context, req models.CreatePostRequest) (int64, error) {
	id, err := b.api.CreatePost(ctx, req)
	if err != nil {
		return 0, err
	}
	b.invalidateLists()
	return id, nil
}
