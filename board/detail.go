package board

import (
	"context"

	"github.com/meemong/shampooroom/models"
	"github.com/meemong/shampooroom/query"
)

// DetailSession is one post opened in the detail view: the cached detail, the
// paginated comment thread, and the mutations acting on them.
type DetailSession struct {
	board    *Board
	postID   int64
	comments *query.Pages[models.Comment]
}

// NewDetailSession opens a session on one post.
func (b *Board) NewDetailSession(postID int64) *DetailSession {
	s := &DetailSession{board: b, postID: postID}
	s.comments = query.NewPages(b.cache, commentsKey(postID), b.limit,
		func(ctx context.Context, cursor string, limit int) (models.Page[models.Comment], error) {
			return b.api.ListComments(ctx, postID, models.ListCommentsQuery{Cursor: cursor, Limit: limit})
		})
	return s
}

// PostID returns the post this session is bound to.
func (s *DetailSession) PostID() int64 { return s.postID }

// Detail returns the post detail, fetched once and cached until invalidated.
func (s *DetailSession) Detail(ctx context.Context) (*models.PostDetail, error) {
	return query.Fetch(ctx, s.board.cache, detailKey(s.postID), func(ctx context.Context) (*models.PostDetail, error) {
		return s.board.api.GetPostDetail(ctx, s.postID)
	})
}

// Open is the mount effect: it loads the detail and fires the view beacon,
// plus the read beacon when the server says the post is still unread. Both go
// through the dedupe tracker and never surface a failure.
func (s *DetailSession) Open(ctx context.Context) (*models.PostDetail, error) {
	detail, err := s.Detail(ctx)
	if err != nil {
		return nil, err
	}
	s.board.tracker.View(ctx, s.postID, s.board.api.MarkView)
	s.board.tracker.Read(ctx, s.postID, detail.IsRead, s.board.api.MarkRead)
	return detail, nil
}

// Comments returns the flattened comment thread fetched so far.
func (s *DetailSession) Comments(ctx context.Context) ([]models.Comment, error) {
	return s.comments.Items(ctx)
}

// HasMoreComments reports whether the thread has another page.
func (s *DetailSession) HasMoreComments(ctx context.Context) (bool, error) {
	return s.comments.HasNextPage(ctx)
}

// FetchMoreComments appends the next comment page.
func (s *DetailSession) FetchMoreComments(ctx context.Context) error {
	return s.comments.FetchNext(ctx)
}

// ToggleLike likes the post when unliked and unlikes it otherwise, based on
// the server-supplied isLiked state, then invalidates the detail and lists.
func (s *DetailSession) ToggleLike(ctx context.Context) error {
	detail, err := s.Detail(ctx)
	if err != nil {
		return err
	}
	if err := s.board.api.SetLike(ctx, s.postID, !detail.IsLiked); err != nil {
		return err
	}
	s.board.invalidatePost(s.postID)
	return nil
}

// UpdatePost submits a partial edit of the post.
func (s *DetailSession) UpdatePost(ctx context.Context, req models.UpdatePostRequest) error {
	if _, err := s.board.api.UpdatePost(ctx, s.postID, req); err != nil {
		return err
	}
	s.board.invalidatePost(s.postID)
	return nil
}

// DeletePost removes the post and invalidates everywhere it could appear.
func (s *DetailSession) DeletePost(ctx context.Context) error {
	if err := s.board.api.DeletePost(ctx, s.postID); err != nil {
		return err
	}
	s.board.invalidatePost(s.postID)
	return nil
}

// AddComment creates a top-level comment, or a reply when parentCommentID is
// non-nil. The entity only materializes after server acknowledgement; there is
// no optimistic insertion.
func (s *DetailSession) AddComment(ctx context.Context, content string, parentCommentID *int64, isSecret bool) error {
	err := s.board.api.CreateComment(ctx, s.postID, models.CreateCommentRequest{
		Content:         content,
		ParentCommentID: parentCommentID,
		IsSecret:        isSecret,
	})
	if err != nil {
		return err
	}
	s.board.invalidateComments(s.postID)
	return nil
}

// EditComment replaces a comment's body.
func (s *DetailSession) EditComment(ctx context.Context, commentID int64, content string, isSecret *bool) error {
	err := s.board.api.UpdateComment(ctx, s.postID, commentID, models.UpdateCommentRequest{
		Content:  content,
		IsSecret: isSecret,
	})
	if err != nil {
		return err
	}
	s.board.invalidateComments(s.postID)
	return nil
}

// RemoveComment deletes a comment and invalidates the thread, the detail
// (comment count), and the lists.
func (s *DetailSession) RemoveComment(ctx context.Context, commentID int64) error {
	if err := s.board.api.DeleteComment(ctx, s.postID, commentID); err != nil {
		return err
	}
	s.board.invalidateComments(s.postID)
	return nil
}
