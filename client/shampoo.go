package client

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/meemong/shampooroom/config"
	"github.com/meemong/shampooroom/models"
	"github.com/meemong/shampooroom/utils"
)

const apiPrefix = "shampoo-rooms"

// Client is the typed resource API layer for the shampoo-room board. Every
// domain operation maps to exactly one HTTP call.
type Client struct {
	t           *Transport
	storageHost string
}

// New builds a Client from configuration.
func New(cfg config.AppConfig, tokens oauth2.TokenSource, log *zap.SugaredLogger) (*Client, error) {
	t, err := NewTransport(cfg, tokens, log)
	if err != nil {
		return nil, err
	}
	return &Client{t: t, storageHost: cfg.StorageHost}, nil
}

func postPath(id int64) string {
	return fmt.Sprintf("%s/%d", apiPrefix, id)
}

func commentPath(postID, commentID int64) string {
	return fmt.Sprintf("%s/%d/comments/%d", apiPrefix, postID, commentID)
}

// ListPosts returns one page of the post feed.
func (c *Client) ListPosts(ctx context.Context, q models.ListPostsQuery) (models.Page[models.Post], error) {
	var page models.Page[models.Post]
	err := c.t.GetList(ctx, apiPrefix, listPostsParams(q), &page)
	return page, err
}

// GetPostDetail returns one post with the viewer's like and read state.
// A 404 surfaces as an *APIError matched by IsNotFound.
func (c *Client) GetPostDetail(ctx context.Context, id int64) (*models.PostDetail, error) {
	var detail models.PostDetail
	if err := c.t.Get(ctx, postPath(id), nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

type idResponse struct {
	ID int64 `json:"id"`
}

// CreatePost validates, sanitizes, and submits a new post, returning its id.
func (c *Client) CreatePost(ctx context.Context, req models.CreatePostRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}
	req.Title = utils.SanitizePlain(req.Title)
	req.Content = utils.Sanitize(req.Content)

	var res idResponse
	if err := c.t.Post(ctx, apiPrefix, req, &res); err != nil {
		return 0, err
	}
	return res.ID, nil
}

// UpdatePost submits a partial update; omitted fields stay unchanged server-side.
func (c *Client) UpdatePost(ctx context.Context, id int64, req models.UpdatePostRequest) (int64, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}
	if req.Title != nil {
		*req.Title = utils.SanitizePlain(*req.Title)
	}
	if req.Content != nil {
		*req.Content = utils.Sanitize(*req.Content)
	}

	var res idResponse
	if err := c.t.Patch(ctx, postPath(id), req, &res); err != nil {
		return 0, err
	}
	return res.ID, nil
}

// DeletePost removes a post. An already-deleted post answers 404, which is
// treated as success; the caller never retries a delete.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	err := c.t.Delete(ctx, postPath(id))
	if IsNotFound(err) {
		return nil
	}
	return err
}

// MarkView registers a view beacon for the post.
func (c *Client) MarkView(ctx context.Context, id int64) error {
	return c.t.Post(ctx, postPath(id)+"/view", nil, nil)
}

// MarkRead registers a read beacon for the post.
func (c *Client) MarkRead(ctx context.Context, id int64) error {
	return c.t.Post(ctx, postPath(id)+"/read", nil, nil)
}

// SetLike likes (POST) or unlikes (DELETE) the post's like resource.
func (c *Client) SetLike(ctx context.Context, id int64, like bool) error {
	path := postPath(id) + "/like"
	if like {
		return c.t.Post(ctx, path, nil, nil)
	}
	return c.t.Delete(ctx, path)
}

// ListComments returns one page of a post's comment thread, replies embedded.
func (c *Client) ListComments(ctx context.Context, postID int64, q models.ListCommentsQuery) (models.Page[models.Comment], error) {
	var page models.Page[models.Comment]
	err := c.t.GetList(ctx, postPath(postID)+"/comments", listCommentsParams(q), &page)
	return page, err
}

// CreateComment adds a top-level comment, or a reply when ParentCommentID is set.
func (c *Client) CreateComment(ctx context.Context, postID int64, req models.CreateCommentRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	req.Content = utils.Sanitize(req.Content)
	return c.t.Post(ctx, postPath(postID)+"/comments", req, nil)
}

// UpdateComment edits a comment or reply body.
func (c *Client) UpdateComment(ctx context.Context, postID, commentID int64, req models.UpdateCommentRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	req.Content = utils.Sanitize(req.Content)
	return c.t.Patch(ctx, commentPath(postID, commentID), req, nil)
}

// DeleteComment removes a comment or reply.
func (c *Client) DeleteComment(ctx context.Context, postID, commentID int64) error {
	return c.t.Delete(ctx, commentPath(postID, commentID))
}
