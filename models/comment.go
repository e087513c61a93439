package models

import "time"

// Reply is a second-level comment. Replies never carry replies of their own.
type Reply struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	IsSecret  bool      `json:"isSecret"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsMine    bool      `json:"isMine"`
	User      BoardUser `json:"user"`
}

// Comment is a top-level comment with its embedded replies.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	IsSecret  bool      `json:"isSecret"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsMine    bool      `json:"isMine"`
	User      BoardUser `json:"user"`
	Replies   []Reply   `json:"replies"`
}

// CreateCommentRequest creates a top-level comment, or a reply when
// ParentCommentID is set.
type CreateCommentRequest struct {
	Content         string `json:"content"`
	ParentCommentID *int64 `json:"parentCommentId,omitempty"`
	IsSecret        bool   `json:"isSecret,omitempty"`
}

// UpdateCommentRequest edits an existing comment or reply.
type UpdateCommentRequest struct {
	Content  string `json:"content"`
	IsSecret *bool  `json:"isSecret,omitempty"`
}
