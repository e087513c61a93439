package models

import "time"

// Category is the server-side post category enum.
type Category string

const (
	CategoryFree      Category = "FREE"
	CategoryEducation Category = "EDUCATION"
	CategoryProduct   Category = "PRODUCT"
	CategoryMarket    Category = "MARKET"
)

// Valid reports whether the category is one the server accepts.
func (c Category) Valid() bool {
	switch c {
	case CategoryFree, CategoryEducation, CategoryProduct, CategoryMarket:
		return true
	}
	return false
}

// BoardUser is the anonymized author descriptor attached to posts and comments.
// No real identity is exposed, only a display name and a per-board sequence number.
type BoardUser struct {
	Name            string `json:"name"`
	AnonymousNumber int    `json:"anonymousNumber"`
}

// Image is a single attached image URL.
type Image struct {
	ImageURL string `json:"imageUrl"`
}

// Post is a board post as returned by the list endpoint.
type Post struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Category     Category  `json:"category"`
	Content      string    `json:"content"`
	Images       []Image   `json:"images"`
	ViewCount    int       `json:"viewCount"`
	LikeCount    int       `json:"likeCount"`
	CommentCount int       `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	// IsMine is derived server-side from the session; never inferred locally.
	IsMine bool      `json:"isMine"`
	User   BoardUser `json:"user"`
}

// PostDetail extends Post with the current viewer's like and read state.
type PostDetail struct {
	Post
	IsLiked bool `json:"isLiked"`
	IsRead  bool `json:"isRead"`
}

// CreatePostRequest is the payload for creating a post.
type CreatePostRequest struct {
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Content  string   `json:"content"`
	Images   []Image  `json:"images,omitempty"`
}

// UpdatePostRequest carries a partial update; nil fields are left unchanged server-side.
type UpdatePostRequest struct {
	Title    *string   `json:"title,omitempty"`
	Category *Category `json:"category,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Images   []Image   `json:"images,omitempty"`
}
