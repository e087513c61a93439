package models

// Page is the cursor-paginated list envelope used by every list endpoint.
// NextCursor is an opaque server-issued token; it is passed back verbatim to
// request the following page and is never synthesized client-side. A null or
// empty cursor marks the end of the stream.
type Page[T any] struct {
	DataList   []T     `json:"dataList"`
	DataCount  int     `json:"dataCount"`
	NextCursor *string `json:"__nextCursor"`
}

// HasNext reports whether another page can be requested.
func (p Page[T]) HasNext() bool {
	return p.NextCursor != nil && *p.NextCursor != ""
}

// Cursor returns the next-page token, or "" at the end of the stream.
func (p Page[T]) Cursor() string {
	if p.NextCursor == nil {
		return ""
	}
	return *p.NextCursor
}

// ListPostsQuery selects and filters the post feed. Zero values are omitted
// from the request entirely.
type ListPostsQuery struct {
	Cursor    string
	Limit     int
	Category  Category
	IsMine    *bool
	IsLiked   *bool
	IsRead    *bool
	Addresses []string
}

// ListCommentsQuery pages through a post's comment thread.
type ListCommentsQuery struct {
	Cursor string
	Limit  int
}
