package models

import (
	"fmt"
	"strings"
)

// MaxImagesPerPost is the client-side attachment limit; the server remains
// the authority.
const MaxImagesPerPost = 10

// ValidationError is a client-side pre-submission failure. It is raised before
// any request is issued so the form keeps its content for a retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// Validate trims the title and content in place and checks the payload before
// submission.
func (r *CreatePostRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	if r.Title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if r.Content == "" {
		return &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	if !r.Category.Valid() {
		return &ValidationError{Field: "category", Reason: "unknown category " + string(r.Category)}
	}
	if len(r.Images) > MaxImagesPerPost {
		return &ValidationError{Field: "images", Reason: fmt.Sprintf("at most %d images allowed", MaxImagesPerPost)}
	}
	return nil
}

// Validate checks only the fields present in the partial update.
func (r *UpdatePostRequest) Validate() error {
	if r.Title != nil {
		*r.Title = strings.TrimSpace(*r.Title)
		if *r.Title == "" {
			return &ValidationError{Field: "title", Reason: "must not be empty"}
		}
	}
	if r.Content != nil {
		*r.Content = strings.TrimSpace(*r.Content)
		if *r.Content == "" {
			return &ValidationError{Field: "content", Reason: "must not be empty"}
		}
	}
	if r.Category != nil && !r.Category.Valid() {
		return &ValidationError{Field: "category", Reason: "unknown category " + string(*r.Category)}
	}
	if len(r.Images) > MaxImagesPerPost {
		return &ValidationError{Field: "images", Reason: fmt.Sprintf("at most %d images allowed", MaxImagesPerPost)}
	}
	return nil
}

// Validate trims the comment body and rejects empty submissions.
func (r *CreateCommentRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	if r.Content == "" {
		return &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	return nil
}

// Validate trims the edited body and rejects empty submissions.
func (r *UpdateCommentRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	if r.Content == "" {
		return &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	return nil
}
