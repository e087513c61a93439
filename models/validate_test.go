package models

import (
	"errors"
	"testing"
)

func TestCreatePostValidate(t *testing.T) {
	cases := []struct {
		name string
		req  CreatePostRequest
		ok   bool
	}{
		{"valid", CreatePostRequest{Title: "hello", Content: "body", Category: CategoryFree}, true},
		{"trims whitespace", CreatePostRequest{Title: "  hi  ", Content: " x ", Category: CategoryMarket}, true},
		{"empty title", CreatePostRequest{Title: "   ", Content: "body", Category: CategoryFree}, false},
		{"empty content", CreatePostRequest{Title: "hi", Content: "", Category: CategoryFree}, false},
		{"bad category", CreatePostRequest{Title: "hi", Content: "body", Category: "SPAM"}, false},
		{"too many images", CreatePostRequest{Title: "hi", Content: "body", Category: CategoryFree, Images: make([]Image, MaxImagesPerPost+1)}, false},
		{"max images ok", CreatePostRequest{Title: "hi", Content: "body", Category: CategoryFree, Images: make([]Image, MaxImagesPerPost)}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.req.Validate()
			if c.ok && err != nil {
				t.Fatalf("expected ok, got %v", err)
			}
			if !c.ok {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
			}
		})
	}
}

func TestCreatePostValidateTrimsInPlace(t *testing.T) {
	req := CreatePostRequest{Title: "  title  ", Content: "  body  ", Category: CategoryFree}
	if err := req.Validate(); err != nil {
		t.Fatal(err)
	}
	if req.Title != "title" || req.Content != "body" {
		t.Fatalf("not trimmed: %q %q", req.Title, req.Content)
	}
}

func TestUpdatePostValidatePartial(t *testing.T) {
	// No fields set: nothing to check.
	empty := UpdatePostRequest{}
	if err := empty.Validate(); err != nil {
		t.Fatalf("empty partial should pass: %v", err)
	}

	blank := " "
	bad := UpdatePostRequest{Title: &blank}
	if err := bad.Validate(); err == nil {
		t.Fatal("blank title in partial should fail")
	}
}

func TestCommentValidate(t *testing.T) {
	c := CreateCommentRequest{Content: "  "}
	if err := c.Validate(); err == nil {
		t.Fatal("blank comment should fail")
	}
	c = CreateCommentRequest{Content: " fine "}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if c.Content != "fine" {
		t.Fatalf("not trimmed: %q", c.Content)
	}
}

func TestPageCursor(t *testing.T) {
	next := "c1"
	p := Page[Post]{NextCursor: &next}
	if !p.HasNext() || p.Cursor() != "c1" {
		t.Fatal("expected next cursor c1")
	}

	end := Page[Post]{}
	if end.HasNext() || end.Cursor() != "" {
		t.Fatal("nil cursor must mean end of stream")
	}

	blank := ""
	endBlank := Page[Post]{NextCursor: &blank}
	if endBlank.HasNext() {
		t.Fatal("empty cursor must mean end of stream")
	}
}
