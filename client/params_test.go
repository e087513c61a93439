package client

import (
	"testing"

	"github.com/meemong/shampooroom/models"
)

func TestListPostsParamsOmitsEmptyValues(t *testing.T) {
	// Unset category and empty address entries must be omitted entirely.
	v := listPostsParams(models.ListPostsQuery{
		Addresses: []string{"Seoul", ""},
	})

	if got := v.Encode(); got != "addresses%5B%5D=Seoul" {
		t.Fatalf("expected only addresses[]=Seoul, got %q", got)
	}
}

func TestListPostsParamsFull(t *testing.T) {
	yes := true
	v := listPostsParams(models.ListPostsQuery{
		Cursor:    "c1",
		Limit:     20,
		Category:  models.CategoryEducation,
		IsMine:    &yes,
		Addresses: []string{"Seoul", "Busan"},
	})

	if v.Get("__nextCursor") != "c1" || v.Get("__limit") != "20" {
		t.Fatalf("pagination params wrong: %v", v)
	}
	if v.Get("category") != "EDUCATION" || v.Get("isMine") != "true" {
		t.Fatalf("filter params wrong: %v", v)
	}
	if got := v["addresses[]"]; len(got) != 2 || got[0] != "Seoul" || got[1] != "Busan" {
		t.Fatalf("array params wrong: %v", got)
	}
	if _, ok := v["isLiked"]; ok {
		t.Fatal("unset bool must be omitted")
	}
	if _, ok := v["isRead"]; ok {
		t.Fatal("unset bool must be omitted")
	}
}

func TestListPostsParamsFalseIsSent(t *testing.T) {
	// A set pointer is sent even when false; only nil means unset.
	no := false
	v := listPostsParams(models.ListPostsQuery{IsRead: &no})
	if v.Get("isRead") != "false" {
		t.Fatalf("expected isRead=false, got %q", v.Encode())
	}
}

func TestListCommentsParams(t *testing.T) {
	v := listCommentsParams(models.ListCommentsQuery{Limit: 20})
	if got := v.Encode(); got != "__limit=20" {
		t.Fatalf("expected only __limit=20, got %q", got)
	}
}
