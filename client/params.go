package client

import (
	"net/url"
	"strconv"

	"github.com/meemong/shampooroom/models"
)

// Query-string convention: scalars are appended as key=value, arrays as
// repeated key[]=value entries, and unset or empty values are omitted
// entirely, never sent as empty strings or null markers.

const (
	paramCursor = "__nextCursor"
	paramLimit  = "__limit"
)

func setParam(v url.Values, key, value string) {
	if value == "" {
		return
	}
	v.Set(key, value)
}

func setIntParam(v url.Values, key string, n int) {
	if n == 0 {
		return
	}
	v.Set(key, strconv.Itoa(n))
}

func setBoolParam(v url.Values, key string, b *bool) {
	if b == nil {
		return
	}
	v.Set(key, strconv.FormatBool(*b))
}

func setArrayParam(v url.Values, key string, values []string) {
	for _, value := range values {
		if value == "" {
			continue
		}
		v.Add(key+"[]", value)
	}
}

func listPostsParams(q models.ListPostsQuery) url.Values {
	v := url.Values{}
	setParam(v, paramCursor, q.Cursor)
	setIntParam(v, paramLimit, q.Limit)
	setParam(v, "category", string(q.Category))
	setBoolParam(v, "isMine", q.IsMine)
	setBoolParam(v, "isLiked", q.IsLiked)
	setBoolParam(v, "isRead", q.IsRead)
	setArrayParam(v, "addresses", q.Addresses)
	return v
}

func listCommentsParams(q models.ListCommentsQuery) url.Values {
	v := url.Values{}
	setParam(v, paramCursor, q.Cursor)
	setIntParam(v, paramLimit, q.Limit)
	return v
}
