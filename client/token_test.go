package client

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/meemong/shampooroom/models"
)

func signTestToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	raw, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return raw
}

func TestStaticTokenExtractsExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	ts := StaticToken(signTestToken(t, exp))

	tok, err := ts.Token()
	if err != nil {
		t.Fatal(err)
	}
	if !tok.Expiry.Equal(exp) {
		t.Fatalf("expected expiry %v, got %v", exp, tok.Expiry)
	}
	if !tok.Valid() {
		t.Fatal("token with a future exp must be valid")
	}
}

func TestStaticTokenOpaque(t *testing.T) {
	// Non-JWT tokens still work, just without a known expiry.
	ts := StaticToken("opaque-token")
	tok, err := ts.Token()
	if err != nil {
		t.Fatal(err)
	}
	if tok.AccessToken != "opaque-token" || !tok.Expiry.IsZero() {
		t.Fatalf("unexpected token: %+v", tok)
	}
}

func TestAuthorizationHeaderSent(t *testing.T) {
	raw := signTestToken(t, time.Now().Add(time.Hour))

	var got string
	c := newTestClient(t, func(r *gin.Engine) {
		r.GET("/shampoo-rooms", func(ctx *gin.Context) {
			got = ctx.GetHeader("Authorization")
			ctx.JSON(200, gin.H{"dataList": []gin.H{}, "dataCount": 0, "__nextCursor": nil})
		})
	})
	c.t.tokens = StaticToken(raw)

	if _, err := c.ListPosts(context.Background(), models.ListPostsQuery{Limit: 1}); err != nil {
		t.Fatal(err)
	}
	if got != "Bearer "+raw {
		t.Fatalf("missing bearer header, got %q", got)
	}
}
