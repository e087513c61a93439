package client

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// StaticToken wraps a raw access token in an oauth2.TokenSource. When the token
// is a JWT its exp claim is used as the oauth2 expiry so callers can notice a
// token going stale before the server rejects it.
func StaticToken(raw string) oauth2.TokenSource {
	tok := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
	if exp, err := tokenExpiry(raw); err == nil {
		tok.Expiry = exp
	}
	return oauth2.StaticTokenSource(tok)
}

// tokenExpiry extracts the exp claim without verifying the signature; the
// client never holds the signing secret and only needs the timestamp.
func tokenExpiry(raw string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, errors.New("token has no exp claim")
	}
	return exp.Time, nil
}
