package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/meemong/shampooroom/config"
)

// Transport issues authenticated JSON requests against the API and decodes
// the uniform response envelopes. It owns the client-side rate limit and the
// auth header; callers above it only see typed results and *APIError values.
type Transport struct {
	base    string
	http    *http.Client
	tokens  oauth2.TokenSource
	limiter *rate.Limiter
	log     *zap.SugaredLogger
}

// NewTransport builds a Transport from configuration. tokens may be nil for
// endpoints that accept anonymous reads.
func NewTransport(cfg config.AppConfig, tokens oauth2.TokenSource, log *zap.SugaredLogger) (*Transport, error) {
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	if _, err := url.Parse(cfg.APIBaseURL); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Transport{
		base:    cfg.APIBaseURL,
		http:    &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSec) * time.Second},
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		log:     log,
	}, nil
}

// dataEnvelope wraps single-object responses; list endpoints answer the page
// envelope at the top level instead.
type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// Get fetches a single object, unwrapping the {"data": ...} envelope.
func (t *Transport) Get(ctx context.Context, path string, query url.Values, out any) error {
	return t.do(ctx, http.MethodGet, path, query, nil, out, true)
}

// GetList fetches a list page; the page envelope is decoded as-is.
func (t *Transport) GetList(ctx context.Context, path string, query url.Values, out any) error {
	return t.do(ctx, http.MethodGet, path, query, nil, out, false)
}

// Post sends a JSON body; out may be nil for endpoints without a payload.
func (t *Transport) Post(ctx context.Context, path string, body, out any) error {
	return t.do(ctx, http.MethodPost, path, nil, body, out, true)
}

// Patch sends a partial update.
func (t *Transport) Patch(ctx context.Context, path string, body, out any) error {
	return t.do(ctx, http.MethodPatch, path, nil, body, out, true)
}

// Delete issues a DELETE request.
func (t *Transport) Delete(ctx context.Context, path string) error {
	return t.do(ctx, http.MethodDelete, path, nil, nil, nil, false)
}

func (t *Transport) do(ctx context.Context, method, path string, query url.Values, body, out any, unwrap bool) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}

	target, err := url.JoinPath(t.base, path)
	if err != nil {
		return err
	}
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	if t.tokens != nil {
		tok, err := t.tokens.Token()
		if err != nil {
			return fmt.Errorf("token source: %w", err)
		}
		if !tok.Valid() {
			t.log.Debugf("access token expired at %s, sending anyway", tok.Expiry)
		}
		tok.SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := t.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	t.log.Debugf("%s %s -> %d (%s) rid=%s", method, path, resp.StatusCode, time.Since(start), requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if unwrap {
		var env dataEnvelope
		if err := json.Unmarshal(respBody, &env); err != nil {
			return err
		}
		if env.Data != nil {
			return json.Unmarshal(env.Data, out)
		}
	}
	return json.Unmarshal(respBody, out)
}
