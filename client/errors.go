package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FieldError describes a single field rejection inside an APIError.
type FieldError struct {
	Field   string `json:"field"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// APIError is the transport error taxonomy: every non-2xx response is decoded
// into one, falling back to a generic shape when the body is not understood.
type APIError struct {
	Code        string       `json:"code"`
	Message     string       `json:"message"`
	HTTPCode    int          `json:"httpCode"`
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.HTTPCode, e.Code, e.Message)
}

const (
	codeHTTPError    = "HTTP_ERROR"
	codeUnknownError = "UNKNOWN_ERROR"
)

// decodeAPIError extracts an APIError from a non-2xx response body. The server
// answers either the standard format {"error": {...}} or a flat
// {"message": "...", "code": "..."} body; anything else becomes a fallback error.
func decodeAPIError(status int, body []byte) *APIError {
	var wrapped struct {
		Error *APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error != nil && wrapped.Error.Message != "" {
		e := wrapped.Error
		if e.Code == "" {
			e.Code = codeHTTPError
		}
		if e.HTTPCode == 0 {
			e.HTTPCode = status
		}
		return e
	}

	var flat APIError
	if err := json.Unmarshal(body, &flat); err == nil && flat.Message != "" {
		if flat.Code == "" {
			flat.Code = codeHTTPError
		}
		flat.HTTPCode = status
		return &flat
	}

	return &APIError{
		Code:     codeUnknownError,
		Message:  http.StatusText(status),
		HTTPCode: status,
	}
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.HTTPCode == http.StatusNotFound
}

// IsTokenExpired reports whether err looks like an expired or rejected token.
func IsTokenExpired(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.HTTPCode == http.StatusUnauthorized {
		return true
	}
	return strings.Contains(strings.ToLower(apiErr.Message), "expired")
}
