package spotify

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// Error represents a non-2xx response from the Spotify Web API or the
// accounts service.
//
// The Error type keeps the HTTP status code and the raw response body so
// callers can report the failure without re-reading the response.
type Error struct {
	StatusCode int    // HTTP status code
	Message    string // Message extracted from the body, or the status text
	Body       string // Raw response body
}

// Error returns the error message.
func (e *Error) Error() string {
	return fmt.Sprintf("spotify: HTTP %d: %s", e.StatusCode, e.Message)
}

// Is checks if the target error is a Spotify error with the same status.
//
// This allows errors.Is() to work with *Error types.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode
}

// Temporary returns true if the request may succeed when retried.
//
// Rate limiting (429) and server errors (5xx) are temporary.
func (e *Error) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// newError builds an *Error from a response status and body.
//
// The Web API reports errors as {"error":{"status":401,"message":"..."}}
// while the accounts service uses {"error":"invalid_client",
// "error_description":"..."}. Both shapes are understood.
func newError(statusCode int, body []byte) *Error {
	e := &Error{
		StatusCode: statusCode,
		Body:       strings.TrimSpace(string(body)),
	}

	if gjson.ValidBytes(body) {
		result := gjson.ParseBytes(body)
		switch {
		case result.Get("error.message").Exists():
			e.Message = result.Get("error.message").String()
		case result.Get("error_description").Exists():
			e.Message = result.Get("error_description").String()
		case result.Get("error").Type == gjson.String:
			e.Message = result.Get("error").String()
		}
	}

	if e.Message == "" {
		e.Message = http.StatusText(statusCode)
	}

	return e
}

// Predefined errors for common cases.
var (
	// ErrNoToken is returned when a request requires a bearer token but
	// none has been set.
	ErrNoToken = fmt.Errorf("spotify: access token required")

	// ErrTokenExpired is returned when the bearer token has passed its
	// expiry. Client-credentials tokens are not refreshed.
	ErrTokenExpired = fmt.Errorf("spotify: access token expired")
)

// Common HTTP statuses returned by the API.
var (
	ErrUnauthorized    = &Error{StatusCode: http.StatusUnauthorized}
	ErrNotFound        = &Error{StatusCode: http.StatusNotFound}
	ErrTooManyRequests = &Error{StatusCode: http.StatusTooManyRequests}
)
