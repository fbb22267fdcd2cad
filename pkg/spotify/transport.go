package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

const userAgent = "toptracks/1.0"

// get issues an authenticated GET request against the Web API and decodes
// the JSON response into v.
//
// It handles:
// - Token presence and expiry checks
// - Bearer authorization header
// - Error responses (*Error)
// - Retry with backoff when MaxAttempts > 1
// - Context cancellation
func (c *Client) get(ctx context.Context, path string, query url.Values, v interface{}) error {
	token := c.Token()
	if token == nil || token.AccessToken == "" {
		return ErrNoToken
	}
	if token.Expired(time.Now()) {
		return ErrTokenExpired
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	backoff := 1 * time.Second

	for i := 0; i < c.maxAttempts; i++ {
		c.logDebugf("spotify: GET %s (attempt %d/%d)", path, i+1, c.maxAttempts)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if shouldRetryNetworkError(err) && i < c.maxAttempts-1 {
				c.logDebugf("spotify: network error, retrying: %v", err)
				if !sleep(ctx, backoff) {
					return ctx.Err()
				}
				backoff = nextBackoff(backoff)
				continue
			}
			return fmt.Errorf("http request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			apiErr := newError(resp.StatusCode, body)
			if apiErr.Temporary() && i < c.maxAttempts-1 {
				c.logDebugf("spotify: temporary error, retrying: %v", apiErr)
				lastErr = apiErr
				if !sleep(ctx, retryDelay(resp, backoff)) {
					return ctx.Err()
				}
				backoff = nextBackoff(backoff)
				continue
			}
			return apiErr
		}

		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("failed to parse JSON response: %w", err)
		}

		c.logDebugf("spotify: GET %s succeeded", path)
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// shouldRetryNetworkError checks if a network error is retryable.
func shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// retryDelay honors a Retry-After header given in seconds, falling back to
// the current backoff.
func retryDelay(resp *http.Response, backoff time.Duration) time.Duration {
	if s := resp.Header.Get("Retry-After"); s != "" {
		if d, err := time.ParseDuration(s + "s"); err == nil && d >= 0 && d <= 30*time.Second {
			return d
		}
	}
	return backoff
}

// sleep waits for the specified duration or until context is cancelled.
// Returns true if sleep completed, false if context was cancelled.
func sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(duration):
		return true
	}
}

// nextBackoff calculates the next backoff duration with exponential increase.
// Maximum backoff is capped at 30 seconds.
func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > 30*time.Second {
		return 30 * time.Second
	}
	return next
}
