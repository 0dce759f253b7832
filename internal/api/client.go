// Package api is the UrbanNest REST client. Reads go through a bounded
// fixed-delay retry (the backend cold-starts on its free tier); writes
// run exactly once.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Client struct {
	baseURL string
	httpc   *http.Client
	retries int
	delay   time.Duration
	logger  zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpc = h } }

func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.retries = attempts
		}
		c.delay = delay
	}
}

func New(baseURL string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
		retries: 3,
		delay:   time.Second,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is a non-2xx response, with the backend's {"error": ...}
// message when one was sent.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("status %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("status %d", e.Code)
}

// getJSON fetches path and decodes the body into out, retrying on any
// failure (transport or non-2xx) up to the attempt ceiling with a fixed
// delay in between. The delay is flat, not exponential: the backend
// cold-starts on its free tier and is usually warm by the second try.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		lastErr = c.doJSON(ctx, http.MethodGet, path, "", nil, out)
		if lastErr == nil {
			return nil
		}
		c.logger.Warn().Err(lastErr).Int("attempt", attempt).Str("path", path).Msg("fetch failed")
		if attempt == c.retries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.delay):
		}
	}
	return fmt.Errorf("after %d attempts: %w", c.retries, lastErr)
}

func (c *Client) postJSON(ctx context.Context, path, token string, in, out interface{}) error {
	return c.doJSON(ctx, http.MethodPost, path, token, in, out)
}

func (c *Client) putJSON(ctx context.Context, path, token string, in, out interface{}) error {
	return c.doJSON(ctx, http.MethodPut, path, token, in, out)
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &StatusError{Code: res.StatusCode, Message: errorMessage(data)}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}
