// Package client is a small SDK for the folder API. It mirrors what the web
// UI does: a cached folder list with manual refetch, mutation helpers that
// normalize server errors into readable messages, and a session guard that
// refuses to call out without a qualifying session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// DefaultTimeout is the default HTTP timeout for API requests.
const DefaultTimeout = 30 * time.Second

// ErrSessionRequired is returned when a mutation is attempted without a
// qualifying session. Callers should prompt for re-authentication.
var ErrSessionRequired = errors.New("session required")

// TokenSource supplies the bearer token for API calls. Return an error to
// signal that no qualifying session exists.
type TokenSource interface {
	Token() (string, error)
}

// StaticToken is a TokenSource backed by a fixed string.
type StaticToken string

func (t StaticToken) Token() (string, error) {
	if t == "" {
		return "", ErrSessionRequired
	}
	return string(t), nil
}

// Client talks to the folder API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource

	mu     sync.Mutex
	cached []Folder
	loaded bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the API at baseURL (no trailing slash).
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope mirrors the server's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// do performs an authenticated request and decodes the success payload into
// dest (which may be nil). API errors come back as plain errors carrying the
// server's message; the caller prefixes the operation.
func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	token, err := c.tokens.Token()
	if err != nil {
		return ErrSessionRequired
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(raw))
	}

	if !env.Success {
		if env.Error != nil {
			return errors.New(env.Error.Message)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if dest != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
