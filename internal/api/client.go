// Package api implements the typed HTTP client for the Athletic Insider
// REST API. It is a thin wrapper: every method maps to exactly one endpoint,
// takes a context, and returns either a decoded body or an *APIError.
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

	"github.com/google/uuid"

	"insider/internal/logging"
)

// TokenSource supplies the persisted bearer token. An empty string means
// no credentials; authenticated requests are then sent without the
// Authorization header and the server answers 401.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-string TokenSource, mostly for tests.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// Client talks to the remote API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewClient creates an API client. httpClient may be nil, in which case a
// client with a 30s timeout is used.
func NewClient(baseURL string, tokens TokenSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
	}
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// newRequest builds a JSON request. When authed is true the bearer token is
// attached if one is available.
func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}, authed bool) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if authed {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// do executes the request and decodes a 2xx JSON body into out (out may be
// nil when the body is irrelevant). Non-2xx responses become *APIError.
func (c *Client) do(req *http.Request, out interface{}) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logging.APIError("%s %s failed: %v", req.Method, req.URL.Path, err)
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	logging.APIDebug("%s %s -> %d (%s)", req.Method, req.URL.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return newAPIError(resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// get is a convenience wrapper for GET requests.
func (c *Client) get(ctx context.Context, path string, out interface{}, authed bool) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, authed)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// Ping checks API connectivity via the unauthenticated test endpoint.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/users/test/", nil, false)
}
