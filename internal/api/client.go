// Package api is the HTTP client for the library backend.
//
// The client never turns a non-2xx response into a Go error: every completed
// request yields a Reply whose OK method the caller inspects, mirroring the
// fetch-style contract the dashboard is built around. Only transport-level
// failures (no response at all) surface as errors, wrapped in ErrUnreachable
// so callers can show a connectivity-specific message.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// ErrUnreachable marks transport failures where no response was received.
// Distinct from any error the API itself reports.
var ErrUnreachable = errors.New("cannot reach the library API")

const (
	defaultTimeout  = 15 * time.Second
	maxResponseSize = 8 << 20
)

// Client issues authenticated JSON requests against a fixed base URL.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger enables request/response debug logging.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetToken replaces the bearer token (after login/logout).
func (c *Client) SetToken(token string) {
	c.token = token
}

// Reply is a completed HTTP exchange: status plus raw body.
type Reply struct {
	Status int
	Body   []byte
}

// OK reports whether the response status is in the 2xx range.
func (r *Reply) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Decode unmarshals the reply body into v. Unparseable bodies leave v at its
// zero value rather than failing; the dashboard must keep rendering even when
// the backend sends garbage.
func (r *Reply) Decode(v any) {
	if len(r.Body) == 0 {
		return
	}

	_ = json.Unmarshal(r.Body, v)
}

// Do performs a request against path. A non-nil body is JSON-encoded and sent
// with a JSON content type. The bearer token is attached when present.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Reply, error) {
	url := c.baseURL + path

	var bodyReader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.log.Debug().Str("method", method).Str("url", url).Msg("api request")

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("url", url).Msg("api transport failure")

		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnreachable, err)
	}

	c.log.Debug().Int("status", resp.StatusCode).Int("bytes", len(raw)).Str("url", url).Msg("api response")

	return &Reply{Status: resp.StatusCode, Body: raw}, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string) (*Reply, error) {
	return c.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with a JSON body (nil for no body).
func (c *Client) Post(ctx context.Context, path string, body any) (*Reply, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Reply, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}
