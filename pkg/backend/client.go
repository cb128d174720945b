package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	motoko "github.com/aretw0/motoko-mcp"
)

const (
	// HeaderAPIKey carries the static credential on every request.
	HeaderAPIKey = "x-api-key"

	// EndpointContext is the retrieval endpoint.
	EndpointContext = "/api/v1/context"
	// EndpointGenerate is the generation endpoint.
	EndpointGenerate = "/api/v1/generate"

	// DefaultTimeout bounds a single round trip so a tool call never hangs.
	DefaultTimeout = 60 * time.Second

	maxErrorBody = 1 << 20
)

// Observer is notified after every round trip. Status is 0 when no response
// was received.
type Observer interface {
	ObserveRequest(endpoint string, status int, d time.Duration, err error)
}

// Client talks to the Motoko backend. It only holds configuration and is safe
// for concurrent use.
type Client struct {
	baseURL   string
	apiKey    string
	userAgent string
	http      *http.Client
	timeout   time.Duration
	observer  Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Zero keeps the default.
// It applies regardless of option order and never mutates a client passed
// to WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithObserver registers a round-trip observer (e.g. metrics).
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		userAgent: motoko.Name + "/" + motoko.Version,
		http:      &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Context queries the retrieval endpoint.
func (c *Client) Context(ctx context.Context, req ContextRequest) (*ContextResponse, error) {
	var resp ContextResponse
	if err := c.post(ctx, EndpointContext, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Generate queries the generation endpoint.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	var resp GenerateResponse
	if err := c.post(ctx, EndpointGenerate, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) (err error) {
	start := time.Now()
	status := 0
	if c.observer != nil {
		defer func() {
			c.observer.ObserveRequest(endpoint, status, time.Since(start), err)
		}()
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderAPIKey, c.apiKey)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer res.Body.Close()
	status = res.StatusCode

	if res.StatusCode < 200 || res.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &Error{
			Endpoint:   endpoint,
			StatusCode: res.StatusCode,
			Body:       string(text),
		}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
