package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/reel/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 2
	baseRetryDelay    = 500 * time.Millisecond

	// maxErrorBody bounds how much of an error response is kept for messages
	maxErrorBody = 4 << 10
)

// Client is the HTTP client for the video API. It holds no credentials:
// every authenticated call takes the bearer token as a parameter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithMaxRetries sets how often a GET is retried after a 5xx response
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryDelay sets the first backoff delay; later attempts double it
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// WithRateLimit throttles outgoing requests to rps per second. Zero disables it.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new API client for baseURL (e.g. http://host/api)
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		maxRetries: defaultMaxRetries,
		retryDelay: baseRetryDelay,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one API call
type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	token       string // bearer credential; empty for anonymous calls
}

// jsonRequest builds a request with a JSON-encoded body
func jsonRequest(method, path string, payload any) (request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	return request{
		method:      method,
		path:        path,
		body:        strings.NewReader(string(data)),
		contentType: "application/json",
	}, nil
}

// newHTTPRequest turns r into an *http.Request with the standard headers
func (c *Client) newHTTPRequest(ctx context.Context, r request, requestID string) (*http.Request, error) {
	reqURL := c.baseURL + r.path
	if len(r.query) > 0 {
		reqURL += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, reqURL, r.body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	return req, nil
}

// do performs r and returns the response body of a 2xx reply.
// GETs are retried with exponential backoff on 5xx; other methods are sent once.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	attempts := 1
	if r.method == http.MethodGet {
		attempts += c.maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "path", r.path)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		requestID := uuid.NewString()
		req, err := c.newHTTPRequest(ctx, r, requestID)
		if err != nil {
			return nil, err
		}

		c.logger.Debug("api request",
			"method", r.method,
			"path", r.path,
			"query", r.query.Encode(),
			"attempt", attempt,
			"request_id", requestID,
		)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Error("api request failed", "error", err, "path", r.path, "request_id", requestID)
			return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}

		apiErr := newAPIError(resp.StatusCode, body)

		if resp.StatusCode >= 500 {
			lastErr = apiErr
			c.logger.Warn("api server error",
				"status", resp.StatusCode,
				"attempt", attempt,
				"maxRetries", attempts-1,
				"path", r.path,
				"request_id", requestID,
			)
			continue
		}

		c.logger.Debug("api request rejected", "status", resp.StatusCode, "path", r.path, "request_id", requestID)
		return nil, apiErr
	}

	c.logger.Error("api request failed after retries", "error", lastErr, "path", r.path)
	return nil, lastErr
}

// newAPIError builds an APIError, pulling the backend's message field if present
func newAPIError(status int, body []byte) *domain.APIError {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}

	var payload struct {
		Message string `json:"message"`
	}
	msg := ""
	if json.Unmarshal(body, &payload) == nil {
		msg = payload.Message
	}
	return &domain.APIError{StatusCode: status, Message: msg}
}

// decode unmarshals body into dest with a uniform error
func decode(body []byte, dest any) error {
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// statusOf returns the HTTP status carried by err, or 0
func statusOf(err error) int {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// ResolveMediaURL turns a file or thumbnail path from a video record into an
// absolute URL. Absolute URLs pass through; bare paths are served from the
// backend's public storage.
func (c *Client) ResolveMediaURL(path string) string {
	if path == "" {
		return ""
	}
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}

	origin := c.baseURL
	if u, err := url.Parse(c.baseURL); err == nil && u.Host != "" {
		origin = u.Scheme + "://" + u.Host
	}

	if strings.HasPrefix(path, "/") {
		return origin + path
	}
	return origin + "/storage/" + path
}
