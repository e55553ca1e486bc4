// Package api is an HTTP client for a running SimpleAPI server
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/simplemediator-go/internal/application/items/commands"
	"github.com/andrescamacho/simplemediator-go/internal/domain/item"
	"github.com/andrescamacho/simplemediator-go/internal/domain/shared"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = 200 * time.Millisecond
)

// APIError is a non-2xx response the client does not retry
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// Is lets callers match a conflict against item.ErrItemExists, the same way
// they would when dispatching in process
func (e *APIError) Is(target error) bool {
	return e.StatusCode == http.StatusConflict && target == item.ErrItemExists
}

// Client calls the item endpoints of a SimpleAPI server
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	breaker     *CircuitBreaker
	baseURL     string
	token       string
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
}

// Option configures a Client
type Option func(*Client)

// WithToken sends token as a bearer token on every request
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithRetry sets the retry budget and the base of the exponential backoff
func WithRetry(maxRetries int, backoffBase time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.backoffBase = backoffBase
	}
}

// WithRateLimit limits outgoing requests to rps per second
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.rateLimiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// WithCircuitBreaker replaces the default breaker
func WithCircuitBreaker(maxFailures int, timeout time.Duration) Option {
	return func(c *Client) { c.breaker = NewCircuitBreaker(maxFailures, timeout, c.clock) }
}

// WithClock sets the clock used for backoff sleeps. Apply it before WithCircuitBreaker.
func WithClock(clock shared.Clock) Option {
	return func(c *Client) {
		c.clock = clock
		c.breaker.clock = clock
	}
}

// NewClient creates a client for the server at baseURL, e.g. http://localhost:8080.
// By default it sends at most 10 requests per second, retries 3 times with
// 200ms exponential backoff plus jitter and opens its breaker after 5 failures.
func NewClient(baseURL string, opts ...Option) *Client {
	clock := shared.NewRealClock()
	c := &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		rateLimiter: rate.NewLimiter(rate.Limit(10), 10),
		breaker:     NewCircuitBreaker(5, 30*time.Second, clock),
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxRetries:  defaultMaxRetries,
		backoffBase: defaultBackoffBase,
		clock:       clock,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListItems returns the catalog names in order
func (c *Client) ListItems(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.request(ctx, http.MethodGet, "/api/items", nil, &names); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return names, nil
}

// AddItem appends name to the catalog
func (c *Client) AddItem(ctx context.Context, name string) (*commands.AddItemResponse, error) {
	var resp commands.AddItemResponse
	body := map[string]string{"name": name}
	if err := c.request(ctx, http.MethodPost, "/api/items", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	return &resp, nil
}

// Ping checks that the server answers its heartbeat
func (c *Client) Ping(ctx context.Context) error {
	return c.request(ctx, http.MethodGet, "/ping", nil, nil)
}

// request runs one call through the breaker. Client errors (4xx) do not count
// as breaker failures.
func (c *Client) request(ctx context.Context, method, path string, body, result any) error {
	var clientErr error
	err := c.breaker.Call(func() error {
		err := c.do(ctx, method, path, body, result)
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
			clientErr = err
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	return clientErr
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if ctx.Err() != nil {
				return fmt.Errorf("context cancelled: %w", ctx.Err())
			}
			c.clock.Sleep(c.backoff(attempt-1, lastErr))
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		status, header, respBody, err := c.send(ctx, method, path, payload)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("context cancelled: %w", ctx.Err())
			}
			lastErr = &retryableError{message: fmt.Sprintf("network error: %v", err)}
			continue
		}

		switch {
		case status == http.StatusTooManyRequests:
			lastErr = &retryableError{message: "rate limited (429)", retryAfter: parseRetryAfter(header)}
			continue
		case status >= http.StatusInternalServerError:
			lastErr = &retryableError{message: fmt.Sprintf("server error (%d): %s", status, errorMessage(respBody))}
			continue
		case status < 200 || status >= 300:
			return &APIError{StatusCode: status, Message: errorMessage(respBody)}
		}

		if result != nil {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("failed to unmarshal response: %w", err)
			}
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (int, http.Header, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, resp.Header, respBody, nil
}

// backoff returns the delay before retry n (0-based). A server supplied
// Retry-After wins over the jittered exponential delay.
func (c *Client) backoff(n int, lastErr error) time.Duration {
	var retryErr *retryableError
	if errors.As(lastErr, &retryErr) && retryErr.retryAfter > 0 {
		return retryErr.retryAfter
	}
	return addJitter(c.backoffBase * time.Duration(1<<n))
}

// addJitter scales d by a random factor between 0.5 and 1.5
func addJitter(d time.Duration) time.Duration {
	jitter := 0.5 + rand.Float64()
	return time.Duration(float64(d) * jitter)
}

func parseRetryAfter(h http.Header) time.Duration {
	if seconds, err := strconv.Atoi(h.Get("Retry-After")); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}

// errorMessage extracts the message of an {"error": "..."} body
func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}

// retryableError represents an error that should trigger a retry
type retryableError struct {
	message    string
	retryAfter time.Duration
}

func (e *retryableError) Error() string {
	return e.message
}
