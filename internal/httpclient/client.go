// Package httpclient provides the HTTP client used to talk to the remote catalog.
// Requests are plain GETs; transient failures are retried with exponential backoff.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	// DefaultTimeout is used when a zero timeout is given
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize bounds the body accepted from a successful response
	MaxResponseSize = 100 * 1024 * 1024

	// maxErrorBodySize bounds the body kept on an HTTPError
	maxErrorBodySize = 64 * 1024

	// maxLoggedBodySize bounds the body written to the log on final failure
	maxLoggedBodySize = 1024

	defaultUserAgent = "catalog-sync/1.0"
)

// Client fetches a URL and returns the response body
type Client interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Option configures a DefaultClient
type Option func(*DefaultClient)

// WithRetry enables retries of failed requests. A request is attempted at most
// maxRetries+1 times. The delay before retry n is backoffFactor * 2^(n-1).
// Network errors and the listed statuses are retried, everything else fails at once.
func WithRetry(maxRetries int, backoffFactor time.Duration, statusCodes []int) Option {
	return func(c *DefaultClient) {
		if maxRetries < 0 {
			maxRetries = 0
		}
		c.maxRetries = maxRetries
		c.backoffFactor = backoffFactor
		c.retryStatuses = slices.Clone(statusCodes)
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(userAgent string) Option {
	return func(c *DefaultClient) {
		c.userAgent = userAgent
	}
}

// WithHTTPClient replaces the underlying *http.Client
func WithHTTPClient(client *http.Client) Option {
	return func(c *DefaultClient) {
		c.client = client
	}
}

// DefaultClient is the Client implementation backed by net/http
type DefaultClient struct {
	client        *http.Client
	userAgent     string
	maxRetries    int
	backoffFactor time.Duration
	retryStatuses []int
}

// NewDefaultClient creates a client with the given per-attempt timeout
func NewDefaultClient(timeout time.Duration, opts ...Option) *DefaultClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &DefaultClient{
		client:    &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET request, retrying transient failures
func (c *DefaultClient) Get(ctx context.Context, url string) ([]byte, error) {
	attempt := 0
	operation := func() ([]byte, error) {
		attempt++
		data, err := c.get(ctx, url)
		if err == nil {
			return data, nil
		}
		if !c.retryable(ctx, err) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	data, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(uint(c.maxRetries+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Warn("Retrying request",
				"url", url,
				"attempt", attempt,
				"next_in", next,
				"error", err)
		}),
	)
	if err != nil {
		logFailure(url, attempt, err)
		return nil, err
	}
	return data, nil
}

func (c *DefaultClient) newBackOff() backoff.BackOff {
	if c.maxRetries == 0 {
		return &backoff.ZeroBackOff{}
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.backoffFactor
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = c.backoffFactor << c.maxRetries
	return b
}

func (c *DefaultClient) retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return slices.Contains(c.retryStatuses, httpErr.StatusCode)
	}
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return reqErr.transient
	}
	return false
}

func (c *DefaultClient) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &requestError{err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &requestError{err: fmt.Errorf("failed to execute request: %w", err), transient: true}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		httpErr := NewHTTPError(resp.StatusCode, url, http.StatusText(resp.StatusCode))
		httpErr.Body = string(body)
		return nil, httpErr
	}

	if resp.ContentLength > MaxResponseSize {
		return nil, &requestError{err: sizeError(resp.ContentLength)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, &requestError{err: fmt.Errorf("failed to read response body: %w", err), transient: true}
	}
	if len(data) > MaxResponseSize {
		return nil, &requestError{err: sizeError(int64(len(data)))}
	}

	return data, nil
}

func sizeError(size int64) error {
	return fmt.Errorf("response size %d bytes exceeds maximum allowed size of %.2f MB",
		size, float64(MaxResponseSize)/(1024*1024))
}

func logFailure(url string, attempts int, err error) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		body := httpErr.Body
		if len(body) > maxLoggedBodySize {
			body = body[:maxLoggedBodySize] + "..."
		}
		slog.Error("Remote request failed",
			"url", url,
			"status", httpErr.StatusCode,
			"attempts", attempts,
			"body", body)
		return
	}
	slog.Error("Remote request failed", "url", url, "attempts", attempts, "error", err)
}

// requestError wraps failures that happen before a status code is known
type requestError struct {
	err       error
	transient bool
}

func (e *requestError) Error() string { return e.err.Error() }

func (e *requestError) Unwrap() error { return e.err }
