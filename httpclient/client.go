package httpclient

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// IHttpStatusHandler is an interface for handling HTTP request statuses
//
//go:generate mockgen -destination=mocks/status_handler.go . IHttpStatusHandler
type IHttpStatusHandler interface {
	// OnRequest handles a request attempt with its status result
	OnRequest(status string)
	// OnRetry handles retry events
	OnRetry()
}

// Attempt statuses reported to IHttpStatusHandler
const (
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusRateLimited = "rate_limited"
	StatusHTTPError   = "http_error"
)

// RetryOptions configures retry behavior for HTTP requests
type RetryOptions struct {
	MaxRetries        int // Total attempts per request; values below 1 mean a single attempt
	BaseBackoff       time.Duration
	LogPrefix         string
	ConnectionTimeout time.Duration // Timeout for establishing connection
	RequestTimeout    time.Duration // Total request timeout including reading response
}

// DefaultRetryOptions returns default retry options.
// A single attempt is made: retrying is opt-in.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries:        1,
		BaseBackoff:       1000 * time.Millisecond,
		LogPrefix:         "HTTP",
		ConnectionTimeout: 10 * time.Second,
		RequestTimeout:    30 * time.Second,
	}
}

// Client wraps an http.Client with retries, an optional rate limiter and
// status reporting. It serves http(s) and file URLs.
//
// Non-success responses are handed back to the caller as responses, not errors,
// once retries are exhausted.
type Client struct {
	Client        *http.Client
	Opts          RetryOptions
	StatusHandler IHttpStatusHandler
	Limiter       *rate.Limiter
}

// NewClient creates a new Client. handler and limiter may be nil.
func NewClient(opts RetryOptions, handler IHttpStatusHandler, limiter *rate.Limiter) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: opts.ConnectionTimeout,
		}).DialContext,
	}
	transport.RegisterProtocol("file", http.NewFileTransport(http.Dir("/")))

	return &Client{
		Client: &http.Client{
			Timeout:   opts.RequestTimeout,
			Transport: transport,
		},
		Opts:          opts,
		StatusHandler: handler,
		Limiter:       limiter,
	}
}

// NewLimiter builds a token bucket limiter from a per-minute rate.
// A non-positive rate disables limiting and returns nil.
func NewLimiter(ratePerMinute, burst int) *rate.Limiter {
	if ratePerMinute <= 0 {
		return nil
	}
	limit := rate.Limit(float64(ratePerMinute) / 60.0)
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(limit, burst)
}

// Do executes req, retrying transport failures and retryable statuses.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	var lastErr error
	attempts := c.Opts.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			log.Printf("%s: Retry %d/%d for %s after: %v",
				c.Opts.LogPrefix, attempt, attempts-1, req.URL.Redacted(), lastErr)
			c.onRetry()

			backoffDuration := calculateBackoffWithJitter(c.Opts.BaseBackoff, attempt)
			if err := sleepContext(req.Context(), backoffDuration); err != nil {
				c.onRequest(StatusError)
				return nil, err
			}
		}

		if c.Limiter != nil {
			if err := c.Limiter.Wait(req.Context()); err != nil {
				c.onRequest(StatusError)
				return nil, fmt.Errorf("rate limiter wait failed: %w", err)
			}
		}

		requestStart := time.Now()
		resp, err := c.Client.Do(req)
		requestDuration := time.Since(requestStart)

		if err != nil {
			lastErr = fmt.Errorf("request failed after %.2fs: %w", requestDuration.Seconds(), err)
			c.onRequest(StatusError)
			if req.Context().Err() != nil {
				return nil, lastErr
			}
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			c.onRequest(StatusSuccess)
			return resp, nil
		}

		if isRetryableError(resp.StatusCode) && attempt < attempts-1 {
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			drainAndClose(resp.Body)
			c.onRequest(StatusRateLimited)
			continue
		}

		c.onRequest(StatusHTTPError)
		return resp, nil
	}

	return nil, fmt.Errorf("all %d attempts failed, last error: %w", attempts, lastErr)
}

func (c *Client) onRequest(status string) {
	if c.StatusHandler != nil {
		c.StatusHandler.OnRequest(status)
	}
}

func (c *Client) onRetry() {
	if c.StatusHandler != nil {
		c.StatusHandler.OnRetry()
	}
}

// calculateBackoffWithJitter calculates backoff duration with jitter for retries
func calculateBackoffWithJitter(baseBackoff time.Duration, attempt int) time.Duration {
	if attempt <= 0 || baseBackoff <= 0 {
		return baseBackoff
	}

	multiplier := uint(1) << uint(attempt-1)
	backoff := time.Duration(float64(baseBackoff) * float64(multiplier))
	if backoff/2 <= 0 {
		return backoff
	}
	jitter := time.Duration(rand.Int63n(int64(backoff / 2)))
	return backoff + jitter
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	body.Close()
}

// isRetryableError determines if a given HTTP status code should trigger a retry
func isRetryableError(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusInternalServerError ||
		statusCode == http.StatusBadGateway ||
		statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusGatewayTimeout
}
