// Package wolfram queries the Wolfram|Alpha short-answer APIs for the data a
// claim is checked against.
package wolfram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jpillora/backoff"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.wolframalpha.com/v1"

// Verifier answers a Wolfram-style query with plain text.
type Verifier interface {
	Verify(ctx context.Context, query string) (string, error)
}

type Client struct {
	httpClient *http.Client
	log        *zap.Logger
	appID      string
	baseURL    string
	attempts   int
	minDelay   time.Duration
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithRetry sets the attempts per endpoint and the first backoff delay.
func WithRetry(attempts int, minDelay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.minDelay = minDelay
	}
}

func New(appID string, log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
		appID:      appID,
		baseURL:    defaultBaseURL,
		attempts:   3,
		minDelay:   500 * time.Millisecond,
	}
	for _, o := range opts {
		o(c)
	}
	if c.attempts <= 0 {
		c.attempts = 1
	}
	return c
}

// statusError is a non-200 answer from Wolfram.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("wolfram status %d: %s", e.code, e.body)
}

func (e *statusError) transient() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// Verify asks the short-answer endpoint first and the spoken-results
// endpoint second. When both fail the failure is reported as the answer
// text so a single unanswerable claim never aborts a fact check; only
// context cancellation is returned as an error.
func (c *Client) Verify(ctx context.Context, query string) (string, error) {
	answer, err := c.get(ctx, "result", query)
	if err == nil {
		return answer, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	c.log.Debug("wolfram result endpoint failed, trying spoken", zap.String("query", query), zap.Error(err))

	answer, err = c.get(ctx, "spoken", query)
	if err == nil {
		return answer, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	c.log.Warn("wolfram query failed", zap.String("query", query), zap.Error(err))

	var se *statusError
	if errors.As(err, &se) {
		return fmt.Sprintf("Error: Unable to verify. Status code: %d", se.code), nil
	}
	return fmt.Sprintf("Error: %v", err), nil
}

// get calls one endpoint, retrying transport errors, 429 and 5xx.
func (c *Client) get(ctx context.Context, endpoint, query string) (string, error) {
	b := &backoff.Backoff{Min: c.minDelay, Max: 10 * time.Second, Factor: 2, Jitter: true}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		answer, err := c.once(ctx, endpoint, query)
		if err == nil {
			return answer, nil
		}
		lastErr = err

		var se *statusError
		if errors.As(err, &se) && !se.transient() {
			return "", err
		}
		if attempt == c.attempts {
			break
		}

		t := time.NewTimer(b.Duration())
		select {
		case <-ctx.Done():
			t.Stop()
			return "", ctx.Err()
		case <-t.C:
		}
	}
	return "", lastErr
}

func (c *Client) once(ctx context.Context, endpoint, query string) (string, error) {
	params := url.Values{}
	params.Set("appid", c.appID)
	params.Set("i", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}
	return strings.TrimSpace(string(body)), nil
}
