// Package reviewsapi is the HTTP client for the reviews endpoints. It is the
// Fetcher the list controller runs against.
package reviewsapi

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"company_reviews/internal/adapters/observability"
	"company_reviews/internal/domain"
)

const service = "reviews-api"

type Client struct {
	base     string
	hc       *http.Client
	rl       *rate.Limiter
	attempts int
}

// Option adjusts a Client built by New.
type Option func(*Client)

// WithMaxAttempts bounds how many times one request is sent, the first send
// included. 1 disables retries.
func WithMaxAttempts(n int) Option {
	return func(c *Client) { c.attempts = max(n, 1) }
}

func New(base string, rps int, opts ...Option) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid reviews API base URL %q", base)
	}
	if rps <= 0 {
		rps = 5
	}
	c := &Client{
		base:     strings.TrimRight(base, "/"),
		hc:       &http.Client{Timeout: 20 * time.Second},
		rl:       rate.NewLimiter(rate.Limit(rps), rps),
		attempts: 4,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// StatusError is a non-retryable answer from the API; Message is the server's
// "message" field when present.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("reviews api: status %d", e.Status)
	}
	return fmt.Sprintf("reviews api: status %d: %s", e.Status, e.Message)
}

// ---- Public API ----

func (c *Client) FetchPage(ctx context.Context, page, limit int) ([]domain.Review, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	var out struct {
		Reviews []domain.Review `json:"reviews"`
	}
	if err := c.get(ctx, "/reviews", q, &out); err != nil {
		return nil, err
	}
	if out.Reviews == nil {
		out.Reviews = []domain.Review{}
	}
	return out.Reviews, nil
}

func (c *Client) FetchCount(ctx context.Context) (int, error) {
	var out struct {
		ReviewsCount *int `json:"reviewsCount"`
	}
	if err := c.get(ctx, "/reviews/count", nil, &out); err != nil {
		return 0, err
	}
	if out.ReviewsCount == nil {
		return 0, fmt.Errorf("%w: reviewsCount missing from response", domain.ErrNetwork)
	}
	return *out.ReviewsCount, nil
}

// ---- Internals ----

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var lastErr error
	for i := 0; i < c.attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "company-reviews-client/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(service, path, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("%w: GET %s: %v", domain.ErrNetwork, path, err)
			if i < c.attempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal(service, path, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("%w: decode %s: %v", domain.ErrNetwork, path, err)
			}
			return nil

		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			lastErr = &StatusError{Status: resp.StatusCode, Message: readMessage(resp.Body)}
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			if i < c.attempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			se := &StatusError{Status: resp.StatusCode, Message: readMessage(resp.Body)}
			resp.Body.Close()
			return se
		}
	}

	return lastErr
}

// readMessage pulls "message" out of a JSON error body, falling back to the
// trimmed text of a small prefix.
func readMessage(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return strings.TrimSpace(string(b))
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles from 100ms per attempt with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 100 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
