// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/sotonavi/internal/logging"
	"github.com/tomtom215/sotonavi/internal/metrics"
)

// maxErrorBodySize limits how much of a failed response is kept for diagnostics.
const maxErrorBodySize = 512

// maxBodySize bounds a successful JSON body. The full index of a large
// deployment is a few megabytes.
const maxBodySize = 32 << 20

// Config holds fetch client settings.
type Config struct {
	// Timeout bounds one request including reading the body.
	Timeout time.Duration
	// RequestsPerSecond paces outgoing requests; 0 disables pacing.
	RequestsPerSecond float64
	// Burst is the limiter burst size.
	Burst int
	// UserAgent sent with every request.
	UserAgent string
	// Breaker configures the per-host circuit breakers.
	Breaker BreakerSettings
}

// DefaultConfig returns the fetch defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:           10 * time.Second,
		RequestsPerSecond: 20,
		Burst:             10,
		UserAgent:         "sotonavi/1.0",
		Breaker:           DefaultBreakerSettings(),
	}
}

// Client performs strict JSON fetches.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	settings  BreakerSettings

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (used by tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a fetch client.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.Breaker.MaxRequests == 0 {
		cfg.Breaker = DefaultBreakerSettings()
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: cfg.UserAgent,
		settings:  cfg.Breaker,
		breakers:  make(map[string]*gobreaker.CircuitBreaker[any]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchJSONStrict GETs rawURL and returns the decoded JSON value.
//
// The value is whatever the body holds: map[string]any, []any, or a scalar.
// Exactly one request is made; nothing is cached or retried.
//
// Returns:
//   - *NetworkError when the request cannot be completed
//   - *HTTPError when the status is not 2xx
//   - *NotJSONError when the content type is not JSON
//   - *DecodeError when the body is not valid JSON
func (c *Client) FetchJSONStrict(ctx context.Context, rawURL string) (any, error) {
	start := time.Now()
	resource := resourceLabel(rawURL)

	value, err := c.fetch(ctx, rawURL)
	metrics.RecordFetch(resource, Outcome(err), time.Since(start))
	if err != nil {
		logging.Ctx(ctx).Debug().
			Err(err).
			Str("url", rawURL).
			Str("resource", resource).
			Msg("Strict JSON fetch failed")
		return nil, err
	}
	return value, nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) (any, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		if err == nil {
			err = errors.New("missing host")
		}
		return nil, &NetworkError{URL: rawURL, Err: fmt.Errorf("invalid url: %w", err)}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &NetworkError{URL: rawURL, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	return execute(c.breaker(u.Host), rawURL, func() (any, error) {
		return c.do(ctx, rawURL)
	})
}

func (c *Client) do(ctx context.Context, rawURL string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: fmt.Errorf("create request failed: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			URL:         rawURL,
			StatusCode:  resp.StatusCode,
			ContentType: contentType,
			Body:        readBodyForError(resp.Body),
		}
	}

	if !isJSONMediaType(contentType) {
		return nil, &NotJSONError{
			URL:         rawURL,
			StatusCode:  resp.StatusCode,
			ContentType: contentType,
			Body:        readBodyForError(resp.Body),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &NetworkError{URL: rawURL, Err: fmt.Errorf("read body: %w", err)}
	}

	var value any
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, &DecodeError{URL: rawURL, Err: err, Body: excerpt(body)}
	}
	return value, nil
}

// breaker returns the circuit breaker for host, creating it on first use.
func (c *Client) breaker(host string) *gobreaker.CircuitBreaker[any] {
	c.mu.Lock()
	defer c.mu.Unlock()

	cb, ok := c.breakers[host]
	if !ok {
		cb = newBreaker("upstream-"+host, c.settings)
		c.breakers[host] = cb
	}
	return cb
}

// isJSONMediaType accepts application/json, text/json and any +json suffix type.
func isJSONMediaType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch {
	case mt == "application/json", mt == "text/json":
		return true
	case strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json"):
		return true
	}
	return false
}

// readBodyForError reads at most maxErrorBodySize bytes of the body for
// diagnostics, marking the excerpt when it was cut short.
func readBodyForError(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize+1))
	if err != nil && len(body) == 0 {
		return "(failed to read response body)"
	}
	return excerpt(body)
}

func excerpt(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) > maxErrorBodySize {
		return string(body[:maxErrorBodySize]) + "\n... (truncated)"
	}
	return string(body)
}

// resourceLabel derives a low-cardinality metric label from a data URL.
func resourceLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	if t := u.Query().Get("type"); t != "" {
		return "legacy_" + t
	}
	if strings.Contains(u.Path, "/events/") {
		return "event_detail"
	}
	base := strings.TrimSuffix(path.Base(u.Path), ".json")
	if base == "" || base == "." || base == "/" {
		return "root"
	}
	return base
}
