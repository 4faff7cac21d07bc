// SPDX-License-Identifier: MIT

// Package fetch provides the retry-wrapped HTTP client used for every
// upstream call. Retries are bounded with a fixed inter-attempt delay; there
// is deliberately no exponential backoff, jitter or circuit breaking.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"retrogate/internal/log"
	"retrogate/internal/metrics"
)

var (
	// ErrUnavailable marks an upstream that could not be reached or kept
	// returning errors after all attempts were exhausted.
	ErrUnavailable = errors.New("upstream unavailable")

	// ErrNotFound marks a well-formed upstream response that carried no
	// results. Callers must treat this differently from ErrUnavailable:
	// "location not found" is an answer, "service unreachable" is not.
	ErrNotFound = errors.New("not found")
)

// Options configures a Client.
type Options struct {
	Attempts int           // total tries, default 3
	Timeout  time.Duration // per-attempt timeout, default 5s
	Backoff  time.Duration // fixed delay between attempts, default 500ms
}

// Client issues outbound requests with bounded retries.
type Client struct {
	http     *http.Client
	attempts int
	backoff  time.Duration
}

// New returns a Client with the given options, applying defaults for zero
// values.
func New(opts Options) *Client {
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 500 * time.Millisecond
	}
	return &Client{
		http:     &http.Client{Timeout: opts.Timeout},
		attempts: opts.Attempts,
		backoff:  opts.Backoff,
	}
}

// Do issues the request built by build once per attempt until a 2xx response
// arrives. The request must be rebuilt per attempt because bodies are
// consumed. On success the response body is open and owned by the caller.
func (c *Client) Do(ctx context.Context, build func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	logger := log.WithComponentFromContext(ctx, "fetch")

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(c.backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			metrics.UpstreamRetries.Inc()
		}

		req, err := build(ctx)
		if err != nil {
			return nil, err
		}

		res, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			logger.Warn().Err(err).
				Str("url", req.URL.String()).
				Int("attempt", attempt).
				Int("max_attempts", c.attempts).
				Msg("upstream request failed")
			continue
		}
		if res.StatusCode < 200 || res.StatusCode > 299 {
			_ = res.Body.Close()
			lastErr = fmt.Errorf("status %d", res.StatusCode)
			logger.Warn().
				Str("url", req.URL.String()).
				Int("status", res.StatusCode).
				Int("attempt", attempt).
				Int("max_attempts", c.attempts).
				Msg("upstream returned error status")
			continue
		}
		return res, nil
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrUnavailable, c.attempts, lastErr)
}

// GetJSON fetches url and decodes the response body into out. A body that
// fails to decode counts as a failed attempt and is retried.
func (c *Client) GetJSON(ctx context.Context, url string, header http.Header, out any) error {
	return c.doJSON(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		applyHeader(req, header)
		return req, nil
	}, out)
}

// PostJSON posts body as JSON to url and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, url string, header http.Header, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	return c.doJSON(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		applyHeader(req, header)
		return req, nil
	}, out)
}

func (c *Client) doJSON(ctx context.Context, build func(ctx context.Context) (*http.Request, error), out any) error {
	logger := log.WithComponentFromContext(ctx, "fetch")

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(c.backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			metrics.UpstreamRetries.Inc()
		}

		req, err := build(ctx)
		if err != nil {
			return err
		}

		res, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		data, err := io.ReadAll(res.Body)
		_ = res.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if res.StatusCode < 200 || res.StatusCode > 299 {
			lastErr = fmt.Errorf("status %d", res.StatusCode)
			logger.Warn().
				Str("url", req.URL.String()).
				Int("status", res.StatusCode).
				Int("attempt", attempt).
				Msg("upstream returned error status")
			continue
		}
		if err := json.Unmarshal(data, out); err != nil {
			lastErr = fmt.Errorf("decode body: %w", err)
			logger.Warn().Err(err).
				Str("url", req.URL.String()).
				Int("attempt", attempt).
				Msg("upstream returned malformed body")
			continue
		}
		return nil
	}
	return fmt.Errorf("%w after %d attempts: %v", ErrUnavailable, c.attempts, lastErr)
}

func applyHeader(req *http.Request, header http.Header) {
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
}
