package storefront

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"gamecompare/internal/metrics"
)

const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = time.Second
	maxBodyBytes      = 8 << 20
	userAgent         = "gamecompare/1.0"
)

type Options struct {
	Platform   string
	MaxRetries int
	BaseDelay  time.Duration
	Breaker    *BreakerSettings
	Logger     *zap.Logger
}

type BreakerSettings struct {
	FailureThreshold uint32
	OpenTimeout      time.Duration
	HalfOpenRequests uint32
	Interval         time.Duration
}

// Client is the fetch-with-retry wrapper shared by the storefront adapters.
type Client struct {
	httpClient *http.Client
	platform   string
	maxRetries int
	baseDelay  time.Duration
	breaker    *gobreaker.CircuitBreaker[[]byte]
	logger     *zap.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewClient(httpClient *http.Client, opts Options) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.BaseDelay < 0 {
		opts.BaseDelay = 0
	}
	c := &Client{
		httpClient: httpClient,
		platform:   opts.Platform,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
		logger:     opts.Logger,
		sleep:      sleepCtx,
	}
	if opts.Breaker != nil {
		c.breaker = newBreaker(opts.Platform, *opts.Breaker, opts.Logger)
	}
	return c
}

func (c *Client) Platform() string {
	return c.platform
}

// GetJSON fetches url and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	_, err := c.Do(ctx, http.MethodGet, url, nil, out)
	return err
}

// PostJSON sends body as JSON and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, url string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	_, err = c.Do(ctx, http.MethodPost, url, payload, out)
	return err
}

// Do runs one logical request: up to maxRetries attempts, backing off
// baseDelay*2^k after failed attempt k, with no wait after the last one.
// Non-2xx statuses, network failures and undecodable bodies are all retried.
func (c *Client) Do(ctx context.Context, method, url string, body []byte, out any) ([]byte, error) {
	start := time.Now()
	defer func() {
		metrics.StorefrontLatency.WithLabelValues(c.platform).Observe(time.Since(start).Seconds())
	}()

	attempts := 0
	run := func() ([]byte, error) {
		var lastErr error
		for attempt := 0; attempt < c.maxRetries; attempt++ {
			attempts = attempt + 1
			if attempt > 0 {
				metrics.StorefrontRetries.WithLabelValues(c.platform).Inc()
			}
			raw, err := c.attempt(ctx, method, url, body, out)
			if err == nil {
				return raw, nil
			}
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if attempt < c.maxRetries-1 {
				backoff := c.baseDelay * time.Duration(1<<attempt)
				if c.logger != nil {
					c.logger.Debug("storefront request retry",
						zap.String("platform", c.platform),
						zap.String("url", url),
						zap.Int("attempt", attempt+1),
						zap.Duration("backoff", backoff),
						zap.Error(err),
					)
				}
				if err := c.sleep(ctx, backoff); err != nil {
					return nil, err
				}
			}
		}
		return nil, lastErr
	}

	var (
		raw []byte
		err error
	)
	if c.breaker != nil {
		raw, err = c.breaker.Execute(run)
	} else {
		raw, err = run()
	}
	if err == nil {
		metrics.StorefrontRequests.WithLabelValues(c.platform, "ok").Inc()
		return raw, nil
	}
	metrics.StorefrontRequests.WithLabelValues(c.platform, outcome(err)).Inc()
	return nil, &TransportError{Platform: c.platform, URL: url, Attempts: attempts, Err: err}
}

func (c *Client) attempt(ctx context.Context, method, url string, body []byte, out any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Body: truncate(string(raw), 512)}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return raw, nil
}

func outcome(err error) string {
	var apiErr *APIError
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	case errors.As(err, &apiErr):
		return "http_error"
	default:
		return "network_error"
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
