// ABOUTME: Single-shot HTTP GET client used by the job finder to read postings.
// ABOUTME: Follows redirects, sends a fixed user agent, and reports failures as *Error.

package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Defaults applied when Config fields are zero.
const (
	DefaultUserAgent = "Puch/1.0 (Autonomous)"
	DefaultTimeout   = 30 * time.Second
	maxRedirects     = 10
)

// Page is a successfully fetched response body.
type Page struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
}

// Error reports a failed fetch. Transport failures set Cause; HTTP error
// responses set StatusCode.
type Error struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Failed to fetch %s: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("Failed to fetch %s - status code %d", e.URL, e.StatusCode)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Fetcher retrieves a single URL.
type Fetcher interface {
	Fetch(ctx context.Context, url, userAgent string) (*Page, error)
}

// Config configures a Client.
type Config struct {
	Timeout   time.Duration
	UserAgent string
	Logger    *slog.Logger
}

// Client is the resty-backed Fetcher. It never retries.
type Client struct {
	http      *resty.Client
	userAgent string
	logger    *slog.Logger
}

// NewClient creates a Client from cfg, filling defaults for zero fields.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects))

	return &Client{
		http:      r,
		userAgent: cfg.UserAgent,
		logger:    cfg.Logger.With("component", "fetch"),
	}
}

// Fetch performs one GET. An empty userAgent falls back to the client default.
func (c *Client) Fetch(ctx context.Context, url, userAgent string) (*Page, error) {
	if userAgent == "" {
		userAgent = c.userAgent
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("User-Agent", userAgent).
		Get(url)
	if err != nil {
		c.logger.Warn("fetch failed", "url", url, "error", err)
		return nil, &Error{URL: url, Cause: err}
	}

	c.logger.Debug("fetched", "url", url, "status", resp.StatusCode(), "bytes", len(resp.Body()), "duration", time.Since(start))

	if resp.StatusCode() >= 400 {
		return nil, &Error{URL: url, StatusCode: resp.StatusCode()}
	}

	return &Page{
		URL:         url,
		Body:        resp.Body(),
		ContentType: resp.Header().Get("Content-Type"),
		StatusCode:  resp.StatusCode(),
	}, nil
}
