// ABOUTME: Web search provider that scrapes the DuckDuckGo HTML results page.
// ABOUTME: Failures and empty pages collapse to single-element sentinel results.

package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// Sentinel results. Callers treat either as "no results".
const (
	SentinelFailed    = "<error>Failed to perform search.</error>"
	SentinelNoResults = "<error>No results found.</error>"
)

// Defaults applied when Config fields are zero.
const (
	DefaultEndpoint   = "https://html.duckduckgo.com/html/"
	DefaultMaxResults = 5
	DefaultUserAgent  = "Puch/1.0 (Autonomous)"
	DefaultTimeout    = 30 * time.Second
)

const resultSelector = "a.result__a"

// Provider returns result links for a query. Implementations never return an
// empty slice: no results are reported through a sentinel element.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) []string
}

// IsSentinel reports whether links is one of the sentinel results.
func IsSentinel(links []string) bool {
	return len(links) == 1 && (links[0] == SentinelFailed || links[0] == SentinelNoResults)
}

// Config configures a DuckDuckGo provider.
type Config struct {
	Endpoint  string
	UserAgent string
	Timeout   time.Duration
	Logger    *slog.Logger
}

// DuckDuckGo scrapes the no-JavaScript DuckDuckGo results page.
type DuckDuckGo struct {
	http      *resty.Client
	endpoint  string
	userAgent string
	logger    *slog.Logger
}

// NewDuckDuckGo creates a provider from cfg, filling defaults for zero fields.
func NewDuckDuckGo(cfg Config) *DuckDuckGo {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &DuckDuckGo{
		http:      resty.New().SetTimeout(cfg.Timeout).SetRetryCount(0),
		endpoint:  cfg.Endpoint,
		userAgent: cfg.UserAgent,
		logger:    cfg.Logger.With("component", "search"),
	}
}

// QueryURL builds the results page URL for query. Spaces become '+'; no
// other escaping is applied.
func (d *DuckDuckGo) QueryURL(query string) string {
	return d.endpoint + "?q=" + strings.ReplaceAll(query, " ", "+")
}

// Search performs one results page fetch and returns up to maxResults links.
// A non-positive maxResults uses DefaultMaxResults.
func (d *DuckDuckGo) Search(ctx context.Context, query string, maxResults int) []string {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	resp, err := d.http.R().
		SetContext(ctx).
		SetHeader("User-Agent", d.userAgent).
		SetDoNotParseResponse(true).
		Get(d.QueryURL(query))
	if err != nil {
		d.logger.Warn("search request failed", "query", query, "error", err)
		return []string{SentinelFailed}
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != 200 {
		d.logger.Warn("search returned non-200", "query", query, "status", resp.StatusCode())
		return []string{SentinelFailed}
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		d.logger.Warn("search page unreadable", "query", query, "error", err)
		return []string{SentinelFailed}
	}

	links := ParseResults(doc, maxResults)
	d.logger.Debug("search complete", "query", query, "results", len(links))
	if len(links) == 0 {
		return []string{SentinelNoResults}
	}
	return links
}

// ParseResults extracts result hrefs containing "http" in document order.
func ParseResults(doc *goquery.Document, maxResults int) []string {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	var links []string
	doc.Find(resultSelector).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if ok && strings.Contains(href, "http") {
			links = append(links, href)
		}
		return len(links) < maxResults
	})
	return links
}
