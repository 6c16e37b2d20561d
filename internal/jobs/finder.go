// ABOUTME: Job finder that analyses a description, reads a posting URL, or searches.
// ABOUTME: Branches in a fixed priority order and formats markdown for the agent.

package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Prahants/mcp-startup-generator/internal/extract"
	"github.com/Prahants/mcp-startup-generator/internal/fetch"
	"github.com/Prahants/mcp-startup-generator/internal/search"
)

// ErrInvalidParams is returned when a request has no description, no URL, and
// a goal that does not ask for a search.
var ErrInvalidParams = errors.New("Please provide either a job description, a job URL, or a search query in user_goal.")

// Phrases in the goal that trigger a web search.
var searchTriggers = []string{"look for", "find"}

// Request is one job_finder invocation.
type Request struct {
	Goal        string
	Description string
	URL         string
	Raw         bool
}

// Config wires a Finder to its collaborators.
type Config struct {
	Fetcher    fetch.Fetcher
	Search     search.Provider
	UserAgent  string
	MaxResults int
	Logger     *slog.Logger
}

// Finder answers job-related requests.
type Finder struct {
	fetcher    fetch.Fetcher
	search     search.Provider
	userAgent  string
	maxResults int
	logger     *slog.Logger
}

// NewFinder creates a Finder. Fetcher and Search must be non-nil.
func NewFinder(cfg Config) *Finder {
	if cfg.UserAgent == "" {
		cfg.UserAgent = fetch.DefaultUserAgent
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = search.DefaultMaxResults
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Finder{
		fetcher:    cfg.Fetcher,
		search:     cfg.Search,
		userAgent:  cfg.UserAgent,
		maxResults: cfg.MaxResults,
		logger:     cfg.Logger.With("component", "jobs"),
	}
}

// Find resolves a request. A description wins over a URL, which wins over a
// search goal. Fetch failures are returned as *fetch.Error.
func (f *Finder) Find(ctx context.Context, req Request) (string, error) {
	switch {
	case req.Description != "":
		return analysis(req.Description, req.Goal), nil

	case req.URL != "":
		page, err := f.fetcher.Fetch(ctx, req.URL, f.userAgent)
		if err != nil {
			return "", err
		}
		res := extract.Extract(page.Body, page.ContentType, req.Raw)
		f.logger.Debug("job posting fetched", "url", req.URL, "content_type", page.ContentType, "raw", req.Raw)
		return fmt.Sprintf("🔗 **Fetched Job Posting from URL**: %s\n\n---\n%s\n---\n\nUser Goal: **%s**",
			req.URL, strings.TrimSpace(res.Content), req.Goal), nil

	case wantsSearch(req.Goal):
		links := f.search.Search(ctx, req.Goal, f.maxResults)
		var b strings.Builder
		fmt.Fprintf(&b, "🔍 **Search Results for**: _%s_\n\n", req.Goal)
		for i, link := range links {
			if i > 0 {
				b.WriteByte('\n')
			}
			fmt.Fprintf(&b, "- %s", link)
		}
		return b.String(), nil

	default:
		return "", ErrInvalidParams
	}
}

func analysis(description, goal string) string {
	return fmt.Sprintf("📝 **Job Description Analysis**\n\n---\n%s\n---\n\nUser Goal: **%s**\n\n"+
		"💡 Suggestions:\n- Tailor your resume.\n- Evaluate skill match.\n- Consider applying if relevant.",
		strings.TrimSpace(description), goal)
}

func wantsSearch(goal string) bool {
	g := strings.ToLower(goal)
	for _, trigger := range searchTriggers {
		if strings.Contains(g, trigger) {
			return true
		}
	}
	return false
}
