// ABOUTME: Turns fetched page bytes into agent-friendly text.
// ABOUTME: HTML is reduced to its main content and converted to markdown; other types pass through.

package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// SentinelEmpty is returned as content when an HTML page yields nothing usable.
const SentinelEmpty = "<error>Page failed to be simplified from HTML</error>"

// noteRawFormat prefixes raw content for non-HTML content types.
const noteRawFormat = "Content type %s cannot be simplified to markdown, but here is the raw content:\n"

// Elements that never carry article content.
const boilerplateSelector = "script, style, noscript, template, iframe, svg, nav, header, footer, aside, form"

// Fallback containers when no block scores, most specific first.
var fallbackSelectors = []string{"article", "main", "[role=main]", "body"}

// Blocks whose text is scored and credited to their ancestors.
const scoredSelector = "p, pre, td, blockquote"

var (
	positiveHint = regexp.MustCompile(`(?i)article|body|content|entry|main|page|post|text|blog|story|description|posting`)
	negativeHint = regexp.MustCompile(`(?i)banner|combx|comment|contact|foot|masthead|media|meta|promo|related|scroll|share|sidebar|sponsor|shopping|tags|tool|widget|card|recommend`)
)

// FetchResult is extracted content plus an optional note for the caller.
type FetchResult struct {
	Content string
	Note    string
}

// Extract converts raw page bytes into a FetchResult. It never performs I/O.
func Extract(raw []byte, contentType string, forceRaw bool) FetchResult {
	if forceRaw {
		return FetchResult{Content: string(raw)}
	}

	if !strings.Contains(contentType, "text/html") {
		return FetchResult{
			Content: string(raw),
			Note:    fmt.Sprintf(noteRawFormat, contentType),
		}
	}

	return FetchResult{Content: HTMLToMarkdown(raw)}
}

// HTMLToMarkdown reduces an HTML document to its main content and renders it
// as markdown with ATX headings. It returns SentinelEmpty when nothing
// readable remains.
func HTMLToMarkdown(raw []byte) string {
	content, ok := mainContent(raw)
	if !ok {
		return SentinelEmpty
	}

	conv := md.NewConverter("", true, &md.Options{HeadingStyle: "atx"})
	out, err := conv.ConvertString(content)
	if err != nil || strings.TrimSpace(out) == "" {
		return SentinelEmpty
	}
	return out
}

func mainContent(raw []byte) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return "", false
	}
	doc.Find(boilerplateSelector).Remove()

	if top := bestCandidate(doc); top != nil {
		out, err := top.html()
		if err == nil && strings.TrimSpace(top.sel.Text()) != "" {
			return out, true
		}
	}

	for _, sel := range fallbackSelectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 || strings.TrimSpace(node.Text()) == "" {
			continue
		}
		html, err := goquery.OuterHtml(node)
		if err != nil {
			return "", false
		}
		return html, true
	}
	return "", false
}

// candidate is a container scored by the text blocks beneath it.
type candidate struct {
	sel      *goquery.Selection
	score    float64
	siblings []*goquery.Selection
}

func (c *candidate) html() (string, error) {
	var b strings.Builder
	for _, s := range append([]*goquery.Selection{c.sel}, c.siblings...) {
		h, err := goquery.OuterHtml(s)
		if err != nil {
			return "", err
		}
		b.WriteString(h)
	}
	return b.String(), nil
}

// bestCandidate picks the container holding the most prose. Each text block
// scores by length and commas; the score goes to its parent in full and to
// its grandparent at half. Scores are damped by link density, so a card of
// "see also" links loses to the posting beside it. Siblings scoring close to
// the winner are kept with it.
func bestCandidate(doc *goquery.Document) *candidate {
	// Keyed by the underlying *html.Node.
	scores := make(map[any]*candidate)
	var order []*candidate

	credit := func(s *goquery.Selection, points float64) {
		if s.Length() == 0 || goquery.NodeName(s) == "html" {
			return
		}
		key := s.Get(0)
		c, ok := scores[key]
		if !ok {
			c = &candidate{sel: s, score: baseScore(s)}
			scores[key] = c
			order = append(order, c)
		}
		c.score += points
	}

	doc.Find(scoredSelector).Each(func(_ int, block *goquery.Selection) {
		text := strings.TrimSpace(block.Text())
		if text == "" {
			return
		}
		points := 1 + float64(strings.Count(text, ",")) + min(float64(len(text))/100, 3)
		parent := block.Parent()
		credit(parent, points)
		credit(parent.Parent(), points/2)
	})

	var top *candidate
	for _, c := range order {
		c.score *= 1 - linkDensity(c.sel)
		if top == nil || c.score > top.score {
			top = c
		}
	}
	if top == nil || top.score <= 0 {
		return nil
	}

	threshold := max(10, top.score*0.2)
	top.sel.Siblings().Each(func(_ int, sib *goquery.Selection) {
		if c, ok := scores[sib.Get(0)]; ok && c.score >= threshold {
			top.siblings = append(top.siblings, sib)
		}
	})
	return top
}

// baseScore weights a container by its tag and its class and id names.
func baseScore(s *goquery.Selection) float64 {
	var score float64
	switch goquery.NodeName(s) {
	case "div", "article":
		score = 5
	case "pre", "td", "blockquote":
		score = 3
	case "ol", "ul", "dl", "dd", "dt", "li", "form":
		score = -3
	case "h1", "h2", "h3", "h4", "h5", "h6", "th":
		score = -5
	}

	for _, attr := range []string{"class", "id"} {
		v, ok := s.Attr(attr)
		if !ok || v == "" {
			continue
		}
		if negativeHint.MatchString(v) {
			score -= 25
		}
		if positiveHint.MatchString(v) {
			score += 25
		}
	}
	return score
}

// linkDensity is the share of a container's text that sits inside links.
func linkDensity(s *goquery.Selection) float64 {
	total := len(strings.TrimSpace(s.Text()))
	if total == 0 {
		return 0
	}
	var linked int
	s.Find("a").Each(func(_ int, a *goquery.Selection) {
		linked += len(strings.TrimSpace(a.Text()))
	})
	return min(float64(linked)/float64(total), 1)
}
