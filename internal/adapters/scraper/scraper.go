// Package scraper crawls the official website and produces the raw text
// corpus the index is built from. Crawling stays inside the start
// domain, skips non-HTML responses and strips everything that is not
// visible page text.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/campusrag/campusrag-go/internal/domain/entities"
)

const maxBodyBytes = 4 << 20 // per-page read cap

// Crawler fetches same-domain pages breadth-first up to a page limit.
type Crawler struct {
	client   *http.Client
	maxPages int
	cache    *PageCache
}

// NewCrawler creates a crawler. cache may be nil; when set, every
// fetched page is recorded so the corpus can be re-exported later
// without refetching.
func NewCrawler(maxPages int, cache *PageCache) *Crawler {
	if maxPages <= 0 {
		maxPages = 50
	}
	return &Crawler{
		client:   &http.Client{Timeout: 10 * time.Second},
		maxPages: maxPages,
		cache:    cache,
	}
}

// Crawl walks the site starting at baseURL and returns the extracted
// page texts in crawl order. Individual page failures are skipped, not
// fatal.
func (c *Crawler) Crawl(ctx context.Context, baseURL string) ([]entities.Page, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	visited := make(map[string]bool)
	queue := []string{normalizeURL(baseURL)}
	var pages []entities.Page

	for len(queue) > 0 && len(visited) < c.maxPages {
		select {
		case <-ctx.Done():
			return pages, ctx.Err()
		default:
		}

		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		doc, ok := c.fetchHTML(ctx, current)
		if !ok {
			continue
		}

		page := entities.Page{
			URL:       current,
			Text:      visibleText(doc),
			FetchedAt: time.Now().UTC(),
		}
		pages = append(pages, page)
		if c.cache != nil {
			if err := c.cache.Put(ctx, page); err != nil {
				log.Printf("[ERROR] caching %s: %v", current, err)
			}
		}

		pageURL, err := url.Parse(current)
		if err != nil {
			continue
		}
		for _, link := range extractLinks(doc, pageURL) {
			if sameHost(link, base) && !visited[link] {
				queue = append(queue, link)
			}
		}
	}

	log.Printf("[INFO] crawled %d pages from %s", len(pages), baseURL)
	return pages, nil
}

// fetchHTML gets one page and parses it; any failure just skips the page.
func (c *Crawler) fetchHTML(ctx context.Context, pageURL string) (*html.Node, bool) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[DEBUG] skipping %s: %v", pageURL, err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false
	}
	// Ignore PDFs, images and other non-HTML content.
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return nil, false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, false
	}
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, false
	}
	return doc, true
}

// skippedElements are removed wholesale before text extraction.
var skippedElements = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"header": true,
	"footer": true,
	"aside":  true,
	"form":   true,
}

// visibleText extracts cleaned visible text from a parsed document, one
// non-empty line per text fragment.
func visibleText(doc *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString("\n")
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	var lines []string
	for _, line := range strings.Split(sb.String(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// extractLinks resolves every anchor href against the page URL and
// returns normalized absolute http(s) URLs.
func extractLinks(doc *html.Node, pageURL *url.URL) []string {
	var links []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				ref, err := url.Parse(strings.TrimSpace(attr.Val))
				if err != nil {
					continue
				}
				resolved := pageURL.ResolveReference(ref)
				if resolved.Scheme != "http" && resolved.Scheme != "https" {
					continue
				}
				links = append(links, normalizeURL(resolved.String()))
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return links
}

// normalizeURL strips the fragment for consistent visited comparison.
func normalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""
	return u.String()
}

// sameHost reports whether link belongs to the crawl's start domain.
func sameHost(link string, base *url.URL) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}
