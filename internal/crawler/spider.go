package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/HiwarkhedePrasad/ycceRAG/internal/contextutil"
	"github.com/HiwarkhedePrasad/ycceRAG/internal/ingest"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Result is the outcome of discovery: the sets of page and PDF URLs to
// process. Membership, not order, is meaningful.
type Result struct {
	Pages ingest.Set
	PDFs  ingest.Set
}

// Crawler enumerates content URLs under a target domain, preferring a
// declared sitemap and falling back to a bounded breadth-first crawl.
type Crawler struct {
	seed     string
	maxPages int
	maxPDFs  int
	client   *http.Client
	limiter  *rate.Limiter
}

// New creates a Crawler scoped to the seed's domain. delay is the minimum
// interval between successive page fetches during BFS.
func New(seed string, maxPages, maxPDFs int, delay time.Duration) *Crawler {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Crawler{
		seed:     seed,
		maxPages: maxPages,
		maxPDFs:  maxPDFs,
		client:   &http.Client{Timeout: 15 * time.Second},
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Discover returns the authoritative set of content URLs. If a sitemap file
// exists at sitemapPath it is parsed and trusted; otherwise the crawler walks
// outward from the seed.
func (c *Crawler) Discover(ctx context.Context, sitemapPath string) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if sitemapPath != "" {
		if _, err := os.Stat(sitemapPath); err == nil {
			f, err := os.Open(sitemapPath)
			if err != nil {
				return Result{}, fmt.Errorf("opening sitemap %s: %w", sitemapPath, err)
			}
			defer func() {
				_ = f.Close()
			}()

			res, err := parseSitemap(f, c.maxPages, c.maxPDFs)
			if err != nil {
				return Result{}, fmt.Errorf("parsing sitemap %s: %w", sitemapPath, err)
			}
			logger.InfoContext(ctx, "discovered from sitemap", "path", sitemapPath, "pages", len(res.Pages), "pdfs", len(res.PDFs))
			return res, nil
		}
		logger.InfoContext(ctx, "no sitemap found, falling back to crawl", "path", sitemapPath)
	}

	return c.bfs(ctx)
}

// bfs walks the link graph breadth-first from the seed. The visited set,
// domain-scope filter and result caps bound the walk on arbitrary link
// graphs.
func (c *Crawler) bfs(ctx context.Context) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	seedURL, err := url.Parse(c.seed)
	if err != nil {
		return Result{}, fmt.Errorf("invalid seed URL %s: %w", c.seed, err)
	}
	scope := baseDomain(seedURL.Host)

	visited := ingest.NewSet()
	res := Result{Pages: ingest.NewSet(), PDFs: ingest.NewSet()}
	frontier := []string{c.seed}

	logger.InfoContext(ctx, "starting crawl", "seed", c.seed, "domain", scope)

	for len(frontier) > 0 {
		if len(res.Pages) >= c.maxPages && len(res.PDFs) >= c.maxPDFs {
			logger.InfoContext(ctx, "crawl caps reached, stopping", "pages", len(res.Pages), "pdfs", len(res.PDFs))
			break
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		raw := frontier[0]
		frontier = frontier[1:]

		loc, ok := normalizeURL(raw)
		if !ok || visited.Contains(loc) {
			continue
		}
		visited.Add(loc)

		parsed, err := url.Parse(loc)
		if err != nil || baseDomain(parsed.Host) != scope {
			continue
		}

		if strings.HasSuffix(strings.ToLower(parsed.Path), ".pdf") {
			if len(res.PDFs) < c.maxPDFs {
				res.PDFs.Add(loc)
				logger.DebugContext(ctx, "found pdf", "url", loc, "count", len(res.PDFs))
			}
			// PDFs are leaves; nothing to traverse into.
			continue
		}

		if len(res.Pages) >= c.maxPages {
			continue
		}

		links, ok := c.fetchPage(ctx, parsed)
		if !ok {
			continue
		}
		res.Pages.Add(loc)
		logger.DebugContext(ctx, "found page", "url", loc, "count", len(res.Pages))

		for _, link := range links {
			linkURL, err := url.Parse(link)
			if err != nil {
				continue
			}
			if baseDomain(linkURL.Host) == scope {
				frontier = append(frontier, link)
			}
		}
	}

	logger.InfoContext(ctx, "crawl complete", "pages", len(res.Pages), "pdfs", len(res.PDFs))
	return res, nil
}

// fetchPage retrieves one page and returns its outbound absolute links. Any
// failure (limiter interrupted, transport error, non-success status, non-HTML
// body) means the page is skipped, not retried.
func (c *Crawler) fetchPage(ctx context.Context, page *url.URL) ([]string, bool) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, page.String(), nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		logger.WarnContext(ctx, "fetch failed, skipping", "url", page.String(), "error", err)
		return nil, false
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.WarnContext(ctx, "non-success status, skipping", "url", page.String(), "status", resp.StatusCode)
		return nil, false
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		return nil, false
	}

	// Resolve relative links against the final URL after redirects.
	base := page
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL
	}
	return extractLinks(base, resp.Body), true
}

// extractLinks pulls every <a href> out of an HTML document, resolves it
// against base and filters out non-content schemes.
func extractLinks(base *url.URL, r io.Reader) []string {
	doc, err := html.Parse(r)
	if err != nil {
		return nil
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				href := strings.TrimSpace(attr.Val)
				if href == "" ||
					strings.HasPrefix(href, "javascript:") ||
					strings.HasPrefix(href, "mailto:") ||
					strings.HasPrefix(href, "tel:") ||
					strings.HasPrefix(href, "#") {
					continue
				}
				ref, err := url.Parse(href)
				if err != nil {
					continue
				}
				links = append(links, base.ResolveReference(ref).String())
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return links
}

// baseDomain normalizes a network authority for scope comparison: lowercased
// with a leading "www." label removed.
func baseDomain(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// normalizeURL strips the fragment and trailing slash and rejects anything
// that is not a fetchable http(s) address.
func normalizeURL(raw string) (string, bool) {
	loc := strings.TrimSpace(raw)
	if i := strings.Index(loc, "#"); i >= 0 {
		loc = loc[:i]
	}
	loc = strings.TrimRight(loc, "/")
	if !strings.HasPrefix(loc, "http://") && !strings.HasPrefix(loc, "https://") {
		return "", false
	}
	return loc, true
}
