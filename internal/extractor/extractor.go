package extractor

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/HiwarkhedePrasad/ycceRAG/internal/contextutil"
	"github.com/HiwarkhedePrasad/ycceRAG/internal/ingest"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Pages with less extracted text than this are treated as error pages or
// redirects and skipped.
const minContentLength = 50

// Outcome is the result of one extraction attempt: either a document or a
// skip with its reason. A skip is not an error; the run continues.
type Outcome struct {
	Doc  *ingest.Document
	Skip string
}

// Skipped reports whether the URL produced no document.
func (o Outcome) Skipped() bool {
	return o.Doc == nil
}

func skip(reason string, args ...any) Outcome {
	return Outcome{Skip: fmt.Sprintf(reason, args...)}
}

// Extractor fetches URLs and turns them into clean-text documents.
type Extractor struct {
	client *http.Client
}

// New creates an Extractor with a bounded fetch timeout.
func New() *Extractor {
	return &Extractor{client: &http.Client{Timeout: 30 * time.Second}}
}

// Page fetches an HTML page and extracts its content-bearing text, stripping
// navigation, scripts and other boilerplate via readability.
func (e *Extractor) Page(ctx context.Context, pageURL string) Outcome {
	logger := contextutil.LoggerFromContext(ctx)

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return skip("invalid URL: %v", err)
	}

	resp, err := e.get(ctx, pageURL)
	if err != nil {
		logger.WarnContext(ctx, "page fetch failed", "url", pageURL, "error", err)
		return skip("fetch failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return skip("status %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return skip("readability parse failed: %v", err)
	}

	text := collapseBlankLines(article.TextContent)
	if len(text) < minContentLength {
		return skip("too little content (%d chars)", len(text))
	}

	title := strings.TrimSpace(article.Title)
	doc, err := ingest.NewDocument(pageURL, title, ingest.KindPage, text)
	if err != nil {
		return skip("invalid document: %v", err)
	}
	return Outcome{Doc: doc}
}

func (e *Extractor) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	return e.client.Do(req)
}

// collapseBlankLines trims every line and drops the empty ones.
func collapseBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, "\n")
}
