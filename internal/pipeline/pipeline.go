package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/HiwarkhedePrasad/ycceRAG/internal/contextutil"
	"github.com/HiwarkhedePrasad/ycceRAG/internal/crawler"
	"github.com/HiwarkhedePrasad/ycceRAG/internal/extractor"
	"github.com/HiwarkhedePrasad/ycceRAG/internal/ingest"
	"github.com/HiwarkhedePrasad/ycceRAG/internal/vectorstore"
)

// Discoverer enumerates the content URLs to process.
type Discoverer interface {
	Discover(ctx context.Context, sitemapPath string) (crawler.Result, error)
}

// Extractor turns URLs into clean-text documents.
type Extractor interface {
	Page(ctx context.Context, url string) extractor.Outcome
	PDF(ctx context.Context, url string) extractor.Outcome
}

// Embedder scores one text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Summary is the structured output of one sync run.
type Summary struct {
	Documents   int
	Chunks      int
	Uploaded    int
	NewURLs     int
	ChangedURLs int
	Elapsed     time.Duration
}

// Pipeline orchestrates one full sync run: discovery, extraction, chunking,
// fingerprinting, change detection and storage convergence. Newly observed
// content always supersedes what is stored for the same URL.
type Pipeline struct {
	crawler     Discoverer
	extractor   Extractor
	splitter    *ingest.Splitter
	embedder    Embedder
	store       vectorstore.Store
	sitemapPath string
}

// New assembles a Pipeline from its collaborators.
func New(
	crawler Discoverer,
	extractor Extractor,
	splitter *ingest.Splitter,
	embedder Embedder,
	store vectorstore.Store,
	sitemapPath string,
) *Pipeline {
	return &Pipeline{
		crawler:     crawler,
		extractor:   extractor,
		splitter:    splitter,
		embedder:    embedder,
		store:       store,
		sitemapPath: sitemapPath,
	}
}

// Run executes the sync and returns its summary. Per-URL replacement is
// delete-then-insert with no transaction spanning the pair: a crash between
// the two leaves that URL's content absent until the next successful run.
// Cancellation is honored between per-URL batches only, so an in-flight
// delete+insert pair always completes.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	logger := contextutil.LoggerFromContext(ctx)
	start := time.Now()
	summary := &Summary{}

	// Phase 1: discovery.
	discovered, err := p.crawler.Discover(ctx, p.sitemapPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDiscovery, err)
	}

	// Phase 2: extraction. Failures are per-item: logged, skipped, never
	// fatal.
	var docs []*ingest.Document
	for _, pageURL := range sorted(discovered.Pages) {
		if out := p.extractor.Page(ctx, pageURL); out.Skipped() {
			logger.WarnContext(ctx, "skipping page", "url", pageURL, "reason", out.Skip)
		} else {
			docs = append(docs, out.Doc)
		}
	}
	for _, pdfURL := range sorted(discovered.PDFs) {
		if out := p.extractor.PDF(ctx, pdfURL); out.Skipped() {
			logger.WarnContext(ctx, "skipping pdf", "url", pdfURL, "reason", out.Skip)
		} else {
			docs = append(docs, out.Doc)
		}
	}
	summary.Documents = len(docs)
	logger.InfoContext(ctx, "extraction complete", "documents", len(docs))

	if len(docs) == 0 {
		logger.WarnContext(ctx, "no documents extracted, nothing to do")
		summary.Elapsed = time.Since(start)
		return summary, nil
	}

	// Phase 3: chunking.
	var chunks []ingest.Chunk
	for _, doc := range docs {
		chunks = append(chunks, p.splitter.ChunkDocument(doc)...)
	}
	summary.Chunks = len(chunks)
	logger.InfoContext(ctx, "chunking complete", "chunks", len(chunks), "documents", len(docs))

	// Phase 4: fingerprint and detect changes against stored state.
	ingest.FingerprintChunks(chunks)

	prior, err := p.store.Fingerprints(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	changed := ingest.ChangedURLs(chunks, prior)
	fresh := ingest.NewURLs(chunks, prior)
	summary.ChangedURLs = len(changed)
	summary.NewURLs = len(fresh)

	processing := ingest.NewSet()
	for url := range changed {
		processing.Add(url)
	}
	for url := range fresh {
		processing.Add(url)
	}

	if len(processing) == 0 {
		logger.InfoContext(ctx, "no changes detected, store is up to date")
		summary.Elapsed = time.Since(start)
		return summary, nil
	}
	logger.InfoContext(ctx, "changes detected", "new_urls", len(fresh), "changed_urls", len(changed))

	// Phase 5: purge stale records for changed URLs. New URLs have nothing
	// stored, so deletion is skipped for them.
	for _, url := range sorted(changed) {
		if err := p.store.DeleteURL(ctx, url); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
	}

	// Phase 6: embed every chunk in the processing set, one at a time.
	var upload []ingest.Chunk
	for _, c := range chunks {
		if processing.Contains(c.URL) {
			upload = append(upload, c)
		}
	}

	vectors := make([][]float32, len(upload))
	for i, c := range upload {
		vec, err := p.embedder.Embed(ctx, c.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEmbedding, err)
		}
		vectors[i] = vec
		if (i+1)%10 == 0 || i == len(upload)-1 {
			logger.InfoContext(ctx, "embedding progress", "done", i+1, "total", len(upload))
		}
	}

	// Phase 7: insert each URL's full chunk set as one batch.
	byURL := make(map[string][]vectorstore.Record)
	now := time.Now().UTC()
	for i, c := range upload {
		byURL[c.URL] = append(byURL[c.URL], vectorstore.Record{
			URL:         c.URL,
			ChunkIndex:  c.Index,
			Content:     c.Content,
			Fingerprint: c.Fingerprint,
			Embedding:   vectors[i],
			Title:       c.Title,
			Kind:        c.Kind,
			UpdatedAt:   now,
		})
	}

	urls := make([]string, 0, len(byURL))
	for url := range byURL {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records := byURL[url]
		sort.Slice(records, func(i, j int) bool { return records[i].ChunkIndex < records[j].ChunkIndex })
		if err := p.store.InsertBatch(ctx, records); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		summary.Uploaded += len(records)
	}

	summary.Elapsed = time.Since(start)
	logger.InfoContext(ctx, "sync complete",
		"documents", summary.Documents,
		"chunks", summary.Chunks,
		"uploaded", summary.Uploaded,
		"new_urls", summary.NewURLs,
		"changed_urls", summary.ChangedURLs,
		"elapsed", summary.Elapsed,
	)
	return summary, nil
}

// sorted returns a set's members in lexical order for deterministic
// processing and logs.
func sorted(s ingest.Set) []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
