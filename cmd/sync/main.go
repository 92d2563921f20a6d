package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/HiwarkhedePrasad/ycceRAG/internal/config"
	"github.com/HiwarkhedePrasad/ycceRAG/internal/contextutil"
	"github.com/HiwarkhedePrasad/ycceRAG/internal/crawler"
	"github.com/HiwarkhedePrasad/ycceRAG/internal/embedding"
	"github.com/HiwarkhedePrasad/ycceRAG/internal/extractor"
	"github.com/HiwarkhedePrasad/ycceRAG/internal/ingest"
	"github.com/HiwarkhedePrasad/ycceRAG/internal/pipeline"
	"github.com/HiwarkhedePrasad/ycceRAG/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Ctrl-C stops the run between URL batches, not mid-batch
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = contextutil.WithLogger(ctx, logger.With("run_id", uuid.NewString()))

	// Initialize Qdrant vector store
	store, err := vectorstore.NewQdrantStore(cfg.QdrantURL, cfg.QdrantAPIKey, cfg.QdrantCollection)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	defer func() {
		_ = store.Close()
	}()

	// Ensure collection exists with correct vector size
	if err := store.EnsureCollection(ctx, cfg.VectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.VectorSize)

	embedder := embedding.NewClient(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.VectorSize)

	splitter, err := ingest.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("Failed to create splitter: %v", err)
	}

	spider := crawler.New(cfg.TargetDomain, cfg.MaxPages, cfg.MaxPDFs, time.Duration(cfg.CrawlDelayMS)*time.Millisecond)

	p := pipeline.New(spider, extractor.New(), splitter, embedder, store, cfg.SitemapPath)

	slog.Info("Starting sync", "target", cfg.TargetDomain, "max_pages", cfg.MaxPages, "max_pdfs", cfg.MaxPDFs)
	summary, err := p.Run(ctx)
	if err != nil {
		log.Fatalf("Sync failed: %v", err)
	}

	slog.Info("Sync finished",
		"documents", summary.Documents,
		"chunks", summary.Chunks,
		"uploaded", summary.Uploaded,
		"new_urls", summary.NewURLs,
		"changed_urls", summary.ChangedURLs,
		"elapsed", summary.Elapsed.Round(time.Millisecond).String(),
	)
}
