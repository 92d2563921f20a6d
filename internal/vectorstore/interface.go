package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_store.go -package=mocks github.com/HiwarkhedePrasad/ycceRAG/internal/vectorstore Store

import (
	"context"
	"time"

	"github.com/HiwarkhedePrasad/ycceRAG/internal/ingest"
)

// Record is the durable unit in the vector store: one chunk with its
// embedding and metadata, keyed by (URL, ChunkIndex).
type Record struct {
	URL         string
	ChunkIndex  int
	Content     string
	Fingerprint string
	Embedding   []float32
	Title       string
	Kind        ingest.Kind
	UpdatedAt   time.Time
}

// Store is the remote table the sync pipeline converges on. DeleteURL removes
// every record for that URL; InsertBatch receives one URL's full chunk set.
type Store interface {
	// EnsureCollection creates the backing collection if absent and
	// validates its vector size otherwise.
	EnsureCollection(ctx context.Context, vectorSize int) error

	// Fingerprints scans the full (url, fingerprint) relation in one pass
	// and groups fingerprints by URL.
	Fingerprints(ctx context.Context) (map[string]ingest.Set, error)

	// DeleteURL removes all records stored for url.
	DeleteURL(ctx context.Context, url string) error

	// InsertBatch inserts one URL's records, internally sub-batched.
	InsertBatch(ctx context.Context, records []Record) error
}
