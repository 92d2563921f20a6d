package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/HiwarkhedePrasad/ycceRAG/internal/contextutil"
	"github.com/HiwarkhedePrasad/ycceRAG/internal/ingest"
)

const (
	// insertBatchSize bounds one upsert request.
	insertBatchSize = 100

	// scrollPageSize bounds one fingerprint scan page.
	scrollPageSize = 256
)

// QdrantStore implements Store using Qdrant.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
}

// NewQdrantStore creates a Qdrant-backed store. urlStr should be in the
// format "http://host:port" (e.g. "http://localhost:6333"); the gRPC port is
// derived from the HTTP port.
func NewQdrantStore(urlStr, apiKey, collection string) (*QdrantStore, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	// gRPC port is typically the HTTP port + 1; 6334 by default.
	port := 6334
	if parsedURL.Port() != "" {
		if httpPort, err := strconv.Atoi(parsedURL.Port()); err == nil {
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: parsedURL.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	return &QdrantStore{client: client, collection: collection}, nil
}

// Close releases the underlying gRPC connection.
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// EnsureCollection creates the collection if it does not exist and validates
// the vector size if it does.
func (s *QdrantStore) EnsureCollection(ctx context.Context, vectorSize int) error {
	logger := contextutil.LoggerFromContext(ctx)

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if !exists {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     uint64(vectorSize),
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		logger.InfoContext(ctx, "collection created", "collection", s.collection, "vector_size", vectorSize)
		return nil
	}

	info, err := s.client.GetCollectionInfo(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to get collection info: %w", err)
	}
	config := info.GetConfig()
	if config == nil || config.GetParams() == nil {
		return fmt.Errorf("collection config is invalid")
	}
	params := config.GetParams().GetVectorsConfig().GetParams()
	if params == nil {
		return fmt.Errorf("collection vectors config is invalid")
	}
	if int(params.GetSize()) != vectorSize {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, params.GetSize())
	}

	logger.InfoContext(ctx, "collection validated", "collection", s.collection, "vector_size", vectorSize)
	return nil
}

// Fingerprints scrolls the whole collection once, reading only the url and
// fingerprint payload fields, and groups fingerprints by URL.
func (s *QdrantStore) Fingerprints(ctx context.Context) (map[string]ingest.Set, error) {
	logger := contextutil.LoggerFromContext(ctx)

	prior := make(map[string]ingest.Set)
	limit := uint32(scrollPageSize)

	var offset *qdrant.PointId
	for {
		points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: s.collection,
			Limit:          &limit,
			Offset:         offset,
			WithPayload:    qdrant.NewWithPayloadInclude("url", "fingerprint"),
			WithVectors:    qdrant.NewWithVectorsEnable(false),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scroll fingerprints: %w", err)
		}
		if len(points) == 0 {
			break
		}

		for _, point := range points {
			payload := point.GetPayload()
			u := payload["url"].GetStringValue()
			fp := payload["fingerprint"].GetStringValue()
			if u == "" || fp == "" {
				continue
			}
			set, ok := prior[u]
			if !ok {
				set = ingest.NewSet()
				prior[u] = set
			}
			set.Add(fp)
		}

		if len(points) < scrollPageSize {
			break
		}
		offset = points[len(points)-1].GetId()
	}

	logger.InfoContext(ctx, "loaded prior fingerprints", "collection", s.collection, "urls", len(prior))
	return prior, nil
}

// DeleteURL removes every point whose url payload matches.
func (s *QdrantStore) DeleteURL(ctx context.Context, pageURL string) error {
	logger := contextutil.LoggerFromContext(ctx)

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.collection,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch("url", pageURL)},
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to delete records for %s: %w", pageURL, err)
	}

	logger.InfoContext(ctx, "deleted stale records", "url", pageURL)
	return nil
}

// InsertBatch upserts one URL's records in sub-batches. Point IDs are
// derived deterministically from (url, chunk_index) so a re-insert of the
// same key overwrites rather than duplicates.
func (s *QdrantStore) InsertBatch(ctx context.Context, records []Record) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(records) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(records))
	for _, rec := range records {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(pointID(rec.URL, rec.ChunkIndex)),
			Vectors: qdrant.NewVectors(rec.Embedding...),
			Payload: qdrant.NewValueMap(recordPayload(rec)),
		})
	}

	for start := 0; start < len(points); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(points) {
			end = len(points)
		}
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: s.collection,
			Points:         points[start:end],
		})
		if err != nil {
			return fmt.Errorf("failed to insert batch for %s: %w", records[0].URL, err)
		}
		logger.InfoContext(ctx, "inserted batch", "url", records[0].URL, "rows", end-start)
	}

	return nil
}

// pointID derives a stable UUID for a (url, chunk index) pair.
func pointID(pageURL string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s#%d", pageURL, index))).String()
}

// recordPayload flattens a Record into the stored payload.
func recordPayload(rec Record) map[string]any {
	return map[string]any{
		"url":         rec.URL,
		"chunk_index": rec.ChunkIndex,
		"content":     rec.Content,
		"fingerprint": rec.Fingerprint,
		"title":       rec.Title,
		"type":        string(rec.Kind),
		"updated_at":  rec.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
