package vectorstore

import (
	"testing"
	"time"

	"github.com/HiwarkhedePrasad/ycceRAG/internal/ingest"
)

func TestPointID(t *testing.T) {
	a := pointID("https://ycce.edu/a", 0)
	b := pointID("https://ycce.edu/a", 0)
	if a != b {
		t.Errorf("pointID() not deterministic: %s != %s", a, b)
	}

	if pointID("https://ycce.edu/a", 1) == a {
		t.Error("pointID() equal for different chunk indexes")
	}
	if pointID("https://ycce.edu/b", 0) == a {
		t.Error("pointID() equal for different URLs")
	}
}

func TestRecordPayload(t *testing.T) {
	updated := time.Date(2026, 2, 14, 10, 30, 0, 0, time.UTC)
	rec := Record{
		URL:         "https://ycce.edu/a",
		ChunkIndex:  2,
		Content:     "chunk text",
		Fingerprint: ingest.Fingerprint("chunk text"),
		Title:       "A page",
		Kind:        ingest.KindPage,
		UpdatedAt:   updated,
	}

	payload := recordPayload(rec)

	if payload["url"] != rec.URL {
		t.Errorf("payload url = %v", payload["url"])
	}
	if payload["chunk_index"] != 2 {
		t.Errorf("payload chunk_index = %v", payload["chunk_index"])
	}
	if payload["fingerprint"] != rec.Fingerprint {
		t.Errorf("payload fingerprint = %v", payload["fingerprint"])
	}
	if payload["type"] != "html" {
		t.Errorf("payload type = %v, want html", payload["type"])
	}
	if payload["updated_at"] != "2026-02-14T10:30:00Z" {
		t.Errorf("payload updated_at = %v", payload["updated_at"])
	}
}

func TestNewQdrantStore(t *testing.T) {
	tests := []struct {
		name    string
		urlStr  string
		wantErr bool
	}{
		{name: "valid URL", urlStr: "http://localhost:6333", wantErr: false},
		{name: "https URL", urlStr: "https://qdrant.example.com:6333", wantErr: false},
		{name: "invalid URL", urlStr: "://invalid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewQdrantStore(tt.urlStr, "", "ycce_knowledge")
			if (err != nil) != tt.wantErr {
				t.Errorf("NewQdrantStore(%q) error = %v, wantErr %v", tt.urlStr, err, tt.wantErr)
			}
		})
	}
}
