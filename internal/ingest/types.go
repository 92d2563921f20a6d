package ingest

import "fmt"

// Kind identifies the source type of a document. The values double as the
// "type" metadata field stored alongside each chunk.
type Kind string

const (
	KindPage Kind = "html"
	KindPDF  Kind = "pdf"
)

// Document is one extracted unit of content, immutable once produced.
type Document struct {
	URL     string
	Title   string
	Kind    Kind
	Content string
}

// NewDocument validates required fields at construction so later stages can
// rely on them being present.
func NewDocument(url, title string, kind Kind, content string) (*Document, error) {
	if url == "" {
		return nil, fmt.Errorf("document has no URL")
	}
	if content == "" {
		return nil, fmt.Errorf("document %s has no content", url)
	}
	if title == "" {
		title = url
	}
	return &Document{URL: url, Title: title, Kind: kind, Content: content}, nil
}

// Chunk is a bounded slice of a document's content. Index is the zero-based
// position among sibling chunks of the same URL; Fingerprint is derived from
// Content alone.
type Chunk struct {
	URL         string
	Title       string
	Kind        Kind
	Index       int
	Content     string
	Fingerprint string
}
