package ingest

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Separator priority: paragraph, line, sentence, word, then raw characters.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter slices document text into chunks of at most ChunkSize runes with
// Overlap runes carried between consecutive chunks. Boundaries are chosen at
// the coarsest separator that keeps pieces under the size limit, recursing to
// finer separators for oversized pieces.
type Splitter struct {
	chunkSize int
	overlap   int
}

// NewSplitter validates the size contract up front.
func NewSplitter(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", overlap, chunkSize)
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}, nil
}

// Split returns the ordered text slices for one document's content.
func (s *Splitter) Split(text string) []string {
	return s.splitText(text, separators)
}

// ChunkDocument splits a document and wraps each slice in a Chunk with a
// contiguous zero-based index.
func (s *Splitter) ChunkDocument(doc *Document) []Chunk {
	pieces := s.Split(doc.Content)
	chunks := make([]Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, Chunk{
			URL:     doc.URL,
			Title:   doc.Title,
			Kind:    doc.Kind,
			Index:   i,
			Content: piece,
		})
	}
	return chunks
}

func (s *Splitter) splitText(text string, seps []string) []string {
	// Pick the coarsest separator actually present; "" always matches.
	sep := seps[len(seps)-1]
	var finer []string
	for i, cand := range seps {
		if cand == "" || strings.Contains(text, cand) {
			sep = cand
			finer = seps[i+1:]
			break
		}
	}

	var final []string
	var good []string
	for _, piece := range splitOn(text, sep) {
		if utf8.RuneCountInString(piece) < s.chunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.merge(good, sep)...)
			good = nil
		}
		if len(finer) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.splitText(piece, finer)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good, sep)...)
	}
	return final
}

// merge greedily packs small pieces into chunks up to chunkSize, sliding a
// window so that up to overlap runes of the previous chunk lead the next.
func (s *Splitter) merge(splits []string, sep string) []string {
	sepLen := utf8.RuneCountInString(sep)

	var docs []string
	var current []string
	total := 0
	for _, piece := range splits {
		l := utf8.RuneCountInString(piece)
		joined := 0
		if len(current) > 0 {
			joined = sepLen
		}
		if total+l+joined > s.chunkSize && len(current) > 0 {
			if doc := joinPieces(current, sep); doc != "" {
				docs = append(docs, doc)
			}
			for len(current) > 0 && (total > s.overlap || total+l+sepLen > s.chunkSize) {
				total -= utf8.RuneCountInString(current[0])
				if len(current) > 1 {
					total -= sepLen
				}
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += l
		if len(current) > 1 {
			total += sepLen
		}
	}
	if doc := joinPieces(current, sep); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

func joinPieces(parts []string, sep string) string {
	return strings.TrimSpace(strings.Join(parts, sep))
}

// splitOn splits text on sep, dropping empty pieces; the empty separator
// splits into individual runes.
func splitOn(text, sep string) []string {
	if sep == "" {
		parts := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			parts = append(parts, string(r))
		}
		return parts
	}
	raw := strings.Split(text, sep)
	parts := raw[:0]
	for _, p := range raw {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
