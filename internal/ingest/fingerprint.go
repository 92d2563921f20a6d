package ingest

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the hex SHA-256 digest of content. It is a pure
// function of the content bytes; chunk position is deliberately excluded so
// that identical text anywhere yields an identical digest.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// FingerprintChunks fills the Fingerprint field of every chunk in place and
// returns the slice for chaining.
func FingerprintChunks(chunks []Chunk) []Chunk {
	for i := range chunks {
		chunks[i].Fingerprint = Fingerprint(chunks[i].Content)
	}
	return chunks
}
