package pipeline

import "errors"

var (
	// ErrDiscovery marks fatal discovery failures, such as a malformed
	// sitemap. Individual fetch failures during BFS are not errors.
	ErrDiscovery = errors.New("discovery failed")

	// ErrEmbedding marks an embedding call that failed after its retries
	// were exhausted.
	ErrEmbedding = errors.New("embedding failed")

	// ErrStorage marks vector store read, delete or insert failures.
	ErrStorage = errors.New("storage operation failed")
)
