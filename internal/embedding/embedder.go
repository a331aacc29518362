// Package embedding provides the embedding service client, a shared rate
// limiter, and a deterministic embedder for tests and dry runs.
package embedding

import (
	"context"
	"errors"
)

// Embedder produces fixed-dimension vector embeddings for batches of text.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// Sentinel failure classes for embedding calls. Both are retryable up to the
// configured attempt limit; anything else is treated as fatal by callers.
var (
	ErrRateLimited  = errors.New("embedding service rate limited")
	ErrServiceError = errors.New("embedding service error")
)

// Retryable reports whether an embedding error is transient. Exhausted-retry
// outcomes become ordinary data in the indexing result rather than aborts.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrServiceError)
}
