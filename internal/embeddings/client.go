// Package embeddings provides text embedding clients and a content-addressed
// caching decorator used by the vector store adapter.
package embeddings

import "context"

// Client generates a fixed-length embedding vector for a text string.
// Implementations do not retry; retry policy belongs to callers.
type Client interface {
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)
}
