// Package vectorstore provides the vector index contract, a pgvector-backed
// implementation, and the text-in adapter the recommendation engine works with.
package vectorstore

import (
	"context"

	"github.com/moodstream/hub/internal/models"
)

// Filter restricts a nearest-neighbor query by record metadata.
// Zero-value fields are not applied.
type Filter struct {
	Source    string
	MediaType string
}

// Index is the contract of the backing vector index. Query returns matches
// pre-sorted by descending similarity; callers do not re-sort.
type Index interface {
	Upsert(ctx context.Context, record models.VectorRecord) error
	Fetch(ctx context.Context, id string) (bool, error)
	Query(ctx context.Context, embedding []float32, topK int, filter *Filter) ([]models.VectorMatch, error)
	Delete(ctx context.Context, id string) error
}
