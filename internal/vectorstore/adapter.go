package vectorstore

import (
	"context"
	"log/slog"
	"math"

	"github.com/moodstream/hub/internal/embeddings"
	"github.com/moodstream/hub/internal/models"
	"github.com/moodstream/hub/internal/recerrors"
)

// Adapter is the text-in convenience layer over the vector index: it owns
// embedding of query and record text (through the caching client) and the
// idempotent upsert protocol. All similarity scores it produces are cosine
// values in [-1, 1].
type Adapter struct {
	index    Index
	embedder embeddings.Client
	logger   *slog.Logger
}

// NewAdapter creates an adapter over index using embedder for text-to-vector
// conversion. Pass the caching client so repeated lookups reuse vectors.
func NewAdapter(index Index, embedder embeddings.Client, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}

	return &Adapter{index: index, embedder: embedder, logger: logger}
}

// Exists probes the index for id. Index errors are logged and reported as
// "does not exist": failing open toward re-computation never drops data,
// whereas failing closed would silently skip writes.
func (a *Adapter) Exists(ctx context.Context, id string) bool {
	exists, err := a.index.Fetch(ctx, id)
	if err != nil {
		a.logger.Warn("vector existence probe failed, assuming absent", "id", id, "error", err)

		return false
	}

	return exists
}

// Upsert embeds text and writes {id, vector, metadata}, skipping the write when
// the id already exists. An id is written at most once.
func (a *Adapter) Upsert(ctx context.Context, id, text string, metadata models.VectorMetadata) error {
	if a.Exists(ctx, id) {
		return nil
	}

	vector, err := a.embedder.CreateEmbedding(ctx, text)
	if err != nil {
		return recerrors.NewStoreError("upsert", "embed record text", err)
	}

	err = a.index.Upsert(ctx, models.VectorRecord{ID: id, Embedding: vector, Metadata: metadata})
	if err != nil {
		return recerrors.NewStoreError("upsert", "write vector record", err)
	}

	return nil
}

// QueryText embeds text and returns the topK nearest neighbors, in the order
// the index returned them (pre-sorted by descending similarity).
func (a *Adapter) QueryText(
	ctx context.Context, text string, topK int, filter *Filter,
) ([]models.VectorMatch, error) {
	vector, err := a.embedder.CreateEmbedding(ctx, text)
	if err != nil {
		return nil, recerrors.NewStoreError("query", "embed query text", err)
	}

	matches, err := a.index.Query(ctx, vector, topK, filter)
	if err != nil {
		return nil, recerrors.NewStoreError("query", "nearest neighbor query", err)
	}

	return matches, nil
}

// Similarity returns the cosine similarity of two texts in [-1, 1]. This is the
// single pairwise scoring primitive; re-ranking goes through it so keyword
// candidates share the scoring contract of index matches. Both embeddings go
// through the cache, so scoring a batch against one reference text embeds the
// reference once.
func (a *Adapter) Similarity(ctx context.Context, refText, itemText string) (float64, error) {
	refVec, err := a.embedder.CreateEmbedding(ctx, refText)
	if err != nil {
		return 0, recerrors.NewStoreError("similarity", "embed reference text", err)
	}

	itemVec, err := a.embedder.CreateEmbedding(ctx, itemText)
	if err != nil {
		return 0, recerrors.NewStoreError("similarity", "embed item text", err)
	}

	return cosineSimilarity(refVec, itemVec), nil
}

// Delete removes the record for id.
func (a *Adapter) Delete(ctx context.Context, id string) error {
	if err := a.index.Delete(ctx, id); err != nil {
		return recerrors.NewStoreError("delete", "delete vector record", err)
	}

	return nil
}

// cosineSimilarity computes the cosine of the angle between a and b.
// Mismatched or zero-magnitude vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
