// Package rerank reorders catalog candidates by embedding similarity to a
// reference text.
package rerank

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/moodstream/hub/internal/models"
)

// defaultMaxInFlight caps concurrent similarity calls across all buckets of a
// re-ranker to respect third-party rate limits. Buckets re-ranked in parallel
// share the cap rather than multiplying it.
const defaultMaxInFlight = 10

// SimilarityScorer is the pairwise scoring primitive (the vector store
// adapter). Scores are cosine similarity in [-1, 1].
type SimilarityScorer interface {
	Similarity(ctx context.Context, refText, itemText string) (float64, error)
}

// Reranker scores candidate items against a reference text and sorts them by
// descending similarity. The reference text is always the mood signal's source
// text: the candidate's own text is only ever the item side of the pair, never
// the query.
type Reranker struct {
	scorer SimilarityScorer
	sem    *semaphore.Weighted
	logger *slog.Logger
}

// NewReranker creates a re-ranker over scorer.
func NewReranker(scorer SimilarityScorer, logger *slog.Logger) *Reranker {
	if logger == nil {
		logger = slog.Default()
	}

	return &Reranker{scorer: scorer, sem: semaphore.NewWeighted(defaultMaxInFlight), logger: logger}
}

// RerankVideos scores and sorts a video or song bucket. The returned count is
// how many items were actually scored; zero means the bucket could not be
// re-ranked at all (callers keep provider order and keyword-only semantics).
func (r *Reranker) RerankVideos(ctx context.Context, refText string, videos []models.Video) ([]models.Video, int) {
	return rerankBucket(ctx, r, refText, videos,
		models.Video.SearchText,
		func(v models.Video, score float64) models.Video {
			v.Similarity = &score

			return v
		},
		func(v models.Video) float64 {
			return *v.Similarity
		},
	)
}

// RerankMovies scores and sorts a movie bucket. Same contract as RerankVideos.
func (r *Reranker) RerankMovies(ctx context.Context, refText string, movies []models.Movie) ([]models.Movie, int) {
	return rerankBucket(ctx, r, refText, movies,
		models.Movie.SearchText,
		func(m models.Movie, score float64) models.Movie {
			m.Similarity = &score

			return m
		},
		func(m models.Movie) float64 {
			return *m.Similarity
		},
	)
}

// rerankBucket fans out one similarity call per item (bounded), degrades failed
// items to similarity 0, and stable-sorts by descending similarity so ties keep
// the order the catalog returned.
func rerankBucket[T any](
	ctx context.Context,
	r *Reranker,
	refText string,
	items []T,
	text func(T) string,
	withScore func(T, float64) T,
	score func(T) float64,
) ([]T, int) {
	if len(items) == 0 {
		return items, 0
	}

	scored := make([]T, len(items))
	succeeded := make([]bool, len(items))
	g, gctx := errgroup.WithContext(ctx)

	for i, item := range items {
		g.Go(func() error {
			if err := r.sem.Acquire(gctx, 1); err != nil {
				r.logger.Warn("re-rank similarity failed, degrading item to 0", "error", err)

				scored[i] = withScore(item, 0)

				return nil
			}
			defer r.sem.Release(1)

			similarity, err := r.scorer.Similarity(gctx, refText, text(item))
			if err != nil {
				r.logger.Warn("re-rank similarity failed, degrading item to 0", "error", err)

				scored[i] = withScore(item, 0)

				return nil
			}

			succeeded[i] = true
			scored[i] = withScore(item, similarity)

			return nil
		})
	}

	// Workers never return errors; Wait only joins them.
	_ = g.Wait()

	scoredCount := 0
	for _, ok := range succeeded {
		if ok {
			scoredCount++
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return score(scored[i]) > score(scored[j])
	})

	return scored, scoredCount
}
