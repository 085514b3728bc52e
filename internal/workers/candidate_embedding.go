// Package workers provides River job workers for post-serve persistence.
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/riverqueue/river"

	"github.com/moodstream/hub/internal/models"
	"github.com/moodstream/hub/internal/service"
)

// candidateUpserter is the minimal vector store surface the worker needs.
type candidateUpserter interface {
	Upsert(ctx context.Context, id, text string, metadata models.VectorMetadata) error
}

// CandidateEmbeddingWorker embeds served catalog candidates and stores them in
// the vector index. The upsert is idempotent, so replays and duplicate serves
// are harmless.
type CandidateEmbeddingWorker struct {
	river.WorkerDefaults[service.CandidateEmbeddingArgs]

	store candidateUpserter
}

// NewCandidateEmbeddingWorker creates the worker over the vector store adapter.
func NewCandidateEmbeddingWorker(store candidateUpserter) *CandidateEmbeddingWorker {
	return &CandidateEmbeddingWorker{store: store}
}

const candidateEmbeddingTimeout = 30 * time.Second

// Timeout limits how long a single candidate embedding job can run.
func (w *CandidateEmbeddingWorker) Timeout(*river.Job[service.CandidateEmbeddingArgs]) time.Duration {
	return candidateEmbeddingTimeout
}

// Work embeds the candidate text and upserts the vector record.
func (w *CandidateEmbeddingWorker) Work(ctx context.Context, job *river.Job[service.CandidateEmbeddingArgs]) error {
	args := job.Args

	text := strings.TrimSpace(args.Text)
	if text == "" {
		slog.Info("candidate embedding: skipped (empty text)",
			"record_id", args.RecordID,
		)

		return nil
	}

	metadata := models.VectorMetadata{
		Source:    args.Source,
		MediaType: args.MediaType,
		Title:     args.Title,
		Text:      text,
		Extra:     args.Extra,
	}

	err := w.store.Upsert(ctx, args.RecordID, text, metadata)
	if err != nil {
		if job.Attempt >= job.MaxAttempts {
			slog.Error("candidate embedding: upsert failed (final attempt)",
				"record_id", args.RecordID,
				"error", err,
			)

			return nil
		}

		return fmt.Errorf("upsert candidate vector: %w", err)
	}

	slog.Info("candidate embedding: stored",
		"record_id", args.RecordID,
	)

	return nil
}
