package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/riverqueue/river"

	"github.com/moodstream/hub/internal/models"
	"github.com/moodstream/hub/internal/service"
)

// auditRecordCreator is the minimal repository surface the worker needs.
type auditRecordCreator interface {
	Create(ctx context.Context, userID string, moodSignalID uuid.UUID, payload json.RawMessage) (*models.Recommendation, error)
}

// AuditRecordWorker persists served recommendation payloads for later inspection.
type AuditRecordWorker struct {
	river.WorkerDefaults[service.AuditRecordArgs]

	recs auditRecordCreator
}

// NewAuditRecordWorker creates the worker over the recommendations repository.
func NewAuditRecordWorker(recs auditRecordCreator) *AuditRecordWorker {
	return &AuditRecordWorker{recs: recs}
}

const auditRecordTimeout = 10 * time.Second

// Timeout limits how long a single audit record job can run.
func (w *AuditRecordWorker) Timeout(*river.Job[service.AuditRecordArgs]) time.Duration {
	return auditRecordTimeout
}

// Work inserts the audit record.
func (w *AuditRecordWorker) Work(ctx context.Context, job *river.Job[service.AuditRecordArgs]) error {
	args := job.Args

	_, err := w.recs.Create(ctx, args.UserID, args.MoodSignalID, args.Payload)
	if err != nil {
		if job.Attempt >= job.MaxAttempts {
			slog.Error("audit record: insert failed (final attempt)",
				"user_id", args.UserID,
				"mood_signal_id", args.MoodSignalID,
				"error", err,
			)

			return nil
		}

		return fmt.Errorf("insert recommendation audit record: %w", err)
	}

	return nil
}
