package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

const (
	candidateEmbeddingKind = "candidate_embedding"
	auditRecordKind        = "recommendation_audit"
	// PersistQueueName is the River queue for post-serve persistence jobs.
	PersistQueueName = "persist"
)

// JobInserter inserts background jobs (e.g. River client). The orchestrator uses
// it fire-and-forget: insertion failures are logged, never surfaced to callers.
type JobInserter interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// CandidateEmbeddingArgs is the job payload for embedding and storing one served
// catalog candidate. Uniqueness is by RecordID so the same candidate served
// twice does not create duplicate jobs. Extra carries the presentation fields
// (thumbnail, channel, release date, ...) a stored record needs to rebuild the
// served item later; without them a vector hit could only render title and text.
type CandidateEmbeddingArgs struct {
	RecordID  string            `json:"record_id" river:"unique"`
	Source    string            `json:"source"`
	MediaType string            `json:"media_type"`
	Title     string            `json:"title"`
	Text      string            `json:"text"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// Kind returns the River job kind.
func (CandidateEmbeddingArgs) Kind() string { return candidateEmbeddingKind }

var _ river.JobArgs = CandidateEmbeddingArgs{}

// AuditRecordArgs is the job payload for persisting one served recommendation.
type AuditRecordArgs struct {
	UserID       string          `json:"user_id"`
	MoodSignalID uuid.UUID       `json:"mood_signal_id"`
	Payload      json.RawMessage `json:"payload"`
}

// Kind returns the River job kind.
func (AuditRecordArgs) Kind() string { return auditRecordKind }

var _ river.JobArgs = AuditRecordArgs{}
