package models

import (
	"time"

	"github.com/google/uuid"
)

// MoodSignal is the structured output of classifying a journal entry's sentiment.
// Signals are produced upstream (the classifier is not part of this service) and
// are immutable once created; the orchestrator reads the most recent one per user.
type MoodSignal struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	JournalID uuid.UUID `json:"journal_id"`
	Label     string    `json:"label"`
	Score     *float64  `json:"score,omitempty"`
	Category  *string   `json:"category,omitempty"`
	// SourceText is the journal text the signal was classified from.
	SourceText string `json:"source_text,omitempty"`
	// VectorID is set when the source journal was embedded at creation time.
	// Its presence gates the vector-similarity retrieval path.
	VectorID  *string   `json:"vector_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateMoodSignalRequest is the request to ingest an upstream classifier result.
type CreateMoodSignalRequest struct {
	UserID    string    `json:"user_id"`
	JournalID uuid.UUID `json:"journal_id"`
	Label     string    `json:"label"`
	Score     *float64  `json:"score,omitempty"`
	Category  *string   `json:"category,omitempty"`
}

// Journal is a single free-text journal entry.
type Journal struct {
	ID      uuid.UUID `json:"id"`
	UserID  string    `json:"user_id"`
	Content string    `json:"content"`
	// Mood is the label of the latest classification, denormalized for display.
	Mood *string `json:"mood,omitempty"`
	// VectorID references the journal's record in the vector index, set once the
	// entry has been embedded.
	VectorID  *string   `json:"vector_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateJournalRequest is the request to create a journal entry.
type CreateJournalRequest struct {
	UserID  string `json:"user_id"`
	Content string `json:"content"`
}
