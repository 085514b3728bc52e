package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moodstream/hub/internal/models"
	"github.com/moodstream/hub/internal/recerrors"
)

// MoodSignalsRepository handles data access for mood signals.
type MoodSignalsRepository struct {
	db *pgxpool.Pool
}

// NewMoodSignalsRepository creates a new mood signals repository.
func NewMoodSignalsRepository(db *pgxpool.Pool) *MoodSignalsRepository {
	return &MoodSignalsRepository{db: db}
}

// Create inserts a classifier result for a journal entry.
func (r *MoodSignalsRepository) Create(ctx context.Context, req *models.CreateMoodSignalRequest) (*models.MoodSignal, error) {
	query := `
		INSERT INTO mood_signals (user_id, journal_id, label, score, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, journal_id, label, score, category, created_at
	`

	var signal models.MoodSignal

	err := r.db.QueryRow(ctx, query,
		req.UserID, req.JournalID, req.Label, req.Score, req.Category,
	).Scan(
		&signal.ID, &signal.UserID, &signal.JournalID,
		&signal.Label, &signal.Score, &signal.Category, &signal.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mood signal: %w", err)
	}

	return &signal, nil
}

// FindLatestByUser returns the user's most recent mood signal joined with its
// source journal, so the caller gets the classified text and the journal's
// vector index record id in one read. Returns NoMoodSignalError when the user
// has no mood history.
func (r *MoodSignalsRepository) FindLatestByUser(ctx context.Context, userID string) (*models.MoodSignal, error) {
	query := `
		SELECT ms.id, ms.user_id, ms.journal_id, ms.label, ms.score, ms.category,
			ms.created_at, j.content, j.vector_id
		FROM mood_signals ms
		JOIN journals j ON j.id = ms.journal_id
		WHERE ms.user_id = $1
		ORDER BY ms.created_at DESC
		LIMIT 1
	`

	var signal models.MoodSignal

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&signal.ID, &signal.UserID, &signal.JournalID,
		&signal.Label, &signal.Score, &signal.Category, &signal.CreatedAt,
		&signal.SourceText, &signal.VectorID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, recerrors.NewNoMoodSignalError(userID)
		}

		return nil, fmt.Errorf("failed to find latest mood signal: %w", err)
	}

	return &signal, nil
}
