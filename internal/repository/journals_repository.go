// Package repository provides Postgres data access for journals, mood signals,
// and recommendation audit records.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moodstream/hub/internal/models"
)

// ErrJournalNotFound is returned when a journal id does not exist.
var ErrJournalNotFound = errors.New("journal not found")

// JournalsRepository handles data access for journal entries.
type JournalsRepository struct {
	db *pgxpool.Pool
}

// NewJournalsRepository creates a new journals repository.
func NewJournalsRepository(db *pgxpool.Pool) *JournalsRepository {
	return &JournalsRepository{db: db}
}

// Create inserts a new journal entry.
func (r *JournalsRepository) Create(ctx context.Context, req *models.CreateJournalRequest) (*models.Journal, error) {
	query := `
		INSERT INTO journals (user_id, content)
		VALUES ($1, $2)
		RETURNING id, user_id, content, mood, vector_id, created_at
	`

	var journal models.Journal

	err := r.db.QueryRow(ctx, query, req.UserID, req.Content).Scan(
		&journal.ID, &journal.UserID, &journal.Content,
		&journal.Mood, &journal.VectorID, &journal.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create journal: %w", err)
	}

	return &journal, nil
}

// GetByID retrieves a single journal entry by ID.
func (r *JournalsRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Journal, error) {
	query := `
		SELECT id, user_id, content, mood, vector_id, created_at
		FROM journals
		WHERE id = $1
	`

	var journal models.Journal

	err := r.db.QueryRow(ctx, query, id).Scan(
		&journal.ID, &journal.UserID, &journal.Content,
		&journal.Mood, &journal.VectorID, &journal.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJournalNotFound
		}

		return nil, fmt.Errorf("failed to get journal: %w", err)
	}

	return &journal, nil
}

// SetVectorID records the journal's vector index record id after embedding.
func (r *JournalsRepository) SetVectorID(ctx context.Context, id uuid.UUID, vectorID string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE journals SET vector_id = $1 WHERE id = $2`,
		vectorID, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set journal vector id: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrJournalNotFound
	}

	return nil
}

// SetMood denormalizes the latest classified mood label onto the journal row.
func (r *JournalsRepository) SetMood(ctx context.Context, id uuid.UUID, mood string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE journals SET mood = $1 WHERE id = $2`,
		mood, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set journal mood: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrJournalNotFound
	}

	return nil
}

// ListByUser retrieves a user's journal entries, newest first.
func (r *JournalsRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Journal, error) {
	query := `
		SELECT id, user_id, content, mood, vector_id, created_at
		FROM journals
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}
	defer rows.Close()

	journals := []models.Journal{} // Initialize as empty slice, not nil

	for rows.Next() {
		var journal models.Journal

		err := rows.Scan(
			&journal.ID, &journal.UserID, &journal.Content,
			&journal.Mood, &journal.VectorID, &journal.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal: %w", err)
		}

		journals = append(journals, journal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journals: %w", err)
	}

	return journals, nil
}
