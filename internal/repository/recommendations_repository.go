package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moodstream/hub/internal/models"
)

// RecommendationsRepository handles data access for recommendation audit records.
type RecommendationsRepository struct {
	db *pgxpool.Pool
}

// NewRecommendationsRepository creates a new recommendations repository.
func NewRecommendationsRepository(db *pgxpool.Pool) *RecommendationsRepository {
	return &RecommendationsRepository{db: db}
}

// Create persists one served recommendation payload for later inspection.
func (r *RecommendationsRepository) Create(
	ctx context.Context, userID string, moodSignalID uuid.UUID, payload json.RawMessage,
) (*models.Recommendation, error) {
	query := `
		INSERT INTO recommendations (user_id, mood_signal_id, payload)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, mood_signal_id, payload, created_at
	`

	var rec models.Recommendation

	err := r.db.QueryRow(ctx, query, userID, moodSignalID, payload).Scan(
		&rec.ID, &rec.UserID, &rec.MoodSignalID, &rec.Payload, &rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation record: %w", err)
	}

	return &rec, nil
}

// ListByUser retrieves a user's served recommendations, newest first.
func (r *RecommendationsRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.Recommendation, error) {
	query := `
		SELECT id, user_id, mood_signal_id, payload, created_at
		FROM recommendations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	recs := []models.Recommendation{} // Initialize as empty slice, not nil

	for rows.Next() {
		var rec models.Recommendation

		err := rows.Scan(&rec.ID, &rec.UserID, &rec.MoodSignalID, &rec.Payload, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}

		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommendations: %w", err)
	}

	return recs, nil
}
