package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/moodstream/hub/internal/models"
)

// PgIndex implements Index on a Postgres media_vectors table using pgvector.
// Uses halfvec storage (2 bytes per dimension); pgvector-go converts float32
// to float16 when encoding. Cosine distance (<=>); score = 1 - distance.
type PgIndex struct {
	db *pgxpool.Pool
}

var _ Index = (*PgIndex)(nil)

// NewPgIndex creates a pgvector-backed index.
func NewPgIndex(db *pgxpool.Pool) *PgIndex {
	return &PgIndex{db: db}
}

// Upsert writes a vector record. Conflicting ids are left untouched: record ids
// are deterministic per item and an id is written at most once.
func (x *PgIndex) Upsert(ctx context.Context, record models.VectorRecord) error {
	extra, err := json.Marshal(record.Metadata.Extra)
	if err != nil {
		return fmt.Errorf("marshal vector metadata: %w", err)
	}

	vec := pgvector.NewHalfVector(record.Embedding)

	_, err = x.db.Exec(ctx, `
		INSERT INTO media_vectors (id, embedding, source, media_type, title, content, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`,
		record.ID, vec, record.Metadata.Source, record.Metadata.MediaType,
		record.Metadata.Title, record.Metadata.Text, extra, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("media_vectors upsert: %w", err)
	}

	return nil
}

// Fetch reports whether a record exists for the given id.
func (x *PgIndex) Fetch(ctx context.Context, id string) (bool, error) {
	var exists bool

	err := x.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM media_vectors WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("media_vectors fetch: %w", err)
	}

	return exists, nil
}

// Query returns the topK nearest neighbors to embedding, ordered by descending
// cosine similarity, optionally restricted by filter.
func (x *PgIndex) Query(
	ctx context.Context, embedding []float32, topK int, filter *Filter,
) ([]models.VectorMatch, error) {
	queryVec := pgvector.NewHalfVector(embedding)

	sql := `
		SELECT id, (1 - (embedding <=> $1)) AS score, source, media_type, title, content, metadata
		FROM media_vectors`
	args := []any{queryVec}

	where := ""
	if filter != nil && filter.Source != "" {
		args = append(args, filter.Source)
		where += fmt.Sprintf(" AND source = $%d", len(args))
	}

	if filter != nil && filter.MediaType != "" {
		args = append(args, filter.MediaType)
		where += fmt.Sprintf(" AND media_type = $%d", len(args))
	}

	if where != "" {
		sql += " WHERE" + where[4:] // strip the leading " AND"
	}

	args = append(args, topK)
	sql += fmt.Sprintf(" ORDER BY embedding <=> $1 LIMIT $%d", len(args))

	rows, err := x.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("media_vectors query: %w", err)
	}
	defer rows.Close()

	var matches []models.VectorMatch

	for rows.Next() {
		var (
			m     models.VectorMatch
			extra []byte
		)

		if err := rows.Scan(&m.ID, &m.Score, &m.Metadata.Source, &m.Metadata.MediaType,
			&m.Metadata.Title, &m.Metadata.Text, &extra); err != nil {
			return nil, fmt.Errorf("scan vector match: %w", err)
		}

		if len(extra) > 0 {
			if err := json.Unmarshal(extra, &m.Metadata.Extra); err != nil {
				return nil, fmt.Errorf("unmarshal vector metadata: %w", err)
			}
		}

		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vector matches: %w", err)
	}

	return matches, nil
}

// Delete removes the record for id. Not on the recommendation hot path.
func (x *PgIndex) Delete(ctx context.Context, id string) error {
	_, err := x.db.Exec(ctx, `DELETE FROM media_vectors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("media_vectors delete: %w", err)
	}

	return nil
}
