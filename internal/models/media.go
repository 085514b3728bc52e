package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SearchMethod names the retrieval strategy that produced a RecommendationResult.
type SearchMethod string

// Retrieval strategies, in order of preference.
const (
	// SearchMethodVectorSimilarity: candidates came straight from the vector index.
	SearchMethodVectorSimilarity SearchMethod = "vector_similarity"
	// SearchMethodKeywordRerankedVector: keyword candidates re-ranked by embedding similarity.
	SearchMethodKeywordRerankedVector SearchMethod = "keyword_reranked_vector"
	// SearchMethodKeywordOnly: keyword candidates in provider order (no usable embedding).
	SearchMethodKeywordOnly SearchMethod = "keyword_only"
)

// Video is a short-form video or music track candidate. The short-form catalog
// serves both the video and song buckets with the same shape.
type Video struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channel_title"`
	PublishedAt  string `json:"published_at"`
	// Similarity is set once the item has been scored against the mood source text.
	Similarity *float64 `json:"similarity,omitempty"`
}

// SearchText returns the text used when embedding this item for similarity scoring.
func (v Video) SearchText() string {
	if v.Description != "" {
		return v.Title + ". " + v.Description
	}

	return v.Title
}

// Movie is a film catalog candidate.
type Movie struct {
	MovieID     string  `json:"movie_id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterURL   *string `json:"poster_url,omitempty"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	GenreIDs    []int64 `json:"genre_ids,omitempty"`
	// Similarity is set once the item has been scored against the mood source text.
	Similarity *float64 `json:"similarity,omitempty"`
}

// SearchText returns the text used when embedding this item for similarity scoring.
func (m Movie) SearchText() string {
	if m.Overview != "" {
		return m.Title + ". " + m.Overview
	}

	return m.Title
}

// RecommendationResult is the structured outcome of one orchestrator invocation.
// TotalCount and SearchMethod are always set so callers can render "no results"
// without treating it as an error.
type RecommendationResult struct {
	MoodLabel    string       `json:"mood_label"`
	MoodScore    *float64     `json:"mood_score,omitempty"`
	MoodCategory *string      `json:"mood_category,omitempty"`
	Videos       []Video      `json:"videos"`
	Songs        []Video      `json:"songs"`
	Movies       []Movie      `json:"movies"`
	SearchMethod SearchMethod `json:"search_method"`
	TotalCount   int          `json:"total_count"`
}

// Recommendation is a persisted audit record of one RecommendationResult.
type Recommendation struct {
	ID           uuid.UUID       `json:"id"`
	UserID       string          `json:"user_id"`
	MoodSignalID uuid.UUID       `json:"mood_signal_id"`
	Payload      json.RawMessage `json:"payload"`
	CreatedAt    time.Time       `json:"created_at"`
}
