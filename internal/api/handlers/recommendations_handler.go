package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/moodstream/hub/internal/api/response"
	"github.com/moodstream/hub/internal/models"
	"github.com/moodstream/hub/internal/recerrors"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// RecommendationsService defines the interface for recommendation business logic.
type RecommendationsService interface {
	GetRecommendations(ctx context.Context, userID string) (*models.RecommendationResult, error)
	ListRecommendationHistory(ctx context.Context, userID string, limit int) ([]models.Recommendation, error)
}

// RecommendationsHandler handles HTTP requests for recommendations.
type RecommendationsHandler struct {
	service RecommendationsService
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(service RecommendationsService) *RecommendationsHandler {
	return &RecommendationsHandler{service: service}
}

// Get handles GET /v1/users/{user_id}/recommendations.
// 404 when the user has no mood history, 503 when every recommendation source
// failed; a 200 with total_count 0 is a valid empty result, not an error.
func (h *RecommendationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		response.RespondBadRequest(w, "User ID is required")
		return
	}

	result, err := h.service.GetRecommendations(r.Context(), userID)
	if err != nil {
		if errors.Is(err, recerrors.ErrNoMoodSignal) {
			response.RespondNotFound(w, "No mood history for this user yet")
			return
		}

		if errors.Is(err, recerrors.ErrAllSourcesFailed) {
			response.RespondServiceUnavailable(w, "All recommendation sources are currently unavailable")
			return
		}

		response.RespondInternalServerError(w, "An unexpected error occurred")

		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// History handles GET /v1/users/{user_id}/recommendations/history.
func (h *RecommendationsHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		response.RespondBadRequest(w, "User ID is required")
		return
	}

	limit := defaultHistoryLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxHistoryLimit {
			response.RespondBadRequest(w, "limit must be an integer between 1 and 100")
			return
		}

		limit = parsed
	}

	recs, err := h.service.ListRecommendationHistory(r.Context(), userID, limit)
	if err != nil {
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]any{"data": recs})
}
