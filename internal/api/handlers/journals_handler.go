package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/moodstream/hub/internal/api/response"
	"github.com/moodstream/hub/internal/models"
)

const (
	defaultJournalsLimit = 20
	maxJournalsLimit     = 100
)

// JournalsService defines the interface for journal business logic.
type JournalsService interface {
	CreateJournalEntry(ctx context.Context, req *models.CreateJournalRequest) (*models.Journal, error)
	ListJournals(ctx context.Context, userID string, limit int) ([]models.Journal, error)
}

// JournalsHandler handles HTTP requests for journal entries.
type JournalsHandler struct {
	service JournalsService
}

// NewJournalsHandler creates a new journals handler.
func NewJournalsHandler(service JournalsService) *JournalsHandler {
	return &JournalsHandler{service: service}
}

// Create handles POST /v1/journals.
func (h *JournalsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")
		return
	}

	if req.UserID == "" {
		response.RespondBadRequest(w, "user_id is required")
		return
	}

	if strings.TrimSpace(req.Content) == "" {
		response.RespondBadRequest(w, "content is required")
		return
	}

	journal, err := h.service.CreateJournalEntry(r.Context(), &req)
	if err != nil {
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	response.RespondJSON(w, http.StatusCreated, journal)
}

// List handles GET /v1/users/{user_id}/journals.
func (h *JournalsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	if userID == "" {
		response.RespondBadRequest(w, "User ID is required")
		return
	}

	limit := defaultJournalsLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxJournalsLimit {
			response.RespondBadRequest(w, "limit must be an integer between 1 and 100")
			return
		}

		limit = parsed
	}

	journals, err := h.service.ListJournals(r.Context(), userID, limit)
	if err != nil {
		response.RespondInternalServerError(w, "An unexpected error occurred")
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]any{"data": journals})
}
