package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/moodstream/hub/internal/api/response"
	"github.com/moodstream/hub/internal/models"
	"github.com/moodstream/hub/internal/repository"
)

// MoodSignalsService defines the interface for mood signal ingestion.
type MoodSignalsService interface {
	CreateMoodSignal(ctx context.Context, req *models.CreateMoodSignalRequest) (*models.MoodSignal, error)
}

// MoodSignalsHandler ingests upstream classifier output.
type MoodSignalsHandler struct {
	service MoodSignalsService
}

// NewMoodSignalsHandler creates a new mood signals handler.
func NewMoodSignalsHandler(service MoodSignalsService) *MoodSignalsHandler {
	return &MoodSignalsHandler{service: service}
}

// Create handles POST /v1/mood-signals.
func (h *MoodSignalsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMoodSignalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondBadRequest(w, "Invalid request body")
		return
	}

	if req.UserID == "" {
		response.RespondBadRequest(w, "user_id is required")
		return
	}

	if req.JournalID == uuid.Nil {
		response.RespondBadRequest(w, "journal_id is required")
		return
	}

	if req.Label == "" {
		response.RespondBadRequest(w, "label is required")
		return
	}

	if req.Score != nil && (*req.Score < 0 || *req.Score > 1) {
		response.RespondBadRequest(w, "score must be between 0 and 1")
		return
	}

	signal, err := h.service.CreateMoodSignal(r.Context(), &req)
	if err != nil {
		if errors.Is(err, repository.ErrJournalNotFound) {
			response.RespondBadRequest(w, "journal_id does not reference one of the user's journals")
			return
		}

		response.RespondInternalServerError(w, "An unexpected error occurred")

		return
	}

	response.RespondJSON(w, http.StatusCreated, signal)
}
