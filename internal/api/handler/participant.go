package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sala-livre/batepapo/internal/api/apierr"
	"github.com/sala-livre/batepapo/internal/api/request"
	"github.com/sala-livre/batepapo/internal/api/response"
	"github.com/sala-livre/batepapo/internal/sanitize"
	"github.com/sala-livre/batepapo/internal/services/presence"
)

// ParticipantHandler handles registration and the participant listing
type ParticipantHandler struct {
	presence *presence.Service
}

// NewParticipantHandler creates a new participant handler
func NewParticipantHandler(presence *presence.Service) *ParticipantHandler {
	return &ParticipantHandler{
		presence: presence,
	}
}

// Register handles POST /participants
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	reg, err := h.presence.Register(r.Context(), sanitize.Text(req.Name))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RegisterResponseFromRegistration(reg))
}

// List handles GET /participants
func (h *ParticipantHandler) List(w http.ResponseWriter, r *http.Request) {
	participants, err := h.presence.List(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ParticipantsFromModel(participants))
}
