package handler

import (
	"net/http"

	"github.com/sala-livre/batepapo/internal/api/apierr"
	"github.com/sala-livre/batepapo/internal/api/middleware"
	"github.com/sala-livre/batepapo/internal/api/response"
	"github.com/sala-livre/batepapo/internal/services/presence"
)

// StatusHandler handles presence heartbeats
type StatusHandler struct {
	presence *presence.Service
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(presence *presence.Service) *StatusHandler {
	return &StatusHandler{
		presence: presence,
	}
}

// Heartbeat handles POST /status
func (h *StatusHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	name := middleware.GetIdentity(r.Context())
	if name == "" {
		apierr.WriteError(w, apierr.NewUnauthorizedError())
		return
	}

	if err := h.presence.Heartbeat(r.Context(), name); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, struct{}{})
}
