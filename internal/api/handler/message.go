package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/sala-livre/batepapo/internal/api/apierr"
	"github.com/sala-livre/batepapo/internal/api/middleware"
	"github.com/sala-livre/batepapo/internal/api/request"
	"github.com/sala-livre/batepapo/internal/api/response"
	"github.com/sala-livre/batepapo/internal/model"
	"github.com/sala-livre/batepapo/internal/sanitize"
	"github.com/sala-livre/batepapo/internal/services/chat"
	"github.com/sala-livre/batepapo/internal/services/gate"
)

// MessageHandler handles sending, listing, editing and deleting messages
type MessageHandler struct {
	chat *chat.Service
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(chat *chat.Service) *MessageHandler {
	return &MessageHandler{
		chat: chat,
	}
}

// Send handles POST /messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	from := middleware.GetIdentity(r.Context())
	if from == "" {
		apierr.WriteError(w, apierr.NewUnauthorizedError())
		return
	}

	payload, ok := decodeMessagePayload(w, r)
	if !ok {
		return
	}

	m, err := h.chat.Send(r.Context(), from, payload)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.MessageFromModel(m))
}

// List handles GET /messages?limit=N
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetIdentity(r.Context())
	if requester == "" {
		apierr.WriteError(w, apierr.NewUnauthorizedError())
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			apierr.WriteError(w, model.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	messages, err := h.chat.List(r.Context(), requester, limit)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MessagesFromModel(messages))
}

// Edit handles PUT /messages/{id}
func (h *MessageHandler) Edit(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetIdentity(r.Context())
	if requester == "" {
		apierr.WriteError(w, apierr.NewUnauthorizedError())
		return
	}

	payload, ok := decodeMessagePayload(w, r)
	if !ok {
		return
	}

	id := model.MessageID(mux.Vars(r)["id"])
	if err := h.chat.Edit(r.Context(), requester, id, payload); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, struct{}{})
}

// Delete handles DELETE /messages/{id}
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requester := middleware.GetIdentity(r.Context())
	if requester == "" {
		apierr.WriteError(w, apierr.NewUnauthorizedError())
		return
	}

	id := model.MessageID(mux.Vars(r)["id"])
	if err := h.chat.Delete(r.Context(), requester, id); err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, struct{}{})
}

// decodeMessagePayload reads and sanitizes a message body; on failure it
// writes the error response and reports false
func decodeMessagePayload(w http.ResponseWriter, r *http.Request) (gate.MessagePayload, bool) {
	var req request.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return gate.MessagePayload{}, false
	}

	return gate.MessagePayload{
		To:   sanitize.Text(req.To),
		Text: sanitize.Text(req.Text),
		Type: sanitize.Text(req.Type),
	}, true
}
