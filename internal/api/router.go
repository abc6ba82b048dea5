package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sala-livre/batepapo/internal/api/handler"
	"github.com/sala-livre/batepapo/internal/api/middleware"
	"github.com/sala-livre/batepapo/internal/services/auth"
	"github.com/sala-livre/batepapo/internal/services/chat"
	"github.com/sala-livre/batepapo/internal/services/presence"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	AuthService     *auth.Service
	PresenceService *presence.Service
	ChatService     *chat.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	participantHandler := handler.NewParticipantHandler(cfg.PresenceService)
	messageHandler := handler.NewMessageHandler(cfg.ChatService)
	statusHandler := handler.NewStatusHandler(cfg.PresenceService)

	// Common middleware; identity resolution happens on every route so
	// handlers decide for themselves whether an anonymous request is allowed
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Identity(cfg.AuthService))

	// Presence routes
	r.HandleFunc("/participants", participantHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/participants", participantHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/status", statusHandler.Heartbeat).Methods(http.MethodPost)

	// Message routes
	r.HandleFunc("/messages", messageHandler.Send).Methods(http.MethodPost)
	r.HandleFunc("/messages", messageHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/messages/{id}", messageHandler.Edit).Methods(http.MethodPut)
	r.HandleFunc("/messages/{id}", messageHandler.Delete).Methods(http.MethodDelete)

	// Health check endpoint (no identity)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
