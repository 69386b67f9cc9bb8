package live

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/octofit/dashboard/go/internal/render"
)

// WebSocketHandler handles live view upgrade requests
type WebSocketHandler struct {
	connectionManager *ConnectionManager
}

func NewWebSocketHandler(cm *ConnectionManager) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
	}
}

// HandleLiveConnection mounts the view named by the view query parameter
func (h *WebSocketHandler) HandleLiveConnection(w http.ResponseWriter, r *http.Request) {
	view := r.URL.Query().Get("view")
	if view == "" {
		http.Error(w, "view is required", http.StatusBadRequest)
		return
	}
	if !render.KnownView(view) {
		http.Error(w, "unknown view", http.StatusNotFound)
		return
	}

	// on failure the upgrader has already replied to the client
	if err := h.connectionManager.UpgradeConnection(w, r, view); err != nil {
		log.Error().
			Err(err).
			Str("view", view).
			Msg("failed to open live connection")
	}
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.connectionManager.GetConnectionStats()); err != nil {
		log.Error().Err(err).Msg("failed to write connection stats")
	}
}

// RegisterRoutes registers live routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /live", h.HandleLiveConnection)
	mux.HandleFunc("GET /live/stats", h.HandleConnectionStats)
}
