package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/okozlov/finflow/internal/api/middleware"
	"github.com/okozlov/finflow/internal/domain"
	"github.com/okozlov/finflow/internal/service"
)

// SettingsHandler handles the per-user settings endpoints.
type SettingsHandler struct {
	svc *service.Service
	log zerolog.Logger
}

func NewSettingsHandler(svc *service.Service, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{svc: svc, log: log}
}

// Get handles GET /api/settings. A first read creates the row with defaults.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	settings, err := h.svc.Settings(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("failed to load settings")
		middleware.WriteDomainError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, settings)
}

// Update handles PUT /api/settings. Only the fields present in the body
// change.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var patch domain.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	settings, err := h.svc.UpdateSettings(r.Context(), userID, patch)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, settings)
}
