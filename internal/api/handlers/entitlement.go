package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/okozlov/finflow/internal/api/middleware"
	"github.com/okozlov/finflow/internal/entitlement"
)

// EntitlementHandler exposes the premium tier state machine for the
// authenticated user.
type EntitlementHandler struct {
	manager *entitlement.Manager
	log     zerolog.Logger
}

func NewEntitlementHandler(manager *entitlement.Manager, log zerolog.Logger) *EntitlementHandler {
	return &EntitlementHandler{manager: manager, log: log}
}

// Status handles GET /api/entitlement
func (h *EntitlementHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	middleware.WriteJSON(w, http.StatusOK, map[string]bool{
		"premium": h.manager.IsPremium(r.Context(), userID),
	})
}

// Purchase handles POST /api/entitlement/purchase
func (h *EntitlementHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if err := h.manager.Purchase(r.Context(), userID); err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Msg("purchase failed")
		middleware.WriteError(w, http.StatusBadGateway, "Purchase failed")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]bool{"premium": true})
}

// Restore handles POST /api/entitlement/restore
func (h *EntitlementHandler) Restore(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	active, err := h.manager.Restore(r.Context(), userID)
	if err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Msg("restore failed")
		middleware.WriteError(w, http.StatusBadGateway, "Restore failed")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]bool{"premium": active})
}

// Cancel handles POST /api/entitlement/cancel
func (h *EntitlementHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	if err := h.manager.Cancel(r.Context(), userID); err != nil {
		h.log.Warn().Err(err).Str("user_id", userID).Msg("cancel failed")
		middleware.WriteError(w, http.StatusBadGateway, "Cancel failed")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]bool{"premium": false})
}
