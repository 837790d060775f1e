package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/okozlov/finflow/internal/analytics"
	"github.com/okozlov/finflow/internal/api/middleware"
	"github.com/okozlov/finflow/internal/service"
)

// InsightsHandler serves the aggregated dashboard payload.
type InsightsHandler struct {
	svc *service.Service
	log zerolog.Logger
}

func NewInsightsHandler(svc *service.Service, log zerolog.Logger) *InsightsHandler {
	return &InsightsHandler{svc: svc, log: log}
}

// Get handles GET /api/insights?range=thisMonth
func (h *InsightsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	rng := analytics.Range(r.URL.Query().Get("range"))

	insights, err := h.svc.Insights(r.Context(), userID, rng, time.Now())
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("failed to compute insights")
		middleware.WriteDomainError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, insights)
}
