package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/okozlov/finflow/internal/api/middleware"
	"github.com/okozlov/finflow/internal/domain"
	"github.com/okozlov/finflow/internal/service"
)

// SubscriptionsHandler handles recurring-subscription endpoints.
type SubscriptionsHandler struct {
	svc *service.Service
	log zerolog.Logger
}

func NewSubscriptionsHandler(svc *service.Service, log zerolog.Logger) *SubscriptionsHandler {
	return &SubscriptionsHandler{svc: svc, log: log}
}

// List handles GET /api/subscriptions
func (h *SubscriptionsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	subs, err := h.svc.Subscriptions(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("failed to list subscriptions")
		middleware.WriteDomainError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"subscriptions": subs,
		"count":         len(subs),
	})
}

// Create handles POST /api/subscriptions
func (h *SubscriptionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req struct {
		Name      string  `json:"name"`
		Amount    float64 `json:"amount"`
		Category  string  `json:"category"`
		Color     string  `json:"color"`
		RenewDate string  `json:"renew_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	renewDate, err := time.ParseInLocation("2006-01-02", req.RenewDate, time.Local)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid renew_date, expected YYYY-MM-DD")
		return
	}

	sub, err := h.svc.AddSubscription(r.Context(), userID, domain.SubscriptionFields{
		Name:      req.Name,
		Amount:    req.Amount,
		Category:  req.Category,
		Color:     req.Color,
		RenewDate: renewDate,
	})
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, sub)
}

// Delete handles DELETE /api/subscriptions/{id}
func (h *SubscriptionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	id := chi.URLParam(r, "id")

	removed, err := h.svc.DeleteSubscription(r.Context(), userID, id)
	if err != nil {
		h.log.Error().Err(err).Str("subscription_id", id).Msg("failed to delete subscription")
		middleware.WriteDomainError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"removed": removed,
	})
}

// Upcoming handles GET /api/subscriptions/upcoming
func (h *SubscriptionsHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	renewals, err := h.svc.UpcomingRenewals(r.Context(), userID, time.Now())
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"renewals": renewals,
		"count":    len(renewals),
	})
}
