package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/okozlov/finflow/internal/api/middleware"
	"github.com/okozlov/finflow/internal/service"
)

// ExportsHandler enqueues CSV exports and reports their progress.
type ExportsHandler struct {
	svc *service.Service
	log zerolog.Logger
}

func NewExportsHandler(svc *service.Service, log zerolog.Logger) *ExportsHandler {
	return &ExportsHandler{svc: svc, log: log}
}

// Create handles POST /api/exports. The export runs asynchronously; poll the
// returned job ID for completion.
func (h *ExportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	job, err := h.svc.RequestExport(r.Context(), userID)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusAccepted, job)
}

// Get handles GET /api/exports/{jobID}
func (h *ExportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	jobID := chi.URLParam(r, "jobID")

	job, err := h.svc.ExportStatus(r.Context(), userID, jobID)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// List handles GET /api/exports
func (h *ExportsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	list, err := h.svc.Exports(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("failed to list exports")
		middleware.WriteDomainError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"exports": list,
		"count":   len(list),
	})
}
