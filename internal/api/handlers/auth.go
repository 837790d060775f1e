// Package handlers holds the HTTP endpoints, one handler struct per
// resource. Handlers decode and validate the request shape, delegate to the
// service layer and translate domain errors into HTTP statuses.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/okozlov/finflow/internal/api/middleware"
	"github.com/okozlov/finflow/internal/auth"
)

// AuthHandler handles sign-up, sign-in and sign-out.
type AuthHandler struct {
	auth *auth.Authenticator
	log  zerolog.Logger
}

func NewAuthHandler(a *auth.Authenticator, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: a, log: log}
}

// SignUp handles POST /api/auth/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.auth.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		h.log.Warn().Err(err).Msg("sign-up failed")
		middleware.WriteDomainError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, session)
}

// SignIn handles POST /api/auth/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, session)
}

// SignOut handles POST /api/auth/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.auth.SignOut(r.Context(), req.Token)
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}
