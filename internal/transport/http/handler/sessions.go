package handler

import (
	"net/http"

	"github.com/go-auth-dashboard/internal/application/session"
	"github.com/go-auth-dashboard/internal/pkg/validate"
	"github.com/go-auth-dashboard/internal/transport/http/middleware"
)

type SessionHandler struct {
	sessions session.Service
}

func NewSessionHandler(sessions session.Service) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Login exchanges credentials for a signed session token.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req session.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	result, err := h.sessions.Login(r.Context(), req, realIP(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthEnvelope{Token: result.Token, Principal: result.Principal})
}

// GetCurrent echoes the principal decoded from the presented token. No store
// read happens here; the session is whatever the claims say.
func (h *SessionHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}
	writeJSON(w, http.StatusOK, claims.Principal())
}

// Refresh re-reads the user record and signs fresh claims, so changes like
// email verification reach the session without a new login.
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}

	result, err := h.sessions.RefreshClaims(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthEnvelope{Token: result.Token, Principal: result.Principal})
}
