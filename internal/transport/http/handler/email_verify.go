package handler

import (
	"net/http"

	"github.com/go-auth-dashboard/internal/application/account"
	"github.com/go-auth-dashboard/internal/transport/http/middleware"
)

type EmailVerifyHandler struct {
	accounts account.Service
}

func NewEmailVerifyHandler(accounts account.Service) *EmailVerifyHandler {
	return &EmailVerifyHandler{accounts: accounts}
}

// Request sends a fresh verification email to the authenticated user. Already
// verified accounts get a 200 without a new token.
func (h *EmailVerifyHandler) Request(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "no session"})
		return
	}

	alreadyVerified, err := h.accounts.ResendVerification(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if alreadyVerified {
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Email is already verified."})
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Verification email sent."})
}

// Verify consumes the token from the emailed link. Re-verifying an already
// verified account is a no-op success.
func (h *EmailVerifyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	result, err := h.accounts.VerifyEmail(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		writeError(w, err)
		return
	}
	if result.AlreadyVerified {
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Email is already verified."})
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Email verified successfully."})
}
