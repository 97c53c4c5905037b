package handler

import (
	"net/http"

	"github.com/go-auth-dashboard/internal/application/account"
	"github.com/go-auth-dashboard/internal/pkg/validate"
)

type PasswordResetHandler struct {
	accounts account.Service
}

func NewPasswordResetHandler(accounts account.Service) *PasswordResetHandler {
	return &PasswordResetHandler{accounts: accounts}
}

type resetRequestBody struct {
	Email string `json:"email" validate:"required,email"`
}

// Request starts a password reset. The response is identical for known and
// unknown addresses.
func (h *PasswordResetHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req resetRequestBody
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := h.accounts.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: account.ResetRequestMessage})
}

// Reset consumes a reset token and installs the new password.
func (h *PasswordResetHandler) Reset(w http.ResponseWriter, r *http.Request) {
	var req account.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := h.accounts.ResetPassword(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "Password has been reset."})
}
