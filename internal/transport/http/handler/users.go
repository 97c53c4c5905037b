package handler

import (
	"net/http"

	"github.com/go-auth-dashboard/internal/application/account"
	"github.com/go-auth-dashboard/internal/domain"
	"github.com/go-auth-dashboard/internal/pkg/validate"
)

type UserHandler struct {
	accounts account.Service
}

func NewUserHandler(accounts account.Service) *UserHandler {
	return &UserHandler{accounts: accounts}
}

type registerResponse struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	EmailSent bool   `json:"email_sent"`
}

// Register creates an account and kicks off email verification.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	result, err := h.accounts.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		UserID:    result.User.UserID,
		Email:     result.User.Email,
		EmailSent: result.EmailSent,
	})
}
