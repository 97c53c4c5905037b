package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-auth-dashboard/internal/domain"
)

// MessageEnvelope wraps plain informational responses.
type MessageEnvelope struct {
	Message string `json:"message"`
}

// AuthEnvelope carries a freshly signed session token and the principal
// encoded inside it.
type AuthEnvelope struct {
	Token     string           `json:"token"`
	Principal domain.Principal `json:"principal"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps domain sentinel errors to HTTP status codes. Unmapped errors
// become a generic 500 with the detail kept out of the response body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, domain.ErrBadRequest), errors.Is(err, domain.ErrExpired):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrConflict):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrThrottled):
		status, msg = http.StatusTooManyRequests, err.Error()
	default:
		slog.Error("unhandled error", "err", err)
	}

	writeJSON(w, status, map[string]string{"error": msg})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
