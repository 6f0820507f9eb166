package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"taskmasters/internal/domain"
	impl "taskmasters/internal/service/impl"
)

// Every response uses the same envelope.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// writeServiceError maps domain sentinels onto statuses and safe messages.
// Anything unrecognized becomes a generic 500; internals never leak.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, impl.ErrMissingField):
		writeError(w, http.StatusBadRequest, "Please provide all required fields")
	case errors.Is(err, impl.ErrPasswordLength):
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters long")
	case errors.Is(err, impl.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "Invalid task status")
	case errors.Is(err, domain.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "Email already taken")
	case errors.Is(err, domain.ErrDuplicateUsername):
		writeError(w, http.StatusBadRequest, "Username already taken")
	case errors.Is(err, domain.ErrAlreadyVerified):
		writeError(w, http.StatusBadRequest, "User already verified")
	case errors.Is(err, domain.ErrInvalidCode):
		writeError(w, http.StatusBadRequest, "Invalid verification code")
	case errors.Is(err, domain.ErrResetTokenInvalid):
		writeError(w, http.StatusBadRequest, "Invalid or expired token")
	case errors.Is(err, domain.ErrInvalidCredential):
		writeError(w, http.StatusUnauthorized, "Incorrect password. Please try again.")
	case errors.Is(err, domain.ErrTokenInvalid), errors.Is(err, domain.ErrTokenExpired):
		writeError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
	case errors.Is(err, domain.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, domain.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "Task not found")
	case errors.Is(err, domain.ErrEmailDelivery):
		writeError(w, http.StatusInternalServerError, "Failed to send email")
	default:
		slog.Error("unexpected error", "error", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
