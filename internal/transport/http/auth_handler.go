package http

import (
	"errors"
	"net/http"

	"taskmasters/internal/domain"
	"taskmasters/internal/dto"
	"taskmasters/internal/service"
)

type authHandler struct {
	auth service.AuthService
}

func (h *authHandler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.auth.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "Verification code sent to your email", resp)
}

func (h *authHandler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyEmailRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.auth.VerifyEmail(r.Context(), req.Email, req.Code); err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, "Email verified successfully", nil)
}

func (h *authHandler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		// An unknown identifier is an authentication failure here, not a 404.
		if errors.Is(err, domain.ErrAccountNotFound) {
			writeError(w, http.StatusUnauthorized, "Account not found. Please sign up.")
			return
		}
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, "Login successful", resp)
}

func (h *authHandler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.auth.ForgotPassword(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, "Reset link sent to your email", nil)
}

func (h *authHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.auth.ResetPassword(r.Context(), req); err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, "Password reset successful", nil)
}

func (h *authHandler) refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := decodeAndValidate(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		// Uniform response; the caller learns nothing about why the
		// refresh token was rejected.
		writeError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}
	writeData(w, http.StatusOK, "", resp)
}

func (h *authHandler) me(w http.ResponseWriter, r *http.Request) {
	accountID, ok := accountIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}

	resp, err := h.auth.Profile(r.Context(), accountID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, "", resp)
}
