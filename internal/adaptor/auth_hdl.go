package adaptor

import (
	"net/http"

	"foodie-backend/internal/dto/request"
	"foodie-backend/internal/usecase"
	"foodie-backend/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	res, err := h.service.Register(r.Context(), &req, requestMeta(r))
	if err != nil {
		handleServiceError(w, h.log, err, "register", http.StatusBadRequest)
		return
	}

	utils.ResponseCreated(w, "User registered successfully", res)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	res, err := h.service.Login(r.Context(), &req, requestMeta(r))
	if err != nil {
		handleServiceError(w, h.log, err, "login", http.StatusBadRequest)
		return
	}

	utils.ResponseSuccess(w, "Login successful", res)
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req request.LogoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		handleServiceError(w, h.log, err, "logout", http.StatusBadRequest)
		return
	}

	utils.ResponseSuccess(w, "Logout successful", nil)
}

// Refresh handles POST /api/v1/auth/token/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req request.RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	res, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(w, h.log, err, "refresh token", http.StatusUnauthorized)
		return
	}

	utils.ResponseSuccess(w, "Token refreshed", res)
}

// RequestPasswordReset handles POST /api/v1/auth/password/reset
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req request.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "request password reset", http.StatusBadRequest)
		return
	}

	utils.ResponseSuccess(w, usecase.ResetRequestedMessage, nil)
}

// ConfirmPasswordReset handles POST /api/v1/auth/password/reset/confirm
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req request.ResetPasswordConfirmRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.ConfirmPasswordReset(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "confirm password reset", http.StatusBadRequest)
		return
	}

	utils.ResponseSuccess(w, "Password has been reset", nil)
}
