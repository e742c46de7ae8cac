package adaptor

import (
	"net/http"

	"foodie-backend/internal/dto/request"
	"foodie-backend/internal/usecase"
	"foodie-backend/pkg/utils"

	"go.uber.org/zap"
)

type AccountHandler struct {
	service usecase.AccountService
	log     *zap.Logger
}

func NewAccountHandler(service usecase.AccountService, log *zap.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		log:     log.With(zap.String("handler", "account")),
	}
}

// Me handles GET /api/v1/auth/me
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	res, err := h.service.GetCurrentAccount(r.Context(), accountID)
	if err != nil {
		handleServiceError(w, h.log, err, "get current account", http.StatusUnauthorized)
		return
	}

	utils.ResponseSuccess(w, "Account retrieved successfully", res)
}

// UpdateProfile handles PUT /api/v1/auth/profile/update
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	res, err := h.service.UpdateProfile(r.Context(), accountID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update profile", http.StatusUnauthorized)
		return
	}

	utils.ResponseSuccess(w, "Profile updated successfully", res)
}

// ChangePassword handles POST /api/v1/auth/password/change
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	accountID, ok := utils.GetAccountIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	sessionID, _ := utils.GetSessionIDFromContext(r.Context())

	var req request.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.ChangePassword(r.Context(), accountID, sessionID, &req); err != nil {
		handleServiceError(w, h.log, err, "change password", http.StatusUnauthorized)
		return
	}

	utils.ResponseSuccess(w, "Password changed successfully", nil)
}
