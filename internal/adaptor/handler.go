package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	"foodie-backend/internal/apperror"
	"foodie-backend/internal/token"
	"foodie-backend/internal/usecase"
	"foodie-backend/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Account *AccountHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Account: NewAccountHandler(service.Account, log),
	}
}

const maxBodyBytes = 64 << 10

// decodeJSON reads at most maxBodyBytes of the body into dst. Unknown keys are dropped.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return errors.New("request body is empty")
	}
	return err
}

func requestMeta(r *http.Request) token.Meta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return token.Meta{UserAgent: r.UserAgent(), IPAddress: ip}
}

// handleServiceError maps typed service errors to the response envelope.
// invalidTokenStatus differs between logout (400) and refresh (401).
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string, invalidTokenStatus int) {
	ae, ok := apperror.As(err)
	if !ok {
		ae = apperror.Internal(err)
	}

	switch ae.Kind {
	case apperror.KindValidation:
		log.Warn(operation+" validation failed", zap.Any("errors", ae.Fields))
		utils.ResponseBadRequest(w, ae.Message, ae.Fields)

	case apperror.KindInvalidCredentials:
		log.Warn(operation+" failed - invalid credentials", zap.String("code", ae.Code))
		if ae.Code == "invalid_old_password" {
			utils.ResponseBadRequest(w, ae.Message, map[string]string{"old_password": "Old password is incorrect."})
			return
		}
		utils.ResponseUnauthorized(w, ae.Message)

	case apperror.KindInvalidToken:
		log.Warn(operation+" failed - invalid token")
		utils.ResponseError(w, invalidTokenStatus, ae.Message, nil)

	case apperror.KindAccountDisabled:
		log.Warn(operation+" failed - account disabled")
		utils.ResponseForbidden(w, ae.Message)

	case apperror.KindNotFound:
		log.Warn(operation+" failed - not found")
		utils.ResponseNotFound(w, ae.Message)

	case apperror.KindConflict:
		log.Warn(operation+" failed - conflict", zap.String("code", ae.Code))
		utils.ResponseConflict(w, ae.Message, ae.Fields)

	case apperror.KindRateLimited:
		utils.ResponseTooManyRequests(w, ae.Message)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
