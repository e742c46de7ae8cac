package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"foodie-backend/internal/token"
	"foodie-backend/pkg/utils"

	"go.uber.org/zap"
)

// AccessVerifier resolves a bearer access token to its claims.
type AccessVerifier interface {
	VerifyAccess(ctx context.Context, access string) (*token.Claims, error)
}

// AuthBearer validates "Authorization: Bearer <access token>" and stores the
// account id, kind and session id in the request context.
func AuthBearer(verifier AccessVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Authentication credentials were not provided")
				return
			}

			scheme, raw, ok := strings.Cut(authHeader, " ")
			raw = strings.TrimSpace(raw)
			if !ok || !strings.EqualFold(scheme, "Bearer") || raw == "" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := verifier.VerifyAccess(r.Context(), raw)
			if err != nil {
				if errors.Is(err, token.ErrInvalidToken) || errors.Is(err, token.ErrExpired) {
					logger.Debug("Rejected access token", zap.Error(err), zap.String("path", r.URL.Path))
					utils.ResponseUnauthorized(w, "Given token not valid for any token type")
					return
				}
				logger.Error("Failed to verify access token", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			ctx := utils.SetAuthContext(r.Context(), claims.AccountID, claims.Kind, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
