package wire

import (
	"foodie-backend/internal/adaptor"
	"foodie-backend/internal/usecase"
	"foodie-backend/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	handler *adaptor.Handler,
	deps usecase.Dependencies,
	log *zap.Logger,
) {
	limit := deps.Config.RateLimit

	// ==================== PUBLIC ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(limit.Requests, limit.Window))

		r.Post("/register", handler.Auth.Register)
		r.Post("/login", handler.Auth.Login)
		r.Post("/token/refresh", handler.Auth.Refresh)
		r.Post("/password/reset", handler.Auth.RequestPasswordReset)
		r.Post("/password/reset/confirm", handler.Auth.ConfirmPasswordReset)
	})

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthBearer(deps.Issuer, log))

		r.Post("/logout", handler.Auth.Logout)
		r.Get("/me", handler.Account.Me)
		r.Put("/profile/update", handler.Account.UpdateProfile)
		r.Patch("/profile/update", handler.Account.UpdateProfile)
		r.Post("/password/change", handler.Account.ChangePassword)
	})
}
